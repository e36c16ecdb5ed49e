package protocol

import (
	"encoding/json"

	"github.com/MDR09/RealTimeCanvas/internal/canvas"
	"github.com/MDR09/RealTimeCanvas/internal/session"
)

// Logical message types carried over the websocket channel. Inbound and
// outbound share one envelope shape.
const (
	// Inbound
	TypeJoin   = "join"
	TypeDraw   = "draw"
	TypeShape  = "shape"
	TypeClear  = "clear"
	TypeCursor = "cursor"
	TypeUndo   = "undo"
	TypeRedo   = "redo"
	TypeLeave  = "leave"

	// Outbound
	TypeUsersList         = "users-list"
	TypeUserJoined        = "user-joined"
	TypeUserLeft          = "user-left"
	TypeRoomError         = "room-error"
	TypeDrawingHistory    = "drawing-history"
	TypeFullHistoryUpdate = "full-history-update"
)

// Envelope wraps every message on the wire.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// JoinRequest asks to enter a room. Host joins create the room if it
// does not exist yet; RoomName and Capacity only matter on creation.
type JoinRequest struct {
	RoomID      string `json:"roomId"`
	RoomName    string `json:"roomName,omitempty"`
	DisplayName string `json:"displayName"`
	Color       string `json:"color"`
	Host        bool   `json:"host,omitempty"`
	Capacity    int    `json:"capacity,omitempty"`
}

// DrawPayload carries one brush/eraser segment or one finalized shape.
// AuthorID is stamped by the server; clients never pick their own.
type DrawPayload struct {
	canvas.StrokeEvent
}

// CursorPayload reports a pointer position.
type CursorPayload struct {
	AuthorID string  `json:"authorId,omitempty"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

// UsersPayload lists a room's participants, used by users-list,
// user-joined, and user-left.
type UsersPayload struct {
	Users []session.Participant `json:"users"`
}

// HistoryPayload carries the complete current log — never a delta — for
// drawing-history and full-history-update.
type HistoryPayload struct {
	History []canvas.StrokeEvent `json:"history"`
}

// ErrorPayload is sent to the offending sender only; non-fatal from the
// server's perspective.
type ErrorPayload struct {
	Message string `json:"message"`
}

// Encode marshals a payload into a typed envelope.
func Encode(msgType string, payload any) ([]byte, error) {
	env := Envelope{Type: msgType}

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		env.Data = data
	}
	return json.Marshal(env)
}

// Decode unmarshals a raw frame into an envelope.
func Decode(frame []byte) (Envelope, error) {
	var env Envelope
	err := json.Unmarshal(frame, &env)
	return env, err
}
