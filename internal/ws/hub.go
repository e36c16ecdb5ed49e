package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/MDR09/RealTimeCanvas/internal/canvas"
	"github.com/MDR09/RealTimeCanvas/internal/protocol"
	"github.com/MDR09/RealTimeCanvas/internal/session"
)

// Hub owns the session registry and applies every room mutation from a
// single goroutine: events for the same room can never interleave, which
// is what keeps undo's scan-and-remove correct while other authors are
// drawing. Delivery to clients goes through buffered channels and never
// blocks the loop.
type Hub struct {
	registry *session.Registry

	// Joined clients by room id
	rooms map[string]map[*Client]bool

	// Every open connection, joined or not
	clients map[*Client]bool

	// Parsed events from client read pumps
	inbound chan *inboundEvent

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex
}

type inboundEvent struct {
	client *Client
	env    protocol.Envelope
}

func NewHub(registry *session.Registry) *Hub {
	return &Hub{
		registry:   registry,
		rooms:      make(map[string]map[*Client]bool),
		clients:    make(map[*Client]bool),
		inbound:    make(chan *inboundEvent),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Printf("Client %s connected (total: %d)", client.id, h.GetClientCount())

		case client := <-h.unregister:
			h.mu.Lock()
			_, open := h.clients[client]
			delete(h.clients, client)
			h.mu.Unlock()

			if open {
				h.handleLeave(client)
				close(client.send)
			}

		case event := <-h.inbound:
			h.handleEvent(event.client, event.env)
		}
	}
}

// Dispatches one inbound envelope. join is the only event a connection
// in the Unjoined state may send; everything else is silently dropped
// until the join succeeds.
func (h *Hub) handleEvent(c *Client, env protocol.Envelope) {
	if env.Type == protocol.TypeJoin {
		h.handleJoin(c, env.Data)
		return
	}

	if c.binding == nil {
		// Benign race: an event outran its join or followed a leave
		return
	}

	switch env.Type {
	case protocol.TypeDraw, protocol.TypeShape:
		h.handleStroke(c, env.Type, env.Data)
	case protocol.TypeClear:
		c.room.History.Clear()
		h.broadcastHistory(c.binding.RoomID, c.room)
	case protocol.TypeCursor:
		h.handleCursor(c, env.Data)
	case protocol.TypeUndo:
		if c.room.History.Undo(c.id) {
			h.broadcastHistory(c.binding.RoomID, c.room)
		}
	case protocol.TypeRedo:
		if c.room.History.Redo(c.id) {
			h.broadcastHistory(c.binding.RoomID, c.room)
		}
	case protocol.TypeLeave:
		h.handleLeave(c)
	default:
		log.Printf("Unknown message type %q from client %s", env.Type, c.id)
	}
}

func (h *Hub) handleJoin(c *Client, data json.RawMessage) {
	if c.binding != nil {
		// Already in a room; a client must leave before joining again
		return
	}

	var req protocol.JoinRequest
	if err := json.Unmarshal(data, &req); err != nil {
		log.Printf("Invalid join payload from client %s: %v", c.id, err)
		return
	}
	if req.RoomID == "" {
		h.sendError(c, "room id is required")
		return
	}

	room, ok := h.registry.Get(req.RoomID)
	if !ok {
		if !req.Host {
			h.sendError(c, "room not found")
			return
		}
		room = h.registry.Create(req.RoomID, req.RoomName, req.Capacity)
	}

	users, err := room.Join(c.id, req.DisplayName, req.Color)
	if err != nil {
		h.sendError(c, err.Error())
		return
	}

	c.binding = &session.Binding{
		ConnectionID: c.id,
		RoomID:       req.RoomID,
		DisplayName:  req.DisplayName,
		Color:        req.Color,
	}
	c.room = room

	h.mu.Lock()
	if _, ok := h.rooms[req.RoomID]; !ok {
		h.rooms[req.RoomID] = make(map[*Client]bool)
	}
	h.rooms[req.RoomID][c] = true
	h.mu.Unlock()

	log.Printf("Client %s joined room %s (%d/%d)", c.id, req.RoomID, room.Occupancy(), room.Capacity)

	// The joiner gets the roster and the full log; the rest of the room
	// learns about the new arrival
	h.sendPayload(c, protocol.TypeUsersList, protocol.UsersPayload{Users: users})
	h.sendPayload(c, protocol.TypeDrawingHistory, protocol.HistoryPayload{History: room.History.Entries()})
	h.broadcastPayload(req.RoomID, c, protocol.TypeUserJoined, protocol.UsersPayload{Users: users})
}

// handleStroke appends a brush/eraser segment or a finalized shape and
// relays it to the rest of the room. Shape-tool preview segments pass
// through without touching history; only finalized shapes land in it.
func (h *Hub) handleStroke(c *Client, msgType string, data json.RawMessage) {
	var p protocol.DrawPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Printf("Invalid %s payload from client %s: %v", msgType, c.id, err)
		return
	}
	if !p.Tool.Valid() || p.StrokeWidth <= 0 {
		log.Printf("Malformed stroke from client %s (tool %q, width %v)", c.id, p.Tool, p.StrokeWidth)
		return
	}

	ev := p.StrokeEvent
	ev.AuthorID = c.id

	if msgType == protocol.TypeShape || ev.Tool == canvas.ToolBrush || ev.Tool == canvas.ToolEraser {
		ev = c.room.History.Append(ev)
	}

	h.broadcastPayload(c.binding.RoomID, c, msgType, protocol.DrawPayload{StrokeEvent: ev})
}

func (h *Hub) handleCursor(c *Client, data json.RawMessage) {
	var p protocol.CursorPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Printf("Invalid cursor payload from client %s: %v", c.id, err)
		return
	}

	if !c.room.UpdateCursor(c.id, p.X, p.Y) {
		return
	}

	p.AuthorID = c.id
	h.broadcastPayload(c.binding.RoomID, c, protocol.TypeCursor, p)
}

// handleLeave detaches the client from its room, idempotently: it backs
// both the explicit leave message and the transport close, whichever
// lands first wins and the second is a no-op.
func (h *Hub) handleLeave(c *Client) {
	if c.binding == nil {
		return
	}

	roomID := c.binding.RoomID
	room := c.room
	c.binding = nil
	c.room = nil

	h.mu.Lock()
	if clients, ok := h.rooms[roomID]; ok {
		delete(clients, c)
		if len(clients) == 0 {
			delete(h.rooms, roomID)
		}
	}
	h.mu.Unlock()

	rest, removed := room.Leave(c.id)
	if !removed {
		return
	}

	log.Printf("Client %s left room %s (remaining: %d)", c.id, roomID, len(rest))

	if room.Occupancy() == 0 {
		h.registry.Remove(roomID)
		return
	}

	h.broadcastPayload(roomID, c, protocol.TypeUserLeft, protocol.UsersPayload{Users: rest})
}

// Full resync after clear/undo/redo: the complete log to the whole
// room, sender included. A delta cannot tell a drifted client to drop N
// scattered entries; the full log can.
func (h *Hub) broadcastHistory(roomID string, room *session.Room) {
	h.broadcastPayload(roomID, nil, protocol.TypeFullHistoryUpdate, protocol.HistoryPayload{History: room.History.Entries()})
}

func (h *Hub) sendError(c *Client, message string) {
	h.sendPayload(c, protocol.TypeRoomError, protocol.ErrorPayload{Message: message})
}

// sendPayload delivers to one client. Delivery is fire-and-forget: a
// full send buffer drops the frame rather than stalling the hub.
func (h *Hub) sendPayload(c *Client, msgType string, payload any) {
	frame, err := protocol.Encode(msgType, payload)
	if err != nil {
		log.Printf("Failed to encode %s message: %v", msgType, err)
		return
	}
	h.send(c, frame)
}

// broadcastPayload delivers to every joined client in the room, or to
// all but one when except is non-nil.
func (h *Hub) broadcastPayload(roomID string, except *Client, msgType string, payload any) {
	frame, err := protocol.Encode(msgType, payload)
	if err != nil {
		log.Printf("Failed to encode %s message: %v", msgType, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.rooms[roomID] {
		if client != except {
			h.send(client, frame)
		}
	}
}

func (h *Hub) send(c *Client, frame []byte) {
	select {
	case c.send <- frame:
	default:
		log.Printf("Dropping frame for slow client %s", c.id)
	}
}

// GetRoomCount returns the number of rooms with at least one joined
// client.
func (h *Hub) GetRoomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

// GetClientCount returns the number of open connections.
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
