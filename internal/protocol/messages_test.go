package protocol

import (
	"encoding/json"
	"testing"

	"github.com/MDR09/RealTimeCanvas/internal/canvas"
)

func TestEncodeEnvelope(t *testing.T) {
	frame, err := Encode(TypeRoomError, ErrorPayload{Message: "room is full"})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	env, err := Decode(frame)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if env.Type != TypeRoomError {
		t.Errorf("Expected type %q, got %q", TypeRoomError, env.Type)
	}

	var p ErrorPayload
	if err := json.Unmarshal(env.Data, &p); err != nil {
		t.Fatalf("Failed to decode payload: %v", err)
	}
	if p.Message != "room is full" {
		t.Errorf("Expected message 'room is full', got %q", p.Message)
	}
}

func TestEncodeWithoutPayload(t *testing.T) {
	frame, err := Encode(TypeUndo, nil)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	env, err := Decode(frame)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if env.Type != TypeUndo {
		t.Errorf("Expected type %q, got %q", TypeUndo, env.Type)
	}
	if len(env.Data) != 0 {
		t.Errorf("Expected no data, got %s", env.Data)
	}
}

// Stroke fields must sit flat inside the draw payload, not nested under
// an inner object, since clients read them straight off the data field.
func TestDrawPayloadIsFlat(t *testing.T) {
	frame, err := Encode(TypeDraw, DrawPayload{StrokeEvent: canvas.StrokeEvent{
		AuthorID:    "a",
		Tool:        canvas.ToolBrush,
		ToX:         42,
		Color:       "#abcdef",
		StrokeWidth: 3,
	}})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	env, _ := Decode(frame)

	var raw map[string]any
	if err := json.Unmarshal(env.Data, &raw); err != nil {
		t.Fatalf("Failed to decode payload: %v", err)
	}
	if raw["authorId"] != "a" || raw["tool"] != "brush" || raw["toX"].(float64) != 42 {
		t.Errorf("Stroke fields should be flat in the payload, got %v", raw)
	}
}

func TestDecodeMalformedFrame(t *testing.T) {
	if _, err := Decode([]byte("{not json")); err == nil {
		t.Error("Malformed frame should fail to decode")
	}
}
