package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MDR09/RealTimeCanvas/internal/canvas"
	"github.com/MDR09/RealTimeCanvas/internal/session"
	"github.com/MDR09/RealTimeCanvas/internal/ws"
)

func strokeFor(author string) canvas.StrokeEvent {
	return canvas.StrokeEvent{
		AuthorID:      author,
		StrokeGroupID: "g1",
		Tool:          canvas.ToolBrush,
		Color:         "#000000",
		StrokeWidth:   2,
	}
}

func setupTestAPI(t *testing.T) (*API, *session.Registry) {
	t.Helper()

	registry := session.NewRegistry()
	hub := ws.NewHub(registry)
	go hub.Run()

	return New(hub, registry), registry
}

func TestHealthHandler(t *testing.T) {
	api, _ := setupTestAPI(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	api.HealthHandler(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response map[string]any
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if response["status"] != "ok" {
		t.Errorf("Expected status 'ok', got '%v'", response["status"])
	}
}

func TestStatsHandler(t *testing.T) {
	api, registry := setupTestAPI(t)

	room := registry.Create("stats-room", "Stats", 4)
	if _, err := room.Join("c1", "A", "#111111"); err != nil {
		t.Fatalf("Failed to join: %v", err)
	}
	if _, err := room.Join("c2", "B", "#222222"); err != nil {
		t.Fatalf("Failed to join: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/stats", nil)
	w := httptest.NewRecorder()

	api.StatsHandler(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response map[string]any
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if response["active_rooms"].(float64) != 1 {
		t.Errorf("Expected 1 active room, got %v", response["active_rooms"])
	}
	if response["active_participants"].(float64) != 2 {
		t.Errorf("Expected 2 active participants, got %v", response["active_participants"])
	}
}

func TestListRoomsHandler(t *testing.T) {
	api, registry := setupTestAPI(t)

	room := registry.Create("list-room", "Listed", 3)
	if _, err := room.Join("c1", "A", "#111111"); err != nil {
		t.Fatalf("Failed to join: %v", err)
	}
	room.History.Append(strokeFor("c1"))
	room.History.Append(strokeFor("c1"))

	req := httptest.NewRequest("GET", "/api/rooms", nil)
	w := httptest.NewRecorder()

	api.ListRoomsHandler(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response struct {
		Rooms []RoomResponse `json:"rooms"`
		Count int            `json:"count"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if response.Count != 1 || len(response.Rooms) != 1 {
		t.Fatalf("Expected 1 room, got %d", response.Count)
	}

	got := response.Rooms[0]
	if got.ID != "list-room" || got.Name != "Listed" {
		t.Errorf("Unexpected room identity: %+v", got)
	}
	if got.Occupancy != 1 || got.Capacity != 3 {
		t.Errorf("Expected occupancy 1/3, got %d/%d", got.Occupancy, got.Capacity)
	}
	if got.StrokeCount != 2 {
		t.Errorf("Expected stroke_count 2, got %d", got.StrokeCount)
	}
}

func TestListRoomsMethodNotAllowed(t *testing.T) {
	api, _ := setupTestAPI(t)

	req := httptest.NewRequest("POST", "/api/rooms", nil)
	w := httptest.NewRecorder()

	api.ListRoomsHandler(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", w.Code)
	}
}
