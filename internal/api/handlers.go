package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/MDR09/RealTimeCanvas/internal/session"
	"github.com/MDR09/RealTimeCanvas/internal/ws"
)

// Read-only administrative surface: liveness, counts, and per-room
// occupancy. Nothing here mutates session state.
type API struct {
	hub      *ws.Hub
	registry *session.Registry
}

func New(hub *ws.Hub, registry *session.Registry) *API {
	return &API{
		hub:      hub,
		registry: registry,
	}
}

func jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

func errorResponse(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

func (a *API) HealthHandler(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *API) StatsHandler(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]interface{}{
		"active_rooms":        a.registry.RoomCount(),
		"active_participants": a.registry.ParticipantCount(),
		"open_connections":    a.hub.GetClientCount(),
		"timestamp":           time.Now().UTC().Format(time.RFC3339),
	})
}

type RoomResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name,omitempty"`
	Occupancy   int       `json:"occupancy"`
	Capacity    int       `json:"capacity"`
	StrokeCount int       `json:"stroke_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListRoomsHandler reports the live rooms. Rooms exist only while
// occupied, so there is no pagination to speak of.
func (a *API) ListRoomsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		errorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	rooms := a.registry.Rooms()

	response := make([]RoomResponse, len(rooms))
	for i, room := range rooms {
		response[i] = RoomResponse{
			ID:          room.ID,
			Name:        room.Name,
			Occupancy:   room.Occupancy(),
			Capacity:    room.Capacity,
			StrokeCount: room.History.Len(),
			CreatedAt:   room.CreatedAt,
		}
	}

	jsonResponse(w, http.StatusOK, map[string]interface{}{
		"rooms": response,
		"count": len(response),
	})
}
