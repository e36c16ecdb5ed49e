package session

import (
	"errors"
	"sync"
	"time"

	"github.com/MDR09/RealTimeCanvas/internal/canvas"
)

var (
	// Join targeted a room id with no live session and no host flag
	ErrRoomNotFound = errors.New("room not found")

	// Join targeted a room already at capacity
	ErrRoomFull = errors.New("room is full")
)

// DefaultCapacity is used when a host creates a room without asking for
// a specific participant limit.
const DefaultCapacity = 10

// One connected user inside a room. ConnectionID doubles as the author
// id on every stroke the user draws.
type Participant struct {
	ConnectionID string  `json:"connectionId"`
	DisplayName  string  `json:"displayName"`
	Color        string  `json:"color"`
	CursorX      float64 `json:"cursorX"`
	CursorY      float64 `json:"cursorY"`
}

// One live drawing room: its participant set, capacity, and stroke
// history. Mutated only through the methods below.
type Room struct {
	ID        string
	Name      string
	Capacity  int
	CreatedAt time.Time
	History   *canvas.HistoryLog

	mu           sync.RWMutex
	participants map[string]*Participant
}

func NewRoom(id, name string, capacity int) *Room {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Room{
		ID:           id,
		Name:         name,
		Capacity:     capacity,
		CreatedAt:    time.Now(),
		History:      canvas.NewHistoryLog(canvas.DefaultMaxEntries),
		participants: make(map[string]*Participant),
	}
}

// Join adds a participant at the default cursor position and returns
// the resulting participant list. Fails with ErrRoomFull at capacity.
func (r *Room) Join(connectionID, displayName, color string) ([]Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.participants) >= r.Capacity {
		return nil, ErrRoomFull
	}

	r.participants[connectionID] = &Participant{
		ConnectionID: connectionID,
		DisplayName:  displayName,
		Color:        color,
	}
	return r.participantsLocked(), nil
}

// Leave removes a participant and returns the residual list plus
// whether anything was removed. A second leave for the same connection
// is a no-op. The departing author's redo stack goes with them; their
// committed strokes stay.
func (r *Room) Leave(connectionID string) ([]Participant, bool) {
	r.mu.Lock()
	if _, ok := r.participants[connectionID]; !ok {
		rest := r.participantsLocked()
		r.mu.Unlock()
		return rest, false
	}
	delete(r.participants, connectionID)
	rest := r.participantsLocked()
	r.mu.Unlock()

	r.History.DropAuthor(connectionID)
	return rest, true
}

// UpdateCursor overwrites the participant's last known pointer
// position. Bounds are a rendering concern; nothing is validated here.
func (r *Room) UpdateCursor(connectionID string, x, y float64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.participants[connectionID]
	if !ok {
		return false
	}
	p.CursorX = x
	p.CursorY = y
	return true
}

// Participants returns a snapshot of the current participant list.
func (r *Room) Participants() []Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.participantsLocked()
}

// Occupancy returns the current participant count.
func (r *Room) Occupancy() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.participants)
}

func (r *Room) participantsLocked() []Participant {
	out := make([]Participant, 0, len(r.participants))
	for _, p := range r.participants {
		out = append(out, *p)
	}
	return out
}
