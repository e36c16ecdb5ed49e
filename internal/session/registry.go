package session

import (
	"log"
	"sync"
)

// Process-wide mapping from room id to live session. Initialized empty;
// entries appear on the first host join and disappear when a room
// empties. The registry exclusively owns every Room it holds.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]*Room),
	}
}

// Create makes an empty room for the id, or returns the existing one
// unchanged. Repeated host joins must not reset a live room, so this is
// idempotent.
func (g *Registry) Create(id, name string, capacity int) *Room {
	g.mu.Lock()
	defer g.mu.Unlock()

	if room, ok := g.rooms[id]; ok {
		return room
	}

	room := NewRoom(id, name, capacity)
	g.rooms[id] = room
	log.Printf("Room %s created (capacity: %d)", id, room.Capacity)
	return room
}

// Get returns the live room for the id, if any.
func (g *Registry) Get(id string) (*Room, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	room, ok := g.rooms[id]
	return room, ok
}

// Remove tears the room down. Called only once a room's participant
// count reaches zero; removing an unknown id is a no-op.
func (g *Registry) Remove(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.rooms[id]; ok {
		delete(g.rooms, id)
		log.Printf("Room %s closed (empty)", id)
	}
}

// RoomCount returns the number of live rooms.
func (g *Registry) RoomCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rooms)
}

// ParticipantCount returns the total participants across all rooms.
func (g *Registry) ParticipantCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	total := 0
	for _, room := range g.rooms {
		total += room.Occupancy()
	}
	return total
}

// Rooms returns a snapshot of the live rooms.
func (g *Registry) Rooms() []*Room {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]*Room, 0, len(g.rooms))
	for _, room := range g.rooms {
		out = append(out, room)
	}
	return out
}
