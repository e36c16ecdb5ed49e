package canvas

import (
	"sync"
)

// DefaultMaxEntries bounds a room's history log; the oldest entry is
// evicted first once the cap is reached, regardless of author.
const DefaultMaxEntries = 1000

// The ordered stroke history for one room, plus each author's redo
// stack. Undo units are stroke groups: every event sharing an author's
// strokeGroupId is removed or restored together. A safe zero of this
// type does not exist; use NewHistoryLog.
type HistoryLog struct {
	maxEntries int
	mu         sync.RWMutex
	entries    []StrokeEvent

	// authorId -> stack of removed stroke groups, most recent last
	redo map[string][][]StrokeEvent

	seq int64
}

// Creates an empty log. maxEntries <= 0 selects DefaultMaxEntries.
func NewHistoryLog(maxEntries int) *HistoryLog {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &HistoryLog{
		maxEntries: maxEntries,
		entries:    make([]StrokeEvent, 0),
		redo:       make(map[string][][]StrokeEvent),
	}
}

// Append stamps the event with the room's next sequence number, pushes
// it onto the log, evicts the oldest entry if the cap is exceeded, and
// clears the author's redo stack (new work invalidates stale redo
// state). The stamped event is returned.
func (l *HistoryLog) Append(ev StrokeEvent) StrokeEvent {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	ev.Seq = l.seq

	l.entries = append(l.entries, ev)
	if len(l.entries) > l.maxEntries {
		l.entries = l.entries[1:]
	}

	delete(l.redo, ev.AuthorID)
	return ev
}

// Clear empties the log and every author's redo stack in one step. This
// is room-wide: every participant's drawing is gone, unlike undo which
// is author-scoped.
func (l *HistoryLog) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = make([]StrokeEvent, 0)
	l.redo = make(map[string][][]StrokeEvent)
}

// Undo removes the author's most recent stroke group from the log and
// pushes it onto that author's redo stack. The group is every entry
// matching both the author and the strokeGroupId of the author's latest
// entry, wherever those entries sit in the log; an entry without a
// group id is undone on its own. Returns false when the author has no
// entries left to undo.
func (l *HistoryLog) Undo(authorID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := -1
	for i := len(l.entries) - 1; i >= 0; i-- {
		if l.entries[i].AuthorID == authorID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	latest := l.entries[idx]
	groupID := latest.StrokeGroupID

	var removed []StrokeEvent
	kept := make([]StrokeEvent, 0, len(l.entries))
	for _, ev := range l.entries {
		if ev.AuthorID == authorID && ((groupID != "" && ev.StrokeGroupID == groupID) || (groupID == "" && ev.Seq == latest.Seq)) {
			removed = append(removed, ev)
		} else {
			kept = append(kept, ev)
		}
	}
	l.entries = kept

	l.redo[authorID] = append(l.redo[authorID], removed)
	return true
}

// Redo pops the author's most recently undone stroke group and appends
// its entries to the end of the log in their original relative order.
// The stroke comes back; its original position in history does not.
// Returns false when the redo stack is empty.
func (l *HistoryLog) Redo(authorID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	stack := l.redo[authorID]
	if len(stack) == 0 {
		return false
	}

	group := stack[len(stack)-1]
	if len(stack) == 1 {
		delete(l.redo, authorID)
	} else {
		l.redo[authorID] = stack[:len(stack)-1]
	}

	l.entries = append(l.entries, group...)
	for len(l.entries) > l.maxEntries {
		l.entries = l.entries[1:]
	}
	return true
}

// Entries returns a copy of the current log in order.
func (l *HistoryLog) Entries() []StrokeEvent {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]StrokeEvent, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries currently in the log.
func (l *HistoryLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// RedoDepth returns how many undone groups the author could redo.
func (l *HistoryLog) RedoDepth(authorID string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.redo[authorID])
}

// DropAuthor discards the author's redo stack. Called when a
// participant leaves; connection ids are never reused, so the stack
// would otherwise linger until the room empties.
func (l *HistoryLog) DropAuthor(authorID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.redo, authorID)
}
