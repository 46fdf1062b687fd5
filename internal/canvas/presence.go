package canvas

import (
	"sync"
	"time"
)

// PresenceEntry is the last known cursor position of one user. Entries are
// advisory only: they carry no ordering guarantee relative to strokes and are
// never persisted.
type PresenceEntry struct {
	UserID    string
	X, Y      float64
	Color     string
	UpdatedAt time.Time
}

// PresenceTracker keeps the single latest cursor entry per user. The server
// keeps no history; staleness is owned by clients, which hide a cursor that
// has not been refreshed within the expiry window.
type PresenceTracker struct {
	mu      sync.RWMutex
	entries map[string]PresenceEntry
	now     func() time.Time
}

// NewPresenceTracker creates an empty tracker.
func NewPresenceTracker() *PresenceTracker {
	return &PresenceTracker{
		entries: make(map[string]PresenceEntry),
		now:     time.Now,
	}
}

// Update overwrites the entry for userID with a fresh timestamp.
func (p *PresenceTracker) Update(userID string, x, y float64, color string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries[userID] = PresenceEntry{
		UserID:    userID,
		X:         x,
		Y:         y,
		Color:     color,
		UpdatedAt: p.now(),
	}
}

// Remove drops the entry for userID. No-op if absent.
func (p *PresenceTracker) Remove(userID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.entries, userID)
}

// Snapshot returns a copy of all current entries, used to seed clients that
// join between one cursor update and the next.
func (p *PresenceTracker) Snapshot() []PresenceEntry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]PresenceEntry, 0, len(p.entries))
	for _, e := range p.entries {
		out = append(out, e)
	}
	return out
}
