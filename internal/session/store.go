// Package session persists a room's stroke history as a durable snapshot,
// keyed by room id. Saves replace the prior snapshot wholesale; there is no
// versioning and no merge.
package session

import (
	"errors"

	"github.com/lenin-jr/Realtime-canvas/internal/canvas"
)

// ErrNoSession is returned by Load when no snapshot has been saved for the
// room. Callers treat it as "empty session", never as a failure.
var ErrNoSession = errors.New("no session saved for room")

// Store is the durable key-value persistence contract. Implementations must
// make Save atomic from a reader's perspective: a concurrent Load never
// observes a partially written snapshot.
type Store interface {
	// Save replaces the snapshot stored for roomID.
	Save(roomID string, snap canvas.Snapshot) error

	// Load returns the snapshot stored for roomID, or ErrNoSession if none
	// exists.
	Load(roomID string) (canvas.Snapshot, error)
}
