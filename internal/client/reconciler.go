// Package client implements the participant side of the protocol: a local
// replica of the current room's stroke history, a presence overlay, and a
// websocket session feeding both.
package client

import (
	"sync"
	"time"

	"github.com/lenin-jr/Realtime-canvas/internal/canvas"
	"github.com/lenin-jr/Realtime-canvas/internal/protocol"
)

// CursorExpiry is how long a remote cursor stays visible without a refresh.
const CursorExpiry = 3500 * time.Millisecond

// Renderer is the external painting boundary: a pure consumer of the stroke
// list. The reconciler decides between incremental draws and full redraws.
type Renderer interface {
	// RedrawAll repaints the canvas from the full ordered stroke list.
	RedrawAll(strokes []canvas.Stroke)
	// DrawStroke paints one stroke on top of the current canvas.
	DrawStroke(stroke canvas.Stroke)
}

// Reconciler applies snapshot and incremental events to a local replica and
// drives the renderer. Locally originated strokes are added optimistically;
// the server never echoes a stroke back to its originator, so no receive-side
// deduplication is needed.
type Reconciler struct {
	mu       sync.Mutex
	userID   string
	color    string
	room     string
	log      *canvas.StrokeLog
	users    map[string]protocol.UserInfo
	cursors  *canvas.PresenceTracker
	renderer Renderer
	now      func() time.Time

	// Optional event hooks for the embedding UI.
	OnInit     func()
	OnReaction func(userID, emoji string)
	OnUser     func(info protocol.UserInfo, left bool)
	OnSaveAck  func(ok bool, room, errMsg string)
	OnPong     func(rtt time.Duration)
}

// NewReconciler creates a replica driving the given renderer. A nil renderer
// is allowed for headless use.
func NewReconciler(r Renderer) *Reconciler {
	return &Reconciler{
		log:      canvas.NewStrokeLog(),
		users:    make(map[string]protocol.UserInfo),
		cursors:  canvas.NewPresenceTracker(),
		renderer: r,
		now:      time.Now,
	}
}

// UserID returns the id the server assigned to this participant.
func (r *Reconciler) UserID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.userID
}

// Color returns the palette color the server assigned.
func (r *Reconciler) Color() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.color
}

// Room returns the room this replica currently mirrors.
func (r *Reconciler) Room() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.room
}

// Strokes returns a copy of the local stroke buffer.
func (r *Reconciler) Strokes() []canvas.Stroke {
	return r.log.Snapshot()
}

// Users returns the known participants.
func (r *Reconciler) Users() []protocol.UserInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]protocol.UserInfo, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out
}

// Cursors returns the presence markers still within the expiry window.
func (r *Reconciler) Cursors() []canvas.PresenceEntry {
	cutoff := r.now().Add(-CursorExpiry)
	var out []canvas.PresenceEntry
	for _, e := range r.cursors.Snapshot() {
		if e.UpdatedAt.After(cutoff) {
			out = append(out, e)
		}
	}
	return out
}

// AddLocalStroke appends a finished local stroke to the replica immediately,
// independent of server acknowledgment.
func (r *Reconciler) AddLocalStroke(s canvas.Stroke) {
	r.log.Append(s)
	r.draw(s)
}

// Apply folds one server event into the replica.
func (r *Reconciler) Apply(msg protocol.Message) {
	switch msg.Type {
	case protocol.TypeInit:
		r.mu.Lock()
		r.userID = msg.UserID
		if msg.Color != "" {
			r.color = msg.Color
		}
		r.room = msg.Room
		r.users = make(map[string]protocol.UserInfo)
		for _, u := range msg.Users {
			r.users[u.UserID] = u
		}
		hook := r.OnInit
		r.mu.Unlock()
		r.log.Replace(msg.Strokes)
		r.redraw()
		if hook != nil {
			hook()
		}

	case protocol.TypeInitRoom:
		r.mu.Lock()
		r.room = msg.Room
		r.mu.Unlock()
		r.log.Replace(msg.Strokes)
		r.redraw()

	case protocol.TypeStroke:
		if msg.Stroke == nil {
			return
		}
		r.log.Append(*msg.Stroke)
		r.draw(*msg.Stroke)

	case protocol.TypeClear:
		r.log.Clear()
		r.redraw()

	case protocol.TypeUndo:
		if msg.RemovedID != "" {
			r.log.RemoveByID(msg.RemovedID)
		} else {
			r.log.RemoveLastByUser(msg.UserID)
		}
		r.redraw()

	case protocol.TypeCursor:
		r.cursors.Update(msg.UserID, derefFloat(msg.X), derefFloat(msg.Y), msg.Color)

	case protocol.TypeUserJoined:
		info := protocol.UserInfo{UserID: msg.UserID, Name: msg.Name, Color: msg.Color}
		r.mu.Lock()
		r.users[msg.UserID] = info
		hook := r.OnUser
		r.mu.Unlock()
		if hook != nil {
			hook(info, false)
		}

	case protocol.TypeUserLeft:
		r.mu.Lock()
		info := r.users[msg.UserID]
		info.UserID = msg.UserID
		delete(r.users, msg.UserID)
		hook := r.OnUser
		r.mu.Unlock()
		r.cursors.Remove(msg.UserID)
		if hook != nil {
			hook(info, true)
		}

	case protocol.TypeReaction:
		if r.OnReaction != nil {
			r.OnReaction(msg.UserID, msg.Emoji)
		}

	case protocol.TypeLoadAck:
		if msg.Room != r.Room() {
			return
		}
		r.log.Replace(msg.Strokes)
		r.redraw()

	case protocol.TypeSaveAck:
		if r.OnSaveAck != nil {
			r.OnSaveAck(msg.OK != nil && *msg.OK, msg.Room, msg.Error)
		}

	case protocol.TypePong:
		if r.OnPong != nil && msg.TS > 0 {
			r.OnPong(r.now().Sub(time.UnixMilli(msg.TS)))
		}
	}
}

func (r *Reconciler) redraw() {
	if r.renderer != nil {
		r.renderer.RedrawAll(r.log.Snapshot())
	}
}

func (r *Reconciler) draw(s canvas.Stroke) {
	if r.renderer != nil {
		r.renderer.DrawStroke(s)
	}
}

func derefFloat(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
