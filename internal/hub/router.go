package hub

import (
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lenin-jr/Realtime-canvas/internal/canvas"
	"github.com/lenin-jr/Realtime-canvas/internal/protocol"
	"github.com/lenin-jr/Realtime-canvas/internal/session"
)

// Router turns one inbound event into mutations of the registry, the room's
// stroke log, presence or the session store, plus zero or more outbound
// events. Mutations are applied before fan-out, so a member joining between
// the two still observes a consistent snapshot on its own join read.
type Router struct {
	reg   *Registry
	store session.Store
	log   *slog.Logger
}

// NewRouter wires the registry and session store together.
func NewRouter(reg *Registry, store session.Store, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{reg: reg, store: store, log: logger}
}

// HandleConnect runs the connection handshake: assign a fresh user id and a
// palette color, auto-join the default room, send the full init snapshot to
// the new connection and announce it to the rest of the room.
func (r *Router) HandleConnect(t transport) *Conn {
	c := newConn(t, uuid.NewString(), canvas.RandomColor())
	r.reg.AddUser(c.userID, c.color)
	room := r.reg.Join(c, DefaultRoom)

	init := protocol.Message{
		Type:    protocol.TypeInit,
		UserID:  c.userID,
		Color:   c.color,
		Room:    room.ID,
		Strokes: room.Log.Snapshot(),
		Users:   r.reg.Users(),
	}
	if err := c.send(init); err != nil {
		r.log.Debug("init send failed", "user", c.userID, "err", err)
	}

	r.broadcast(room.ID, protocol.Message{
		Type:   protocol.TypeUserJoined,
		UserID: c.userID,
		Color:  c.color,
	}, c)

	r.log.Info("connected", "user", c.userID, "room", room.ID)
	return c
}

// HandleDisconnect removes c from its room, deletes its identity and presence
// entries, and announces user-left to the room it was last in. Disconnects
// are a normal lifecycle event, never surfaced as an error.
func (r *Router) HandleDisconnect(c *Conn) {
	roomID := r.reg.Leave(c)
	r.reg.RemoveUser(c.userID)
	if roomID == "" {
		roomID = DefaultRoom
	}
	r.broadcast(roomID, protocol.Message{
		Type:   protocol.TypeUserLeft,
		UserID: c.userID,
	}, c)
	r.log.Info("disconnected", "user", c.userID, "room", roomID)
}

// HandleFrame processes one inbound frame from c. Malformed frames are
// dropped silently; no per-message error is ever fatal.
func (r *Router) HandleFrame(c *Conn, raw []byte) {
	msg, err := protocol.Decode(raw)
	if err != nil {
		r.log.Debug("dropping malformed frame", "user", c.userID, "err", err)
		return
	}

	if msg.Type == protocol.TypeJoinRoom {
		r.handleJoinRoom(c, msg)
		return
	}

	roomID := r.reg.RoomOf(c)
	room := r.reg.EnsureRoom(roomID)

	switch msg.Type {
	case protocol.TypeStroke:
		if msg.Stroke == nil {
			return
		}
		room.Log.Append(*msg.Stroke)
		r.broadcast(roomID, protocol.Message{Type: protocol.TypeStroke, Stroke: msg.Stroke}, c)

	case protocol.TypeCursor:
		x, y := deref(msg.X), deref(msg.Y)
		r.reg.Presence().Update(msg.UserID, x, y, msg.Color)
		r.broadcast(roomID, protocol.Message{
			Type:   protocol.TypeCursor,
			UserID: msg.UserID,
			X:      protocol.Float(x),
			Y:      protocol.Float(y),
			Color:  msg.Color,
		}, c)

	case protocol.TypeClear:
		room.Log.Clear()
		r.broadcast(roomID, protocol.Message{Type: protocol.TypeClear}, c)

	case protocol.TypeUndo:
		removedID := msg.RemovedID
		if removedID != "" {
			if !room.Log.RemoveByID(removedID) {
				return
			}
		} else {
			removed, ok := room.Log.RemoveLastByUser(msg.UserID)
			if !ok {
				return
			}
			removedID = removed.ID
		}
		r.broadcast(roomID, protocol.Message{
			Type:      protocol.TypeUndo,
			UserID:    msg.UserID,
			RemovedID: removedID,
		}, c)

	case protocol.TypeSetName:
		info := r.reg.SetUserName(msg.UserID, msg.Name)
		// Including the sender is fine here; the announcement is idempotent.
		r.broadcast(roomID, protocol.Message{
			Type:   protocol.TypeUserJoined,
			UserID: info.UserID,
			Name:   info.Name,
			Color:  info.Color,
		}, nil)

	case protocol.TypeReaction:
		r.broadcast(roomID, protocol.Message{
			Type:   protocol.TypeReaction,
			UserID: msg.UserID,
			Emoji:  msg.Emoji,
			X:      msg.X,
			Y:      msg.Y,
		}, c)

	case protocol.TypeSaveSession:
		r.handleSaveSession(c, msg)

	case protocol.TypeLoadSession:
		r.handleLoadSession(c, msg)

	case protocol.TypePing:
		r.sendTo(c, protocol.Message{Type: protocol.TypePong, TS: msg.TS})

	default:
		// Unknown types are re-broadcast verbatim within the room.
		r.broadcastRaw(roomID, raw, c)
	}
}

// handleJoinRoom moves the connection and answers with an init-room snapshot:
// the persisted session if one exists, otherwise the current in-memory log.
func (r *Router) handleJoinRoom(c *Conn, msg protocol.Message) {
	room := r.reg.Join(c, msg.Room)

	snap, err := r.store.Load(room.ID)
	if err != nil {
		if !errors.Is(err, session.ErrNoSession) {
			r.log.Warn("session load failed on join", "room", room.ID, "err", err)
		}
		snap = canvas.Snapshot{Strokes: room.Log.Snapshot(), Meta: map[string]any{}}
	}

	r.sendTo(c, protocol.Message{
		Type:    protocol.TypeInitRoom,
		Room:    room.ID,
		Strokes: snap.Strokes,
		Meta:    snap.Meta,
	})
	r.log.Info("joined room", "user", c.userID, "room", room.ID)
}

func (r *Router) handleSaveSession(c *Conn, msg protocol.Message) {
	if msg.Room == "" {
		return
	}
	strokes := msg.Strokes
	if strokes == nil {
		strokes = r.reg.EnsureRoom(msg.Room).Log.Snapshot()
	}
	meta := msg.Meta
	if meta == nil {
		meta = map[string]any{}
	}

	ack := protocol.Message{Type: protocol.TypeSaveAck, Room: msg.Room}
	if err := r.store.Save(msg.Room, canvas.Snapshot{Strokes: strokes, Meta: meta}); err != nil {
		// The room's in-memory state is unaffected by a failed save.
		r.log.Warn("session save failed", "room", msg.Room, "err", err)
		ack.OK = protocol.Bool(false)
		ack.Error = err.Error()
	} else {
		ack.OK = protocol.Bool(true)
	}
	r.sendTo(c, ack)
}

func (r *Router) handleLoadSession(c *Conn, msg protocol.Message) {
	if msg.Room == "" {
		return
	}
	snap, err := r.store.Load(msg.Room)
	if err != nil {
		if !errors.Is(err, session.ErrNoSession) {
			r.log.Warn("session load failed", "room", msg.Room, "err", err)
		}
		snap = canvas.EmptySnapshot()
	}

	// Loading replaces the room's in-memory history wholesale.
	r.reg.EnsureRoom(msg.Room).Log.Replace(snap.Strokes)

	r.sendTo(c, protocol.Message{
		Type:    protocol.TypeLoadAck,
		Room:    msg.Room,
		Strokes: snap.Strokes,
		Meta:    snap.Meta,
	})
}

// broadcast fans m out to every member of roomID except exclude. A closed
// transport on one member never aborts delivery to the others.
func (r *Router) broadcast(roomID string, m protocol.Message, exclude *Conn) {
	data, err := protocol.Encode(m)
	if err != nil {
		r.log.Error("encode broadcast", "type", m.Type, "err", err)
		return
	}
	r.broadcastRaw(roomID, data, exclude)
}

func (r *Router) broadcastRaw(roomID string, data []byte, exclude *Conn) {
	for _, member := range r.reg.MembersOf(roomID) {
		if member == exclude {
			continue
		}
		if err := member.sendRaw(data); err != nil {
			r.log.Debug("fanout write failed", "user", member.userID, "err", err)
		}
	}
}

func (r *Router) sendTo(c *Conn, m protocol.Message) {
	if err := c.send(m); err != nil {
		r.log.Debug("send failed", "user", c.userID, "type", m.Type, "err", err)
	}
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
