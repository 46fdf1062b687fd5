package hub

import (
	"sort"
	"strings"
	"sync"

	"github.com/lenin-jr/Realtime-canvas/internal/canvas"
	"github.com/lenin-jr/Realtime-canvas/internal/protocol"
)

// DefaultRoom is the room every connection is placed in at connect time.
const DefaultRoom = "default"

// MaxNameLen caps user display names set via set-name.
const MaxNameLen = 40

// Room groups the members and stroke history of one canvas. Rooms are never
// destroyed: an empty room keeps its log in memory until process end.
type Room struct {
	ID      string
	Log     *canvas.StrokeLog
	members map[*Conn]struct{}
}

// user is the process-wide identity of a connection. Identity is deliberately
// global, not room-scoped: a name set while in one room is visible via
// user-joined broadcasts in any room the connection later joins.
type user struct {
	name  string
	color string
}

// Registry owns the room map, the global user table and the presence tracker.
// It is the single synchronization boundary for all of them; nothing outside
// this type touches that state directly.
type Registry struct {
	mu       sync.Mutex
	rooms    map[string]*Room
	users    map[string]user
	presence *canvas.PresenceTracker
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		rooms:    make(map[string]*Room),
		users:    make(map[string]user),
		presence: canvas.NewPresenceTracker(),
	}
}

// Presence exposes the cursor tracker.
func (r *Registry) Presence() *canvas.PresenceTracker { return r.presence }

// EnsureRoom is the documented get-or-create operation: any unknown id lazily
// becomes an empty room, so operations on a room id are total.
func (r *Registry) EnsureRoom(id string) *Room {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ensureRoomLocked(id)
}

func (r *Registry) ensureRoomLocked(id string) *Room {
	if id == "" {
		id = DefaultRoom
	}
	room, ok := r.rooms[id]
	if !ok {
		room = &Room{
			ID:      id,
			Log:     canvas.NewStrokeLog(),
			members: make(map[*Conn]struct{}),
		}
		r.rooms[id] = room
	}
	return room
}

// Join moves c into roomID, atomically removing it from its previous room
// first. Rejoining the current room is a safe leave-and-rejoin.
func (r *Registry) Join(c *Conn, roomID string) *Room {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.rooms[c.room]; ok {
		delete(prev.members, c)
	}
	room := r.ensureRoomLocked(roomID)
	room.members[c] = struct{}{}
	c.room = room.ID
	return room
}

// Leave removes c from its current room and returns that room's id for the
// user-left announcement. Called on disconnect.
func (r *Registry) Leave(c *Conn) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if room, ok := r.rooms[c.room]; ok {
		delete(room.members, c)
	}
	return c.room
}

// RoomOf returns the id of the room c currently belongs to.
func (r *Registry) RoomOf(c *Conn) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.room == "" {
		return DefaultRoom
	}
	return c.room
}

// MembersOf returns a copied member list for fan-out, so a connection joining
// or leaving mid-broadcast cannot skip or duplicate a delivery.
func (r *Registry) MembersOf(roomID string) []*Conn {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[roomID]
	if !ok {
		return nil
	}
	out := make([]*Conn, 0, len(room.members))
	for c := range room.members {
		out = append(out, c)
	}
	return out
}

// MemberCount reports how many connections are in roomID.
func (r *Registry) MemberCount(roomID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[roomID]
	if !ok {
		return 0
	}
	return len(room.members)
}

// AddUser records a fresh identity at connect time.
func (r *Registry) AddUser(userID, color string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[userID] = user{color: color}
}

// SetUserName trims and caps the name, stores it, and returns the announced
// identity. Unknown user ids get a palette color assigned on the fly, same as
// the reference behavior.
func (r *Registry) SetUserName(userID, name string) protocol.UserInfo {
	name = strings.TrimSpace(name)
	if runes := []rune(name); len(runes) > MaxNameLen {
		name = string(runes[:MaxNameLen])
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		u = user{color: canvas.RandomColor()}
	}
	u.name = name
	r.users[userID] = u
	return protocol.UserInfo{UserID: userID, Name: u.name, Color: u.color}
}

// RemoveUser deletes the identity and presence entry on disconnect.
func (r *Registry) RemoveUser(userID string) {
	r.mu.Lock()
	delete(r.users, userID)
	r.mu.Unlock()
	r.presence.Remove(userID)
}

// Users returns all known identities, sorted by id for a stable init payload.
func (r *Registry) Users() []protocol.UserInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]protocol.UserInfo, 0, len(r.users))
	for id, u := range r.users {
		out = append(out, protocol.UserInfo{UserID: id, Name: u.name, Color: u.color})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}
