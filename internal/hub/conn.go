package hub

import (
	"sync"

	"github.com/gorilla/websocket"

	"github.com/lenin-jr/Realtime-canvas/internal/protocol"
)

// transport is the outbound side of one connection. It is an interface so
// router tests can capture frames without a real websocket.
type transport interface {
	write(data []byte) error
	close() error
}

// wsTransport adapts a gorilla websocket connection.
type wsTransport struct {
	ws *websocket.Conn
}

func (t *wsTransport) write(data []byte) error {
	return t.ws.WriteMessage(websocket.TextMessage, data)
}

func (t *wsTransport) close() error {
	return t.ws.Close()
}

// Conn is one participant connection as seen by the hub. A connection belongs
// to exactly one room at a time; the room field is owned by the Registry and
// only touched under its lock.
type Conn struct {
	userID string
	color  string

	room string

	mu sync.Mutex // gorilla does not allow concurrent writes
	t  transport
}

func newConn(t transport, userID, color string) *Conn {
	return &Conn{t: t, userID: userID, color: color}
}

// UserID returns the id assigned to this connection at connect time.
func (c *Conn) UserID() string { return c.userID }

// Color returns the palette color assigned at connect time.
func (c *Conn) Color() string { return c.color }

func (c *Conn) send(m protocol.Message) error {
	data, err := protocol.Encode(m)
	if err != nil {
		return err
	}
	return c.sendRaw(data)
}

func (c *Conn) sendRaw(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t.write(data)
}

func (c *Conn) closeTransport() {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.t.close()
}
