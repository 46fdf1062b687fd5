package client

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/lenin-jr/Realtime-canvas/internal/canvas"
	"github.com/lenin-jr/Realtime-canvas/internal/protocol"
)

// pingInterval matches the reference client's RTT probe cadence.
const pingInterval = 3 * time.Second

// Session is one live connection to a canvas server. Reads run on the
// goroutine that calls Run; sends may come from any goroutine.
type Session struct {
	ws  *websocket.Conn
	rec *Reconciler
	log *slog.Logger

	writeMu sync.Mutex
}

// Dial connects to a canvas server websocket URL (ws://host:port/ws) and
// binds the session to the given reconciler.
func Dial(ctx context.Context, url string, rec *Reconciler, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return &Session{ws: ws, rec: rec, log: logger}, nil
}

// Run pumps server events into the reconciler until the connection drops or
// ctx is cancelled. It also drives the periodic RTT ping.
func (s *Session) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		t := time.NewTicker(pingInterval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				if err := s.Ping(); err != nil {
					return
				}
			case <-ctx.Done():
				_ = s.ws.Close()
				return
			}
		}
	}()

	for {
		_, data, err := s.ws.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}
		msg, err := protocol.Decode(data)
		if err != nil {
			// Same policy as the server: malformed frames are dropped.
			s.log.Debug("dropping malformed frame", "err", err)
			continue
		}
		s.rec.Apply(msg)
	}
}

// Close tears down the transport.
func (s *Session) Close() error {
	return s.ws.Close()
}

func (s *Session) send(m protocol.Message) error {
	data, err := protocol.Encode(m)
	if err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.ws.WriteMessage(websocket.TextMessage, data)
}

// JoinRoom asks the server to move this connection into room.
func (s *Session) JoinRoom(room string) error {
	return s.send(protocol.Message{Type: protocol.TypeJoinRoom, Room: room})
}

// SendStroke finishes a local stroke: appended optimistically, then sent.
// The stroke gets an id unique within the room's history.
func (s *Session) SendStroke(color string, width int, points []canvas.Point) error {
	stroke := canvas.Stroke{
		ID:     uuid.NewString(),
		UserID: s.rec.UserID(),
		Color:  color,
		Width:  width,
		Points: points,
	}
	s.rec.AddLocalStroke(stroke)
	return s.send(protocol.Message{Type: protocol.TypeStroke, Stroke: &stroke})
}

// SendCursor broadcasts the local cursor position.
func (s *Session) SendCursor(x, y float64) error {
	return s.send(protocol.Message{
		Type:   protocol.TypeCursor,
		UserID: s.rec.UserID(),
		X:      protocol.Float(x),
		Y:      protocol.Float(y),
		Color:  s.rec.Color(),
	})
}

// Clear empties the room's canvas for everyone.
func (s *Session) Clear() error {
	s.rec.Apply(protocol.Message{Type: protocol.TypeClear})
	return s.send(protocol.Message{Type: protocol.TypeClear})
}

// Undo removes this user's most recent stroke. The server does not echo undo
// back to its sender, so the local buffer is updated optimistically.
func (s *Session) Undo() error {
	userID := s.rec.UserID()
	s.rec.Apply(protocol.Message{Type: protocol.TypeUndo, UserID: userID})
	return s.send(protocol.Message{Type: protocol.TypeUndo, UserID: userID})
}

// SetName announces a display name.
func (s *Session) SetName(name string) error {
	return s.send(protocol.Message{Type: protocol.TypeSetName, UserID: s.rec.UserID(), Name: name})
}

// React sends an ephemeral emoji reaction to the room.
func (s *Session) React(emoji string) error {
	return s.send(protocol.Message{Type: protocol.TypeReaction, UserID: s.rec.UserID(), Emoji: emoji})
}

// SaveSession persists the local stroke buffer for the current room.
func (s *Session) SaveSession(meta map[string]any) error {
	return s.send(protocol.Message{
		Type:    protocol.TypeSaveSession,
		Room:    s.rec.Room(),
		Strokes: s.rec.Strokes(),
		Meta:    meta,
	})
}

// LoadSession restores the current room from its persisted snapshot.
func (s *Session) LoadSession() error {
	return s.send(protocol.Message{Type: protocol.TypeLoadSession, Room: s.rec.Room()})
}

// Ping sends an RTT probe; the pong surfaces via the reconciler's OnPong.
func (s *Session) Ping() error {
	return s.send(protocol.Message{Type: protocol.TypePing, TS: time.Now().UnixMilli()})
}
