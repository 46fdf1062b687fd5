// Package protocol defines the JSON wire format shared by server and client.
// Every frame is an independently parseable object with a "type" field; all
// per-type payloads are carried by the single Message envelope.
package protocol

import (
	"encoding/json"

	"github.com/lenin-jr/Realtime-canvas/internal/canvas"
)

// Inbound message types.
const (
	TypeJoinRoom    = "join-room"
	TypeStroke      = "stroke"
	TypeCursor      = "cursor"
	TypeClear       = "clear"
	TypeUndo        = "undo"
	TypeSetName     = "set-name"
	TypeReaction    = "reaction"
	TypeSaveSession = "save-session"
	TypeLoadSession = "load-session"
	TypePing        = "ping"
)

// Outbound message types (stroke, cursor, clear, undo and reaction are echoed
// under their inbound names).
const (
	TypeInit       = "init"
	TypeInitRoom   = "init-room"
	TypeUserJoined = "user-joined"
	TypeUserLeft   = "user-left"
	TypeSaveAck    = "save-ack"
	TypeLoadAck    = "load-ack"
	TypePong       = "pong"
)

// UserInfo describes one known user in init and user-joined events. An empty
// name means the user has not introduced themselves yet.
type UserInfo struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Color  string `json:"color"`
}

// Message is the wire envelope. Fields irrelevant to a given type stay at
// their zero value and are omitted on encode. X, Y and OK are pointers
// because zero is meaningful for them (origin coordinates, failed save).
type Message struct {
	Type      string          `json:"type"`
	Room      string          `json:"room,omitempty"`
	UserID    string          `json:"userId,omitempty"`
	Name      string          `json:"name,omitempty"`
	Color     string          `json:"color,omitempty"`
	Emoji     string          `json:"emoji,omitempty"`
	X         *float64        `json:"x,omitempty"`
	Y         *float64        `json:"y,omitempty"`
	TS        int64           `json:"ts,omitempty"`
	OK        *bool           `json:"ok,omitempty"`
	Error     string          `json:"error,omitempty"`
	RemovedID string          `json:"removedId,omitempty"`
	Stroke    *canvas.Stroke  `json:"stroke,omitempty"`
	Strokes   []canvas.Stroke `json:"strokes,omitempty"`
	Meta      map[string]any  `json:"meta,omitempty"`
	Users     []UserInfo      `json:"users,omitempty"`
}

// Decode parses one frame. A malformed frame or one without a type field is
// reported as an error so the caller can drop it silently.
func Decode(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, err
	}
	if m.Type == "" {
		return Message{}, ErrMissingType
	}
	return m, nil
}

// Encode serializes a message to one frame.
func Encode(m Message) ([]byte, error) {
	return json.Marshal(m)
}

// Float returns a pointer for coordinate fields.
func Float(v float64) *float64 { return &v }

// Bool returns a pointer for the save-ack ok field.
func Bool(v bool) *bool { return &v }
