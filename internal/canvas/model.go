package canvas

import "math/rand"

// Point is a single coordinate in canvas-local space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Stroke is one complete pen gesture. Strokes are immutable once created;
// the only operations on them are append, remove and copy.
type Stroke struct {
	ID     string  `json:"id"`
	UserID string  `json:"userId"`
	Color  string  `json:"color"`
	Width  int     `json:"width"`
	Points []Point `json:"points"`
}

// Snapshot is the unit of durable persistence: a full, order-preserving copy
// of a room's stroke history plus free-form metadata (author, timestamp, ...).
type Snapshot struct {
	Strokes []Stroke       `json:"strokes"`
	Meta    map[string]any `json:"meta"`
}

// EmptySnapshot returns a snapshot with no strokes and empty meta, used when
// no session has been saved for a room.
func EmptySnapshot() Snapshot {
	return Snapshot{Strokes: []Stroke{}, Meta: map[string]any{}}
}

// Palette is the fixed set of colors users are drawn from at connection time.
var Palette = []string{
	"#ef4444", "#f97316", "#f59e0b", "#eab308", "#84cc16",
	"#10b981", "#06b6d4", "#0ea5e9", "#3b82f6", "#6366f1",
	"#8b5cf6", "#ec4899",
}

// RandomColor picks a palette color for a newly connected user.
func RandomColor() string {
	return Palette[rand.Intn(len(Palette))]
}
