package canvas

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stroke(id, userID string) Stroke {
	return Stroke{
		ID:     id,
		UserID: userID,
		Color:  "#3b82f6",
		Width:  3,
		Points: []Point{{X: 1, Y: 2}, {X: 3, Y: 4}},
	}
}

func TestStrokeLogSnapshotPreservesAppendOrder(t *testing.T) {
	l := NewStrokeLog()
	var want []string
	for i := 0; i < 20; i++ {
		id := fmt.Sprintf("s%d", i)
		l.Append(stroke(id, "u1"))
		want = append(want, id)
	}

	snap := l.Snapshot()
	require.Len(t, snap, 20)
	for i, s := range snap {
		assert.Equal(t, want[i], s.ID)
	}
}

func TestStrokeLogSnapshotDoesNotAliasInternalState(t *testing.T) {
	l := NewStrokeLog()
	l.Append(stroke("a", "u1"))
	snap := l.Snapshot()

	l.Append(stroke("b", "u2"))
	l.Clear()

	require.Len(t, snap, 1)
	assert.Equal(t, "a", snap[0].ID)
}

func TestStrokeLogRemoveLastByUser(t *testing.T) {
	l := NewStrokeLog()
	l.Append(stroke("a", "1"))
	l.Append(stroke("b", "2"))
	l.Append(stroke("c", "1"))

	removed, ok := l.RemoveLastByUser("1")
	require.True(t, ok)
	assert.Equal(t, "c", removed.ID)
	assert.Equal(t, []string{"a", "b"}, ids(l.Snapshot()))

	removed, ok = l.RemoveLastByUser("1")
	require.True(t, ok)
	assert.Equal(t, "a", removed.ID)
	assert.Equal(t, []string{"b"}, ids(l.Snapshot()))

	_, ok = l.RemoveLastByUser("1")
	assert.False(t, ok, "third undo should be a no-op")
	assert.Equal(t, []string{"b"}, ids(l.Snapshot()))
}

func TestStrokeLogRemoveByID(t *testing.T) {
	l := NewStrokeLog()
	l.Append(stroke("a", "1"))
	l.Append(stroke("b", "1"))

	assert.True(t, l.RemoveByID("a"))
	assert.False(t, l.RemoveByID("a"))
	assert.Equal(t, []string{"b"}, ids(l.Snapshot()))
}

func TestStrokeLogClear(t *testing.T) {
	l := NewStrokeLog()
	for i := 0; i < 5; i++ {
		l.Append(stroke(fmt.Sprintf("s%d", i), "u1"))
	}
	l.Clear()
	assert.Empty(t, l.Snapshot())
	assert.Zero(t, l.Len())
}

func TestStrokeLogReplaceCopiesInput(t *testing.T) {
	l := NewStrokeLog()
	in := []Stroke{stroke("a", "1"), stroke("b", "2")}
	l.Replace(in)

	in[0].ID = "mutated"
	assert.Equal(t, []string{"a", "b"}, ids(l.Snapshot()))
}

func ids(strokes []Stroke) []string {
	out := make([]string, len(strokes))
	for i, s := range strokes {
		out[i] = s.ID
	}
	return out
}
