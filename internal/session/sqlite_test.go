package session

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lenin-jr/Realtime-canvas/internal/canvas"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "sessions.sqlite3"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store := newTestSQLiteStore(t)

	want := testSnapshot()
	require.NoError(t, store.Save("retro", want))

	got, err := store.Load("retro")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSQLiteStoreLoadMissingRoom(t *testing.T) {
	store := newTestSQLiteStore(t)

	got, err := store.Load("never-saved")
	assert.ErrorIs(t, err, ErrNoSession)
	assert.Empty(t, got.Strokes)
	assert.Empty(t, got.Meta)
}

func TestSQLiteStoreUpsert(t *testing.T) {
	store := newTestSQLiteStore(t)

	require.NoError(t, store.Save("room", testSnapshot()))
	replacement := canvas.Snapshot{
		Strokes: []canvas.Stroke{{ID: "only", UserID: "u9", Color: "#10b981", Width: 1,
			Points: []canvas.Point{{X: 0, Y: 0}}}},
		Meta: map[string]any{},
	}
	require.NoError(t, store.Save("room", replacement))

	got, err := store.Load("room")
	require.NoError(t, err)
	require.Len(t, got.Strokes, 1)
	assert.Equal(t, "only", got.Strokes[0].ID)
}
