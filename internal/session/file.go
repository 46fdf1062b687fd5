package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lenin-jr/Realtime-canvas/internal/canvas"
)

// FileStore keeps one JSON file per room under a sessions directory. Saves
// write to a temp file in the same directory and rename it over the target,
// so a concurrent Load sees either the old snapshot or the new one, never a
// torn write.
type FileStore struct {
	dir string
}

// NewFileStore creates the sessions directory if needed and returns a store
// rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create sessions dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Save replaces the snapshot file for roomID.
func (fs *FileStore) Save(roomID string, snap canvas.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session %q: %w", roomID, err)
	}

	tmp, err := os.CreateTemp(fs.dir, "session-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write session %q: %w", roomID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close session %q: %w", roomID, err)
	}
	if err := os.Rename(tmp.Name(), fs.path(roomID)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace session %q: %w", roomID, err)
	}
	return nil
}

// Load reads the snapshot file for roomID. A missing or unreadable file
// yields ErrNoSession.
func (fs *FileStore) Load(roomID string) (canvas.Snapshot, error) {
	data, err := os.ReadFile(fs.path(roomID))
	if err != nil {
		return canvas.EmptySnapshot(), ErrNoSession
	}
	var snap canvas.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		// Corrupt snapshots behave like missing ones.
		return canvas.EmptySnapshot(), ErrNoSession
	}
	if snap.Strokes == nil {
		snap.Strokes = canvas.EmptySnapshot().Strokes
	}
	if snap.Meta == nil {
		snap.Meta = canvas.EmptySnapshot().Meta
	}
	return snap, nil
}

func (fs *FileStore) path(roomID string) string {
	return filepath.Join(fs.dir, sanitize(roomID)+".json")
}

// sanitize maps an arbitrary room id onto a safe file name. Distinctness is
// not guaranteed for pathological ids, matching the reference one-file-per-id
// layout.
func sanitize(roomID string) string {
	if roomID == "" {
		return "_"
	}
	var b strings.Builder
	for _, r := range roomID {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
