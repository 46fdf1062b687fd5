package session

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/lenin-jr/Realtime-canvas/internal/canvas"
)

// SQLiteStore keeps one row per room in a sessions table. SQLite gives the
// atomic-replace guarantee for free: an upsert is a single transaction, so a
// concurrent Load sees the old row or the new one.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path and ensures the
// sessions table exists.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open session database: %w", err)
	}
	if _, err := db.Exec(
		`CREATE TABLE IF NOT EXISTS sessions (
			room    TEXT NOT NULL PRIMARY KEY,
			content TEXT NOT NULL
		)`,
	); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure sessions table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Save upserts the snapshot row for roomID.
func (s *SQLiteStore) Save(roomID string, snap canvas.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode session %q: %w", roomID, err)
	}
	if _, err := s.db.Exec(
		`INSERT INTO sessions (room, content) VALUES (?, ?)
		 ON CONFLICT(room) DO UPDATE SET content = excluded.content`,
		roomID, string(data),
	); err != nil {
		return fmt.Errorf("save session %q: %w", roomID, err)
	}
	return nil
}

// Load reads the snapshot row for roomID, or returns ErrNoSession.
func (s *SQLiteStore) Load(roomID string) (canvas.Snapshot, error) {
	var content string
	err := s.db.QueryRow(`SELECT content FROM sessions WHERE room = ?`, roomID).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return canvas.EmptySnapshot(), ErrNoSession
	}
	if err != nil {
		return canvas.EmptySnapshot(), fmt.Errorf("load session %q: %w", roomID, err)
	}
	var snap canvas.Snapshot
	if err := json.Unmarshal([]byte(content), &snap); err != nil {
		return canvas.EmptySnapshot(), ErrNoSession
	}
	if snap.Strokes == nil {
		snap.Strokes = []canvas.Stroke{}
	}
	if snap.Meta == nil {
		snap.Meta = map[string]any{}
	}
	return snap, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
