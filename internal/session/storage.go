package session

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"TopicChat/internal/model"
)

// storageKey is the single durable-storage key the session lives under.
// Nothing else is persisted client-side; topics, chats and transcripts are
// refetched each run.
const storageKey = "auth-storage"

// Snapshot is the persisted form of a session
type Snapshot struct {
	User  model.User      `json:"user"`
	Token model.AuthToken `json:"token"`
}

// Storage persists a session snapshot across process restarts
type Storage interface {
	Save(snap Snapshot) error
	Load() (*Snapshot, error)
	Clear() error
}

// SQLiteStorage keeps the session snapshot in a local SQLite database
type SQLiteStorage struct {
	db *sql.DB
}

// OpenSQLiteStorage opens (creating if needed) the client database at path
func OpenSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	createTable := `
	CREATE TABLE IF NOT EXISTS storage (
		key TEXT PRIMARY KEY,
		value TEXT
	);`

	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create storage table: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Save writes the snapshot under the session storage key
func (s *SQLiteStorage) Save(snap Snapshot) error {
	value, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO storage (key, value) VALUES (?, ?)",
		storageKey, string(value),
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Load reads the persisted snapshot. It returns (nil, nil) when no session
// has been saved.
func (s *SQLiteStorage) Load() (*Snapshot, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM storage WHERE key = ?", storageKey).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal([]byte(value), &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &snap, nil
}

// Clear removes the persisted snapshot
func (s *SQLiteStorage) Clear() error {
	if _, err := s.db.Exec("DELETE FROM storage WHERE key = ?", storageKey); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Close closes the underlying database
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
