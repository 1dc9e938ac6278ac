// Package sqlite provides a SQLite-backed implementation of the
// storage.Store interface. The whole state document is stored as one
// JSON blob under a fixed key, so a save is a single upsert.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mquinn/chorewheel/internal/models"
	"github.com/mquinn/chorewheel/internal/storage"
)

// stateKey is the fixed key the document lives under. One household per
// database file.
const stateKey = "chorewheel"

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path. It creates
// the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load reads and decodes the stored document.
func (s *SQLiteStore) Load(ctx context.Context) (models.State, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT body FROM state WHERE key = ?", stateKey,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return models.State{}, storage.ErrNotFound
	}
	if err != nil {
		return models.State{}, fmt.Errorf("failed to read state: %w", err)
	}

	var state models.State
	if err := json.Unmarshal(body, &state); err != nil {
		return models.State{}, fmt.Errorf("%w: %v", storage.ErrCorrupt, err)
	}
	return state.Normalize(), nil
}

// Save encodes the document and upserts it under the fixed key.
func (s *SQLiteStore) Save(ctx context.Context, state models.State) error {
	body, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO state (key, body, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		stateKey, body, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	return nil
}
