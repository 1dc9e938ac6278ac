// Package storage provides abstractions for persistent state storage.
package storage

import (
	"context"
	"errors"

	"github.com/mquinn/chorewheel/internal/models"
)

var (
	// ErrNotFound is returned by Load when no document has been saved
	// yet (first run).
	ErrNotFound = errors.New("no state document stored")

	// ErrCorrupt is returned by Load when a stored document cannot be
	// decoded. Callers fall back to the default document.
	ErrCorrupt = errors.New("stored state document is unreadable")
)

// Store persists the whole state document under a fixed key. There are
// no partial updates: every save replaces the previous document. This
// abstraction allows swapping backends (SQLite, a plain file, etc.)
// without changing the service layer.
type Store interface {
	// Load retrieves the current document. Returns ErrNotFound when
	// nothing has been saved and ErrCorrupt when the stored bytes do
	// not decode.
	Load(ctx context.Context) (models.State, error)

	// Save replaces the stored document.
	Save(ctx context.Context, state models.State) error

	// Close releases any resources held by the store.
	Close() error
}
