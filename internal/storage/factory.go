package storage

import (
	"errors"
	"fmt"
	"strings"
)

const (
	MemoryKind = "memory"
	SQLiteKind = "sqlite"
)

var ErrUnsupportedStore = errors.New("unsupported store backend")

// NewStore opens the run archive named by kind. An empty kind selects
// DefaultStoreKind for this build.
func NewStore(kind, sqlitePath string) (Store, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind == "" {
		kind = DefaultStoreKind()
	}
	switch kind {
	case MemoryKind:
		return NewMemoryStore(), nil
	case SQLiteKind:
		if sqlitePath == "" {
			return nil, fmt.Errorf("sqlite store requires a database path")
		}
		return newSQLiteStore(sqlitePath)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedStore, kind)
	}
}

// CloseIfSupported releases stores that hold a connection.
func CloseIfSupported(store Store) error {
	closer, ok := store.(interface{ Close() error })
	if !ok {
		return nil
	}
	return closer.Close()
}
