package kvstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Location says where each backend keeps its data.
type Location struct {
	StoreDir     string // file backend documents
	DatabasePath string // SQLite database file
}

// Path returns the location used by backend.
func (l Location) Path(backend string) string {
	if backend == BackendSQLite {
		return l.DatabasePath
	}
	return l.StoreDir
}

// Open returns the Store for the named backend at loc.
func Open(ctx context.Context, backend string, loc Location) (Store, error) {
	switch backend {
	case BackendFile, "":
		return NewFileStore(loc.StoreDir)
	case BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(loc.DatabasePath), 0700); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
		return OpenSQLite(ctx, loc.DatabasePath)
	default:
		return nil, fmt.Errorf("unknown store backend %q: supported backends are %q and %q",
			backend, BackendFile, BackendSQLite)
	}
}
