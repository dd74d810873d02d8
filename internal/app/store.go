package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/corey/acnh/internal/adapters/bbolt"
	"github.com/corey/acnh/internal/adapters/sqlite"
	"github.com/corey/acnh/internal/config"
	"github.com/corey/acnh/internal/ports"
)

// Store is a KVStore the app owns and must close.
type Store interface {
	ports.KVStore
	Keys() ([]string, error)
	Close() error
}

// OpenStore opens the backend named in sc, creating its parent directory.
func OpenStore(sc config.StorageConfig) (Store, error) {
	if err := os.MkdirAll(filepath.Dir(sc.Path), 0755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	switch sc.Backend {
	case config.BackendBolt, "":
		return bbolt.NewStore(sc.Path)
	case config.BackendSQLite:
		return sqlite.NewStore(sc.Path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", sc.Backend)
	}
}
