package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corey/acnh/internal/adapters/bbolt"
)

const testCatalogJSON = `[
	{"id": 1, "name": "Wooden Chair", "category": "Housewares"},
	{"id": 2, "name": "Wooden Table", "category": "Housewares"},
	{"id": 3, "name": "Iron Chair", "category": "Housewares"},
	{"id": 4, "name": "Round Rug", "variant": "Blue", "category": "Rugs"},
	{"id": 5, "name": "Broken", "variant": "no category"}
]`

// failingStore is a KVStore whose writes always fail.
type failingStore struct {
	data map[string]string
	err  error
}

func (f *failingStore) Get(key string) (string, bool, error) {
	v, ok := f.data[key]
	return v, ok, nil
}
func (f *failingStore) Set(string, string) error { return f.err }
func (f *failingStore) Delete(string) error      { return f.err }

// newTestStore creates a temporary bbolt store for testing.
func newTestStore(t *testing.T) *bbolt.Store {
	t.Helper()
	store, err := bbolt.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func writeCatalog(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "items.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

// newTestApp creates an initialized app over a temp catalog and bbolt store.
func newTestApp(t *testing.T) *App {
	t.Helper()
	a, err := New(Config{
		CatalogPath: writeCatalog(t, testCatalogJSON),
		Store:       newTestStore(t),
		Backend:     "bbolt",
	})
	require.NoError(t, err)
	require.NoError(t, a.Init())
	return a
}
