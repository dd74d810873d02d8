package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "ACNHCatalogLookup--Lookup"

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state.sqlite")
	store, err := NewStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, path
}

func TestStore_SetGet_Roundtrip(t *testing.T) {
	store, _ := newTestStore(t)

	blob := `{"version":"v2","catalog":[1,"rug-3"],"wishlist":[]}`
	require.NoError(t, store.Set(testKey, blob))

	got, ok, err := store.Get(testKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, blob, got)
}

func TestStore_GetMissing(t *testing.T) {
	store, _ := newTestStore(t)

	_, ok, err := store.Get(testKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_SetUpserts(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.Set(testKey, "first"))
	require.NoError(t, store.Set(testKey, "second"))

	got, _, err := store.Get(testKey)
	require.NoError(t, err)
	assert.Equal(t, "second", got)

	keys, err := store.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{testKey}, keys)
}

func TestStore_Delete(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.Set(testKey, "x"))
	require.NoError(t, store.Delete(testKey))
	require.NoError(t, store.Delete(testKey))

	_, ok, err := store.Get(testKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_SurvivesReopen(t *testing.T) {
	store, path := newTestStore(t)
	require.NoError(t, store.Set(testKey, `[9,10]`))
	require.NoError(t, store.Close())

	store2, err := NewStore(path)
	require.NoError(t, err)
	defer store2.Close()

	got, ok, err := store2.Get(testKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[9,10]`, got)
}
