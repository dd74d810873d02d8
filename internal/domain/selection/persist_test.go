package selection

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory ports.KVStore with injectable failures.
type memStore struct {
	data    map[string]string
	getErr  error
	setErr  error
	setKeys []string
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]string)}
}

func (m *memStore) Get(key string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memStore) Set(key, value string) error {
	m.setKeys = append(m.setKeys, key)
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func (m *memStore) Delete(key string) error {
	delete(m.data, key)
	return nil
}

func TestLoad_MissingKeyIsEmptyAndInitialized(t *testing.T) {
	st, err := Load(newMemStore(), DefaultKey)
	require.NoError(t, err)
	assert.True(t, st.Initialized)
	assert.Empty(t, st.Catalog)
	assert.Empty(t, st.Wishlist)
}

func TestLoad_MigratesLegacyBlob(t *testing.T) {
	store := newMemStore()
	store.data[DefaultKey] = `{"version":"v1","lookup":[9,10]}`

	st, err := Load(store, DefaultKey)
	require.NoError(t, err)
	assert.True(t, st.Initialized)
	assert.True(t, st.Catalog.Has("9"))
	assert.True(t, st.Catalog.Has("10"))
	assert.Empty(t, st.Wishlist)
	assert.Equal(t, "v1", st.MigratedFrom)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	store := newMemStore()

	s := Empty()
	s.Catalog = NewIDSet("1", "2", "rug-3")
	s.Wishlist = NewIDSet("4")
	s.Query = "not persisted"

	require.NoError(t, Save(store, DefaultKey, s))

	got, err := Load(store, DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, s.Catalog, got.Catalog)
	assert.Equal(t, s.Wishlist, got.Wishlist)
	assert.Equal(t, CurrentVersion, got.Version)
	assert.Empty(t, got.Query)
	assert.Empty(t, got.MigratedFrom)
}

func TestLoad_CorruptBlobFallsBackAndBacksUp(t *testing.T) {
	store := newMemStore()
	store.data[DefaultKey] = `{"version":"v2","catalog":[1],"wishlist":[1]}`

	st, err := Load(store, DefaultKey)
	assert.ErrorIs(t, err, ErrCorruptState)
	assert.True(t, st.Initialized)
	assert.Empty(t, st.Catalog)
	assert.Equal(t, `{"version":"v2","catalog":[1],"wishlist":[1]}`, store.data[DefaultKey+BackupSuffix])
}

func TestLoad_UnknownVersionIsReported(t *testing.T) {
	store := newMemStore()
	store.data[DefaultKey] = `{"version":"v7"}`

	st, err := Load(store, DefaultKey)
	assert.ErrorIs(t, err, ErrUnknownVersion)
	assert.True(t, st.Initialized)
	assert.Contains(t, store.data, DefaultKey+BackupSuffix)
}

func TestLoad_ReadFailure(t *testing.T) {
	store := newMemStore()
	store.getErr = errors.New("disk on fire")

	st, err := Load(store, DefaultKey)
	assert.Error(t, err)
	assert.True(t, st.Initialized)
	assert.Empty(t, store.setKeys, "nothing to back up when the read itself fails")
}

func TestSave_WriteFailure(t *testing.T) {
	store := newMemStore()
	store.setErr = errors.New("quota exceeded")

	err := Save(store, DefaultKey, Empty())
	assert.ErrorContains(t, err, "quota exceeded")
}
