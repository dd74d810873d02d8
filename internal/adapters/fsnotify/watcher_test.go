package fsnotify

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// waitForCallback waits up to timeout for the callback channel to receive a value.
func waitForCallback(ch <-chan string, timeout time.Duration) (string, bool) {
	select {
	case v := <-ch:
		return v, true
	case <-time.After(timeout):
		return "", false
	}
}

func startWatcher(t *testing.T, path string, debounce time.Duration) (*Watcher, <-chan string) {
	t.Helper()
	w, err := NewWatcher(debounce)
	require.NoError(t, err)
	t.Cleanup(func() { w.Stop() })

	changed := make(chan string, 10)
	require.NoError(t, w.Watch(path, func(p string) { changed <- p }))

	// Give watcher time to start
	time.Sleep(50 * time.Millisecond)
	return w, changed
}

func TestWatcher_DetectsWrite(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "items.json")
	require.NoError(t, os.WriteFile(target, []byte("[]"), 0644))

	_, changed := startWatcher(t, target, 20*time.Millisecond)

	require.NoError(t, os.WriteFile(target, []byte(`[{"id":1,"name":"Iron Chair"}]`), 0644))

	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok, "expected callback for write")
	assert.Equal(t, target, path)
}

func TestWatcher_DetectsAtomicReplace(t *testing.T) {
	// Editors save by writing a sibling and renaming it over the target.
	dir := t.TempDir()
	target := filepath.Join(dir, "items.json")
	require.NoError(t, os.WriteFile(target, []byte("[]"), 0644))

	_, changed := startWatcher(t, target, 20*time.Millisecond)

	tmp := filepath.Join(dir, ".items.json.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("[]"), 0644))
	require.NoError(t, os.Rename(tmp, target))

	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok, "expected callback for rename over target")
	assert.Equal(t, target, path)
}

func TestWatcher_IgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "items.json")
	require.NoError(t, os.WriteFile(target, []byte("[]"), 0644))

	_, changed := startWatcher(t, target, 20*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte("[]"), 0644))

	_, ok := waitForCallback(changed, 300*time.Millisecond)
	assert.False(t, ok, "sibling file should not trigger a callback")
}

func TestWatcher_CoalescesBursts(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "items.json")
	require.NoError(t, os.WriteFile(target, []byte("[]"), 0644))

	w, err := NewWatcher(150 * time.Millisecond)
	require.NoError(t, err)
	defer w.Stop()

	var calls atomic.Int32
	require.NoError(t, w.Watch(target, func(string) { calls.Add(1) }))
	time.Sleep(50 * time.Millisecond)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(target, []byte("[]"), 0644))
		time.Sleep(10 * time.Millisecond)
	}

	time.Sleep(600 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load(), "burst of writes should produce one callback")
}

func TestWatcher_SecondWatchRejected(t *testing.T) {
	dir := t.TempDir()
	w, _ := startWatcher(t, filepath.Join(dir, "items.json"), 0)

	err := w.Watch(filepath.Join(dir, "other.json"), func(string) {})
	assert.ErrorIs(t, err, ErrAlreadyWatching)
}

func TestWatcher_StopCleanup(t *testing.T) {
	// After Stop(), no more callbacks fire.
	dir := t.TempDir()
	target := filepath.Join(dir, "items.json")

	w, err := NewWatcher(20 * time.Millisecond)
	require.NoError(t, err)

	callCount := 0
	var mu sync.Mutex
	err = w.Watch(target, func(path string) {
		mu.Lock()
		callCount++
		mu.Unlock()
	})
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, w.Stop())

	os.WriteFile(target, []byte("[]"), 0644)
	time.Sleep(200 * time.Millisecond)

	mu.Lock()
	assert.Equal(t, 0, callCount, "callbacks fired after Stop()")
	mu.Unlock()

	// Double-stop should be safe
	assert.NoError(t, w.Stop())
}
