package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/acnh/internal/domain/selection"
)

func writeConfig(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
}

func TestLoad_Defaults(t *testing.T) {
	root := t.TempDir()

	cfg, err := Load(root, "")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, ".acnh", "items.json"), cfg.Catalog.Path)
	assert.Equal(t, BackendBolt, cfg.Storage.Backend)
	assert.Equal(t, filepath.Join(root, ".acnh", "acnh.db"), cfg.Storage.Path)
	assert.Equal(t, selection.DefaultKey, cfg.Storage.Key)
	assert.Equal(t, 100*time.Millisecond, cfg.Search.Debounce)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Sources)
}

func TestLoad_ProjectFile(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, NewPaths(root).Config, `
catalog:
  path: data/items.json
  watch: false
storage:
  backend: sqlite
search:
  debounce: 250ms
log:
  level: debug
  format: json
`)

	cfg, err := Load(root, "")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "data", "items.json"), cfg.Catalog.Path)
	assert.False(t, cfg.Catalog.Watch)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, filepath.Join(root, ".acnh", "acnh.sqlite"), cfg.Storage.Path)
	assert.Equal(t, 250*time.Millisecond, cfg.Search.Debounce)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, []string{NewPaths(root).Config}, cfg.Sources)
}

func TestLoad_ExplicitFileOverridesProjectFile(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, NewPaths(root).Config, "server:\n  addr: 127.0.0.1:9000\n")
	explicit := filepath.Join(t.TempDir(), "other.yml")
	writeConfig(t, explicit, "server:\n  addr: 0.0.0.0:9001\n")

	cfg, err := Load(root, explicit)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9001", cfg.Server.Addr)
	assert.Len(t, cfg.Sources, 2)
}

func TestLoad_ExplicitFileMustExist(t *testing.T) {
	_, err := Load(t.TempDir(), filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	root := t.TempDir()
	abs := filepath.Join(t.TempDir(), "state.sqlite")
	t.Setenv("ACNH_STORAGE", "sqlite")
	t.Setenv("ACNH_DB", abs)
	t.Setenv("ACNH_CATALOG", "/srv/items.json")
	t.Setenv("ACNH_ADDR", "localhost:8080")
	t.Setenv("ACNH_LOG_LEVEL", "warn")
	t.Setenv("ACNH_LOG_FORMAT", "json")
	t.Setenv("ACNH_DEBOUNCE", "1s")

	cfg, err := Load(root, "")
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, abs, cfg.Storage.Path)
	assert.Equal(t, "/srv/items.json", cfg.Catalog.Path)
	assert.Equal(t, "localhost:8080", cfg.Server.Addr)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, time.Second, cfg.Search.Debounce)
}

func TestLoad_BadDebounceEnv(t *testing.T) {
	t.Setenv("ACNH_DEBOUNCE", "soon")
	_, err := Load(t.TempDir(), "")
	assert.ErrorContains(t, err, "ACNH_DEBOUNCE")
}

func TestLoad_ValidationFailures(t *testing.T) {
	cases := map[string]string{
		"backend":   "storage:\n  backend: redis\n",
		"level":     "log:\n  level: loud\n",
		"format":    "log:\n  format: xml\n",
		"addr":      "server:\n  addr: not-an-addr\n",
		"key":       "storage:\n  key: \"\"\n",
		"debounce":  "search:\n  debounce: -1s\n",
		"malformed": "catalog: [\n",
	}
	for name, body := range cases {
		root := t.TempDir()
		writeConfig(t, NewPaths(root).Config, body)
		_, err := Load(root, "")
		assert.Error(t, err, name)
	}
}

func TestConfig_YAMLRoundTrip(t *testing.T) {
	cfg, err := Load(t.TempDir(), "")
	require.NoError(t, err)

	out, err := cfg.YAML()
	require.NoError(t, err)
	assert.Contains(t, string(out), "backend: bbolt")
	assert.Contains(t, string(out), "debounce: 100ms")
}

func TestPaths_EnsureDirs(t *testing.T) {
	root := t.TempDir()
	p := NewPaths(root)
	require.NoError(t, p.EnsureDirs())
	require.NoError(t, p.EnsureDirs())

	for _, d := range []string{p.Root, p.LogDir, p.RunDir} {
		info, err := os.Stat(d)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	require.NoError(t, os.WriteFile(p.PortFile, []byte("127.0.0.1:7474"), 0644))
	p.CleanEphemeral()
	_, err := os.Stat(p.PortFile)
	assert.True(t, os.IsNotExist(err))
}
