package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/acnh/internal/adapters/web"
	"github.com/corey/acnh/internal/config"
)

const commandsCatalog = `[
	{"id": 1, "name": "Wooden Chair", "category": "Housewares"},
	{"id": 2, "name": "Wooden Table", "category": "Housewares"},
	{"id": 3, "name": "Iron Chair", "variant": "Black", "category": "Housewares"},
	{"id": 4, "name": "Apple Rug", "category": "Rugs"}
]`

func newProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	paths := config.NewPaths(root)
	require.NoError(t, paths.EnsureDirs())
	require.NoError(t, os.WriteFile(filepath.Join(paths.Root, "items.json"), []byte(commandsCatalog), 0644))
	return root
}

func run(t *testing.T, root string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(bytes.NewReader(nil))
	rootCmd.SetArgs(append([]string{"--root", root, "--no-color"}, args...))
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestCommands_CatalogAndWishlist(t *testing.T) {
	root := newProject(t)

	assert.Contains(t, run(t, root, "catalog", "add", "1"), "added to catalog #1")
	assert.Contains(t, run(t, root, "wishlist", "add", "3", "4"), "added to wishlist #4")

	out := run(t, root, "catalog", "ls")
	assert.Contains(t, out, "Catalog │ 1 items")
	assert.Contains(t, out, "Wooden Chair  Housewares  #1")

	out = run(t, root, "wishlist", "ls")
	assert.Contains(t, out, "Wishlist │ 2 items")
	assert.Less(t, bytes.Index([]byte(out), []byte("Apple Rug")), bytes.Index([]byte(out), []byte("Iron Chair")))

	// Owning an item takes it off the wishlist.
	run(t, root, "catalog", "add", "3")
	out = run(t, root, "wishlist", "ls")
	assert.Contains(t, out, "Wishlist │ 1 items")
	assert.NotContains(t, out, "Iron Chair")

	assert.Contains(t, run(t, root, "wishlist", "reset", "--force"), "wishlist cleared")
	assert.Contains(t, run(t, root, "wishlist", "ls"), "Wishlist │ 0 items")
	assert.Contains(t, run(t, root, "catalog", "ls"), "Catalog │ 2 items")
}

func TestCommands_ResetNeedsConfirmation(t *testing.T) {
	root := newProject(t)
	run(t, root, "catalog", "add", "2")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(bytes.NewBufferString("n\n"))
	rootCmd.SetArgs([]string{"--root", root, "--no-color", "catalog", "reset", "--force=false"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "cancelled")

	assert.Contains(t, run(t, root, "catalog", "ls"), "Catalog │ 1 items")
}

func TestCommands_AddUnknownItemFails(t *testing.T) {
	root := newProject(t)
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"--root", root, "wishlist", "add", "99"})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown item 99")
}

func TestCommands_SearchMarksSelection(t *testing.T) {
	root := newProject(t)
	run(t, root, "catalog", "add", "1")

	var res web.SearchResult
	require.NoError(t, json.Unmarshal([]byte(run(t, root, "search", "--json", "chair")), &res))
	require.Equal(t, 2, res.Count)
	for _, h := range res.Results {
		assert.Equal(t, h.ID == "1", h.Owned, "item %s", h.ID)
	}

	out := run(t, root, "search", "--json=false", "rug")
	assert.Contains(t, out, "1 results")
	assert.Contains(t, out, "Apple Rug")
}

func TestCommands_Status(t *testing.T) {
	root := newProject(t)
	run(t, root, "wishlist", "add", "2")

	out := run(t, root, "status")
	assert.Contains(t, out, "Schema:     v2")
	assert.Contains(t, out, "4 entries")
	assert.Contains(t, out, "Wishlist:   1")
}

func TestCommands_Config(t *testing.T) {
	root := newProject(t)
	out := run(t, root, "config")
	assert.Contains(t, out, "# root: "+root)
	assert.Contains(t, out, "backend: bbolt")
}

func TestCommands_ShellPipedInput(t *testing.T) {
	root := newProject(t)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(bytes.NewBufferString("+c 1\nf Rugs\nf Housewares\nf Rugs\nwooden\nchair\n"))
	rootCmd.SetArgs([]string{"--root", root, "--no-color", "shell"})
	require.NoError(t, rootCmd.Execute())

	got := out.String()
	assert.Contains(t, got, "added to catalog #1")
	assert.Contains(t, got, "filters: Housewares, Rugs")
	assert.Contains(t, got, "filters: Housewares\n")
	assert.Contains(t, got, "✓ Wooden Chair")
	assert.NotContains(t, got, "Apple Rug")
	assert.Contains(t, got, "Iron Chair (Black)")
}
