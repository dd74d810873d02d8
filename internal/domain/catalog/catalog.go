// Package catalog holds the immutable item catalog the search engine runs over.
// A Catalog is decoded once from a flat JSON export and never mutated; a reload
// produces a new Catalog.
package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Entry is a single catalog item.
type Entry struct {
	ID       ID     `json:"id"`
	Name     string `json:"name"`
	Variant  string `json:"variant,omitempty"` // empty = no variant axis
	Category string `json:"category"`
}

// SortName is the key used for alphabetical ordering: name followed by variant.
func (e Entry) SortName() string {
	return e.Name + e.Variant
}

// Valid reports whether the entry can be indexed. Entries missing an id, a
// name or a category are upstream data defects and are excluded rather than
// failing a load.
func (e Entry) Valid() bool {
	return e.ID != "" && strings.TrimSpace(e.Name) != "" && strings.TrimSpace(e.Category) != ""
}

// Catalog is an immutable, id-keyed list of entries.
type Catalog struct {
	entries []Entry
	byID    map[ID]int

	// Skipped counts malformed or duplicate-id entries dropped during decode.
	Skipped int
}

// New builds a catalog from entries, dropping invalid and duplicate-id
// entries (first occurrence wins).
func New(entries []Entry) *Catalog {
	c := &Catalog{
		entries: make([]Entry, 0, len(entries)),
		byID:    make(map[ID]int, len(entries)),
	}
	for _, e := range entries {
		c.add(e)
	}
	return c
}

func (c *Catalog) add(e Entry) {
	if !e.Valid() {
		c.Skipped++
		return
	}
	if _, dup := c.byID[e.ID]; dup {
		c.Skipped++
		return
	}
	c.byID[e.ID] = len(c.entries)
	c.entries = append(c.entries, e)
}

// Decode reads a JSON array of entries. Individual entries that fail to decode
// or fail validation are skipped and counted; only a malformed top-level
// document is an error.
func Decode(r io.Reader) (*Catalog, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	c := &Catalog{
		entries: make([]Entry, 0, len(raw)),
		byID:    make(map[ID]int, len(raw)),
	}
	for _, msg := range raw {
		var e Entry
		if err := json.Unmarshal(msg, &e); err != nil {
			c.Skipped++
			continue
		}
		c.add(e)
	}
	return c, nil
}

// LoadFile decodes the catalog at path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Entries returns the catalog entries in load order. The slice is shared and
// must not be modified.
func (c *Catalog) Entries() []Entry {
	return c.entries
}

// Len returns the number of indexed entries.
func (c *Catalog) Len() int { return len(c.entries) }

// Lookup returns the entry for id.
func (c *Catalog) Lookup(id ID) (Entry, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Categories returns the distinct categories, sorted.
func (c *Catalog) Categories() []string {
	seen := make(map[string]struct{})
	for _, e := range c.entries {
		if e.Category != "" {
			seen[e.Category] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for cat := range seen {
		out = append(out, cat)
	}
	sort.Strings(out)
	return out
}

// Hydrate resolves ids to entries, keeps only entries allowed by categories,
// and sorts by name. Ids missing from the catalog are dropped.
func (c *Catalog) Hydrate(ids []ID, categories CategorySet) []Entry {
	out := make([]Entry, 0, len(ids))
	for _, id := range ids {
		e, ok := c.Lookup(id)
		if !ok || !categories.Allows(e) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		if out[i].Variant != out[j].Variant {
			return out[i].Variant < out[j].Variant
		}
		return out[i].ID < out[j].ID
	})
	return out
}
