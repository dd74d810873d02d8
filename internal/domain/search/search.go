package search

import (
	"github.com/corey/acnh/internal/domain/catalog"
)

// Result is one ranked search hit. Name and Variant carry highlight markup
// when the field matched and the plain field text otherwise; Original is the
// untouched entry.
type Result struct {
	ID           catalog.ID    `json:"id"`
	Name         string        `json:"name"`
	Variant      string        `json:"variant,omitempty"`
	Category     string        `json:"category"`
	NameSpans    Spans         `json:"nameSpans"`
	VariantSpans Spans         `json:"variantSpans,omitempty"`
	Evidence     Evidence      `json:"evidence"`
	Original     catalog.Entry `json:"originalItem"`
}

// Option configures an Engine.
type Option func(*Engine)

// WithHighlight sets the markers wrapped around matched runs in Result.Name
// and Result.Variant.
func WithHighlight(openTag, closeTag string) Option {
	return func(e *Engine) {
		e.open = openTag
		e.close = closeTag
	}
}

// Engine searches a fixed set of entries. It holds no mutable state and is
// safe for concurrent use.
type Engine struct {
	entries []catalog.Entry
	open    string
	close   string
}

// NewEngine creates an engine over the catalog's entries.
func NewEngine(c *catalog.Catalog, opts ...Option) *Engine {
	e := &Engine{
		entries: c.Entries(),
		open:    DefaultHighlightOpen,
		close:   DefaultHighlightClose,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Len returns the number of searchable entries.
func (e *Engine) Len() int { return len(e.entries) }

// Search runs query against the engine's entries restricted to filters.
func (e *Engine) Search(query string, filters catalog.CategorySet) []Result {
	return search(query, e.entries, filters, e.open, e.close)
}

// Search is the stateless form of Engine.Search with default markers.
func Search(query string, entries []catalog.Entry, filters catalog.CategorySet) []Result {
	return search(query, entries, filters, DefaultHighlightOpen, DefaultHighlightClose)
}

// search never panics and never returns nil. An empty or whitespace-only
// query yields no results rather than the whole catalog.
func search(query string, entries []catalog.Entry, filters catalog.CategorySet, openTag, closeTag string) (results []Result) {
	defer func() {
		if r := recover(); r != nil {
			results = []Result{}
		}
	}()

	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return []Result{}
	}

	pool := indexable(filters.Filter(entries))
	names := newFieldSource(pool, FieldName)
	variants := newFieldSource(pool, FieldVariant)

	byID := make(map[catalog.ID]*candidate)
	var cands []*candidate
	get := func(i int) *candidate {
		entry := pool[i]
		c, ok := byID[entry.ID]
		if !ok {
			c = &candidate{entry: entry}
			byID[entry.ID] = c
			cands = append(cands, c)
		}
		return c
	}

	for _, tok := range tokens {
		matchField(tok, names, func(i int, m Match) {
			c := get(i)
			c.evidence.Name = append(c.evidence.Name, m)
		})
		matchField(tok, variants, func(i int, m Match) {
			c := get(i)
			c.evidence.Variant = append(c.evidence.Variant, m)
		})
	}

	ranked := rank(cands, MaxResults)
	results = make([]Result, 0, len(ranked))
	for _, c := range ranked {
		results = append(results, buildResult(c, openTag, closeTag))
	}
	return results
}

func buildResult(c *candidate, openTag, closeTag string) Result {
	r := Result{
		ID:       c.entry.ID,
		Name:     c.entry.Name,
		Variant:  c.entry.Variant,
		Category: c.entry.Category,
		Evidence: c.evidence,
		Original: c.entry,
	}

	r.NameSpans = highlight(c.entry.Name, c.evidence.Name)
	if len(c.evidence.Name) > 0 {
		r.Name = r.NameSpans.Markup(openTag, closeTag)
	}
	if c.entry.Variant != "" {
		r.VariantSpans = highlight(c.entry.Variant, c.evidence.Variant)
		if len(c.evidence.Variant) > 0 {
			r.Variant = r.VariantSpans.Markup(openTag, closeTag)
		}
	}
	return r
}

// indexable drops invalid entries and later duplicates of an id (first
// wins), as catalog.New does. Catalogs built with catalog.New or
// catalog.Decode are already clean; this guards callers that pass hand-built
// slices.
func indexable(entries []catalog.Entry) []catalog.Entry {
	seen := make(map[catalog.ID]struct{}, len(entries))
	for i, e := range entries {
		_, dup := seen[e.ID]
		if !e.Valid() || dup {
			return compact(entries, i, seen)
		}
		seen[e.ID] = struct{}{}
	}
	return entries
}

// compact copies entries[:i] and the usable entries after i. seen holds the
// ids of entries[:i].
func compact(entries []catalog.Entry, i int, seen map[catalog.ID]struct{}) []catalog.Entry {
	out := make([]catalog.Entry, 0, len(entries))
	out = append(out, entries[:i]...)
	for _, e := range entries[i+1:] {
		if _, dup := seen[e.ID]; dup || !e.Valid() {
			continue
		}
		seen[e.ID] = struct{}{}
		out = append(out, e)
	}
	return out
}
