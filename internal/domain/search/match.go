package search

import (
	"github.com/sahilm/fuzzy"

	"github.com/corey/acnh/internal/domain/catalog"
)

// Field names the entry field a match was found in.
type Field int

const (
	FieldName Field = iota
	FieldVariant
)

func (f Field) String() string {
	if f == FieldVariant {
		return "variant"
	}
	return "name"
}

// Match is the evidence of one query token matching one field of one entry.
type Match struct {
	Token string `json:"token"`
	// Score is the fuzzy match quality. Higher is better; the scale is the
	// matcher's and only comparable between matches from the same matcher.
	Score int `json:"score"`
	// Indexes are byte offsets into the field of the matched characters.
	Indexes []int `json:"indexes"`
}

// Evidence accumulates an entry's matches, at most one per token per field.
type Evidence struct {
	Name    []Match `json:"name"`
	Variant []Match `json:"variant"`
}

// Total is the number of token matches across both fields.
func (ev Evidence) Total() int {
	return len(ev.Name) + len(ev.Variant)
}

// BestScore is the highest score among all matches. It is only meaningful
// when Total() > 0.
func (ev Evidence) BestScore() int {
	best := 0
	first := true
	for _, ms := range [2][]Match{ev.Name, ev.Variant} {
		for _, m := range ms {
			if first || m.Score > best {
				best = m.Score
				first = false
			}
		}
	}
	return best
}

// fieldSource adapts a slice of entries to fuzzy.Source for one field.
// rows maps source positions back to entry positions so that entries without
// a variant can be left out of the variant pass.
type fieldSource struct {
	entries []catalog.Entry
	rows    []int
	field   Field
}

func newFieldSource(entries []catalog.Entry, field Field) fieldSource {
	src := fieldSource{entries: entries, field: field}
	src.rows = make([]int, 0, len(entries))
	for i, e := range entries {
		if field == FieldVariant && e.Variant == "" {
			continue
		}
		src.rows = append(src.rows, i)
	}
	return src
}

func (s fieldSource) String(i int) string {
	e := s.entries[s.rows[i]]
	if s.field == FieldVariant {
		return e.Variant
	}
	return e.Name
}

func (s fieldSource) Len() int { return len(s.rows) }

// matchField runs token against every row of src and hands each hit to emit
// with the entry position it belongs to.
func matchField(token string, src fieldSource, emit func(entry int, m Match)) {
	if src.Len() == 0 {
		return
	}
	for _, hit := range fuzzy.FindFrom(token, src) {
		idx := make([]int, len(hit.MatchedIndexes))
		copy(idx, hit.MatchedIndexes)
		emit(src.rows[hit.Index], Match{
			Token:   token,
			Score:   hit.Score,
			Indexes: idx,
		})
	}
}
