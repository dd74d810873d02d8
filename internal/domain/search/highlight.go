package search

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Default highlight markers, matching the catalog web front end's stylesheet.
const (
	DefaultHighlightOpen  = `<span class="searchResult-highlight">`
	DefaultHighlightClose = `</span>`
)

// Span is a run of field text that is either matched or literal.
type Span struct {
	Text    string `json:"text"`
	Matched bool   `json:"matched"`
}

// Spans is a field split into literal and matched runs.
type Spans []Span

// Markup renders the spans, wrapping each matched run in openTag/closeTag.
func (sp Spans) Markup(openTag, closeTag string) string {
	var b strings.Builder
	for _, s := range sp {
		if s.Matched {
			b.WriteString(openTag)
			b.WriteString(s.Text)
			b.WriteString(closeTag)
			continue
		}
		b.WriteString(s.Text)
	}
	return b.String()
}

// Plain returns the text without markers.
func (sp Spans) Plain() string {
	return sp.Markup("", "")
}

// highlight splits text using the union of the matches' indexes. Contiguous
// matched characters collapse into a single span. Offsets that do not fall on
// a rune boundary or lie outside text are ignored.
func highlight(text string, matches []Match) Spans {
	marked := make(map[int]bool)
	for _, m := range matches {
		for _, i := range m.Indexes {
			if i >= 0 && i < len(text) && utf8.RuneStart(text[i]) {
				marked[i] = true
			}
		}
	}
	if len(marked) == 0 {
		return Spans{{Text: text}}
	}

	offsets := make([]int, 0, len(marked))
	for i := range marked {
		offsets = append(offsets, i)
	}
	sort.Ints(offsets)

	var spans Spans
	var cur strings.Builder
	curMatched := false
	flush := func() {
		if cur.Len() > 0 {
			spans = append(spans, Span{Text: cur.String(), Matched: curMatched})
			cur.Reset()
		}
	}
	for i, r := range text {
		m := marked[i]
		if m != curMatched {
			flush()
			curMatched = m
		}
		cur.WriteRune(r)
	}
	flush()
	return spans
}
