package catalog

import "sort"

// CategorySet is a set of category filters. The empty set means
// "no restriction".
type CategorySet map[string]struct{}

// NewCategorySet builds a set from category names. Empty names are ignored.
func NewCategorySet(categories ...string) CategorySet {
	s := make(CategorySet, len(categories))
	for _, c := range categories {
		if c != "" {
			s[c] = struct{}{}
		}
	}
	return s
}

// Has reports whether category is in the set.
func (s CategorySet) Has(category string) bool {
	_, ok := s[category]
	return ok
}

// Allows reports whether e passes the filter.
func (s CategorySet) Allows(e Entry) bool {
	return len(s) == 0 || s.Has(e.Category)
}

// Toggle returns a copy of s with category added if absent or removed if present.
func (s CategorySet) Toggle(category string) CategorySet {
	out := s.Clone()
	if out.Has(category) {
		delete(out, category)
	} else {
		out[category] = struct{}{}
	}
	return out
}

// Clone returns an independent copy (never nil).
func (s CategorySet) Clone() CategorySet {
	out := make(CategorySet, len(s))
	for c := range s {
		out[c] = struct{}{}
	}
	return out
}

// Sorted returns the categories in lexical order.
func (s CategorySet) Sorted() []string {
	out := make([]string, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Filter returns the entries allowed by s. With an empty set the input slice
// is returned as is.
func (s CategorySet) Filter(entries []Entry) []Entry {
	if len(s) == 0 {
		return entries
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if s.Has(e.Category) {
			out = append(out, e)
		}
	}
	return out
}
