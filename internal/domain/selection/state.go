// Package selection holds the user's persisted item selections: the set of
// owned items ("catalog") and the set of wanted items ("wishlist"), plus the
// session-local search query and category filters.
//
// State changes only through Reduce. Load and Save move the persistent part
// of State to and from a ports.KVStore, migrating older schemas on the way in.
package selection

import (
	"sort"

	"github.com/corey/acnh/internal/domain/catalog"
)

// IDSet is a set of catalog ids. Methods that change membership return a new
// set and leave the receiver untouched.
type IDSet map[catalog.ID]struct{}

// NewIDSet builds a set from ids.
func NewIDSet(ids ...catalog.ID) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s IDSet) Has(id catalog.ID) bool {
	_, ok := s[id]
	return ok
}

// Clone returns an independent copy (never nil).
func (s IDSet) Clone() IDSet {
	out := make(IDSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// With returns a copy of s that contains id.
func (s IDSet) With(id catalog.ID) IDSet {
	if s.Has(id) {
		return s
	}
	out := s.Clone()
	out[id] = struct{}{}
	return out
}

// Without returns a copy of s that does not contain id.
func (s IDSet) Without(id catalog.ID) IDSet {
	if !s.Has(id) {
		return s
	}
	out := s.Clone()
	delete(out, id)
	return out
}

// Sorted returns the ids in lexical order.
func (s IDSet) Sorted() []catalog.ID {
	out := make([]catalog.ID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// State is the selection state of one user.
//
// Catalog and Wishlist are disjoint and persisted. Query, Filters,
// Initialized, Dirty and MigratedFrom are session-local.
type State struct {
	Version  string
	Catalog  IDSet
	Wishlist IDSet

	Query   string
	Filters catalog.CategorySet

	// Initialized is false until the persisted state has been loaded (or
	// the load has failed and been reported). Mutations before that point
	// would overwrite data that has not been read yet.
	Initialized bool

	// Dirty is set by every action that changes persisted fields and
	// cleared by the owner once the state has been flushed.
	Dirty bool

	// MigratedFrom is the schema version the state was loaded from, when
	// that differs from CurrentVersion.
	MigratedFrom string
}

// Empty returns a fresh, uninitialized state.
func Empty() State {
	return State{
		Version:  CurrentVersion,
		Catalog:  IDSet{},
		Wishlist: IDSet{},
		Filters:  catalog.CategorySet{},
	}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := s
	out.Catalog = s.Catalog.Clone()
	out.Wishlist = s.Wishlist.Clone()
	out.Filters = s.Filters.Clone()
	return out
}
