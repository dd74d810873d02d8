package selection

import (
	"errors"
	"fmt"

	"github.com/corey/acnh/internal/domain/catalog"
)

var (
	// ErrNilAction is returned by Reduce for a nil action.
	ErrNilAction = errors.New("nil action")
	// ErrUnknownAction is returned by Reduce for an action type it does not handle.
	ErrUnknownAction = errors.New("unknown action")
)

// Reduce applies a to s and returns the next state. s is never modified.
// Persistent actions always mark the result Dirty, including ones that turn
// out to be no-ops, so the owner's flush policy stays a function of the
// action alone.
func Reduce(s State, a Action) (State, error) {
	if a == nil {
		return s, ErrNilAction
	}

	next := s
	switch a := a.(type) {
	case Initialize:
		next.Version = CurrentVersion
		next.Catalog = a.Loaded.Catalog.Clone()
		next.Wishlist = a.Loaded.Wishlist.Clone()
		next.MigratedFrom = a.Loaded.MigratedFrom
		next.Initialized = true
		next.Dirty = false

	case AddToWishlist:
		if a.ID == "" {
			return s, catalog.ErrInvalidID
		}
		if !s.Catalog.Has(a.ID) {
			next.Wishlist = s.Wishlist.With(a.ID)
		}

	case RemoveFromWishlist:
		next.Wishlist = s.Wishlist.Without(a.ID)

	case AddToCatalog:
		if a.ID == "" {
			return s, catalog.ErrInvalidID
		}
		next.Wishlist = s.Wishlist.Without(a.ID)
		next.Catalog = s.Catalog.With(a.ID)

	case RemoveFromCatalog:
		next.Catalog = s.Catalog.Without(a.ID)

	case ResetWishlist:
		next.Wishlist = IDSet{}

	case ResetCatalog:
		next.Catalog = IDSet{}

	case SetQuery:
		next.Query = a.Text

	case ClearQuery:
		next.Query = ""

	case ToggleFilter:
		next.Filters = s.Filters.Toggle(a.Category)

	default:
		return s, fmt.Errorf("%w: %T", ErrUnknownAction, a)
	}

	if a.Persistent() {
		next.Dirty = true
	}
	return next, nil
}
