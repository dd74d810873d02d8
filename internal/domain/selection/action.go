package selection

import "github.com/corey/acnh/internal/domain/catalog"

// Action is a state transition request. The set of actions is closed: only
// the types in this file implement it.
type Action interface {
	// Kind is a stable name for logs and metrics.
	Kind() string
	// Persistent reports whether the action changes persisted fields and
	// therefore requires a flush.
	Persistent() bool

	action()
}

// Initialize installs loaded state. It is dispatched once, after Load.
type Initialize struct {
	Loaded State
}

// AddToWishlist marks an item as wanted. No-op if the item is already owned.
type AddToWishlist struct{ ID catalog.ID }

// RemoveFromWishlist drops an item from the wishlist.
type RemoveFromWishlist struct{ ID catalog.ID }

// AddToCatalog marks an item as owned, resolving any wish for it.
type AddToCatalog struct{ ID catalog.ID }

// RemoveFromCatalog drops an item from the owned set.
type RemoveFromCatalog struct{ ID catalog.ID }

// ResetWishlist empties the wishlist.
type ResetWishlist struct{}

// ResetCatalog empties the owned set.
type ResetCatalog struct{}

// SetQuery replaces the current search text.
type SetQuery struct{ Text string }

// ClearQuery clears the current search text.
type ClearQuery struct{}

// ToggleFilter adds category to the active filters, or removes it if present.
type ToggleFilter struct{ Category string }

func (Initialize) Kind() string         { return "initialize" }
func (AddToWishlist) Kind() string      { return "add_to_wishlist" }
func (RemoveFromWishlist) Kind() string { return "remove_from_wishlist" }
func (AddToCatalog) Kind() string       { return "add_to_catalog" }
func (RemoveFromCatalog) Kind() string  { return "remove_from_catalog" }
func (ResetWishlist) Kind() string      { return "reset_wishlist" }
func (ResetCatalog) Kind() string       { return "reset_catalog" }
func (SetQuery) Kind() string           { return "set_query" }
func (ClearQuery) Kind() string         { return "clear_query" }
func (ToggleFilter) Kind() string       { return "toggle_filter" }

func (Initialize) Persistent() bool         { return false }
func (AddToWishlist) Persistent() bool      { return true }
func (RemoveFromWishlist) Persistent() bool { return true }
func (AddToCatalog) Persistent() bool       { return true }
func (RemoveFromCatalog) Persistent() bool  { return true }
func (ResetWishlist) Persistent() bool      { return true }
func (ResetCatalog) Persistent() bool       { return true }
func (SetQuery) Persistent() bool           { return false }
func (ClearQuery) Persistent() bool         { return false }
func (ToggleFilter) Persistent() bool       { return false }

func (Initialize) action()         {}
func (AddToWishlist) action()      {}
func (RemoveFromWishlist) action() {}
func (AddToCatalog) action()       {}
func (RemoveFromCatalog) action()  {}
func (ResetWishlist) action()      {}
func (ResetCatalog) action()       {}
func (SetQuery) action()           {}
func (ClearQuery) action()         {}
func (ToggleFilter) action()       {}
