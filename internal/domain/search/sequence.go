package search

import "sync/atomic"

// Sequence hands out monotonically increasing call ids. A caller that runs
// searches asynchronously tags each call with Next and drops any result whose
// id is no longer the latest when it completes.
type Sequence struct {
	n atomic.Uint64
}

// Next returns a new call id, superseding all earlier ones.
func (s *Sequence) Next() uint64 {
	return s.n.Add(1)
}

// IsLatest reports whether id is the most recently issued call id.
func (s *Sequence) IsLatest(id uint64) bool {
	return s.n.Load() == id
}

// Current returns the most recently issued call id, or 0 if none.
func (s *Sequence) Current() uint64 {
	return s.n.Load()
}
