package app

import (
	"sync"
	"time"

	"github.com/corey/acnh/internal/domain/catalog"
	"github.com/corey/acnh/internal/domain/search"
)

// SearchFunc runs one query.
type SearchFunc func(query string, filters catalog.CategorySet) []search.Result

// Delivery is one completed live search.
type Delivery struct {
	Seq     uint64
	Query   string
	Results []search.Result
}

// LiveSearch debounces a stream of queries (one per keystroke, typically)
// and delivers results only for the most recent submission. A run that
// finishes after a newer Submit is dropped, so a slow early query can never
// overwrite the results of a later one.
type LiveSearch struct {
	run      SearchFunc
	deliver  func(Delivery)
	debounce time.Duration
	seq      search.Sequence

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// NewLiveSearch creates a live search. debounce <= 0 runs each query
// immediately on its own goroutine. deliver is called with the live search
// locked and must not call Submit or Stop.
func NewLiveSearch(run SearchFunc, debounce time.Duration, deliver func(Delivery)) *LiveSearch {
	return &LiveSearch{
		run:      run,
		deliver:  deliver,
		debounce: debounce,
	}
}

// Submit schedules query and returns its sequence id. Any pending,
// not-yet-started query is cancelled.
func (l *LiveSearch) Submit(query string, filters catalog.CategorySet) uint64 {
	filters = filters.Clone()

	l.mu.Lock()
	defer l.mu.Unlock()
	// The id is taken under the lock so the newest id always arms the last timer.
	id := l.seq.Next()
	if l.stopped {
		return id
	}
	if l.timer != nil {
		l.timer.Stop()
	}
	l.timer = time.AfterFunc(l.debounce, func() { l.execute(id, query, filters) })
	return id
}

func (l *LiveSearch) execute(id uint64, query string, filters catalog.CategorySet) {
	if !l.seq.IsLatest(id) {
		return
	}
	results := l.run(query, filters)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped || !l.seq.IsLatest(id) {
		return
	}
	l.deliver(Delivery{Seq: id, Query: query, Results: results})
}

// Latest returns the id of the most recent submission.
func (l *LiveSearch) Latest() uint64 {
	return l.seq.Current()
}

// Stop cancels any pending query and suppresses further deliveries.
func (l *LiveSearch) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stopped = true
	if l.timer != nil {
		l.timer.Stop()
	}
}
