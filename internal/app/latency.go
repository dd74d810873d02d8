package app

import (
	"sort"
	"sync"
	"time"
)

// LatencyTracker collects search durations over a rolling window and
// reports the median and the search count. Safe for concurrent use.
type LatencyTracker struct {
	window time.Duration

	mu      sync.Mutex
	samples []latencySample
}

type latencySample struct {
	ts      time.Time
	elapsed time.Duration
}

// minLatencySamples is the number of samples needed before P50 is reported.
const minLatencySamples = 5

// NewLatencyTracker creates a tracker with the given rolling window duration.
func NewLatencyTracker(window time.Duration) *LatencyTracker {
	return &LatencyTracker{window: window}
}

// Record adds a sample at the current time.
func (r *LatencyTracker) Record(elapsed time.Duration) {
	r.RecordAt(time.Now(), elapsed)
}

// RecordAt adds a sample at a specific timestamp. Negative durations are
// dropped. Samples must be recorded in timestamp order.
func (r *LatencyTracker) RecordAt(ts time.Time, elapsed time.Duration) {
	if elapsed < 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = append(r.samples, latencySample{ts: ts, elapsed: elapsed})
	r.evict(ts)
}

// P50 returns the median duration within the window, or 0 with fewer than
// minLatencySamples samples.
func (r *LatencyTracker) P50() time.Duration {
	return r.p50At(time.Now())
}

func (r *LatencyTracker) p50At(now time.Time) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evict(now)
	if len(r.samples) < minLatencySamples {
		return 0
	}
	d := make([]time.Duration, len(r.samples))
	for i, s := range r.samples {
		d[i] = s.elapsed
	}
	sort.Slice(d, func(i, j int) bool { return d[i] < d[j] })
	return d[len(d)/2]
}

// Count returns the number of samples within the window.
func (r *LatencyTracker) Count() int {
	return r.countAt(time.Now())
}

func (r *LatencyTracker) countAt(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evict(now)
	return len(r.samples)
}

// Reset clears all samples.
func (r *LatencyTracker) Reset() {
	r.mu.Lock()
	r.samples = nil
	r.mu.Unlock()
}

// evict removes samples older than the window. Caller holds mu.
func (r *LatencyTracker) evict(now time.Time) {
	cutoff := now.Add(-r.window)
	i := 0
	for i < len(r.samples) && r.samples[i].ts.Before(cutoff) {
		i++
	}
	if i > 0 {
		r.samples = r.samples[i:]
	}
}
