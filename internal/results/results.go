// Package results collects confirmed candidates in discovery order.
package results

import "sync"

// Aggregator is safe for concurrent use. Entries are kept in the order
// Record was called, which across workers is completion order.
type Aggregator struct {
	mu    sync.Mutex
	found []string

	// OnRecord, if set, receives every confirmed candidate so far after
	// each Record. It runs outside the lock and may be called concurrently,
	// so snapshots can arrive out of order; len(found) orders them.
	OnRecord func(found []string)
}

func New(onRecord func(found []string)) *Aggregator {
	return &Aggregator{OnRecord: onRecord}
}

func (a *Aggregator) Record(candidate string) {
	a.mu.Lock()
	a.found = append(a.found, candidate)
	snap := a.copyLocked()
	a.mu.Unlock()

	if a.OnRecord != nil {
		a.OnRecord(snap)
	}
}

// Snapshot returns a copy of the confirmed candidates.
func (a *Aggregator) Snapshot() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.copyLocked()
}

func (a *Aggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.found)
}

func (a *Aggregator) copyLocked() []string {
	out := make([]string, len(a.found))
	copy(out, a.found)
	return out
}
