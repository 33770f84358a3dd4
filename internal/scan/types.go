package scan

import (
	"github.com/tdh8316/gitlabenum/internal/probe"
)

type Config struct {
	Threads int
	// Rate caps requests per second across all workers. Zero disables it.
	Rate float64
}

// Observer receives progress events from the dispatcher. Methods are called
// from worker goroutines and must be safe for concurrent use.
type Observer interface {
	// Attempt is called after a candidate is dequeued and before it is probed.
	Attempt(index, total int, candidate string)
	// Found is called with every confirmed candidate so far. Calls may
	// arrive out of order; a longer list is always the newer one.
	Found(found []string)
	Error(res probe.Result)
	// Done is called once after every worker returned.
	Done()
}

type NopObserver struct{}

func (NopObserver) Attempt(int, int, string) {}
func (NopObserver) Found([]string)           {}
func (NopObserver) Error(probe.Result)       {}
func (NopObserver) Done()                    {}

type Summary struct {
	Total     int
	Attempted int
	NotFound  int
	Errors    int
	Skipped   int
	Found     []string
}
