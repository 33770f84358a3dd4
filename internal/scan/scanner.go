package scan

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/tdh8316/gitlabenum/internal/probe"
	"github.com/tdh8316/gitlabenum/internal/queue"
	"github.com/tdh8316/gitlabenum/internal/results"
)

const DefaultThreads = 10

// Prober is satisfied by *probe.Prober.
type Prober interface {
	Probe(ctx context.Context, candidate string) probe.Result
}

// Dispatcher runs a fixed pool of workers over a queue of candidates.
type Dispatcher struct {
	prober   Prober
	cfg      Config
	observer Observer
	limiter  *rate.Limiter
	log      logrus.FieldLogger
}

func NewDispatcher(p Prober, cfg Config, obs Observer, log logrus.FieldLogger) *Dispatcher {
	if cfg.Threads <= 0 {
		cfg.Threads = DefaultThreads
	}
	if obs == nil {
		obs = NopObserver{}
	}
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}

	d := &Dispatcher{
		prober:   p,
		cfg:      cfg,
		observer: obs,
		log:      log,
	}
	if cfg.Rate > 0 {
		d.limiter = rate.NewLimiter(rate.Limit(cfg.Rate), 1)
	}
	return d
}

// Run probes every candidate exactly once and returns after all workers
// have exited. It never stops early; ctx is only handed to requests.
func (d *Dispatcher) Run(ctx context.Context, candidates []string) Summary {
	q := queue.New(candidates)
	agg := results.New(d.observer.Found)

	var attempted, notFound, errs, skipped atomic.Int64

	d.log.WithFields(logrus.Fields{
		"total":   q.Total(),
		"threads": d.cfg.Threads,
	}).Debug("starting workers")

	var wg sync.WaitGroup
	wg.Add(d.cfg.Threads)
	for id := range d.cfg.Threads {
		go func() {
			defer wg.Done()
			for {
				candidate, remaining, ok := q.Pop()
				if !ok {
					d.log.WithField("worker", id).Debug("queue empty, worker exiting")
					return
				}
				attempted.Add(1)
				d.observer.Attempt(q.Total()-remaining+1, q.Total(), candidate)

				if d.limiter != nil {
					// Wait only fails once ctx is done; the probe then reports it.
					_ = d.limiter.Wait(ctx)
				}

				res := d.prober.Probe(ctx, candidate)
				switch res.Outcome {
				case probe.Exists:
					agg.Record(candidate)
				case probe.Failed:
					errs.Add(1)
					d.observer.Error(res)
				default:
					notFound.Add(1)
					if res.Skipped {
						skipped.Add(1)
					}
				}
			}
		}()
	}
	wg.Wait()
	d.observer.Done()

	return Summary{
		Total:     q.Total(),
		Attempted: int(attempted.Load()),
		NotFound:  int(notFound.Load()),
		Errors:    int(errs.Load()),
		Skipped:   int(skipped.Load()),
		Found:     agg.Snapshot(),
	}
}
