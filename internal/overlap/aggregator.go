package overlap

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/copair/internal/ir"
)

// DefaultParallelThreshold is the row count at which a multi-worker
// aggregator switches to the chunked scan.
const DefaultParallelThreshold = 2000

// Aggregator computes pairwise overlap totals over a row set.
//
// An Aggregator holds configuration only. Every call builds a fresh result,
// so one Aggregator may be shared between goroutines.
type Aggregator struct {
	clock             Clock
	logger            *slog.Logger
	workers           int
	parallelThreshold int
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithClock sets the clock that supplies the reference instant for Compute.
func WithClock(c Clock) Option {
	return func(a *Aggregator) { a.clock = c }
}

// WithLogger sets the logger for debug tracing. Logging never affects results.
func WithLogger(l *slog.Logger) Option {
	return func(a *Aggregator) { a.logger = l }
}

// WithWorkers sets how many goroutines the chunked scan may use.
// Values below 2 keep the scan sequential.
func WithWorkers(n int) Option {
	return func(a *Aggregator) { a.workers = n }
}

// WithParallelThreshold sets the minimum row count for the chunked scan.
func WithParallelThreshold(n int) Option {
	return func(a *Aggregator) { a.parallelThreshold = n }
}

// New creates an Aggregator. Defaults: system clock, discarded logs,
// sequential scan.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{
		clock:             SystemClock{},
		logger:            slog.New(slog.NewTextHandler(io.Discard, nil)),
		workers:           1,
		parallelThreshold: DefaultParallelThreshold,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Compute aggregates rows using the aggregator's clock for open bounds.
// The clock is read once per call.
func (a *Aggregator) Compute(rows []ir.Row) *ir.Result {
	return a.ComputeAt(rows, a.clock.Now())
}

// ComputeAt aggregates rows, resolving open bounds to ref.
//
// Every pair of rows i1 < i2 is examined. Pairs of the same employee or of
// different projects are skipped; the remaining overlaps are summed per
// canonical (low, high, project) key. The returned result is owned by the caller.
func (a *Aggregator) ComputeAt(rows []ir.Row, ref time.Time) *ir.Result {
	spans := resolveRows(rows, ref)
	acc := newAccumulator()

	if a.workers > 1 && len(spans) >= a.parallelThreshold {
		chunks := scanParallel(spans, a.workers)
		for i, chunk := range chunks {
			a.logger.Debug("folding chunk", "chunk", i, "contributions", len(chunk))
			for _, c := range chunk {
				acc.add(c)
			}
		}
	} else {
		scan(spans, 0, len(spans), acc.add)
	}

	res := acc.result(ref)
	if a.logger.Enabled(context.Background(), slog.LevelDebug) {
		attrs := []any{"rows", len(rows), "pairs", len(res.Pairs)}
		if res.Top != nil {
			attrs = append(attrs, "top", res.Top.Key().String(), "top_days", res.Top.TotalDays)
		}
		a.logger.Debug("overlap computed", attrs...)
	}
	return res
}

// Compute aggregates rows with a default Aggregator, resolving open bounds to ref.
func Compute(rows []ir.Row, ref time.Time) *ir.Result {
	return New().ComputeAt(rows, ref)
}
