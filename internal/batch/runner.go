package batch

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/jpalmerr/langprobe/internal/probe"
)

// ProbeFunc classifies a single item.
//
// The runner treats the probe as opaque: it must always return a
// [probe.Result], folding transport failures into the classification
// rather than erroring. [probe.Prober.Check] satisfies this signature.
type ProbeFunc func(ctx context.Context, item probe.Item) probe.Result

// Summary holds the counts of a completed batch.
//
// Summary is computed only after the completion barrier, from the frozen
// partitions, so Supported + Unsupported == Total always holds.
type Summary struct {
	// Total is the number of items that produced a recorded result.
	Total int

	// Supported is the number of items classified as supported.
	Supported int

	// Unsupported is the number of items classified as unsupported,
	// including transport failures.
	Unsupported int
}

// Runner drives a single batch to completion.
//
// For each item the runner acquires an execution slot, spawns a worker
// goroutine that probes and records, and releases the slot when the worker
// is done. At most MaxConcurrency workers execute at once. The run returns
// only after every spawned worker has joined.
//
// A Runner is single-use: construct one per batch.
type Runner struct {
	probe          ProbeFunc
	collector      *Collector
	sem            *semaphore.Weighted
	maxConcurrency int
	limiter        *rate.Limiter
	logger         *slog.Logger
}

// NewRunner creates a [Runner].
//
// Parameters:
//   - probeFn: The probe invoked once per item
//   - collector: Destination for every result
//   - maxConcurrency: Ceiling on concurrently executing probes (must be >= 1)
//   - limiter: Optional dispatch pacing; nil means unpaced
//   - logger: Logger for batch lifecycle and worker panics
//
// A maxConcurrency below 1 is a configuration error and is rejected here,
// before any dispatch can happen.
func NewRunner(probeFn ProbeFunc, collector *Collector, maxConcurrency int, limiter *rate.Limiter, logger *slog.Logger) (*Runner, error) {
	if maxConcurrency < 1 {
		return nil, fmt.Errorf("max concurrency must be at least 1, got %d", maxConcurrency)
	}
	return &Runner{
		probe:          probeFn,
		collector:      collector,
		sem:            semaphore.NewWeighted(int64(maxConcurrency)),
		maxConcurrency: maxConcurrency,
		limiter:        limiter,
		logger:         logger,
	}, nil
}

// Run dispatches every item and blocks until all workers have finished.
//
// Dispatch is sequential: for each item Run waits for a free slot, then
// spawns a worker that probes, records, and releases the slot, in that
// order. The worker releases its slot only after its result is recorded,
// so a free slot always means a durably recorded result.
//
// Once all items are dispatched Run drains: it blocks on a join barrier
// over the spawned workers. The barrier is independent of the slot
// bookkeeping. Individual probe failures never abort the run.
//
// Run returns a non-nil error only when ctx is cancelled mid-dispatch; the
// summary then covers the workers that were already in flight, all of
// which are still waited for before Run returns.
func (r *Runner) Run(ctx context.Context, items []probe.Item) (Summary, error) {
	runID := uuid.NewString()
	r.logger.Info("batch started",
		"run_id", runID,
		"items", len(items),
		"max_concurrency", r.maxConcurrency,
	)

	var wg sync.WaitGroup
	var dispatchErr error

	for _, item := range items {
		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				dispatchErr = fmt.Errorf("dispatch interrupted: %w", err)
				break
			}
		}

		// blocks while maxConcurrency workers are in flight
		if err := r.sem.Acquire(ctx, 1); err != nil {
			dispatchErr = fmt.Errorf("dispatch interrupted: %w", err)
			break
		}

		wg.Add(1)
		go func(item probe.Item) {
			defer wg.Done()
			defer r.sem.Release(1) // runs before wg.Done: the slot frees only after record
			r.runOne(ctx, item)
		}(item)
	}

	// completion barrier: every spawned worker has recorded and released
	wg.Wait()

	supported, unsupported := r.collector.Counts()
	summary := Summary{
		Total:       supported + unsupported,
		Supported:   supported,
		Unsupported: unsupported,
	}

	r.logger.Info("batch complete",
		"run_id", runID,
		"total", summary.Total,
		"supported", summary.Supported,
		"unsupported", summary.Unsupported,
	)

	return summary, dispatchErr
}

// runOne probes a single item and records the outcome.
//
// A panic in the probe is recovered here and recorded as an unsupported
// result, so the conservation invariant (one recorded line per dispatched
// item) holds even for a misbehaving probe. The full stack trace is logged
// with a correlation ID.
func (r *Runner) runOne(ctx context.Context, item probe.Item) {
	defer func() {
		if rec := recover(); rec != nil {
			correlationID := uuid.NewString()
			stack := debug.Stack()

			r.logger.Error("probe panic",
				"correlation_id", correlationID,
				"item", item.ID,
				"panic", fmt.Sprintf("%v", rec),
				"stack", string(stack),
			)

			r.collector.Record(probe.Result{
				Item:           item,
				Classification: probe.Unsupported,
				Err:            fmt.Errorf("probe panic (correlation_id: %s)", correlationID),
			})
		}
	}()

	result := r.probe(ctx, item)
	r.collector.Record(result)
}
