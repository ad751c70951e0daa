package cayleygo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/hupe1980/cayleygo/algebra"
)

// DefaultPrecomputeConcurrency bounds parallel table builds during a
// precompute run. Builds are CPU-bound, so a small fixed limit beats
// one-goroutine-per-signature.
const DefaultPrecomputeConcurrency = 4

// SchedulerOptions configures a precompute Scheduler.
type SchedulerOptions struct {
	// Concurrency is the maximum number of signatures processed in
	// parallel. Defaults to DefaultPrecomputeConcurrency.
	Concurrency int

	// RateLimit caps signature starts per second, smoothing CPU and
	// store load on shared hosts. Zero means no limit.
	RateLimit rate.Limit

	// Burst is the rate limiter burst size. Defaults to Concurrency.
	Burst int

	// MaxTotalBytes stops scheduling further signatures once the run has
	// stored at least this many freshly encoded bytes. Checked between
	// signatures; in-flight builds may overshoot. Zero means no budget.
	// Time budgets come from the caller's context deadline.
	MaxTotalBytes int64

	// Logger overrides the cache's logger for scheduler output.
	Logger *Logger
}

// Scheduler drives catalog precomputation against a Cache: highest
// priority first, bounded concurrency, one failure never aborting the run.
type Scheduler struct {
	cache         *Cache
	concurrency   int
	limiter       *rate.Limiter
	maxTotalBytes int64
	logger        *Logger
}

// NewScheduler creates a Scheduler for the given cache.
func NewScheduler(cache *Cache, optFns ...func(*SchedulerOptions)) *Scheduler {
	opts := SchedulerOptions{
		Concurrency: DefaultPrecomputeConcurrency,
		Logger:      cache.logger,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = opts.Concurrency
		}
		limiter = rate.NewLimiter(opts.RateLimit, burst)
	}

	return &Scheduler{
		cache:         cache,
		concurrency:   opts.Concurrency,
		limiter:       limiter,
		maxTotalBytes: opts.MaxTotalBytes,
		logger:        opts.Logger,
	}
}

// SignatureError ties a precompute failure to the signature it occurred on.
type SignatureError struct {
	Signature algebra.Signature
	Err       error
}

func (e *SignatureError) Error() string {
	return fmt.Sprintf("%s: %v", e.Signature, e.Err)
}

func (e *SignatureError) Unwrap() error { return e.Err }

// PrecomputeReport summarizes one precompute run.
type PrecomputeReport struct {
	TotalSignatures int
	Computed        int
	AlreadyPresent  int

	// Failed counts signatures that produced no table. Persisted-but-
	// degraded outcomes count as Computed and surface in Errors only.
	Failed int

	// Skipped counts catalog entries never attempted because the run was
	// canceled or the byte budget was exhausted.
	Skipped int

	Errors []*SignatureError

	// TotalBytes is the encoded size of freshly computed tables.
	TotalBytes int64

	Elapsed time.Duration
}

// Run precomputes every catalog entry, highest priority first. Signatures
// already cached are verified and skipped. Per-signature failures are
// collected in the report; Run itself only returns an error when the
// context is canceled, and the partial report is still returned alongside.
func (s *Scheduler) Run(ctx context.Context, catalog []PrecomputeSignature) (*PrecomputeReport, error) {
	start := time.Now()
	ordered := orderCatalog(catalog)
	report := &PrecomputeReport{TotalSignatures: len(ordered)}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	scheduled := 0
	for _, entry := range ordered {
		if err := ctx.Err(); err != nil {
			break
		}
		if s.maxTotalBytes > 0 {
			mu.Lock()
			over := report.TotalBytes >= s.maxTotalBytes
			mu.Unlock()
			if over {
				break
			}
		}
		scheduled++
		sig := entry.Signature

		g.Go(func() error {
			if s.limiter != nil {
				if err := s.limiter.Wait(gctx); err != nil {
					return err
				}
			}

			_, res, err := s.cache.getOrCompute(gctx, sig, false)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed++
				report.Errors = append(report.Errors, &SignatureError{Signature: sig, Err: err})
				return nil
			}
			if res.source == LookupSourceComputed {
				report.Computed++
				report.TotalBytes += int64(res.sizeBytes)
				if res.warn != nil {
					report.Errors = append(report.Errors, &SignatureError{
						Signature: sig,
						Err:       fmt.Errorf("%w: %w", ErrStorageUnavailable, res.warn),
					})
				}
			} else {
				report.AlreadyPresent++
			}
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	report.Skipped = report.TotalSignatures - scheduled
	report.Elapsed = time.Since(start)
	s.cache.metrics.RecordPrecompute(report.Computed, report.AlreadyPresent, report.Failed, report.Elapsed)
	s.logger.LogPrecompute(ctx, report)

	return report, err
}

// Precompute runs a default Scheduler over the catalog. Pass nil to use the
// cache's configured catalog.
func (c *Cache) Precompute(ctx context.Context, catalog []PrecomputeSignature) (*PrecomputeReport, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	if catalog == nil {
		catalog = c.catalog
	}
	return NewScheduler(c).Run(ctx, catalog)
}
