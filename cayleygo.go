package cayleygo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/hupe1980/cayleygo/algebra"
	"github.com/hupe1980/cayleygo/table"
	"github.com/hupe1980/cayleygo/tablecodec"
	"github.com/hupe1980/cayleygo/tablestore"
)

// LookupSource tells where GetOrCompute found a table.
type LookupSource int

const (
	// LookupSourceMemory: served from the in-process cache.
	LookupSourceMemory LookupSource = iota
	// LookupSourceStore: loaded and verified from the durable store.
	LookupSourceStore
	// LookupSourceComputed: freshly built.
	LookupSourceComputed
)

// String implements fmt.Stringer.
func (s LookupSource) String() string {
	switch s {
	case LookupSourceMemory:
		return "memory"
	case LookupSourceStore:
		return "store"
	case LookupSourceComputed:
		return "computed"
	default:
		return "unknown"
	}
}

// memEntry is one resident table plus the encoded bytes its checksum covers.
// The encoded form is retained so memory hits can be re-verified the same
// way store loads are.
type memEntry struct {
	table         *table.CayleyTable
	encoded       []byte
	checksum      string
	persisted     bool
	computationMS float64
}

// Cache computes Cayley tables on demand and keeps them in memory and in a
// durable store. Safe for concurrent use; concurrent requests for the same
// signature share a single computation.
type Cache struct {
	store        tablestore.Store
	maxDimension int
	compression  tablecodec.Compression
	catalog      []PrecomputeSignature
	metrics      MetricsCollector
	logger       *Logger

	group   singleflight.Group
	mu      sync.RWMutex
	entries map[string]*memEntry

	usage  *usageTracker
	closed atomic.Bool
}

// New creates a Cache. Without options it uses an in-memory store, the full
// dimension limit, Zstd compression and the default catalog.
func New(optFns ...Option) (*Cache, error) {
	o := applyOptions(optFns)

	return &Cache{
		store:        o.store,
		maxDimension: o.maxDimension,
		compression:  o.compression,
		catalog:      o.catalog,
		metrics:      o.metricsCollector,
		logger:       o.logger,
		entries:      make(map[string]*memEntry),
		usage:        newUsageTracker(),
	}, nil
}

// GetOrCompute returns the Cayley table for a signature, computing and
// persisting it on a miss. Lookup order: in-memory cache, durable store,
// fresh computation. Every load path verifies the table's SHA-256 checksum;
// corrupt data is discarded and recomputed.
//
// forceRecompute skips both caches and rebuilds; a forced call that loses
// the single-flight race to an in-progress build shares that build's result.
//
// If computation succeeds but the store cannot be read or written, the
// table is still returned together with an error wrapping
// ErrStorageUnavailable.
func (c *Cache) GetOrCompute(ctx context.Context, sig algebra.Signature, forceRecompute bool) (*table.CayleyTable, error) {
	start := time.Now()

	tbl, res, err := c.getOrCompute(ctx, sig, forceRecompute)
	duration := time.Since(start)

	c.metrics.RecordLookup(res.source, duration, err)
	if err != nil {
		return nil, err
	}

	c.logger.LogLookup(ctx, sig, res.source, duration)
	if res.warn != nil {
		return tbl, fmt.Errorf("%w: %w", ErrStorageUnavailable, res.warn)
	}
	return tbl, nil
}

// lookupResult carries where a table came from and, for fresh builds, the
// encoded size and any non-fatal storage failure.
type lookupResult struct {
	source    LookupSource
	sizeBytes int
	warn      error
}

func (c *Cache) getOrCompute(ctx context.Context, sig algebra.Signature, force bool) (*table.CayleyTable, lookupResult, error) {
	if c.closed.Load() {
		return nil, lookupResult{}, ErrClosed
	}
	if err := sig.Validate(c.maxDimension); err != nil {
		return nil, lookupResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return nil, lookupResult{}, err
	}

	if !force {
		if tbl, e, ok := c.memoryLookup(ctx, sig); ok {
			c.usage.RecordHit(sig, e.computationMS)
			return tbl, lookupResult{source: LookupSourceMemory, sizeBytes: len(e.encoded)}, nil
		}
	}

	type flight struct {
		table *table.CayleyTable
		res   lookupResult
	}
	v, err, _ := c.group.Do(sig.Key(), func() (any, error) {
		tbl, res, err := c.loadOrCompute(ctx, sig, force)
		if err != nil {
			return nil, err
		}
		return &flight{table: tbl, res: res}, nil
	})
	if err != nil {
		return nil, lookupResult{source: LookupSourceComputed}, err
	}

	f := v.(*flight)
	return f.table, f.res, nil
}

// memoryLookup returns the resident entry for a signature after verifying
// its checksum. Corrupt entries are evicted and reported as a miss.
func (c *Cache) memoryLookup(ctx context.Context, sig algebra.Signature) (*table.CayleyTable, *memEntry, bool) {
	key := sig.Key()

	c.mu.RLock()
	e := c.entries[key]
	c.mu.RUnlock()
	if e == nil {
		return nil, nil, false
	}

	if err := tablecodec.VerifyChecksum(e.encoded, e.checksum); err != nil {
		c.logger.LogCorruption(ctx, sig, err)
		c.metrics.RecordCorruption(sig)

		c.mu.Lock()
		if c.entries[key] == e {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, nil, false
	}

	return e.table, e, true
}

// loadOrCompute runs inside the single-flight group: check memory again
// (a queued caller may arrive after the winner populated it), then the
// durable store, then compute.
func (c *Cache) loadOrCompute(ctx context.Context, sig algebra.Signature, force bool) (*table.CayleyTable, lookupResult, error) {
	var warn error

	if !force {
		if tbl, e, ok := c.memoryLookup(ctx, sig); ok {
			c.usage.RecordHit(sig, e.computationMS)
			return tbl, lookupResult{source: LookupSourceMemory, sizeBytes: len(e.encoded)}, nil
		}

		rec, err := c.store.Get(ctx, sig)
		switch {
		case err == nil:
			tbl, aerr := c.adoptRecord(ctx, sig, rec)
			if aerr == nil {
				c.usage.RecordHit(sig, rec.ComputationTimeMS)
				return tbl, lookupResult{source: LookupSourceStore, sizeBytes: len(rec.TableData)}, nil
			}
			// Corrupt on disk: recompute below. The fresh table will
			// overwrite the bad record.
		case errors.Is(err, tablestore.ErrNotFound):
			// compute below
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil, lookupResult{}, err
		default:
			warn = err
		}
	}

	tbl, res, err := c.compute(ctx, sig)
	if err != nil {
		return nil, res, err
	}
	res.warn = errors.Join(warn, res.warn)
	return tbl, res, nil
}

// adoptRecord verifies a stored record, decodes it and installs it in the
// in-memory cache. Returns ErrCorruptData (logged and counted) on failure.
func (c *Cache) adoptRecord(ctx context.Context, sig algebra.Signature, rec *tablestore.Record) (*table.CayleyTable, error) {
	fail := func(err error) (*table.CayleyTable, error) {
		c.logger.LogCorruption(ctx, sig, err)
		c.metrics.RecordCorruption(sig)
		return nil, err
	}

	if err := tablecodec.VerifyChecksum(rec.TableData, rec.Checksum); err != nil {
		return fail(err)
	}

	tbl, err := tablecodec.Decode(rec.TableData)
	if err != nil {
		return fail(err)
	}
	if tbl.Signature != sig {
		return fail(&tablecodec.ErrCorruptData{
			Reason: fmt.Sprintf("record for %s holds table for %s", sig, tbl.Signature),
		})
	}

	tbl.ComputedAt = rec.ComputedAt
	tbl.ComputationTime = time.Duration(rec.ComputationTimeMS * float64(time.Millisecond))

	c.mu.Lock()
	c.entries[sig.Key()] = &memEntry{
		table:         tbl,
		encoded:       rec.TableData,
		checksum:      rec.Checksum,
		persisted:     true,
		computationMS: rec.ComputationTimeMS,
	}
	c.mu.Unlock()

	return tbl, nil
}

// compute builds, encodes and persists a table, then installs it in memory.
// A persistence failure is reported through lookupResult.warn, not as a
// hard error.
func (c *Cache) compute(ctx context.Context, sig algebra.Signature) (*table.CayleyTable, lookupResult, error) {
	res := lookupResult{source: LookupSourceComputed}

	start := time.Now()
	tbl, err := table.Build(sig, c.maxDimension)
	buildDuration := time.Since(start)

	c.metrics.RecordCompute(sig, buildDuration, err)
	basisCount := 0
	if tbl != nil {
		basisCount = tbl.BasisCount
	}
	c.logger.LogCompute(ctx, sig, basisCount, buildDuration, err)
	if err != nil {
		return nil, res, err
	}

	encoded, err := tablecodec.Encode(tbl, c.compression)
	if err != nil {
		return nil, res, err
	}
	checksum := tablecodec.Checksum(encoded)
	computationMS := float64(tbl.ComputationTime) / float64(time.Millisecond)

	rec := &tablestore.Record{
		Signature:         sig,
		Dimensions:        tbl.Dimension,
		BasisCount:        tbl.BasisCount,
		TableData:         encoded,
		Checksum:          checksum,
		ComputedAt:        tbl.ComputedAt,
		ComputationTimeMS: computationMS,
	}

	persistStart := time.Now()
	perr := c.store.Put(ctx, rec)
	c.metrics.RecordPersist(len(encoded), time.Since(persistStart), perr)
	c.logger.LogPersist(ctx, sig, len(encoded), perr)
	if perr != nil {
		res.warn = perr
	}

	c.mu.Lock()
	c.entries[sig.Key()] = &memEntry{
		table:         tbl,
		encoded:       encoded,
		checksum:      checksum,
		persisted:     perr == nil,
		computationMS: computationMS,
	}
	c.mu.Unlock()
	c.usage.Init(sig)

	res.sizeBytes = len(encoded)
	return tbl, res, nil
}

// Usage returns accumulated usage stats for a signature, if any.
func (c *Cache) Usage(sig algebra.Signature) (UsageStats, bool) {
	return c.usage.Lookup(sig)
}

// Clear removes every cached table from memory and from the durable store.
// It refuses to run unless confirm is true and returns the number of
// distinct signatures removed. Store failures do not abort the sweep;
// they are reported wrapped in ErrStorageUnavailable after memory has
// been cleared.
func (c *Cache) Clear(ctx context.Context, confirm bool) (int, error) {
	if c.closed.Load() {
		return 0, ErrClosed
	}
	if !confirm {
		return 0, ErrConfirmationRequired
	}

	cleared := make(map[string]struct{})

	c.mu.Lock()
	for key := range c.entries {
		cleared[key] = struct{}{}
	}
	c.entries = make(map[string]*memEntry)
	c.mu.Unlock()
	c.usage.Reset()

	var storeErr error
	recs, err := c.store.List(ctx)
	if err != nil {
		storeErr = err
	} else {
		for _, rec := range recs {
			if err := c.store.Delete(ctx, rec.Signature); err != nil {
				storeErr = errors.Join(storeErr, fmt.Errorf("delete %s: %w", rec.Key(), err))
				continue
			}
			cleared[rec.Key()] = struct{}{}
		}
	}

	c.logger.LogClear(ctx, len(cleared), storeErr)
	if storeErr != nil {
		return len(cleared), fmt.Errorf("%w: %w", ErrStorageUnavailable, storeErr)
	}
	return len(cleared), nil
}
