package cayleygo

import (
	"sync/atomic"
	"time"

	"github.com/hupe1980/cayleygo/algebra"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    lookupCounter    *prometheus.CounterVec
//	    computeHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordLookup(source cayleygo.LookupSource, duration time.Duration, err error) {
//	    p.lookupCounter.WithLabelValues(source.String()).Inc()
//	    // ... record error state, duration, etc.
//	}
type MetricsCollector interface {
	// RecordLookup is called after each GetOrCompute call.
	// source tells where the table came from, err is nil if successful.
	RecordLookup(source LookupSource, duration time.Duration, err error)

	// RecordCompute is called after each table build.
	RecordCompute(sig algebra.Signature, duration time.Duration, err error)

	// RecordPersist is called after each attempt to write a table to the
	// durable store. sizeBytes is the encoded record size.
	RecordPersist(sizeBytes int, duration time.Duration, err error)

	// RecordCorruption is called whenever a cached table fails checksum or
	// structural validation.
	RecordCorruption(sig algebra.Signature)

	// RecordPrecompute is called once per precomputation run.
	RecordPrecompute(computed, alreadyPresent, failed int, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordLookup(LookupSource, time.Duration, error)       {}
func (NoopMetricsCollector) RecordCompute(algebra.Signature, time.Duration, error) {}
func (NoopMetricsCollector) RecordPersist(int, time.Duration, error)               {}
func (NoopMetricsCollector) RecordCorruption(algebra.Signature)                    {}
func (NoopMetricsCollector) RecordPrecompute(int, int, int, time.Duration)         {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	LookupCount       atomic.Int64
	LookupErrors      atomic.Int64
	LookupTotalNanos  atomic.Int64
	MemoryHits        atomic.Int64
	StoreHits         atomic.Int64
	ComputeCount      atomic.Int64
	ComputeErrors     atomic.Int64
	ComputeTotalNanos atomic.Int64
	PersistCount      atomic.Int64
	PersistErrors     atomic.Int64
	PersistBytes      atomic.Int64
	CorruptionCount   atomic.Int64
	PrecomputeRuns    atomic.Int64
	PrecomputeFailed  atomic.Int64
}

// RecordLookup implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLookup(source LookupSource, duration time.Duration, err error) {
	b.LookupCount.Add(1)
	b.LookupTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.LookupErrors.Add(1)
	}
	switch source {
	case LookupSourceMemory:
		b.MemoryHits.Add(1)
	case LookupSourceStore:
		b.StoreHits.Add(1)
	}
}

// RecordCompute implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCompute(sig algebra.Signature, duration time.Duration, err error) {
	b.ComputeCount.Add(1)
	b.ComputeTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ComputeErrors.Add(1)
	}
}

// RecordPersist implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPersist(sizeBytes int, duration time.Duration, err error) {
	b.PersistCount.Add(1)
	b.PersistBytes.Add(int64(sizeBytes))
	if err != nil {
		b.PersistErrors.Add(1)
	}
}

// RecordCorruption implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCorruption(sig algebra.Signature) {
	b.CorruptionCount.Add(1)
}

// RecordPrecompute implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPrecompute(computed, alreadyPresent, failed int, duration time.Duration) {
	b.PrecomputeRuns.Add(1)
	b.PrecomputeFailed.Add(int64(failed))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		LookupCount:      b.LookupCount.Load(),
		LookupErrors:     b.LookupErrors.Load(),
		LookupAvgNanos:   b.getAvgLookupNanos(),
		MemoryHits:       b.MemoryHits.Load(),
		StoreHits:        b.StoreHits.Load(),
		ComputeCount:     b.ComputeCount.Load(),
		ComputeErrors:    b.ComputeErrors.Load(),
		ComputeAvgNanos:  b.getAvgComputeNanos(),
		PersistCount:     b.PersistCount.Load(),
		PersistErrors:    b.PersistErrors.Load(),
		PersistBytes:     b.PersistBytes.Load(),
		CorruptionCount:  b.CorruptionCount.Load(),
		PrecomputeRuns:   b.PrecomputeRuns.Load(),
		PrecomputeFailed: b.PrecomputeFailed.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgLookupNanos() int64 {
	count := b.LookupCount.Load()
	if count == 0 {
		return 0
	}
	return b.LookupTotalNanos.Load() / count
}

func (b *BasicMetricsCollector) getAvgComputeNanos() int64 {
	count := b.ComputeCount.Load()
	if count == 0 {
		return 0
	}
	return b.ComputeTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	LookupCount      int64
	LookupErrors     int64
	LookupAvgNanos   int64
	MemoryHits       int64
	StoreHits        int64
	ComputeCount     int64
	ComputeErrors    int64
	ComputeAvgNanos  int64
	PersistCount     int64
	PersistErrors    int64
	PersistBytes     int64
	CorruptionCount  int64
	PrecomputeRuns   int64
	PrecomputeFailed int64
}
