package cayleygo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/hupe1980/cayleygo/algebra"
	"github.com/hupe1980/cayleygo/tablestore"
)

func TestDefaultCatalog(t *testing.T) {
	catalog := DefaultCatalog()
	require.Len(t, catalog, 15)

	seen := make(map[string]bool)
	for _, entry := range catalog {
		require.NoError(t, entry.Signature.Validate(0), entry.Name)
		assert.False(t, seen[entry.Signature.Key()], "duplicate %s", entry.Signature)
		seen[entry.Signature.Key()] = true
		assert.NotEmpty(t, entry.Name)
		assert.Positive(t, entry.Priority)
	}

	// The workhorse algebras must be present.
	for _, sig := range []algebra.Signature{
		algebra.NewSignature(3, 0, 0),
		algebra.NewSignature(2, 0, 0),
		algebra.NewSignature(1, 1, 0),
		algebra.NewSignature(4, 0, 0),
	} {
		assert.True(t, seen[sig.Key()], "catalog missing %s", sig)
	}
}

func TestOrderCatalog(t *testing.T) {
	catalog := []PrecomputeSignature{
		{Signature: algebra.NewSignature(1, 0, 0), Priority: 10},
		{Signature: algebra.NewSignature(3, 0, 0), Priority: 90},
		{Signature: algebra.NewSignature(2, 0, 0), Priority: 50},
		{Signature: algebra.NewSignature(1, 1, 0), Priority: 50, Essential: true},
	}

	ordered := orderCatalog(catalog)
	require.Len(t, ordered, 4)
	assert.Equal(t, algebra.NewSignature(3, 0, 0), ordered[0].Signature)
	// Essential wins the priority tie.
	assert.Equal(t, algebra.NewSignature(1, 1, 0), ordered[1].Signature)
	assert.Equal(t, algebra.NewSignature(2, 0, 0), ordered[2].Signature)
	assert.Equal(t, algebra.NewSignature(1, 0, 0), ordered[3].Signature)

	// Input order untouched.
	assert.Equal(t, algebra.NewSignature(1, 0, 0), catalog[0].Signature)
}

func TestPrecompute(t *testing.T) {
	ctx := context.Background()

	t.Run("FullCatalog", func(t *testing.T) {
		store := tablestore.NewMemoryStore()
		cache, metrics := newTestCache(t, WithStore(store))

		report, err := cache.Precompute(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, 15, report.TotalSignatures)
		assert.Equal(t, 15, report.Computed)
		assert.Equal(t, 0, report.AlreadyPresent)
		assert.Equal(t, 0, report.Failed)
		assert.Empty(t, report.Errors)
		assert.Positive(t, report.TotalBytes)

		recs, err := store.List(ctx)
		require.NoError(t, err)
		assert.Len(t, recs, 15)

		// Every record round-trips through GetOrCompute without recomputing.
		computeCount := metrics.GetStats().ComputeCount

		report, err = cache.Precompute(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, report.Computed)
		assert.Equal(t, 15, report.AlreadyPresent)
		assert.Equal(t, computeCount, metrics.GetStats().ComputeCount)
	})

	t.Run("WarmStore", func(t *testing.T) {
		store := tablestore.NewMemoryStore()

		warm, _ := newTestCache(t, WithStore(store))
		_, err := warm.Precompute(ctx, nil)
		require.NoError(t, err)

		// A fresh process over the same store skips all computation.
		cold, metrics := newTestCache(t, WithStore(store))
		report, err := cold.Precompute(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, 15, report.AlreadyPresent)
		assert.Equal(t, 0, report.Computed)
		assert.Equal(t, int64(0), metrics.GetStats().ComputeCount)
	})

	t.Run("CollectsFailures", func(t *testing.T) {
		cache, _ := newTestCache(t)

		catalog := []PrecomputeSignature{
			{Signature: algebra.NewSignature(3, 0, 0), Priority: 100},
			{Signature: algebra.NewSignature(9, 9, 9), Priority: 50}, // over the dimension cap
			{Signature: algebra.NewSignature(1, 1, 0), Priority: 10},
		}

		report, err := cache.Precompute(ctx, catalog)
		require.NoError(t, err)
		assert.Equal(t, 2, report.Computed)
		assert.Equal(t, 1, report.Failed)
		require.Len(t, report.Errors, 1)
		assert.Equal(t, algebra.NewSignature(9, 9, 9), report.Errors[0].Signature)

		var invalid *ErrInvalidSignature
		assert.ErrorAs(t, report.Errors[0], &invalid)
	})

	t.Run("DegradedStore", func(t *testing.T) {
		cache, _ := newTestCache(t, WithStore(failStore{}))

		report, err := cache.Precompute(ctx, []PrecomputeSignature{
			{Signature: algebra.NewSignature(2, 0, 0), Priority: 1},
		})
		require.NoError(t, err)
		// Computed despite the dead store; the failure is reported, not fatal.
		assert.Equal(t, 1, report.Computed)
		assert.Equal(t, 0, report.Failed)
		require.Len(t, report.Errors, 1)
		assert.ErrorIs(t, report.Errors[0], ErrStorageUnavailable)
	})

	t.Run("Canceled", func(t *testing.T) {
		cache, _ := newTestCache(t)

		canceled, cancel := context.WithCancel(ctx)
		cancel()

		report, err := cache.Precompute(canceled, nil)
		require.ErrorIs(t, err, context.Canceled)
		require.NotNil(t, report)
		assert.Equal(t, 0, report.Computed)
	})
}

func TestScheduler_ByteBudget(t *testing.T) {
	cache, _ := newTestCache(t)

	s := NewScheduler(cache, func(o *SchedulerOptions) {
		o.Concurrency = 1
		o.MaxTotalBytes = 1
	})

	report, err := s.Run(context.Background(), DefaultCatalog())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, report.Computed, 1)
	assert.Positive(t, report.Skipped)
	assert.Equal(t, report.TotalSignatures,
		report.Computed+report.AlreadyPresent+report.Failed+report.Skipped)
}

func TestScheduler_RateLimit(t *testing.T) {
	cache, _ := newTestCache(t)

	s := NewScheduler(cache, func(o *SchedulerOptions) {
		o.Concurrency = 2
		o.RateLimit = rate.Limit(1000)
		o.Burst = 1
	})

	report, err := s.Run(context.Background(), []PrecomputeSignature{
		{Signature: algebra.NewSignature(2, 0, 0), Priority: 2},
		{Signature: algebra.NewSignature(1, 1, 0), Priority: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Computed)
}
