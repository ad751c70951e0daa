package cayleygo_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/cayleygo"
	"github.com/hupe1980/cayleygo/algebra"
	"github.com/hupe1980/cayleygo/tablestore"
)

// TestLifecycle_LocalStore exercises the full flow against a real on-disk
// store: warm, restart, reuse, inspect, clear.
func TestLifecycle_LocalStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := tablestore.NewLocalStore(dir)
	require.NoError(t, err)

	metrics := &cayleygo.BasicMetricsCollector{}
	cache, err := cayleygo.New(
		cayleygo.WithStore(store),
		cayleygo.WithMetricsCollector(metrics),
	)
	require.NoError(t, err)

	catalog := []cayleygo.PrecomputeSignature{
		{Signature: algebra.NewSignature(3, 0, 0), Priority: 100, Essential: true},
		{Signature: algebra.NewSignature(3, 0, 1), Priority: 85, Essential: true},
		{Signature: algebra.NewSignature(1, 1, 0), Priority: 65},
	}

	report, err := cache.Precompute(ctx, catalog)
	require.NoError(t, err)
	require.Equal(t, 3, report.Computed)
	require.Equal(t, 0, report.Failed)
	require.NoError(t, cache.Close())

	// Restart: a new cache over the same directory loads instead of
	// recomputing.
	store, err = tablestore.NewLocalStore(dir)
	require.NoError(t, err)
	metrics = &cayleygo.BasicMetricsCollector{}
	cache, err = cayleygo.New(
		cayleygo.WithStore(store),
		cayleygo.WithMetricsCollector(metrics),
	)
	require.NoError(t, err)
	defer cache.Close()

	tbl, err := cache.GetOrCompute(ctx, algebra.NewSignature(3, 0, 1), false)
	require.NoError(t, err)
	assert.Equal(t, 16, tbl.BasisCount)

	// The degenerate basis vector of PGA squares to zero.
	null := algebra.Blade(1 << 3)
	assert.Equal(t, int8(0), tbl.At(null, null).Sign)

	report, err = cache.Precompute(ctx, catalog)
	require.NoError(t, err)
	assert.Equal(t, 3, report.AlreadyPresent)
	assert.Equal(t, int64(0), metrics.GetStats().ComputeCount)

	status, err := cache.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, status.TotalTables)

	cleared, err := cache.Clear(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 3, cleared)

	status, err = cache.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, status.TotalTables)
}

// TestLifecycle_ConcurrentSignatures checks that distinct signatures
// compute independently under concurrent load.
func TestLifecycle_ConcurrentSignatures(t *testing.T) {
	ctx := context.Background()

	cache, err := cayleygo.New()
	require.NoError(t, err)
	defer cache.Close()

	sigs := []algebra.Signature{
		algebra.NewSignature(2, 0, 0),
		algebra.NewSignature(3, 0, 0),
		algebra.NewSignature(1, 1, 0),
		algebra.NewSignature(4, 1, 0),
		algebra.NewSignature(3, 0, 1),
	}

	var wg sync.WaitGroup
	for _, sig := range sigs {
		sig := sig
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				tbl, err := cache.GetOrCompute(ctx, sig, false)
				if assert.NoError(t, err) {
					assert.Equal(t, sig, tbl.Signature)
					assert.Equal(t, sig.BasisCount()*sig.BasisCount(), tbl.Len())
				}
			}()
		}
	}
	wg.Wait()

	status, err := cache.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(sigs), status.TotalTables)
}
