// Package cayleygo computes and caches Cayley (geometric product) tables for
// Clifford algebras of arbitrary diagonal metric signature.
//
// Generating a table is combinatorially expensive - (2^n)^2 blade products
// for an n-dimensional algebra - so cayleygo splits the work into a pure
// generator (packages algebra and table) and a caching layer with:
//
//   - Single-flight computation: concurrent requests for the same signature
//     collapse into one build; distinct signatures compute in parallel
//   - Checksummed persistence: every load path verifies a SHA-256 digest;
//     corruption triggers recomputation, never silently bad data
//   - Pluggable durable stores: local filesystem, in-memory, S3, MinIO,
//     BadgerDB
//   - Priority-ordered precomputation with per-signature error reporting
//   - Usage tracking and an aggregated status view
//
// # Quick Start
//
//	ctx := context.Background()
//
//	store, _ := tablestore.NewLocalStore("./cayley-cache")
//	cache, _ := cayleygo.New(cayleygo.WithStore(store))
//	defer cache.Close()
//
//	// Cl(3,0,0): 3D Euclidean geometric algebra
//	tbl, _ := cache.GetOrCompute(ctx, algebra.NewSignature(3, 0, 0), false)
//
//	e1, e2 := algebra.Blade(0b001), algebra.Blade(0b010)
//	entry := tbl.At(e1, e2) // e1*e2 = e12: {Blade: 0b011, Sign: +1}
//	_ = entry
//
// Warm the cache ahead of time from the built-in catalog:
//
//	report, _ := cache.Precompute(ctx, cayleygo.DefaultCatalog())
//
// # Degraded Mode
//
// A failed persistence layer degrades rather than fails: GetOrCompute still
// returns the freshly computed table and signals the condition by wrapping
// ErrStorageUnavailable. Callers that only need the table may ignore it:
//
//	tbl, err := cache.GetOrCompute(ctx, sig, false)
//	if err != nil && !errors.Is(err, cayleygo.ErrStorageUnavailable) {
//	    return err
//	}
package cayleygo
