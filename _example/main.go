package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"time"

	"github.com/hupe1980/cayleygo"
	"github.com/hupe1980/cayleygo/algebra"
	"github.com/hupe1980/cayleygo/tablestore"
)

func main() {
	ctx := context.Background()

	store, err := tablestore.NewLocalStore("./cayley-cache")
	if err != nil {
		log.Fatal(err)
	}

	metrics := &cayleygo.BasicMetricsCollector{}
	cache, err := cayleygo.New(
		cayleygo.WithStore(store),
		cayleygo.WithMetricsCollector(metrics),
		cayleygo.WithLogLevel(slog.LevelInfo),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer cache.Close()

	fmt.Println("--- Precompute ---")

	start := time.Now()
	report, err := cache.Precompute(ctx, cayleygo.DefaultCatalog())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Signatures: %d, computed: %d, already present: %d, failed: %d\n",
		report.TotalSignatures, report.Computed, report.AlreadyPresent, report.Failed)
	fmt.Printf("Bytes stored: %d\n", report.TotalBytes)
	fmt.Printf("Seconds: %.2f\n\n", time.Since(start).Seconds())

	fmt.Println("--- Lookup ---")

	sig := algebra.NewSignature(3, 0, 0)
	tbl, err := cache.GetOrCompute(ctx, sig, false)
	if err != nil && !errors.Is(err, cayleygo.ErrStorageUnavailable) {
		log.Fatal(err)
	}

	e1, e2, e12 := algebra.Blade(0b001), algebra.Blade(0b010), algebra.Blade(0b011)
	fmt.Printf("%s: e1*e2 -> %+d e12\n", sig, tbl.At(e1, e2).Sign)
	fmt.Printf("%s: e2*e1 -> %+d e12\n", sig, tbl.At(e2, e1).Sign)
	fmt.Printf("%s: e12*e12 -> %+d\n\n", sig, tbl.At(e12, e12).Sign)

	fmt.Println("--- Status ---")

	status, err := cache.Status(ctx)
	if err != nil {
		log.Fatal(err)
	}
	for _, s := range status.Signatures {
		fmt.Printf("%-10s %-28s basis=%-4d size=%d bytes\n",
			s.Signature, s.Name, s.BasisCount, s.SizeBytes)
	}
	fmt.Printf("\nTotal: %d tables, %d bytes\n\n", status.TotalTables, status.TotalSizeBytes)

	stats := metrics.GetStats()
	fmt.Printf("Lookups: %d (memory hits: %d, store hits: %d), computations: %d\n",
		stats.LookupCount, stats.MemoryHits, stats.StoreHits, stats.ComputeCount)
}
