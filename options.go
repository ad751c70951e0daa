package cayleygo

import (
	"log/slog"

	"github.com/hupe1980/cayleygo/algebra"
	"github.com/hupe1980/cayleygo/tablecodec"
	"github.com/hupe1980/cayleygo/tablestore"
)

type options struct {
	store            tablestore.Store
	maxDimension     int
	compression      tablecodec.Compression
	catalog          []PrecomputeSignature
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures Cache constructor behavior.
type Option func(*options)

// WithStore configures the durable backend for computed tables.
// The cache takes ownership: Close closes the store if it implements
// io.Closer. Defaults to an in-memory store (no durability across
// processes).
func WithStore(store tablestore.Store) Option {
	return func(o *options) {
		if store != nil {
			o.store = store
		}
	}
}

// WithMaxDimension bounds accepted signatures by total dimension p+q+r.
// Values outside (0, algebra.MaxDimension] fall back to
// algebra.MaxDimension. Lower this to keep worst-case table sizes small:
// entry count grows as 4^dimension.
func WithMaxDimension(maxDimension int) Option {
	return func(o *options) {
		o.maxDimension = maxDimension
	}
}

// WithCompression selects the block compression applied to encoded tables.
// Defaults to Zstd; tables compress well because most products of
// high-grade blades share signs. Use tablecodec.CompressionLZ4 when decode
// latency matters more than size, or CompressionNone for debugging.
//
// Tables persisted with a different compression remain readable: the
// codec dispatches on the header, not on this setting.
func WithCompression(c tablecodec.Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithCatalog replaces the precompute catalog used by Precompute and
// reported by Status. Defaults to DefaultCatalog().
func WithCatalog(catalog []PrecomputeSignature) Option {
	return func(o *options) {
		o.catalog = catalog
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &cayleygo.BasicMetricsCollector{}
//	cache, _ := cayleygo.New(cayleygo.WithMetricsCollector(metrics))
//	// ... use cache ...
//	stats := metrics.GetStats()
//	fmt.Printf("Lookups: %d, Memory hits: %d\n", stats.LookupCount, stats.MemoryHits)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := cayleygo.NewJSONLogger(slog.LevelInfo)
//	cache, _ := cayleygo.New(cayleygo.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		store:            tablestore.NewMemoryStore(),
		maxDimension:     algebra.MaxDimension,
		compression:      tablecodec.CompressionZstd,
		catalog:          DefaultCatalog(),
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}
