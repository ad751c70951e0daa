package cayleygo

import (
	"sync"
	"time"

	"github.com/hupe1980/cayleygo/algebra"
)

// UsageStats tracks how often a cached table is reused and how much
// computation it has avoided. Time saved is an estimate: each hit counts
// the table's original computation time.
type UsageStats struct {
	Signature        algebra.Signature
	AccessCount      int64
	LastAccessed     time.Time
	TotalTimeSavedMS float64
}

// usageTracker accumulates per-signature usage. Entries are created lazily
// on first cache population and survive memory-entry eviction, so stats on
// a corrupt-then-recomputed table keep accumulating.
type usageTracker struct {
	mu    sync.Mutex
	stats map[string]*UsageStats
}

func newUsageTracker() *usageTracker {
	return &usageTracker{stats: make(map[string]*UsageStats)}
}

func (u *usageTracker) get(sig algebra.Signature) *UsageStats {
	key := sig.Key()
	s, ok := u.stats[key]
	if !ok {
		s = &UsageStats{Signature: sig}
		u.stats[key] = s
	}
	return s
}

// Init ensures a zero-valued entry exists for a freshly computed table.
func (u *usageTracker) Init(sig algebra.Signature) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.get(sig)
}

// RecordHit records one cache hit and the computation time it avoided.
func (u *usageTracker) RecordHit(sig algebra.Signature, savedMS float64) {
	u.mu.Lock()
	defer u.mu.Unlock()

	s := u.get(sig)
	s.AccessCount++
	s.LastAccessed = time.Now().UTC()
	s.TotalTimeSavedMS += savedMS
}

// Lookup returns a copy of the stats for a signature.
func (u *usageTracker) Lookup(sig algebra.Signature) (UsageStats, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()

	s, ok := u.stats[sig.Key()]
	if !ok {
		return UsageStats{}, false
	}
	return *s, true
}

// Snapshot returns a copy of all stats keyed by canonical signature key.
func (u *usageTracker) Snapshot() map[string]UsageStats {
	u.mu.Lock()
	defer u.mu.Unlock()

	out := make(map[string]UsageStats, len(u.stats))
	for k, s := range u.stats {
		out[k] = *s
	}
	return out
}

// Reset drops all accumulated stats.
func (u *usageTracker) Reset() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.stats = make(map[string]*UsageStats)
}
