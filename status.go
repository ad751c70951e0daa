package cayleygo

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/hupe1980/cayleygo/algebra"
	"github.com/hupe1980/cayleygo/tablecodec"
)

// SignatureStatus describes one cached table.
type SignatureStatus struct {
	Signature algebra.Signature
	Name      string // catalog name, empty for uncataloged signatures
	Priority  int
	Essential bool

	InMemory  bool
	Persisted bool

	BasisCount int

	// SizeBytes is the encoded (compressed) size; UncompressedBytes the
	// raw entry payload it expands to.
	SizeBytes         int
	UncompressedBytes int
	Compression       string

	ComputedAt        time.Time
	ComputationTimeMS float64

	AccessCount      int64
	LastAccessed     time.Time
	TotalTimeSavedMS float64
}

// StatusReport is an aggregated view of the cache: every known table plus
// the catalog entries still pending.
type StatusReport struct {
	TotalTables     int
	EssentialCached int
	TotalSizeBytes  int64

	AvgComputationTimeMS float64
	FirstComputed        time.Time
	LastComputed         time.Time

	// Signatures is sorted by descending priority, uncataloged tables
	// last by key.
	Signatures []SignatureStatus

	// Pending lists catalog entries with no cached table, in precompute
	// order.
	Pending []PrecomputeSignature
}

// Status reports every table known to the cache, merging the in-memory
// view, the durable store and usage stats. If the store cannot be listed
// the report covers memory only and an error wrapping ErrStorageUnavailable
// is returned alongside it.
func (c *Cache) Status(ctx context.Context) (*StatusReport, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}

	statuses := make(map[string]*SignatureStatus)

	c.mu.RLock()
	for _, e := range c.entries {
		s := &SignatureStatus{
			Signature:         e.table.Signature,
			InMemory:          true,
			Persisted:         e.persisted,
			BasisCount:        e.table.BasisCount,
			SizeBytes:         len(e.encoded),
			ComputedAt:        e.table.ComputedAt,
			ComputationTimeMS: e.computationMS,
		}
		fillEncodingInfo(s, e.encoded)
		statuses[e.table.Signature.Key()] = s
	}
	c.mu.RUnlock()

	var storeErr error
	recs, err := c.store.List(ctx)
	if err != nil {
		storeErr = fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	for _, rec := range recs {
		s, ok := statuses[rec.Key()]
		if !ok {
			s = &SignatureStatus{
				Signature:         rec.Signature,
				BasisCount:        rec.BasisCount,
				SizeBytes:         len(rec.TableData),
				ComputedAt:        rec.ComputedAt,
				ComputationTimeMS: rec.ComputationTimeMS,
			}
			fillEncodingInfo(s, rec.TableData)
			statuses[rec.Key()] = s
		}
		s.Persisted = true
	}

	for _, s := range statuses {
		if u, ok := c.usage.Lookup(s.Signature); ok {
			s.AccessCount = u.AccessCount
			s.LastAccessed = u.LastAccessed
			s.TotalTimeSavedMS = u.TotalTimeSavedMS
		}
	}

	report := &StatusReport{}
	for _, entry := range c.catalog {
		if s, ok := statuses[entry.Signature.Key()]; ok {
			s.Name = entry.Name
			s.Priority = entry.Priority
			s.Essential = entry.Essential
			if entry.Essential {
				report.EssentialCached++
			}
		} else {
			report.Pending = append(report.Pending, entry)
		}
	}
	report.Pending = orderCatalog(report.Pending)

	var totalComputationMS float64
	for _, s := range statuses {
		report.Signatures = append(report.Signatures, *s)
		report.TotalSizeBytes += int64(s.SizeBytes)
		totalComputationMS += s.ComputationTimeMS

		if !s.ComputedAt.IsZero() {
			if report.FirstComputed.IsZero() || s.ComputedAt.Before(report.FirstComputed) {
				report.FirstComputed = s.ComputedAt
			}
			if s.ComputedAt.After(report.LastComputed) {
				report.LastComputed = s.ComputedAt
			}
		}
	}
	report.TotalTables = len(report.Signatures)
	if report.TotalTables > 0 {
		report.AvgComputationTimeMS = totalComputationMS / float64(report.TotalTables)
	}

	sort.Slice(report.Signatures, func(i, j int) bool {
		a, b := report.Signatures[i], report.Signatures[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		return a.Signature.Key() < b.Signature.Key()
	})

	return report, storeErr
}

// fillEncodingInfo reads compression metadata off the encoded header.
// Unparseable bytes leave the fields empty rather than failing the report.
func fillEncodingInfo(s *SignatureStatus, encoded []byte) {
	header, err := tablecodec.ParseHeader(encoded)
	if err != nil {
		return
	}
	s.Compression = tablecodec.Compression(header.Compression).String()
	s.UncompressedBytes = s.BasisCount * s.BasisCount * tablecodec.EntrySize
}
