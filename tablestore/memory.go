package tablestore

import (
	"context"
	"sync"

	"github.com/hupe1980/cayleygo/algebra"
)

// MemoryStore is an in-memory Store implementation for testing and
// ephemeral caches. Thread-safe for concurrent reads and writes.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewMemoryStore creates a new in-memory table store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*Record),
	}
}

// Put upserts a record.
func (m *MemoryStore) Put(_ context.Context, rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[rec.Key()] = copyRecord(rec)
	return nil
}

// Get returns the record for a signature, or ErrNotFound.
func (m *MemoryStore) Get(_ context.Context, sig algebra.Signature) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[sig.Key()]
	if !ok {
		return nil, ErrNotFound
	}
	return copyRecord(rec), nil
}

// Delete removes the record for a signature.
func (m *MemoryStore) Delete(_ context.Context, sig algebra.Signature) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.records, sig.Key())
	return nil
}

// List returns all stored records.
func (m *MemoryStore) List(_ context.Context) ([]*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*Record, 0, len(m.records))
	for _, rec := range m.records {
		records = append(records, copyRecord(rec))
	}
	return records, nil
}

// copyRecord prevents external mutation of stored records.
func copyRecord(rec *Record) *Record {
	out := *rec
	out.TableData = make([]byte, len(rec.TableData))
	copy(out.TableData, rec.TableData)
	return &out
}
