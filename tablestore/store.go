// Package tablestore persists Cayley table records keyed by signature.
//
// A Store holds one durable Record per signature; writes are whole-record
// upserts and a write for one signature never blocks access to another.
// Implement the Store interface to support custom storage backends.
package tablestore

import (
	"context"
	"os"

	"github.com/hupe1980/cayleygo/algebra"
)

// ErrNotFound is returned when no record exists for a signature.
//
// Implementations should return an error that satisfies
// `errors.Is(err, ErrNotFound)`. The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// Store is an abstraction for durable Cayley table records.
//
// Implementations must be safe for concurrent use and must treat Put as an
// atomic upsert: readers observe either the previous complete record or the
// new complete record, never a partial write.
type Store interface {
	// Put upserts the record for its signature.
	Put(ctx context.Context, rec *Record) error

	// Get returns the record for a signature, or ErrNotFound.
	Get(ctx context.Context, sig algebra.Signature) (*Record, error)

	// Delete removes the record for a signature. Deleting a missing record
	// is not an error.
	Delete(ctx context.Context, sig algebra.Signature) error

	// List returns all stored records.
	List(ctx context.Context) ([]*Record, error)
}
