// Package table builds and represents dense Cayley tables: the complete
// geometric-product table over all basis-blade pairs of a signature.
package table

import (
	"time"

	"github.com/hupe1980/cayleygo/algebra"
)

// Entry is a single Cayley table cell: the product of an ordered blade pair.
// Sign 0 marks an annihilated product (repeated degenerate vector); the blade
// is 0 in that case by convention.
type Entry struct {
	Blade algebra.Blade
	Sign  int8
}

// CayleyTable is the dense multiplication table of a Clifford algebra.
//
// Entries are stored row-major in a flat slice of length BasisCount^2:
// the product of blades (i, j) lives at index i*BasisCount + j. A table is
// immutable once built; readers may share it freely.
type CayleyTable struct {
	Signature  algebra.Signature
	Dimension  int
	BasisCount int
	Entries    []Entry

	// ComputedAt and ComputationTime are build metadata. They travel with
	// the persisted record but do not participate in table equality or
	// checksums: the entries are a pure function of the signature.
	ComputedAt      time.Time
	ComputationTime time.Duration
}

// At returns the product entry for the ordered blade pair (i, j).
func (t *CayleyTable) At(i, j algebra.Blade) Entry {
	return t.Entries[int(i)*t.BasisCount+int(j)]
}

// Len returns the total number of entries, BasisCount^2.
func (t *CayleyTable) Len() int {
	return len(t.Entries)
}

// Equal reports whether two tables have the same signature and entries.
// Build metadata is ignored.
func (t *CayleyTable) Equal(o *CayleyTable) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Signature != o.Signature || t.BasisCount != o.BasisCount {
		return false
	}
	if len(t.Entries) != len(o.Entries) {
		return false
	}
	for i, e := range t.Entries {
		if o.Entries[i] != e {
			return false
		}
	}
	return true
}
