package table

import (
	"time"

	"github.com/hupe1980/cayleygo/algebra"
)

// Build computes the complete Cayley table for a signature.
//
// It validates the signature against maxDimension (<= 0 means the package
// ceiling), then evaluates the blade product for every ordered pair in
// [0, 2^n) x [0, 2^n). The output is deterministic: repeated builds for the
// same signature are entry-for-entry identical.
func Build(sig algebra.Signature, maxDimension int) (*CayleyTable, error) {
	if err := sig.Validate(maxDimension); err != nil {
		return nil, err
	}

	start := time.Now()
	basis := sig.BasisCount()

	entries := make([]Entry, basis*basis)
	for i := 0; i < basis; i++ {
		row := entries[i*basis : (i+1)*basis]
		for j := 0; j < basis; j++ {
			blade, sign := algebra.Product(sig, algebra.Blade(i), algebra.Blade(j))
			row[j] = Entry{Blade: blade, Sign: int8(sign)}
		}
	}

	return &CayleyTable{
		Signature:       sig,
		Dimension:       sig.Dimension(),
		BasisCount:      basis,
		Entries:         entries,
		ComputedAt:      time.Now().UTC(),
		ComputationTime: time.Since(start),
	}, nil
}
