package algebra

import (
	"fmt"
	"math/bits"
)

// MaxDimension is the hard ceiling on total dimension (p+q+r).
//
// The dense Cayley table has (2^n)^2 entries, so n=10 already means a
// 1M-entry table. Callers may configure a lower limit; nothing in this
// module ever accepts a higher one.
const MaxDimension = 10

// Blade is a basis blade encoded as a bitmask over basis vectors.
// Bit i set means basis vector e_i is a factor of the blade. The scalar
// blade is 0. With MaxDimension=10 every blade fits in 10 bits.
type Blade uint16

// Grade returns the number of basis vectors in the blade.
func (b Blade) Grade() int {
	return bits.OnesCount16(uint16(b))
}

// Signature is the metric signature (p, q, r) of a Clifford algebra:
// p basis vectors square to +1, q to -1 and r to 0 (degenerate).
//
// The canonical basis ordering is fixed: vectors 0..p-1 square to +1,
// p..p+q-1 to -1 and p+q..p+q+r-1 to 0.
type Signature struct {
	P int `json:"p"`
	Q int `json:"q"`
	R int `json:"r"`
}

// NewSignature constructs a signature. It does not validate; call Validate.
func NewSignature(p, q, r int) Signature {
	return Signature{P: p, Q: q, R: r}
}

// Dimension returns the total dimension p+q+r.
func (s Signature) Dimension() int {
	return s.P + s.Q + s.R
}

// BasisCount returns the number of basis blades, 2^(p+q+r).
func (s Signature) BasisCount() int {
	return 1 << s.Dimension()
}

// Key returns the canonical storage key for the signature, e.g. "cayley_3_0_0".
func (s Signature) Key() string {
	return fmt.Sprintf("cayley_%d_%d_%d", s.P, s.Q, s.R)
}

// String implements fmt.Stringer.
func (s Signature) String() string {
	return fmt.Sprintf("Cl(%d,%d,%d)", s.P, s.Q, s.R)
}

// Validate checks the signature against maxDimension. A maxDimension <= 0 or
// > MaxDimension is clamped to MaxDimension.
func (s Signature) Validate(maxDimension int) error {
	if maxDimension <= 0 || maxDimension > MaxDimension {
		maxDimension = MaxDimension
	}
	if s.P < 0 || s.Q < 0 || s.R < 0 {
		return &ErrInvalidSignature{Signature: s, MaxDimension: maxDimension, Reason: "negative component"}
	}
	if s.Dimension() > maxDimension {
		return &ErrInvalidSignature{Signature: s, MaxDimension: maxDimension, Reason: "dimension exceeds maximum"}
	}
	return nil
}

// ErrInvalidSignature indicates a malformed or over-size metric signature.
type ErrInvalidSignature struct {
	Signature    Signature
	MaxDimension int
	Reason       string
}

func (e *ErrInvalidSignature) Error() string {
	return fmt.Sprintf("invalid signature %s: %s (max dimension %d)", e.Signature, e.Reason, e.MaxDimension)
}

// Product computes the geometric product of two basis blades under the given
// signature. It returns the resulting blade and its sign.
//
// The result blade is the XOR of the operands. The sign is the transposition
// parity of merging the two sorted vector lists, multiplied by the metric
// self-square of every basis vector the operands share. A shared degenerate
// vector annihilates the term: the product is reported as (0, 0).
//
// Product(sig, 0, 0) is (0, +1) for every signature.
func Product(sig Signature, a, b Blade) (Blade, int) {
	sign := reorderSign(a, b)

	// Shared vectors contract against the metric.
	for common := a & b; common != 0; common &= common - 1 {
		switch i := bits.TrailingZeros16(uint16(common)); {
		case i < sig.P:
			// squares to +1
		case i < sig.P+sig.Q:
			sign = -sign
		default:
			// Degenerate vector repeated: the whole term vanishes.
			return 0, 0
		}
	}

	return a ^ b, sign
}

// reorderSign returns the parity (-1 or +1) of the transpositions needed to
// merge the vectors of b past those of a into canonical ascending order.
//
// Each vector of b must commute past every higher-indexed vector of a, and
// each such swap of distinct anticommuting vectors flips the sign.
func reorderSign(a, b Blade) int {
	swaps := 0
	for a >>= 1; a != 0; a >>= 1 {
		swaps += bits.OnesCount16(uint16(a & b))
	}
	if swaps&1 == 0 {
		return 1
	}
	return -1
}
