// Package algebra implements signed basis-blade arithmetic for Clifford
// (geometric) algebras with diagonal metric signatures.
//
// A basis blade is a bitmask over the canonical basis vectors: bit i set means
// basis vector e_i participates in the blade. The geometric product of two
// blades is another blade (the symmetric difference of the vector sets) with a
// sign in {-1, 0, +1} determined by anticommutation parity and the metric.
//
// All functions in this package are pure and safe for concurrent use.
package algebra
