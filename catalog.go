package cayleygo

import (
	"sort"

	"github.com/hupe1980/cayleygo/algebra"
)

// PrecomputeSignature is one catalog entry: a signature worth computing
// ahead of demand, with scheduling metadata.
type PrecomputeSignature struct {
	Signature   algebra.Signature
	Name        string
	Description string

	// Priority orders precomputation, highest first. Ties fall to
	// essential entries, then to the canonical key.
	Priority int

	// Essential marks algebras that interactive workloads need warm.
	Essential bool

	UseCases []string
}

// DefaultCatalog returns the built-in precompute catalog: the algebras most
// commonly requested in geometric computing, ordered by expected demand.
// Callers may append their own entries or pass a custom catalog to
// Precompute.
func DefaultCatalog() []PrecomputeSignature {
	return []PrecomputeSignature{
		{
			Signature:   algebra.NewSignature(3, 0, 0),
			Name:        "3D Euclidean GA",
			Description: "Geometric algebra of 3D Euclidean space",
			Priority:    100,
			Essential:   true,
			UseCases:    []string{"rotations", "3D graphics", "robotics"},
		},
		{
			Signature:   algebra.NewSignature(2, 0, 0),
			Name:        "2D Euclidean GA",
			Description: "Geometric algebra of the Euclidean plane",
			Priority:    95,
			Essential:   true,
			UseCases:    []string{"planar rotations", "complex number embedding"},
		},
		{
			Signature:   algebra.NewSignature(4, 1, 0),
			Name:        "Conformal GA (CGA)",
			Description: "Conformal geometric algebra of 3D space",
			Priority:    90,
			Essential:   true,
			UseCases:    []string{"conformal transformations", "spheres and circles as primitives"},
		},
		{
			Signature:   algebra.NewSignature(3, 0, 1),
			Name:        "Projective GA (PGA)",
			Description: "Plane-based projective geometric algebra of 3D space",
			Priority:    85,
			Essential:   true,
			UseCases:    []string{"rigid body motion", "projective geometry", "kinematics"},
		},
		{
			Signature:   algebra.NewSignature(1, 3, 0),
			Name:        "Spacetime Algebra (STA)",
			Description: "Algebra of Minkowski spacetime, mostly-minus metric",
			Priority:    80,
			Essential:   true,
			UseCases:    []string{"special relativity", "electromagnetism", "Dirac theory"},
		},
		{
			Signature:   algebra.NewSignature(3, 1, 0),
			Name:        "Spacetime Algebra (mostly-plus)",
			Description: "Minkowski spacetime with the opposite metric convention",
			Priority:    75,
			UseCases:    []string{"relativity with mostly-plus conventions"},
		},
		{
			Signature:   algebra.NewSignature(4, 0, 0),
			Name:        "4D Euclidean GA",
			Description: "Geometric algebra of 4D Euclidean space",
			Priority:    70,
			Essential:   true,
			UseCases:    []string{"quaternion pairs", "4D geometry"},
		},
		{
			Signature:   algebra.NewSignature(1, 1, 0),
			Name:        "Hyperbolic plane GA",
			Description: "Split-signature algebra of the hyperbolic plane",
			Priority:    65,
			Essential:   true,
			UseCases:    []string{"hyperbolic rotations", "split-complex numbers"},
		},
		{
			Signature:   algebra.NewSignature(2, 0, 1),
			Name:        "2D Projective GA",
			Description: "Plane-based projective geometric algebra of the plane",
			Priority:    60,
			UseCases:    []string{"2D rigid motion", "line-based geometry"},
		},
		{
			Signature:   algebra.NewSignature(0, 1, 0),
			Name:        "Complex numbers",
			Description: "Cl(0,1,0), isomorphic to the complex numbers",
			Priority:    55,
			UseCases:    []string{"baseline checks", "teaching"},
		},
		{
			Signature:   algebra.NewSignature(0, 2, 0),
			Name:        "Quaternions",
			Description: "Cl(0,2,0), isomorphic to the quaternions",
			Priority:    50,
			UseCases:    []string{"rotation interpolation", "attitude representation"},
		},
		{
			Signature:   algebra.NewSignature(1, 0, 0),
			Name:        "Split-complex numbers",
			Description: "Cl(1,0,0), isomorphic to the split-complex numbers",
			Priority:    45,
			UseCases:    []string{"hyperbolic trigonometry"},
		},
		{
			Signature:   algebra.NewSignature(5, 0, 0),
			Name:        "5D Euclidean GA",
			Description: "Geometric algebra of 5D Euclidean space",
			Priority:    40,
			UseCases:    []string{"higher-dimensional geometry"},
		},
		{
			Signature:   algebra.NewSignature(2, 2, 0),
			Name:        "Split signature Cl(2,2)",
			Description: "Neutral-signature algebra in four dimensions",
			Priority:    35,
			UseCases:    []string{"twistor-adjacent constructions", "line geometry"},
		},
		{
			Signature:   algebra.NewSignature(6, 0, 0),
			Name:        "6D Euclidean GA",
			Description: "Geometric algebra of 6D Euclidean space",
			Priority:    30,
			UseCases:    []string{"screw theory", "6-DOF configuration spaces"},
		},
	}
}

// orderCatalog returns a copy sorted by descending priority, essential
// entries first on ties, canonical key as the final tiebreak.
func orderCatalog(catalog []PrecomputeSignature) []PrecomputeSignature {
	ordered := make([]PrecomputeSignature, len(catalog))
	copy(ordered, catalog)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if a.Essential != b.Essential {
			return a.Essential
		}
		return a.Signature.Key() < b.Signature.Key()
	})
	return ordered
}
