package settings

import (
	"errors"
	"slices"
)

// BasisFEM is the finite-element basis.
const BasisFEM = "fem"

var knownBases = []string{BasisFEM}

// KnownBases returns the accepted basis types.
func KnownBases() []string { return slices.Clone(knownBases) }

// ModelSet holds the discretization used by the solver.
type ModelSet struct {
	Basis string

	// NScale is the number of coarse-graining levels.
	NScale int

	// MeshSize is the number of voxels per mesh cell along x, y and z.
	MeshSize [3]int
}

// DefaultModelSet returns a ModelSet with default values.
func DefaultModelSet() ModelSet {
	return ModelSet{
		Basis:    BasisFEM,
		NScale:   3,
		MeshSize: [3]int{16, 16, 16},
	}
}

// NewModelSet applies opts on top of the defaults and validates the result.
func NewModelSet(opts ...ModelOption) (ModelSet, error) {
	m := DefaultModelSet()
	for _, opt := range opts {
		opt(&m)
	}
	if err := m.Validate(); err != nil {
		return ModelSet{}, err
	}
	return m, nil
}

// Validate checks every field and returns all violations joined together.
func (m ModelSet) Validate() error {
	var errs []error
	if !slices.Contains(knownBases, m.Basis) {
		errs = append(errs, invalidf("unknown basis %q", m.Basis))
	}
	if m.NScale < 1 {
		errs = append(errs, invalidf("nscale must be at least 1, got %d", m.NScale))
	}
	if err := validateSize("mesh size", m.MeshSize); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (m ModelSet) String() string {
	var r renderer
	r.header("----------------MODEL-----------------")
	r.line("Basis function", m.Basis)
	r.line("Coarse graining scales", formatInt(m.NScale))
	r.line("Mesh size", formatInts(m.MeshSize[:]))
	return r.String()
}
