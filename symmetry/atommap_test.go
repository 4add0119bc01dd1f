package symmetry_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/katalvlaran/crystalsym/ions"
	"github.com/katalvlaran/crystalsym/lattice"
	"github.com/katalvlaran/crystalsym/symmetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAtomMap_Permutation(t *testing.T) {
	st := &ions.Structure{Species: []*ions.Species{
		{Name: "Cs", Positions: []lattice.Vec3{{}}},
		{Name: "Cl", Positions: []lattice.Vec3{{0.25, 0, 0}, {0.75, 0, 0}, {0, 0.25, 0}, {0, 0.75, 0}}},
	}}
	s := MustSetup(t, cubic(), st, nil)
	group := s.Matrices()
	am := s.AtomMap()

	for sp, species := range st.Species {
		require.Equal(t, species.Len(), am.NumAtoms(sp))
		for op, m := range group {
			seen := make(map[int]bool)
			for a, p := range species.Positions {
				img := am.Image(sp, a, op)
				assert.False(t, seen[img], "op %d maps two atoms onto %d", op, img)
				seen[img] = true
				assert.Less(t, lattice.CircDistanceSquared(m.MulVec(p), species.Positions[img]), tol*tol)
			}
		}
		for a := range species.Positions {
			assert.Equal(t, a, am.Image(sp, a, 0), "identity maps every atom to itself")
		}
	}
}

func TestBuildAtomMap_NoImage(t *testing.T) {
	st := single("X", lattice.Vec3{0.25, 0, 0})
	R := cubic()
	_, err := symmetry.BuildAtomMap(st, []lattice.IMat3{lattice.IIdentity3(), c4z}, R, R, tol)
	assert.ErrorIs(t, err, symmetry.ErrNoAtomImage)
	assert.Equal(t, symmetry.KindNoAtomImage, symmetry.KindOf(err))
}

func TestBuildAtomMap_Constraints(t *testing.T) {
	pair := func(c0, c1 ions.Constraint) *ions.Structure {
		st := single("X", lattice.Vec3{0.25, 0, 0}, lattice.Vec3{0.75, 0, 0})
		st.Species[0].Constraints = []ions.Constraint{c0, c1}
		return st
	}
	alongX := ions.Constraint{MoveScale: 1, Type: ions.ConstraintLinear, Direction: lattice.Vec3{1, 0, 0}}
	alongY := ions.Constraint{MoveScale: 1, Type: ions.ConstraintLinear, Direction: lattice.Vec3{0, 1, 0}}
	frozen := ions.Constraint{MoveScale: 0}

	s := MustSetup(t, cubic(), pair(alongX, alongX), nil)
	assert.Equal(t, 16, s.Order())

	for name, st := range map[string]*ions.Structure{
		"different move scale":       pair(ions.Free(), frozen),
		"direction rotated by group": pair(alongY, alongY),
	} {
		t.Run(name, func(t *testing.T) {
			s, err := symmetry.New()
			require.NoError(t, err)
			err = s.Setup(symmetry.System{Lattice: cubic(), Ions: st})
			assert.ErrorIs(t, err, symmetry.ErrInconsistentConstraint)
			assert.True(t, symmetry.IsFatal(err))
			assert.NotEmpty(t, errors.GetAllHints(err))
		})
	}
}
