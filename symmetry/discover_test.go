package symmetry_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/katalvlaran/crystalsym/coulomb"
	"github.com/katalvlaran/crystalsym/ions"
	"github.com/katalvlaran/crystalsym/lattice"
	"github.com/katalvlaran/crystalsym/symmetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetup_AutomaticOrders(t *testing.T) {
	half := lattice.Vec3{0.5, 0.5, 0.5}
	for _, tc := range []struct {
		name string
		R    lattice.Mat3
		st   *ions.Structure
		want int
	}{
		{"simple cubic", cubic(), single("Po", lattice.Vec3{}), 48},
		{"CsCl", cubic(), &ions.Structure{Species: []*ions.Species{
			{Name: "Cs", Positions: []lattice.Vec3{{}}},
			{Name: "Cl", Positions: []lattice.Vec3{half}},
		}}, 48},
		{"off-center atom", cubic(), single("X", lattice.Vec3{0.25, 0.25, 0.25}), 6},
		{"pair along x", cubic(), single("X", lattice.Vec3{0.25, 0, 0}, lattice.Vec3{0.75, 0, 0}), 16},
		{"hexagonal", hexagonal(), single("Mg", lattice.Vec3{}), 24},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s := MustSetup(t, tc.R, tc.st, nil)
			require.Equal(t, tc.want, s.Order())
			assert.True(t, s.Matrices()[0].IsIdentity(), "identity must be element 0")
		})
	}
}

func TestSetup_MomentsBreakSymmetry(t *testing.T) {
	st := single("Fe", lattice.Vec3{0.25, 0, 0}, lattice.Vec3{0.75, 0, 0})
	st.Species[0].Moments = []float64{1, 1}
	s := MustSetup(t, cubic(), st, nil)
	assert.Equal(t, 16, s.Order())

	st.Species[0].Moments = []float64{1, -1}
	s = MustSetup(t, cubic(), st, nil)
	assert.Equal(t, 8, s.Order())
	for _, m := range s.Matrices() {
		assert.Equal(t, 1, m[0][0], "x must not flip when it would swap opposite moments")
	}
}

func TestSetup_ModeNone(t *testing.T) {
	s := MustSetup(t, cubic(), single("Po", lattice.Vec3{}), nil, symmetry.WithMode(symmetry.ModeNone))
	require.Equal(t, 1, s.Order())
	assert.True(t, s.Matrices()[0].IsIdentity())
}

func TestSetup_TruncationReducesGroup(t *testing.T) {
	cp := &coulomb.Params{Truncated: [3]bool{false, false, true}}
	s := MustSetup(t, cubic(), single("Po", lattice.Vec3{}), cp)
	assert.Equal(t, 16, s.Order())
}

func TestSetup_BetterCenter(t *testing.T) {
	st := single("X", lattice.Vec3{0.25, 0.25, 0.25})
	s, err := symmetry.New(symmetry.WithMoveAtoms(true))
	require.NoError(t, err)

	err = s.Setup(symmetry.System{Lattice: cubic(), Ions: st})
	require.Error(t, err)
	assert.ErrorIs(t, err, symmetry.ErrBetterCenter)
	assert.Equal(t, symmetry.KindBetterCenter, symmetry.KindOf(err))
	assert.True(t, symmetry.IsFatal(err))
	assert.NotEmpty(t, errors.GetAllHints(err))

	var bc *symmetry.BetterCenterError
	require.True(t, errors.As(err, &bc))
	assert.Equal(t, 6, bc.OldOrder)
	assert.Equal(t, 48, bc.NewOrder)
	assert.Equal(t, lattice.Vec3{-0.25, -0.25, -0.25}, bc.Shift)
	assert.Equal(t, lattice.Vec3{}, bc.Positions.Species[0].Positions[0])
	assert.Equal(t, lattice.Vec3{0.25, 0.25, 0.25}, st.Species[0].Positions[0], "structure must not be moved")
}

func TestSetup_MoveAtomsNoImprovement(t *testing.T) {
	s := MustSetup(t, cubic(), single("Po", lattice.Vec3{}), nil, symmetry.WithMoveAtoms(true))
	assert.Equal(t, 48, s.Order())
}

func TestSetup_Manual(t *testing.T) {
	st := single("Po", lattice.Vec3{})

	s := MustSetup(t, cubic(), st, nil, symmetry.WithManualMatrices(c4zGroup))
	require.Equal(t, 4, s.Order())
	assert.True(t, s.Matrices()[0].IsIdentity())

	_, err := symmetry.New(symmetry.WithManualMatrices(nil))
	require.NoError(t, err)
	s, _ = symmetry.New(symmetry.WithMode(symmetry.ModeManual))
	err = s.Setup(symmetry.System{Lattice: cubic(), Ions: st})
	assert.ErrorIs(t, err, symmetry.ErrManualEmpty)
	assert.Equal(t, symmetry.KindManualEmpty, symmetry.KindOf(err))

	// C4z does not map an atom at (¼, 0, 0) onto itself.
	off := single("X", lattice.Vec3{0.25, 0, 0})
	s, _ = symmetry.New(symmetry.WithManualMatrices(c4zGroup))
	err = s.Setup(symmetry.System{Lattice: cubic(), Ions: off})
	assert.ErrorIs(t, err, symmetry.ErrSymmetryMismatch)

	// Moments are checked by the same validator.
	pair := single("Fe", lattice.Vec3{0.25, 0, 0}, lattice.Vec3{0.75, 0, 0})
	pair.Species[0].Moments = []float64{1, -1}
	inv := lattice.IMat3{{-1, 0, 0}, {0, -1, 0}, {0, 0, -1}}
	s, _ = symmetry.New(symmetry.WithManualMatrices([]lattice.IMat3{lattice.IIdentity3(), inv}))
	err = s.Setup(symmetry.System{Lattice: cubic(), Ions: pair})
	assert.ErrorIs(t, err, symmetry.ErrSymmetryMismatch)

	// A group without identity is rejected.
	s, _ = symmetry.New(symmetry.WithManualMatrices([]lattice.IMat3{c2z}))
	err = s.Setup(symmetry.System{Lattice: cubic(), Ions: st})
	assert.ErrorIs(t, err, symmetry.ErrSymmetryMismatch)
}

func TestSetup_ManualRejectsNonGroup(t *testing.T) {
	st := single("Po", lattice.Vec3{})

	// C4z without C2z and C4z³ is not closed under composition.
	s, err := symmetry.New(symmetry.WithManualMatrices([]lattice.IMat3{lattice.IIdentity3(), c4z}))
	require.NoError(t, err)
	err = s.Setup(symmetry.System{Lattice: cubic(), Ions: st})
	assert.ErrorIs(t, err, symmetry.ErrSymmetryMismatch)
	assert.NotEmpty(t, errors.GetAllHints(err))
	assert.Nil(t, s.Matrices())
}

func TestSetup_ManualChecksMetric(t *testing.T) {
	st := single("Mg", lattice.Vec3{})
	// Threefold rotation written in a hexagonal basis.
	c3 := lattice.IMat3{{0, -1, 0}, {1, -1, 0}, {0, 0, 1}}
	group := []lattice.IMat3{lattice.IIdentity3(), c3, c3.Mul(c3)}

	s := MustSetup(t, hexagonal(), st, nil, symmetry.WithManualMatrices(group))
	assert.Equal(t, 3, s.Order())

	s, err := symmetry.New(symmetry.WithManualMatrices(group))
	require.NoError(t, err)
	err = s.Setup(symmetry.System{Lattice: cubic(), Ions: st})
	assert.ErrorIs(t, err, symmetry.ErrSymmetryMismatch)
	assert.Contains(t, err.Error(), "does not map the lattice onto itself")
}

func TestBasisReduce_Offset(t *testing.T) {
	cands := []lattice.IMat3{lattice.IIdentity3(), {{-1, 0, 0}, {0, -1, 0}, {0, 0, -1}}}
	st := single("X", lattice.Vec3{0.25, 0.25, 0.25})
	assert.Len(t, symmetry.BasisReduce(st, cands, lattice.Vec3{}, tol), 1)
	assert.Len(t, symmetry.BasisReduce(st, cands, lattice.Vec3{0.25, 0.25, 0.25}, tol), 2)
}

func TestCenterCandidates_Order(t *testing.T) {
	p := []lattice.Vec3{{0, 0, 0}, {0.5, 0, 0}, {0, 0.5, 0}}
	got := symmetry.CenterCandidates(single("X", p...))
	want := []lattice.Vec3{
		p[0],
		p[1], {0.25, 0, 0},
		p[2], {0, 0.25, 0}, {0.25, 0.25, 0},
	}
	assert.Equal(t, want, got)
}

func TestSortIdentityFirst(t *testing.T) {
	g := append([]lattice.IMat3(nil), c4zGroup...)
	require.True(t, symmetry.SortIdentityFirst(g))
	assert.True(t, g[0].IsIdentity())
	assert.Equal(t, c4z, g[2])
	assert.False(t, symmetry.SortIdentityFirst([]lattice.IMat3{c2z}))
}

func TestSetup_LogsTransmissionWarning(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	// Skewed basis of the simple cubic lattice.
	R := lattice.FromColumns(lattice.Vec3{1, 0, 0}, lattice.Vec3{1, 1, 0}, lattice.Vec3{0, 0, 1})
	s := MustSetup(t, R, single("Po", lattice.Vec3{}), nil, symmetry.WithLogger(zap.New(core)))
	assert.Equal(t, 48, s.Order())
	assert.Equal(t, 1, logs.FilterMessage("non-trivial transmission matrix").Len())
	assert.Equal(t, 1, logs.FilterMessage("symmetries of the bravais lattice").Len())
}

func TestNew_BadOptions(t *testing.T) {
	_, err := symmetry.New(symmetry.WithTolerance(0))
	assert.ErrorIs(t, err, symmetry.ErrBadOption)
	assert.Equal(t, symmetry.KindUsage, symmetry.KindOf(err))
	assert.False(t, symmetry.IsFatal(err))

	_, err = symmetry.New(symmetry.WithFinder(nil))
	assert.ErrorIs(t, err, symmetry.ErrBadOption)

	_, err = symmetry.ParseMode("sometimes")
	assert.ErrorIs(t, err, symmetry.ErrBadOption)
	m, err := symmetry.ParseMode("Manual")
	require.NoError(t, err)
	assert.Equal(t, symmetry.ModeManual, m)

	k, err := symmetry.ParseKernel("parallel")
	require.NoError(t, err)
	assert.Equal(t, symmetry.KernelParallel, k)
}

func TestKindOf_Foreign(t *testing.T) {
	assert.Equal(t, symmetry.KindUnknown, symmetry.KindOf(nil))
	assert.Equal(t, symmetry.KindUnknown, symmetry.KindOf(errors.New("boom")))
	assert.Equal(t, "incommensurate", symmetry.KindIncommensurate.String())
}
