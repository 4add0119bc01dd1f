package symmetry_test

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/katalvlaran/crystalsym/lattice"
	"github.com/katalvlaran/crystalsym/matrix"
	"github.com/katalvlaran/crystalsym/symmetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const repTol = 1e-9

func mustClose(t *testing.T, want, got *matrix.CDense) {
	t.Helper()
	ok, err := matrix.AllClose(want, got, 0, repTol)
	require.NoError(t, err)
	assert.True(t, ok, "want\n%vgot\n%v", want, got)
}

func TestSphericalMatrices_Homomorphism(t *testing.T) {
	for _, tc := range []struct {
		name string
		R    lattice.Mat3
	}{
		{"cubic", cubic()},
		{"hexagonal", hexagonal()},
	} {
		s := MustSetup(t, tc.R, single("X", lattice.Vec3{}), nil)
		group := s.Matrices()
		for l := 0; l <= 3; l++ {
			reps, err := s.SphericalMatrices(l)
			require.NoError(t, err, "%s l=%d", tc.name, l)
			require.Len(t, reps, len(group))

			id, err := matrix.Identity(2*l + 1)
			require.NoError(t, err)
			idc, err := matrix.FromReal(id)
			require.NoError(t, err)
			mustClose(t, idc, reps[0])

			for i, m1 := range group {
				d, err := matrix.Dagger(reps[i])
				require.NoError(t, err)
				rrT, err := matrix.CMul(reps[i], d)
				require.NoError(t, err)
				mustClose(t, idc, rrT)

				for j, m2 := range group {
					k := indexOf(group, m1.Mul(m2))
					require.GreaterOrEqual(t, k, 0, "group not closed")
					prod, err := matrix.CMul(reps[i], reps[j])
					require.NoError(t, err)
					mustClose(t, reps[k], prod)
				}
			}
		}
	}
}

func TestSphericalMatrices_CachedOnce(t *testing.T) {
	s := MustSetup(t, cubic(), single("X", lattice.Vec3{}), nil)

	const callers = 8
	got := make([][]*matrix.CDense, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i], _ = s.SphericalMatrices(2)
		}(i)
	}
	wg.Wait()
	for i := 1; i < callers; i++ {
		require.Len(t, got[i], 48)
		assert.Same(t, got[0][5], got[i][5])
	}
}

func TestSphericalMatrices_Errors(t *testing.T) {
	s, err := symmetry.New()
	require.NoError(t, err)
	_, err = s.SphericalMatrices(1)
	assert.ErrorIs(t, err, symmetry.ErrNotSetup)

	s = MustSetup(t, cubic(), single("X", lattice.Vec3{}), nil)
	for _, l := range []int{-1, 4} {
		_, err = s.SphericalMatrices(l)
		assert.ErrorIs(t, err, symmetry.ErrUnsupportedL)
		assert.Equal(t, symmetry.KindUnsupportedL, symmetry.KindOf(err))
	}
}

func TestProbeDirections(t *testing.T) {
	for l := 0; l <= 3; l++ {
		n := symmetry.ProbeDirections(l)
		require.Len(t, n, 2*l+1)
		assert.Equal(t, lattice.Vec3{0, 0, 1}, n[0])
		for _, v := range n {
			assert.InDelta(t, 1.0, v.Length(), 1e-15)
		}
	}
}

// randomHermitian returns an n×n Hermitian matrix with a fixed seed.
func randomHermitian(t *testing.T, n int, seed int64) *matrix.CDense {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	X, err := matrix.NewCDense(n, n)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		require.NoError(t, X.Set(i, i, complex(rng.NormFloat64(), 0)))
		for j := i + 1; j < n; j++ {
			v := complex(rng.NormFloat64(), rng.NormFloat64())
			require.NoError(t, X.Set(i, j, v))
			require.NoError(t, X.Set(j, i, complex(real(v), -imag(v))))
		}
	}
	return X
}

func trace(t *testing.T, X *matrix.CDense) complex128 {
	t.Helper()
	var tr complex128
	for i := 0; i < X.Rows(); i++ {
		v, err := X.At(i, i)
		require.NoError(t, err)
		tr += v
	}
	return tr
}

func TestSymmetrizeSpherical(t *testing.T) {
	st := single("Fe", lattice.Vec3{0.25, 0, 0}, lattice.Vec3{0.75, 0, 0})
	s := MustSetup(t, cubic(), st, nil)
	require.Equal(t, 16, s.Order())

	for l := 1; l <= 3; l++ {
		X := randomHermitian(t, 2*(2*l+1), int64(l))
		orig := X.Clone()

		Y, err := s.SymmetrizeSpherical(X, 0)
		require.NoError(t, err)
		mustClose(t, orig, X)

		Z, err := s.SymmetrizeSpherical(Y, 0)
		require.NoError(t, err)
		mustClose(t, Y, Z)

		Yd, err := matrix.Dagger(Y)
		require.NoError(t, err)
		mustClose(t, Y, Yd)
		assert.InDelta(t, real(trace(t, X)), real(trace(t, Y)), 1e-9)
	}
}

func TestSymmetrizeSpherical_TrivialCases(t *testing.T) {
	st := single("Fe", lattice.Vec3{0.25, 0, 0}, lattice.Vec3{0.75, 0, 0})
	s := MustSetup(t, cubic(), st, nil)

	X := randomHermitian(t, 2, 1) // l = 0
	Y, err := s.SymmetrizeSpherical(X, 0)
	require.NoError(t, err)
	assert.NotSame(t, X, Y)
	mustClose(t, X, Y)

	none := MustSetup(t, cubic(), st, nil, symmetry.WithMode(symmetry.ModeNone))
	X = randomHermitian(t, 6, 2)
	Y, err = none.SymmetrizeSpherical(X, 0)
	require.NoError(t, err)
	mustClose(t, X, Y)
}

func TestSymmetrizeSpherical_Errors(t *testing.T) {
	st := single("Fe", lattice.Vec3{0.25, 0, 0}, lattice.Vec3{0.75, 0, 0})
	s := MustSetup(t, cubic(), st, nil)

	_, err := s.SymmetrizeSpherical(randomHermitian(t, 4, 1), 0) // 2 per atom
	assert.ErrorIs(t, err, symmetry.ErrFieldLength)
	_, err = s.SymmetrizeSpherical(randomHermitian(t, 6, 1), 3)
	assert.ErrorIs(t, err, symmetry.ErrFieldLength)
	_, err = s.SymmetrizeSpherical(nil, 0)
	assert.ErrorIs(t, err, symmetry.ErrFieldLength)
	_, err = s.SymmetrizeSpherical(randomHermitian(t, 18, 1), 0) // l = 4
	assert.ErrorIs(t, err, symmetry.ErrUnsupportedL)
}

func TestSymmetrizeForces(t *testing.T) {
	// Full cubic group around a lone atom cancels any force.
	s := MustSetup(t, cubic(), single("Po", lattice.Vec3{}), nil)
	f := [][]lattice.Vec3{{{1, -2, 3}}}
	require.NoError(t, s.SymmetrizeForces(f))
	assert.InDeltaSlice(t, []float64{0, 0, 0}, f[0][0][:], 1e-15)

	// The x mirror swaps the pair; y and z components average out.
	st := single("X", lattice.Vec3{0.25, 0, 0}, lattice.Vec3{0.75, 0, 0})
	s = MustSetup(t, cubic(), st, nil)
	f = [][]lattice.Vec3{{{1, 2, 3}, {0.5, 0, 0}}}
	require.NoError(t, s.SymmetrizeForces(f))
	assert.InDeltaSlice(t, []float64{0.25, 0, 0}, f[0][0][:], 1e-15)
	assert.InDeltaSlice(t, []float64{-0.25, 0, 0}, f[0][1][:], 1e-15)

	none := MustSetup(t, cubic(), st, nil, symmetry.WithMode(symmetry.ModeNone))
	f = [][]lattice.Vec3{{{1, 2, 3}, {4, 5, 6}}}
	require.NoError(t, none.SymmetrizeForces(f))
	assert.Equal(t, [][]lattice.Vec3{{{1, 2, 3}, {4, 5, 6}}}, f)

	assert.ErrorIs(t, s.SymmetrizeForces([][]lattice.Vec3{{{}}}), symmetry.ErrFieldLength)
	assert.ErrorIs(t, s.SymmetrizeForces(nil), symmetry.ErrFieldLength)
}

func TestSymmetrizeForces_Hexagonal(t *testing.T) {
	// Two atoms related by the 6-fold screw-free hcp-like positions.
	R := hexagonal()
	st := single("Mg", lattice.Vec3{1.0 / 3, 2.0 / 3, 0.25}, lattice.Vec3{2.0 / 3, 1.0 / 3, 0.75})
	s := MustSetup(t, R, st, nil)
	require.Greater(t, s.Order(), 1)

	invR, err := R.Inverse()
	require.NoError(t, err)
	F := lattice.Vec3{0.1, -0.3, 0.7}
	back := symmetry.CartesianForce(invR, symmetry.CovariantForce(R, F))
	assert.InDeltaSlice(t, F[:], back[:], 1e-12)

	f := [][]lattice.Vec3{{symmetry.CovariantForce(R, F), symmetry.CovariantForce(R, F.Scale(-1))}}
	require.NoError(t, s.SymmetrizeForces(f))
	once := [][]lattice.Vec3{{f[0][0], f[0][1]}}
	require.NoError(t, s.SymmetrizeForces(f))
	for a := range f[0] {
		assert.InDeltaSlice(t, once[0][a][:], f[0][a][:], 1e-12)
	}
}
