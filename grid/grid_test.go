package grid_test

import (
	"testing"

	"github.com/katalvlaran/crystalsym/grid"
	"github.com/katalvlaran/crystalsym/lattice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGrid(t *testing.T, S lattice.IVec3) *grid.Info {
	t.Helper()
	g, err := grid.New(lattice.Diag(lattice.Vec3{2, 3, 4}), S)
	require.NoError(t, err)
	return g
}

func TestNew_Validation(t *testing.T) {
	_, err := grid.New(lattice.Identity3(), lattice.IVec3{4, 0, 4})
	assert.ErrorIs(t, err, grid.ErrBadDimensions)

	_, err = grid.New(lattice.Mat3{}, lattice.IVec3{4, 4, 4})
	assert.ErrorIs(t, err, grid.ErrBadLattice)
}

// TestIndex_RoundTrip walks every point once and checks Coordinate(FullRIndex)
// is the identity and the layout is row-major with r2 fastest.
func TestIndex_RoundTrip(t *testing.T) {
	g := newGrid(t, lattice.IVec3{3, 4, 5})
	assert.Equal(t, 60, g.Nr)

	idx := 0
	var r lattice.IVec3
	for r[0] = 0; r[0] < g.S[0]; r[0]++ {
		for r[1] = 0; r[1] < g.S[1]; r[1]++ {
			for r[2] = 0; r[2] < g.S[2]; r[2]++ {
				require.Equal(t, idx, g.FullRIndex(r))
				require.Equal(t, r, g.Coordinate(idx))
				idx++
			}
		}
	}
}

func TestFullGIndex_WrapsBothWays(t *testing.T) {
	g := newGrid(t, lattice.IVec3{3, 4, 5})
	base := g.FullRIndex(lattice.IVec3{1, 2, 3})

	for _, r := range []lattice.IVec3{
		{1, 2, 3},
		{-2, -2, -2},
		{4, 6, 8},
		{-5, 10, -7},
	} {
		assert.Equal(t, base, g.FullGIndex(r), "r = %v", r)
	}
}

func TestVolume(t *testing.T) {
	g := newGrid(t, lattice.IVec3{2, 2, 2})
	assert.InDelta(t, 24.0, g.Volume(), 1e-12)
	assert.InDelta(t, 3.0, g.DV(), 1e-12)
}
