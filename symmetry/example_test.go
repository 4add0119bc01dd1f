// File: symmetry/example_test.go
package symmetry_test

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/katalvlaran/crystalsym/grid"
	"github.com/katalvlaran/crystalsym/ions"
	"github.com/katalvlaran/crystalsym/kpoints"
	"github.com/katalvlaran/crystalsym/lattice"
	"github.com/katalvlaran/crystalsym/symmetry"
)

////////////////////////////////////////////////////////////////////////////////
// Example: full pipeline
////////////////////////////////////////////////////////////////////////////////

// ExampleSymmetries_Setup discovers the group of simple cubic polonium,
// adapts it to a 6×6×6 grid and reduces a 4×4×4 k-mesh.
//
//   - Setup: 48 operations (Oh), identity first.
//   - SetupMesh: grid points split into orbits.
//   - ReduceKmesh: 64 k-points collapse to 10.
func ExampleSymmetries_Setup() {
	R := lattice.Identity3()
	st := &ions.Structure{Species: []*ions.Species{
		{Name: "Po", Positions: []lattice.Vec3{{0, 0, 0}}},
	}}

	s, _ := symmetry.New()
	if err := s.Setup(symmetry.System{Lattice: R, Ions: st}); err != nil {
		fmt.Println("setup:", err)
		return
	}
	fmt.Println("order:", s.Order(), "identity first:", s.Matrices()[0].IsIdentity())

	g, _ := grid.New(R, lattice.IVec3{6, 6, 6})
	q, _ := kpoints.Fold(lattice.IVec3{4, 4, 4}, lattice.Vec3{})
	if err := s.SetupMesh(g, q); err != nil {
		fmt.Println("mesh:", err)
		return
	}
	fmt.Println("grid points:", g.Nr, "table length:", len(s.Orbits().Index))

	red, _ := s.ReduceKmesh(q)
	fmt.Println("k-points:", len(q), "->", len(red.Points))

	// Output:
	// order: 48 identity first: true
	// grid points: 216 table length: 960
	// k-points: 64 -> 10
}

////////////////////////////////////////////////////////////////////////////////
// Example: better origin
////////////////////////////////////////////////////////////////////////////////

// ExampleBetterCenterError shows the origin search: an atom at (¼,¼,¼)
// only keeps the 6 axis permutations, but moving it to the origin restores
// all 48 operations. Setup reports the shift instead of applying it.
func ExampleBetterCenterError() {
	st := &ions.Structure{Species: []*ions.Species{
		{Name: "X", Positions: []lattice.Vec3{{0.25, 0.25, 0.25}}},
	}}
	s, _ := symmetry.New(symmetry.WithMoveAtoms(true))
	err := s.Setup(symmetry.System{Lattice: lattice.Identity3(), Ions: st})

	var bc *symmetry.BetterCenterError
	if errors.As(err, &bc) {
		fmt.Printf("%d -> %d operations, shift (%.2f, %.2f, %.2f)\n",
			bc.OldOrder, bc.NewOrder, bc.Shift[0], bc.Shift[1], bc.Shift[2])
	}

	// Output:
	// 6 -> 48 operations, shift (-0.25, -0.25, -0.25)
}
