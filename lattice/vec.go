// SPDX-License-Identifier: MIT

package lattice

import (
	"fmt"
	"math"
)

// Vec3 is a 3-vector of float64 (fractional or Cartesian, depending on context).
type Vec3 [3]float64

// IVec3 is a 3-vector of ints (grid indices, grid dimensions, k-mesh folding).
type IVec3 [3]int

// Add returns a + b.
func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

// Sub returns a − b.
func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// Scale returns s·a.
func (a Vec3) Scale(s float64) Vec3 {
	return Vec3{s * a[0], s * a[1], s * a[2]}
}

// Dot returns a·b.
func (a Vec3) Dot(b Vec3) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// Cross returns a × b.
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// LengthSquared returns |a|².
func (a Vec3) LengthSquared() float64 { return a.Dot(a) }

// Length returns |a|.
func (a Vec3) Length() float64 { return math.Sqrt(a.Dot(a)) }

// Round returns the component-wise nearest integers.
func (a Vec3) Round() IVec3 {
	return IVec3{int(math.Round(a[0])), int(math.Round(a[1])), int(math.Round(a[2]))}
}

// String formats the vector as "[ x y z ]" with %g precision.
func (a Vec3) String() string {
	return fmt.Sprintf("[ %g %g %g ]", a[0], a[1], a[2])
}

// Add returns a + b.
func (a IVec3) Add(b IVec3) IVec3 {
	return IVec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

// ToFloat converts to Vec3.
func (a IVec3) ToFloat() Vec3 {
	return Vec3{float64(a[0]), float64(a[1]), float64(a[2])}
}

// Prod returns a[0]·a[1]·a[2] (e.g. the number of points of a grid).
func (a IVec3) Prod() int { return a[0] * a[1] * a[2] }

// Sum returns a[0]+a[1]+a[2].
func (a IVec3) Sum() int { return a[0] + a[1] + a[2] }

// CircDistanceSquared returns the squared distance between fractional
// coordinates a and b measured to the nearest periodic image: every
// component of a−b is first wrapped into [-0.5, 0.5).
//
// This is the only distance used for matching positions and wavevectors;
// plain Euclidean distance would treat 0.999 and 0.001 as far apart.
// Complexity: O(1).
func CircDistanceSquared(a, b Vec3) float64 {
	var d Vec3
	for k := 0; k < 3; k++ {
		x := a[k] - b[k]
		d[k] = x - math.Floor(0.5+x) // nearest image
	}

	return d.LengthSquared()
}
