// SPDX-License-Identifier: MIT

// Package ylm evaluates real, orthonormal spherical harmonics Y_lm(n̂) on unit
// vectors for 0 ≤ l ≤ LMax. The real basis uses m < 0 for sine-like and
// m > 0 for cosine-like combinations, matching the usual chemistry ordering
// (for l = 1: y, z, x).
package ylm

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/katalvlaran/crystalsym/lattice"
)

// LMax is the largest supported angular momentum.
const LMax = 3

// Sentinel errors.
var (
	// ErrUnsupportedL indicates l < 0 or l > LMax.
	ErrUnsupportedL = errors.New("ylm: unsupported angular momentum")
	// ErrBadM indicates |m| > l.
	ErrBadM = errors.New("ylm: |m| exceeds l")
)

// Normalization constants.
var (
	c00  = math.Sqrt(1 / (4 * math.Pi))
	c1   = math.Sqrt(3 / (4 * math.Pi))
	c2a  = math.Sqrt(15 / (4 * math.Pi))
	c20  = math.Sqrt(5 / (16 * math.Pi))
	c22  = math.Sqrt(15 / (16 * math.Pi))
	c33  = math.Sqrt(35 / (32 * math.Pi))
	c32a = math.Sqrt(105 / (4 * math.Pi))
	c31  = math.Sqrt(21 / (32 * math.Pi))
	c30  = math.Sqrt(7 / (16 * math.Pi))
	c32  = math.Sqrt(105 / (16 * math.Pi))
)

// Real returns Y_lm at the direction of n. n need not be normalized; a zero
// vector yields the value at +ẑ.
// Errors: ErrUnsupportedL, ErrBadM.
func Real(l, m int, n lattice.Vec3) (float64, error) {
	if l < 0 || l > LMax {
		return 0, errors.Wrapf(ErrUnsupportedL, "l = %d (max %d)", l, LMax)
	}
	if m < -l || m > l {
		return 0, errors.Wrapf(ErrBadM, "l = %d, m = %d", l, m)
	}
	x, y, z := unit(n)

	switch l {
	case 0:
		return c00, nil
	case 1:
		switch m {
		case -1:
			return c1 * y, nil
		case 0:
			return c1 * z, nil
		default:
			return c1 * x, nil
		}
	case 2:
		switch m {
		case -2:
			return c2a * x * y, nil
		case -1:
			return c2a * y * z, nil
		case 0:
			return c20 * (3*z*z - 1), nil
		case 1:
			return c2a * x * z, nil
		default:
			return c22 * (x*x - y*y), nil
		}
	}
	switch m {
	case -3:
		return c33 * y * (3*x*x - y*y), nil
	case -2:
		return c32a * x * y * z, nil
	case -1:
		return c31 * y * (5*z*z - 1), nil
	case 0:
		return c30 * z * (5*z*z - 3), nil
	case 1:
		return c31 * x * (5*z*z - 1), nil
	case 2:
		return c32 * z * (x*x - y*y), nil
	default:
		return c33 * x * (x*x - 3*y*y), nil
	}
}

// Row returns Y_l,m(n) for m = −l..l, in that order.
func Row(l int, n lattice.Vec3) ([]float64, error) {
	if l < 0 || l > LMax {
		return nil, errors.Wrapf(ErrUnsupportedL, "l = %d (max %d)", l, LMax)
	}
	out := make([]float64, 2*l+1)
	for m := -l; m <= l; m++ {
		v, err := Real(l, m, n)
		if err != nil {
			return nil, err
		}
		out[l+m] = v
	}

	return out, nil
}

func unit(n lattice.Vec3) (x, y, z float64) {
	r := n.Length()
	if r == 0 {
		return 0, 0, 1
	}
	return n[0] / r, n[1] / r, n[2] / r
}
