// SPDX-License-Identifier: MIT

package lattice

import (
	"fmt"
	"math"
	"strings"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/mat"
)

// Mat3 is a row-major 3×3 float64 matrix: m[row][col].
type Mat3 [3][3]float64

// IMat3 is a row-major 3×3 integer matrix. Symmetry operations in fractional
// coordinates are IMat3 values with determinant ±1.
type IMat3 [3][3]int

// Identity3 returns the float identity.
func Identity3() Mat3 { return Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}} }

// IIdentity3 returns the integer identity.
func IIdentity3() IMat3 { return IMat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}} }

// Diag returns diag(v).
func Diag(v Vec3) Mat3 {
	return Mat3{{v[0], 0, 0}, {0, v[1], 0}, {0, 0, v[2]}}
}

// FromColumns builds a matrix whose columns are a, b, c (lattice vectors).
func FromColumns(a, b, c Vec3) Mat3 {
	return Mat3{
		{a[0], b[0], c[0]},
		{a[1], b[1], c[1]},
		{a[2], b[2], c[2]},
	}
}

// Column returns column j.
func (m Mat3) Column(j int) Vec3 { return Vec3{m[0][j], m[1][j], m[2][j]} }

// Mul returns m·b.
func (m Mat3) Mul(b Mat3) Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[i][0]*b[0][j] + m[i][1]*b[1][j] + m[i][2]*b[2][j]
		}
	}

	return out
}

// MulVec returns m·v.
func (m Mat3) MulVec(v Vec3) Vec3 {
	return Vec3{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
}

// Sub returns m − b.
func (m Mat3) Sub(b Mat3) Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[i][j] - b[i][j]
		}
	}

	return out
}

// Transpose returns mᵀ.
func (m Mat3) Transpose() Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[j][i]
		}
	}

	return out
}

// Norm returns the Frobenius norm.
func (m Mat3) Norm() float64 {
	var s float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			s += m[i][j] * m[i][j]
		}
	}

	return math.Sqrt(s)
}

// dense copies m into a gonum matrix.
func (m Mat3) dense() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		m[0][0], m[0][1], m[0][2],
		m[1][0], m[1][1], m[1][2],
		m[2][0], m[2][1], m[2][2],
	})
}

// Det returns the determinant (LU based, gonum).
func (m Mat3) Det() float64 { return mat.Det(m.dense()) }

// Inverse returns m⁻¹ using gonum's pivoted LU. A singular or numerically
// singular input (gonum reports a Condition error) yields ErrSingular.
// Complexity: O(1) (fixed 3×3).
func (m Mat3) Inverse() (Mat3, error) {
	var inv mat.Dense
	if err := inv.Inverse(m.dense()); err != nil {
		return Mat3{}, errors.Wrapf(ErrSingular, "Mat3.Inverse: %v", err)
	}
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = inv.At(i, j)
		}
	}

	return out, nil
}

// Pretty prints the matrix one row per line with the given verb, e.g. " %12.6f ".
func (m Mat3) Pretty(verb string) string {
	var sb strings.Builder
	for i := 0; i < 3; i++ {
		sb.WriteString("[")
		for j := 0; j < 3; j++ {
			sb.WriteString(fmt.Sprintf(verb, m[i][j]))
		}
		sb.WriteString("]\n")
	}

	return sb.String()
}

// Mul returns m·b.
func (m IMat3) Mul(b IMat3) IMat3 {
	var out IMat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[i][0]*b[0][j] + m[i][1]*b[1][j] + m[i][2]*b[2][j]
		}
	}

	return out
}

// MulIVec returns m·v in integer arithmetic.
func (m IMat3) MulIVec(v IVec3) IVec3 {
	return IVec3{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
}

// MulVec returns m·v for a fractional vector.
func (m IMat3) MulVec(v Vec3) Vec3 { return m.ToFloat().MulVec(v) }

// Transpose returns mᵀ.
func (m IMat3) Transpose() IMat3 {
	var out IMat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[j][i]
		}
	}

	return out
}

// Det returns the exact integer determinant.
func (m IMat3) Det() int {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// Adjugate returns the classical adjoint, so that m·adj(m) = det(m)·I.
func (m IMat3) Adjugate() IMat3 {
	return IMat3{
		{
			m[1][1]*m[2][2] - m[1][2]*m[2][1],
			m[0][2]*m[2][1] - m[0][1]*m[2][2],
			m[0][1]*m[1][2] - m[0][2]*m[1][1],
		},
		{
			m[1][2]*m[2][0] - m[1][0]*m[2][2],
			m[0][0]*m[2][2] - m[0][2]*m[2][0],
			m[0][2]*m[1][0] - m[0][0]*m[1][2],
		},
		{
			m[1][0]*m[2][1] - m[1][1]*m[2][0],
			m[0][1]*m[2][0] - m[0][0]*m[2][1],
			m[0][0]*m[1][1] - m[0][1]*m[1][0],
		},
	}
}

// InverseUnimodular returns the exact integer inverse of a matrix with
// determinant ±1, or ErrNotUnimodular.
func (m IMat3) InverseUnimodular() (IMat3, error) {
	det := m.Det()
	if det != 1 && det != -1 {
		return IMat3{}, errors.Wrapf(ErrNotUnimodular, "det = %d", det)
	}
	adj := m.Adjugate()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			adj[i][j] *= det // 1/det == det for det = ±1
		}
	}

	return adj, nil
}

// IsIdentity reports whether m is the identity.
func (m IMat3) IsIdentity() bool { return m == IIdentity3() }

// ToFloat converts m to Mat3.
func (m IMat3) ToFloat() Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = float64(m[i][j])
		}
	}

	return out
}

// Pretty prints the matrix one row per line with the given verb, e.g. " %2d ".
func (m IMat3) Pretty(verb string) string {
	var sb strings.Builder
	for i := 0; i < 3; i++ {
		sb.WriteString("[")
		for j := 0; j < 3; j++ {
			sb.WriteString(fmt.Sprintf(verb, m[i][j]))
		}
		sb.WriteString("]\n")
	}

	return sb.String()
}

// String implements fmt.Stringer with a compact single-line form.
func (m IMat3) String() string {
	return fmt.Sprintf("[[%d %d %d] [%d %d %d] [%d %d %d]]",
		m[0][0], m[0][1], m[0][2],
		m[1][0], m[1][1], m[1][2],
		m[2][0], m[2][1], m[2][2])
}

// Cartesian returns the Cartesian realization R·m·R⁻¹ of a fractional
// operation m, given the lattice matrix R and its precomputed inverse.
func Cartesian(R, invR Mat3, m IMat3) Mat3 {
	return R.Mul(m.ToFloat()).Mul(invR)
}
