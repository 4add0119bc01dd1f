// SPDX-License-Identifier: MIT
// Package matrix provides universal operations on any Matrix implementation:
// element-wise subtraction, multiplication, transpose,
// LU factorization with partial pivoting, and inversion. All functions
// perform strict fail-fast validation and return wrapped sentinels.
//
// Purpose:
//   - Declare canonical linear-algebra kernels used by the symmetry core.
//   - Define operation tags and shared constants for determinism and error reporting.

package matrix

import (
	"math"

	"github.com/cockroachdb/errors"
)

// ZeroSum is the initial sum value for forward/backward substitution and similar.
const ZeroSum = 0.0

// PivotTolerance is the smallest |pivot| accepted by LU before ErrSingular.
const PivotTolerance = 1e-14

// Operation name constants for unified error wrapping and reducing magic strings.
const (
	opAdd       = "Add"
	opSub       = "Sub"
	opMul       = "Mul"
	opTranspose = "Transpose"
	opMaxAbs    = "MaxAbs"
	opInverse   = "Inverse"
	opLU        = "LU"
	opAllClose  = "AllClose"
	opDagger    = "Dagger"
	opSetBlock  = "SetBlock"
)

// matrixErrorf wraps err with an operation tag, preserving the original error
// for errors.Is/errors.As. The message has the stable shape "<tag>: <cause>".
//
// Notes:
//   - Use only when err != nil; wrapping nil yields nil.
//
// AI-Hints:
//   - Always gate calls with `if err != nil { return nil, matrixErrorf(tag, err) }`.
func matrixErrorf(tag string, err error) error {
	return errors.Wrap(err, tag)
}

// asDense returns m itself when it is a *Dense, or a freshly copied *Dense
// built through the interface accessors otherwise.
// Complexity: O(1) fast path, O(r*c) fallback.
func asDense(m Matrix) (*Dense, error) {
	if d, ok := m.(*Dense); ok {
		return d, nil
	}
	out, err := NewDense(m.Rows(), m.Cols())
	if err != nil {
		return nil, err
	}
	var v float64
	for i := 0; i < out.r; i++ {
		for j := 0; j < out.c; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, err
			}
			out.data[i*out.c+j] = v
		}
	}

	return out, nil
}

// Sub computes the element-wise difference C = A - B and returns a fresh Dense result.
// Errors: ErrNilMatrix, ErrDimensionMismatch.
// Complexity: O(r*c).
func Sub(a, b Matrix) (*Dense, error) {
	if err := ValidateBinarySameShape(a, b); err != nil {
		return nil, matrixErrorf(opSub, err)
	}
	da, err := asDense(a)
	if err != nil {
		return nil, matrixErrorf(opSub, err)
	}
	db, err := asDense(b)
	if err != nil {
		return nil, matrixErrorf(opSub, err)
	}
	res, err := NewDense(da.r, da.c)
	if err != nil {
		return nil, matrixErrorf(opSub, err)
	}
	for idx := range res.data {
		res.data[idx] = da.data[idx] - db.data[idx]
	}

	return res, nil
}

// Mul performs standard matrix multiplication C = A × B (no aliasing).
//
// Implementation:
//   - Stage 1: Validate A,B (not nil) and inner dimensions (A.Cols == B.Rows).
//   - Stage 2: i→k→j with row-major strides, skipping zero A[i,k].
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//
// Determinism:
//   - Fixed loop order i→k→j.
//
// Complexity:
//   - Time O(r*n*c), Space O(r*c).
func Mul(a, b Matrix) (*Dense, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	da, err := asDense(a)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	db, err := asDense(b)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	res, err := NewDense(da.r, db.c)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}

	var (
		i, j, k                            int
		av                                 float64
		rowOffsetA, rowOffsetB, rowOffsetR int
	)
	for i = 0; i < da.r; i++ {
		rowOffsetA = i * da.c
		rowOffsetR = i * db.c
		for k = 0; k < da.c; k++ {
			av = da.data[rowOffsetA+k]
			if av == 0 {
				continue
			}
			rowOffsetB = k * db.c
			for j = 0; j < db.c; j++ {
				res.data[rowOffsetR+j] += av * db.data[rowOffsetB+j]
			}
		}
	}

	return res, nil
}

// Transpose returns a new matrix with rows and columns swapped (mᵀ).
// Errors: ErrNilMatrix.
// Complexity: O(r*c).
func Transpose(m Matrix) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	dm, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	res, err := NewDense(dm.c, dm.r)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	for i := 0; i < dm.r; i++ {
		for j := 0; j < dm.c; j++ {
			res.data[j*dm.r+i] = dm.data[i*dm.c+j]
		}
	}

	return res, nil
}

// MaxAbs returns max |m[i,j]|, the largest entry magnitude.
// Errors: ErrNilMatrix.
// Complexity: O(r*c).
func MaxAbs(m Matrix) (float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return 0, matrixErrorf(opMaxAbs, err)
	}
	dm, err := asDense(m)
	if err != nil {
		return 0, matrixErrorf(opMaxAbs, err)
	}
	var out float64
	for _, v := range dm.data {
		out = math.Max(out, math.Abs(v))
	}

	return out, nil
}

// LUFactors is the packed result of LU: P·A = L·U where L is unit lower
// triangular (stored below the diagonal of LU) and U is upper triangular
// (stored on and above it). Perm[i] is the original row now at position i.
type LUFactors struct {
	LU   *Dense
	Perm []int
	// Sign is +1 or −1: the parity of the row permutation.
	Sign float64
}

// LU computes the Doolittle factorization with partial (row) pivoting.
//
// Implementation:
//   - Stage 1: Validate m (not nil, square); copy into a working buffer.
//   - Stage 2: For each column k pick the row p ≥ k with the largest |a[p,k]|
//     (first such row on ties), swap rows k and p, then eliminate below.
//
// Behavior highlights:
//   - Pivoting makes bases with a zero leading entry (common for probe-direction
//     matrices of spherical harmonics) factorizable.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch, ErrSingular (|pivot| < PivotTolerance).
//
// Determinism:
//   - Fixed column order and first-max tie breaking.
//
// Complexity:
//   - Time O(n^3), Space O(n^2).
func LU(m Matrix) (*LUFactors, error) {
	if err := ValidateSquareNonNil(m); err != nil {
		return nil, matrixErrorf(opLU, err)
	}
	src, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf(opLU, err)
	}
	n := src.r
	a := src.Clone().(*Dense)
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	sign := 1.0

	var (
		i, j, k, p    int
		best, f, tmpV float64
	)
	for k = 0; k < n; k++ {
		// Pivot selection: largest magnitude in column k at or below the diagonal.
		p = k
		best = math.Abs(a.data[k*n+k])
		for i = k + 1; i < n; i++ {
			if v := math.Abs(a.data[i*n+k]); v > best {
				best, p = v, i
			}
		}
		if best < PivotTolerance {
			return nil, matrixErrorf(opLU, errors.Wrapf(ErrSingular, "column %d", k))
		}
		if p != k {
			for j = 0; j < n; j++ {
				tmpV = a.data[k*n+j]
				a.data[k*n+j] = a.data[p*n+j]
				a.data[p*n+j] = tmpV
			}
			perm[k], perm[p] = perm[p], perm[k]
			sign = -sign
		}
		// Elimination below the pivot; multipliers are stored in place.
		for i = k + 1; i < n; i++ {
			f = a.data[i*n+k] / a.data[k*n+k]
			a.data[i*n+k] = f
			if f == 0 {
				continue
			}
			for j = k + 1; j < n; j++ {
				a.data[i*n+j] -= f * a.data[k*n+j]
			}
		}
	}

	return &LUFactors{LU: a, Perm: perm, Sign: sign}, nil
}

// Det returns det(A) from the factorization.
func (f *LUFactors) Det() float64 {
	n := f.LU.r
	det := f.Sign
	for i := 0; i < n; i++ {
		det *= f.LU.data[i*n+i]
	}

	return det
}

// solveInto solves A·x = b for one right-hand side; y is scratch.
// Complexity: O(n^2).
func (f *LUFactors) solveInto(b, y, x []float64) {
	n := f.LU.r
	lu := f.LU.data
	var i, k int
	var sum float64
	// Forward substitution: L·y = P·b.
	for i = 0; i < n; i++ {
		sum = b[f.Perm[i]]
		for k = 0; k < i; k++ {
			sum -= lu[i*n+k] * y[k]
		}
		y[i] = sum
	}
	// Backward substitution: U·x = y.
	for i = n - 1; i >= 0; i-- {
		sum = y[i]
		for k = i + 1; k < n; k++ {
			sum -= lu[i*n+k] * x[k]
		}
		x[i] = sum / lu[i*n+i]
	}
}

// Inverse returns A⁻¹ computed column by column from the pivoted LU.
//
// Implementation:
//   - Stage 1: LU(m) with partial pivoting.
//   - Stage 2: for each unit vector e_col solve L·U·x = P·e_col.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch, ErrSingular.
//
// Complexity:
//   - Time O(n^3), Space O(n^2).
func Inverse(m Matrix) (*Dense, error) {
	fac, err := LU(m)
	if err != nil {
		return nil, matrixErrorf(opInverse, err)
	}
	n := fac.LU.r
	inv, err := NewDense(n, n)
	if err != nil {
		return nil, matrixErrorf(opInverse, err)
	}
	var (
		e = make([]float64, n)
		y = make([]float64, n)
		x = make([]float64, n)
	)
	for col := 0; col < n; col++ {
		for i := range e {
			e[i] = 0
		}
		e[col] = 1
		fac.solveInto(e, y, x)
		for i := 0; i < n; i++ {
			inv.data[i*n+col] = x[i]
		}
	}

	return inv, nil
}
