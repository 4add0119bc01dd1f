// SPDX-License-Identifier: MIT

// Package matrix - CDense: complex row-major storage and the handful of
// kernels the spherical symmetrizer needs (product, conjugate transpose,
// block placement, accumulate, compare).
//
// AI-Hints:
//   - CDense mirrors Dense: same index formula, same error wrapping, same
//     fixed loop orders. Keep the two in lockstep.
//   - AddInPlace/ScaleInPlace mutate the receiver; every other kernel allocates.

package matrix

import (
	"fmt"
	"math/cmplx"
	"strings"

	"github.com/cockroachdb/errors"
)

func cdenseErrorf(method string, row, col int, err error) error {
	return errors.Wrapf(err, "CDense.%s(%d,%d)", method, row, col)
}

// CDense is a row-major matrix of complex128 values.
type CDense struct {
	r, c int
	data []complex128
}

var _ fmt.Stringer = (*CDense)(nil)

// NewCDense creates an r×c zero complex matrix.
// Errors: ErrInvalidDimensions.
// Complexity: O(r*c).
func NewCDense(rows, cols int) (*CDense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, cdenseErrorf(ctxNew, rows, cols, ErrInvalidDimensions)
	}

	return &CDense{r: rows, c: cols, data: make([]complex128, rows*cols)}, nil
}

// FromReal lifts a real matrix into CDense (zero imaginary parts).
// Errors: ErrNilMatrix.
func FromReal(m Matrix) (*CDense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, err
	}
	dm, err := asDense(m)
	if err != nil {
		return nil, err
	}
	out, err := NewCDense(dm.r, dm.c)
	if err != nil {
		return nil, err
	}
	for idx, v := range dm.data {
		out.data[idx] = complex(v, 0)
	}

	return out, nil
}

// Rows returns the row count.
func (m *CDense) Rows() int { return m.r }

// Cols returns the column count.
func (m *CDense) Cols() int { return m.c }

func (m *CDense) indexOf(method string, row, col int) (int, error) {
	if row < 0 || row >= m.r || col < 0 || col >= m.c {
		return 0, cdenseErrorf(method, row, col, ErrOutOfRange)
	}

	return row*m.c + col, nil
}

// At retrieves the element at (row, col).
// Errors: ErrOutOfRange.
func (m *CDense) At(row, col int) (complex128, error) {
	idx, err := m.indexOf(ctxAt, row, col)
	if err != nil {
		return 0, err
	}

	return m.data[idx], nil
}

// Set assigns v at (row, col).
// Errors: ErrOutOfRange.
func (m *CDense) Set(row, col int, v complex128) error {
	idx, err := m.indexOf(ctxSet, row, col)
	if err != nil {
		return err
	}
	m.data[idx] = v

	return nil
}

// Clone returns a deep copy.
func (m *CDense) Clone() *CDense {
	buf := make([]complex128, len(m.data))
	copy(buf, m.data)

	return &CDense{r: m.r, c: m.c, data: buf}
}

// Zero resets every entry to 0 without reallocating.
func (m *CDense) Zero() {
	for i := range m.data {
		m.data[i] = 0
	}
}

// SetBlock copies b into m with b's (0,0) landing at (row0, col0).
// Errors: ErrNilMatrix, ErrOutOfRange when the block does not fit.
// Complexity: O(b.r*b.c).
func (m *CDense) SetBlock(row0, col0 int, b *CDense) error {
	if err := ValidateNotNil(b); err != nil {
		return matrixErrorf(opSetBlock, err)
	}
	if row0 < 0 || col0 < 0 || row0+b.r > m.r || col0+b.c > m.c {
		return matrixErrorf(opSetBlock, cdenseErrorf(opSetBlock, row0, col0, ErrOutOfRange))
	}
	for i := 0; i < b.r; i++ {
		copy(m.data[(row0+i)*m.c+col0:(row0+i)*m.c+col0+b.c], b.data[i*b.c:(i+1)*b.c])
	}

	return nil
}

// AddInPlace performs m += b.
// Errors: ErrNilMatrix, ErrDimensionMismatch.
// Complexity: O(r*c).
func (m *CDense) AddInPlace(b *CDense) error {
	if err := ValidateBinarySameShape(m, b); err != nil {
		return matrixErrorf(opAdd, err)
	}
	for idx := range m.data {
		m.data[idx] += b.data[idx]
	}

	return nil
}

// ScaleInPlace performs m *= alpha.
func (m *CDense) ScaleInPlace(alpha complex128) {
	for idx := range m.data {
		m.data[idx] *= alpha
	}
}

// String prints one "[a, b, c]" line per row.
func (m *CDense) String() string {
	var sb strings.Builder
	for i := 0; i < m.r; i++ {
		sb.WriteString(_fmtRowOpen)
		for j := 0; j < m.c; j++ {
			sb.WriteString(fmt.Sprintf("%g", m.data[i*m.c+j]))
			if j < m.c-1 {
				sb.WriteString(_fmtSep)
			}
		}
		sb.WriteString(_fmtRowClose)
	}

	return sb.String()
}

// CMul returns the complex product A × B.
//
// Determinism:
//   - Fixed loop order i→k→j, zero A[i,k] skipped.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//
// Complexity:
//   - Time O(r*n*c), Space O(r*c).
func CMul(a, b *CDense) (*CDense, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	res, err := NewCDense(a.r, b.c)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	var av complex128
	for i := 0; i < a.r; i++ {
		for k := 0; k < a.c; k++ {
			av = a.data[i*a.c+k]
			if av == 0 {
				continue
			}
			for j := 0; j < b.c; j++ {
				res.data[i*b.c+j] += av * b.data[k*b.c+j]
			}
		}
	}

	return res, nil
}

// Dagger returns the conjugate transpose m†.
// Errors: ErrNilMatrix.
// Complexity: O(r*c).
func Dagger(m *CDense) (*CDense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opDagger, err)
	}
	res, err := NewCDense(m.c, m.r)
	if err != nil {
		return nil, matrixErrorf(opDagger, err)
	}
	for i := 0; i < m.r; i++ {
		for j := 0; j < m.c; j++ {
			res.data[j*m.r+i] = cmplx.Conj(m.data[i*m.c+j])
		}
	}

	return res, nil
}

// AllClose reports whether |a_ij − b_ij| ≤ atol + rtol·|b_ij| for every entry.
// Errors: ErrNilMatrix, ErrDimensionMismatch.
// Complexity: O(r*c).
func AllClose(a, b *CDense, rtol, atol float64) (bool, error) {
	if err := ValidateBinarySameShape(a, b); err != nil {
		return false, matrixErrorf(opAllClose, err)
	}
	for idx := range a.data {
		if cmplx.Abs(a.data[idx]-b.data[idx]) > atol+rtol*cmplx.Abs(b.data[idx]) {
			return false, nil
		}
	}

	return true, nil
}
