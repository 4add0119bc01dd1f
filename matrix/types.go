// SPDX-License-Identifier: MIT

package matrix

// Shaped is anything with a row and column count. Validators accept it so that
// real and complex matrices share one set of guards.
type Shaped interface {
	// Rows returns the number of rows.
	// Complexity: O(1).
	Rows() int

	// Cols returns the number of columns.
	// Complexity: O(1).
	Cols() int
}

// Matrix represents a two-dimensional mutable array of float64 values.
//
// Complexity notes: all methods are expected O(1) except Clone (O(r*c)).
type Matrix interface {
	Shaped

	// At retrieves the element at position (i, j).
	// Returns ErrOutOfRange if i<0, i>=Rows(), j<0 or j>=Cols().
	// Complexity: O(1).
	At(i, j int) (float64, error)

	// Set assigns the value v at position (i, j).
	// Returns ErrOutOfRange if indices are invalid.
	// Complexity: O(1).
	Set(i, j int, v float64) error

	// Clone returns a deep copy of the matrix.
	// Complexity: O(rows*cols).
	Clone() Matrix
}
