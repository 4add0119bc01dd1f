// SPDX-License-Identifier: MIT

package lattice

import "github.com/cockroachdb/errors"

var (
	// ErrSingular is returned when a 3×3 matrix that must be inverted is singular
	// (or numerically indistinguishable from singular).
	ErrSingular = errors.New("lattice: singular matrix")

	// ErrNotUnimodular is returned when an integer matrix expected to have
	// determinant ±1 does not.
	ErrNotUnimodular = errors.New("lattice: integer matrix is not unimodular")
)
