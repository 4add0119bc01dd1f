// SPDX-License-Identifier: MIT

package ions

import (
	"math"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/katalvlaran/crystalsym/lattice"
)

// ConstraintType selects how an atom may move during relaxation.
type ConstraintType int

const (
	// ConstraintNone lets the atom move freely.
	ConstraintNone ConstraintType = iota
	// ConstraintLinear restricts motion to a line along Direction.
	ConstraintLinear
	// ConstraintPlanar restricts motion to the plane normal to Direction.
	ConstraintPlanar
)

// equivalenceTol is the squared tolerance on normalized direction mismatch.
const equivalenceTol = 1e-8

// ErrBadConstraint indicates an unknown constraint type or a zero direction.
var ErrBadConstraint = errors.New("ions: invalid constraint")

// String returns the configuration spelling.
func (t ConstraintType) String() string {
	switch t {
	case ConstraintLinear:
		return "linear"
	case ConstraintPlanar:
		return "planar"
	default:
		return "none"
	}
}

// ParseConstraintType parses "none", "linear" or "planar" (case-insensitive, "" = none).
func ParseConstraintType(s string) (ConstraintType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return ConstraintNone, nil
	case "linear":
		return ConstraintLinear, nil
	case "planar":
		return ConstraintPlanar, nil
	}
	return ConstraintNone, errors.Wrapf(ErrBadConstraint, "unknown type %q", s)
}

// Constraint is a per-atom movement constraint.
type Constraint struct {
	MoveScale float64        // 0 freezes the atom
	Type      ConstraintType // none / linear / planar
	Direction lattice.Vec3   // Cartesian; line direction or plane normal
}

// Free returns the unconstrained default (move scale 1).
func Free() Constraint { return Constraint{MoveScale: 1} }

// Validate rejects linear/planar constraints without a direction.
func (c Constraint) Validate() error {
	if c.Type != ConstraintNone && c.Direction.LengthSquared() == 0 {
		return errors.Wrapf(ErrBadConstraint, "%s constraint needs a non-zero direction", c.Type)
	}
	return nil
}

// IsEquivalent reports whether c, carried by the Cartesian transform rot,
// becomes other: equal move scales, equal types, and (for linear / planar)
// rot·Direction parallel to other.Direction. Sign is irrelevant: a line and a
// plane normal have no orientation.
// Complexity: O(1).
func (c Constraint) IsEquivalent(other Constraint, rot lattice.Mat3) bool {
	if c.MoveScale != other.MoveScale || c.Type != other.Type {
		return false
	}
	if c.Type == ConstraintNone {
		return true
	}
	d1 := rot.MulVec(c.Direction)
	d2 := other.Direction
	n1, n2 := d1.Length(), d2.Length()
	if n1 == 0 || n2 == 0 {
		return false
	}
	cross := d1.Scale(1 / n1).Cross(d2.Scale(1 / n2))

	return cross.LengthSquared() < equivalenceTol && !math.IsNaN(cross[0])
}
