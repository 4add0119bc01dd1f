// SPDX-License-Identifier: MIT

package symmetry

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/katalvlaran/crystalsym/ions"
	"github.com/katalvlaran/crystalsym/lattice"
	"github.com/katalvlaran/crystalsym/ylm"
)

// Sentinel errors. All are fatal for the calculation that produced them.
var (
	// ErrManualEmpty indicates manual mode without any matrices.
	ErrManualEmpty = errors.New("symmetry: manual symmetries specified without any matrices")

	// ErrSymmetryMismatch indicates an operation that does not map the
	// structure (positions and moments) onto itself, or a group without identity.
	ErrSymmetryMismatch = errors.New("symmetry: symmetries do not agree with atomic positions")

	// ErrIncommensurateGrid indicates a grid that cannot represent an operation exactly.
	ErrIncommensurateGrid = errors.New("symmetry: grid not commensurate with symmetries")

	// ErrEmbedNotInvariant indicates an embedding center moved by some operation.
	ErrEmbedNotInvariant = errors.New("symmetry: coulomb embedding center is not invariant under symmetries")

	// ErrNoEmbedCenter indicates that no symmetric grid point was found for the embedding center.
	ErrNoEmbedCenter = errors.New("symmetry: no symmetry-invariant grid point for the embedding center")

	// ErrNoAtomImage indicates an atom whose image under an operation is not an atom.
	ErrNoAtomImage = errors.New("symmetry: atom has no symmetric image")

	// ErrInconsistentConstraint indicates symmetry-related atoms with different constraints.
	ErrInconsistentConstraint = errors.New("symmetry: symmetry-related atoms have inconsistent move constraints")

	// ErrBetterCenter indicates that translating the structure would raise the group order.
	ErrBetterCenter = errors.New("symmetry: a different origin yields more symmetries")

	// ErrUnsupportedL is the angular-momentum limit of the spherical representation.
	ErrUnsupportedL = ylm.ErrUnsupportedL

	// ErrFieldLength indicates a field or force array of the wrong size.
	ErrFieldLength = errors.New("symmetry: array length does not match")

	// ErrNotSetup indicates a call that needs Setup (or SetupMesh) first.
	ErrNotSetup = errors.New("symmetry: not set up")

	// ErrBadOption indicates an invalid option value.
	ErrBadOption = errors.New("symmetry: invalid option")
)

// Kind classifies the errors returned by this package.
type Kind int

const (
	// KindUnknown is any error not produced by this package (or nil).
	KindUnknown Kind = iota
	KindManualEmpty
	KindSymmetryMismatch
	KindIncommensurate
	KindEmbedNotInvariant
	KindNoEmbedCenter
	KindNoAtomImage
	KindInconsistentConstraint
	KindBetterCenter
	KindUnsupportedL
	// KindUsage covers caller mistakes: bad options, wrong sizes, missing setup.
	KindUsage
)

var kindNames = [...]string{
	KindUnknown:                "unknown",
	KindManualEmpty:            "manual-empty",
	KindSymmetryMismatch:       "symmetry-mismatch",
	KindIncommensurate:         "incommensurate",
	KindEmbedNotInvariant:      "embed-not-invariant",
	KindNoEmbedCenter:          "no-embed-center",
	KindNoAtomImage:            "no-atom-image",
	KindInconsistentConstraint: "inconsistent-constraint",
	KindBetterCenter:           "better-center",
	KindUnsupportedL:           "unsupported-l",
	KindUsage:                  "usage",
}

// String returns a short, stable name.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[KindUnknown]
	}
	return kindNames[k]
}

var kindTable = []struct {
	sentinel error
	kind     Kind
}{
	{ErrManualEmpty, KindManualEmpty},
	{ErrSymmetryMismatch, KindSymmetryMismatch},
	{ErrIncommensurateGrid, KindIncommensurate},
	{ErrEmbedNotInvariant, KindEmbedNotInvariant},
	{ErrNoEmbedCenter, KindNoEmbedCenter},
	{ErrNoAtomImage, KindNoAtomImage},
	{ErrInconsistentConstraint, KindInconsistentConstraint},
	{ErrBetterCenter, KindBetterCenter},
	{ErrUnsupportedL, KindUnsupportedL},
	{ErrFieldLength, KindUsage},
	{ErrNotSetup, KindUsage},
	{ErrBadOption, KindUsage},
}

// KindOf classifies err; KindUnknown for nil or foreign errors.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	for _, e := range kindTable {
		if errors.Is(err, e.sentinel) {
			return e.kind
		}
	}
	return KindUnknown
}

// IsFatal reports whether err is a structural-invariant violation: the group
// or the grid cannot be trusted and no result derived from them is valid.
func IsFatal(err error) bool {
	k := KindOf(err)
	return k != KindUnknown && k != KindUsage
}

// IncommensurateError reports the first mesh-matrix entry that is not integral.
type IncommensurateError struct {
	Op     int           // index of the operation in the group
	Matrix lattice.IMat3 // the operation on fractional coordinates
	S      lattice.IVec3 // grid dimensions
	Row    int
	Col    int
}

// Error implements error.
func (e *IncommensurateError) Error() string {
	return fmt.Sprintf("%v: operation %d %v: S[%d]·m[%d][%d] = %d not divisible by S[%d] = %d",
		ErrIncommensurateGrid, e.Op, e.Matrix, e.Row, e.Row, e.Col,
		e.S[e.Row]*e.Matrix[e.Row][e.Col], e.Col, e.S[e.Col])
}

// Unwrap returns ErrIncommensurateGrid.
func (e *IncommensurateError) Unwrap() error { return ErrIncommensurateGrid }

// BetterCenterError reports an origin shift that would raise the group order.
// The structure is never moved; Positions holds the suggested coordinates.
type BetterCenterError struct {
	// Shift is the translation to apply to every atom (−rCenter).
	Shift lattice.Vec3
	// OldOrder and NewOrder are the group sizes before and after.
	OldOrder, NewOrder int
	// Positions is a translated copy of the structure.
	Positions *ions.Structure
}

// Error implements error.
func (e *BetterCenterError) Error() string {
	return fmt.Sprintf("%v: translating atoms by %v (lattice coordinates) increases the symmetry count from %d to %d",
		ErrBetterCenter, e.Shift, e.OldOrder, e.NewOrder)
}

// Unwrap returns ErrBetterCenter.
func (e *BetterCenterError) Unwrap() error { return ErrBetterCenter }
