// SPDX-License-Identifier: MIT

// Package kpoints holds k-point lists and their reduction under a point
// group. Wavevectors are in fractional reciprocal coordinates; an operation m
// acting on real-space fractional coordinates acts on k through mᵀ.
//
// Reduce and InvariantSubgroup never mutate their input slices.
package kpoints

import (
	"github.com/cockroachdb/errors"
	"github.com/katalvlaran/crystalsym/lattice"
)

// Sentinel errors.
var (
	// ErrBadFolding indicates a non-positive folding count.
	ErrBadFolding = errors.New("kpoints: folding counts must be positive")
	// ErrEmptyGroup indicates an empty operation list.
	ErrEmptyGroup = errors.New("kpoints: symmetry group is empty")
)

// QuantumNumber is one k-point with its integration weight.
type QuantumNumber struct {
	K      lattice.Vec3
	Weight float64
}

// Reduction is the output of Reduce.
type Reduction struct {
	// Points is the irreducible list with merged weights.
	Points []QuantumNumber
	// InvertList is {+1} or {+1, −1}; −1 means k → −k was needed to finish
	// the reduction and every consumer of Points must also treat −k as
	// equivalent.
	InvertList []int
	// UsedInversion mirrors len(InvertList) == 2.
	UsedInversion bool
}

// Reduce collapses qnums into symmetry-irreducible representatives.
//
// Implementation:
//   - Stage 1: copy qnums into a working list.
//   - Stage 2: for invert = +1 then −1, for every i and every later j, if
//     some m satisfies |mᵀk_i − invert·k_j|²_circ < tol², add w_j to w_i and
//     remove j.
//
// Behavior highlights:
//   - A group holding only the identity returns the input unchanged (same
//     order, same weights) with InvertList {+1}.
//   - Total weight is conserved exactly (pure summation).
//   - Distances wrap to the nearest periodic image.
//
// Errors:
//   - ErrEmptyGroup.
//
// Complexity:
//   - Time O(2·N²·|G|), Space O(N).
func Reduce(qnums []QuantumNumber, group []lattice.IMat3, tol float64) (Reduction, error) {
	if len(group) == 0 {
		return Reduction{}, ErrEmptyGroup
	}
	list := make([]QuantumNumber, len(qnums))
	copy(list, qnums)
	if len(group) == 1 && group[0].IsIdentity() {
		return Reduction{Points: list, InvertList: []int{+1}}, nil
	}

	tolSq := tol * tol
	rotT := make([]lattice.Mat3, len(group))
	for i, m := range group {
		rotT[i] = m.Transpose().ToFloat()
	}

	usedInversion := false
	for _, invert := range []float64{+1, -1} {
		for i := 0; i < len(list); i++ {
			j := i + 1
			for j < len(list) {
				target := list[j].K.Scale(invert)
				found := false
				for _, mt := range rotT {
					if lattice.CircDistanceSquared(mt.MulVec(list[i].K), target) < tolSq {
						found = true
						break
					}
				}
				if !found {
					j++
					continue
				}
				if invert < 0 {
					usedInversion = true
				}
				list[i].Weight += list[j].Weight
				list = append(list[:j], list[j+1:]...)
			}
		}
	}

	red := Reduction{Points: list, InvertList: []int{+1}}
	if usedInversion {
		red.InvertList = []int{+1, -1}
		red.UsedInversion = true
	}

	return red, nil
}

// InvariantSubgroup returns the operations of group that map every k-point
// onto a k-point of equal weight (|Δw| < tol, circular distance² < tol²), in
// group order.
// Complexity: O(|G|·N²).
func InvariantSubgroup(qnums []QuantumNumber, group []lattice.IMat3, tol float64) []lattice.IMat3 {
	tolSq := tol * tol
	var sub []lattice.IMat3
	for _, m := range group {
		mt := m.Transpose().ToFloat()
		symmetric := true
		for _, q1 := range qnums {
			img := mt.MulVec(q1.K)
			foundImage := false
			for _, q2 := range qnums {
				dw := q1.Weight - q2.Weight
				if lattice.CircDistanceSquared(img, q2.K) < tolSq && dw < tol && -dw < tol {
					foundImage = true
					break
				}
			}
			if !foundImage {
				symmetric = false
				break
			}
		}
		if symmetric {
			sub = append(sub, m)
		}
	}

	return sub
}

// Fold builds a uniform Monkhorst–Pack style mesh k = (i + offset)/n per
// direction with equal weights summing to 1. Points are ordered with the
// last direction fastest.
// Errors: ErrBadFolding.
// Complexity: O(n0·n1·n2).
func Fold(folding lattice.IVec3, offset lattice.Vec3) ([]QuantumNumber, error) {
	for k := 0; k < 3; k++ {
		if folding[k] <= 0 {
			return nil, errors.Wrapf(ErrBadFolding, "folding = %v", folding)
		}
	}
	n := folding.Prod()
	w := 1 / float64(n)
	out := make([]QuantumNumber, 0, n)
	var i lattice.IVec3
	for i[0] = 0; i[0] < folding[0]; i[0]++ {
		for i[1] = 0; i[1] < folding[1]; i[1]++ {
			for i[2] = 0; i[2] < folding[2]; i[2]++ {
				var k lattice.Vec3
				for d := 0; d < 3; d++ {
					k[d] = (float64(i[d]) + offset[d]) / float64(folding[d])
				}
				out = append(out, QuantumNumber{K: k, Weight: w})
			}
		}
	}

	return out, nil
}

// TotalWeight sums the weights.
func TotalWeight(qnums []QuantumNumber) float64 {
	s := 0.0
	for _, q := range qnums {
		s += q.Weight
	}
	return s
}
