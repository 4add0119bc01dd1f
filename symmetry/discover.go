// SPDX-License-Identifier: MIT

package symmetry

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/katalvlaran/crystalsym/ions"
	"github.com/katalvlaran/crystalsym/lattice"
	"github.com/katalvlaran/crystalsym/latticesym"
	"go.uber.org/zap"
)

// mismatch describes the first atom an operation fails to map.
type mismatch struct {
	species string
	atom    int
	image   lattice.Vec3
}

// validateOperation is the single check shared by automatic filtering and
// manual validation: for every species and atom a1, offset + m·(pos[a1] −
// offset) must lie within tol of an atom a2 of the same species carrying the
// same magnetic moment.
// Returns nil when m maps the structure onto itself.
// Complexity: O(atoms²).
func validateOperation(st *ions.Structure, m lattice.IMat3, offset lattice.Vec3, tolSq float64) *mismatch {
	mf := m.ToFloat()
	for _, sp := range st.Species {
		for a1, p1 := range sp.Positions {
			mapped := offset.Add(mf.MulVec(p1.Sub(offset)))
			found := false
			for a2, p2 := range sp.Positions {
				if lattice.CircDistanceSquared(mapped, p2) < tolSq && sp.MomentsMatch(a1, a2) {
					found = true
					break
				}
			}
			if !found {
				return &mismatch{species: sp.Name, atom: a1, image: mapped}
			}
		}
	}

	return nil
}

// BasisReduce keeps the candidates that map the structure onto itself about
// offset, in candidate order.
// Complexity: O(|candidates| · atoms²).
func BasisReduce(st *ions.Structure, candidates []lattice.IMat3, offset lattice.Vec3, tol float64) []lattice.IMat3 {
	tolSq := tol * tol
	var out []lattice.IMat3
	for _, m := range candidates {
		if validateOperation(st, m, offset, tolSq) == nil {
			out = append(out, m)
		}
	}

	return out
}

// SortIdentityFirst swaps the identity into index 0 and reports whether the
// group contains it. The relative order of other elements is kept except for
// the swapped one.
func SortIdentityFirst(group []lattice.IMat3) bool {
	for i := range group {
		if group[i].IsIdentity() {
			group[0], group[i] = group[i], group[0]
			return true
		}
	}
	return false
}

// CenterCandidates lists the trial origins in search order: per species, for
// each atom n1 its position followed by the midpoints with every n2 < n1.
func CenterCandidates(st *ions.Structure) []lattice.Vec3 {
	var out []lattice.Vec3
	for _, sp := range st.Species {
		for n1, p1 := range sp.Positions {
			out = append(out, p1)
			for n2 := 0; n2 < n1; n2++ {
				out = append(out, p1.Add(sp.Positions[n2]).Scale(0.5))
			}
		}
	}

	return out
}

// searchCenters retries BasisReduce about every candidate origin and keeps
// the first one that strictly beats the best group found so far.
func searchCenters(st *ions.Structure, latticeSym, current []lattice.IMat3, tol float64) (lattice.Vec3, []lattice.IMat3) {
	var rCenter lattice.Vec3
	best := current
	for _, c := range CenterCandidates(st) {
		trial := BasisReduce(st, latticeSym, c, tol)
		if len(trial) > len(best) {
			rCenter, best = c, trial
		}
	}

	return rCenter, best
}

// discover produces the normalized group according to the configured mode.
func (s *Symmetries) discover() ([]lattice.IMat3, error) {
	switch s.opts.Mode {
	case ModeAutomatic:
		return s.discoverAutomatic()
	case ModeManual:
		return s.discoverManual()
	default:
		return []lattice.IMat3{lattice.IIdentity3()}, nil
	}
}

func (s *Symmetries) discoverAutomatic() ([]lattice.IMat3, error) {
	R := s.sys.Lattice
	tol := s.opts.Tolerance
	s.log.Info("searching for point group symmetries")

	var truncated [3]bool
	if s.sys.Coulomb != nil {
		truncated = s.sys.Coulomb.Truncated
	}
	res, err := s.opts.Finder.Symmetries(R, truncated)
	if err != nil {
		return nil, errors.Wrap(err, "symmetry: lattice symmetries")
	}
	if res.Reduced.Sub(R).Norm() > tol*res.Reduced.Norm() {
		s.log.Warn("non-trivial transmission matrix",
			zap.String("transmission", res.Transmission.Pretty(" %2d ")),
			zap.String("reducedLattice", res.Reduced.Pretty(" %12.6f ")))
	}
	s.log.Info("symmetries of the bravais lattice", zap.Int("count", len(res.Candidates)))

	sym := BasisReduce(s.sys.Ions, res.Candidates, lattice.Vec3{}, tol)
	s.log.Info("reduced symmetries with basis", zap.Int("count", len(sym)))
	if !SortIdentityFirst(sym) {
		return nil, errors.Wrap(ErrSymmetryMismatch, "lattice finder returned no identity operation")
	}
	if s.opts.PrintMatrices {
		s.logMatrices("symmetry matrix", sym)
	}

	if !s.opts.MoveAtoms {
		return sym, nil
	}
	rCenter, best := searchCenters(s.sys.Ions, res.Candidates, sym, tol)
	if len(best) <= len(sym) {
		return sym, nil
	}

	moved := s.sys.Ions.Translated(rCenter)
	var sb strings.Builder
	_ = moved.WritePositions(&sb)
	shift := rCenter.Scale(-1)
	s.log.Warn("translating atoms increases the symmetry count",
		zap.Stringer("shift", shift),
		zap.Int("from", len(sym)),
		zap.Int("to", len(best)),
		zap.String("positions", sb.String()))

	return nil, errors.WithHint(&BetterCenterError{
		Shift:     shift,
		OldOrder:  len(sym),
		NewOrder:  len(best),
		Positions: moved,
	}, "use the suggested ionic positions, or disable atom moving (symmetry.move-atoms: false)")
}

// closure reports whether sym is closed under composition. On failure it
// returns the first pair (i, j) whose product sym[i]·sym[j] is missing.
func closure(sym []lattice.IMat3) (int, int, bool) {
	set := make(map[lattice.IMat3]struct{}, len(sym))
	for _, m := range sym {
		set[m] = struct{}{}
	}
	for i, a := range sym {
		for j, b := range sym {
			if _, ok := set[a.Mul(b)]; !ok {
				return i, j, false
			}
		}
	}

	return 0, 0, true
}

func (s *Symmetries) discoverManual() ([]lattice.IMat3, error) {
	if len(s.opts.Manual) == 0 {
		return nil, errors.WithHint(ErrManualEmpty, "list symmetry matrices, or use automatic mode")
	}
	s.log.Info("checking manually specified symmetry matrices", zap.Int("count", len(s.opts.Manual)))
	sym := append([]lattice.IMat3(nil), s.opts.Manual...)
	if !SortIdentityFirst(sym) {
		return nil, errors.Wrap(ErrSymmetryMismatch, "manual matrices do not include the identity")
	}

	if i, j, ok := closure(sym); !ok {
		return nil, errors.WithHint(errors.Wrapf(ErrSymmetryMismatch,
			"product of matrices %d and %d %v is not in the set", i, j, sym[i].Mul(sym[j])),
			"list every element of the group, including all products")
	}

	G := lattice.Metric(s.sys.Lattice)
	tolSq := s.opts.Tolerance * s.opts.Tolerance
	for i, m := range sym {
		if d := m.Det(); d != 1 && d != -1 {
			return nil, errors.Wrapf(ErrSymmetryMismatch, "matrix %d %v has determinant %d", i, m, d)
		}
		if !latticesym.PreservesMetric(G, m, latticesym.DefaultTolerance) {
			return nil, errors.Wrapf(ErrSymmetryMismatch, "matrix %d %v does not map the lattice onto itself", i, m)
		}
		if mm := validateOperation(s.sys.Ions, m, lattice.Vec3{}, tolSq); mm != nil {
			return nil, errors.Wrapf(ErrSymmetryMismatch,
				"matrix %d %v maps %s atom %d to %v, which is not an equivalent atom",
				i, m, mm.species, mm.atom, mm.image)
		}
	}
	if s.opts.PrintMatrices {
		s.logMatrices("symmetry matrix", sym)
	}

	return sym, nil
}
