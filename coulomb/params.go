// SPDX-License-Identifier: MIT

// Package coulomb carries the truncation/embedding configuration read by the
// symmetry core. No Coulomb physics lives here.
package coulomb

import "github.com/katalvlaran/crystalsym/lattice"

// Params describes which lattice directions are truncated and whether the
// truncated interaction is evaluated in an embedded (doubled) box around a
// fixed center.
type Params struct {
	// Truncated marks lattice directions along which periodicity is broken.
	Truncated [3]bool
	// Embed enables the embedded evaluation.
	Embed bool
	// EmbedCenter is the embedding origin in fractional coordinates. The
	// symmetry core snaps it to a symmetric grid point in place.
	EmbedCenter lattice.Vec3
}

// IsTruncated reports whether any direction is truncated.
func (p *Params) IsTruncated() bool {
	return p.Truncated[0] || p.Truncated[1] || p.Truncated[2]
}

// EmbeddingActive reports whether an embedding center must be honored.
func (p *Params) EmbeddingActive() bool { return p.Embed && p.IsTruncated() }

// Geometry names the common truncation patterns.
func (p *Params) Geometry() string {
	n := 0
	for _, t := range p.Truncated {
		if t {
			n++
		}
	}
	switch n {
	case 0:
		return "periodic"
	case 1:
		return "slab"
	case 2:
		return "wire"
	default:
		return "isolated"
	}
}
