// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/katalvlaran/crystalsym/config"
	"github.com/katalvlaran/crystalsym/kpoints"
	"github.com/katalvlaran/crystalsym/lattice"
	"github.com/katalvlaran/crystalsym/symmetry"
	"github.com/pterm/pterm"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Report is everything analyze prints. Its YAML form is stable.
type Report struct {
	Mode     string          `yaml:"mode"`
	Order    int             `yaml:"order"`
	Matrices []lattice.IMat3 `yaml:"matrices"`
	AtomMap  []SpeciesImages `yaml:"atom-map"`
	Grid     *GridReport     `yaml:"grid,omitempty"`
	Kpoints  KpointsReport   `yaml:"kpoints"`
}

// SpeciesImages lists, per atom, its image under every operation.
type SpeciesImages struct {
	Species string  `yaml:"species"`
	Images  [][]int `yaml:"images"`
}

// GridReport summarizes the mesh setup.
type GridReport struct {
	S           lattice.IVec3 `yaml:"s"`
	Points      int           `yaml:"points"`
	Orbits      int           `yaml:"orbits"`
	Volume      float64       `yaml:"volume"`
	DV          float64       `yaml:"dv"`
	Kernel      string        `yaml:"kernel"`
	EmbedCenter *lattice.Vec3 `yaml:"embed-center,omitempty"`
}

// KpointsReport is the reduced mesh.
type KpointsReport struct {
	Input         int            `yaml:"input"`
	Reduced       int            `yaml:"reduced"`
	UsedInversion bool           `yaml:"used-inversion"`
	Points        []KpointReport `yaml:"points"`
}

// KpointReport is one irreducible k-point.
type KpointReport struct {
	K      lattice.Vec3 `yaml:"k"`
	Weight float64      `yaml:"weight"`
}

// pipeline runs discovery, mesh setup (when withMesh and a grid is
// configured) and k-mesh reduction.
func pipeline(cfg *config.Config, log *zap.Logger, withMesh bool) (*Report, error) {
	st, err := cfg.Structure()
	if err != nil {
		return nil, err
	}
	opts, err := cfg.SymmetryOptions(log)
	if err != nil {
		return nil, err
	}
	s, err := symmetry.New(opts...)
	if err != nil {
		return nil, err
	}
	cp := cfg.CoulombParams()
	if err = s.Setup(symmetry.System{Lattice: cfg.LatticeMatrix(), Ions: st, Coulomb: cp}); err != nil {
		return nil, err
	}

	q, err := cfg.QuantumNumbers()
	if err != nil {
		return nil, err
	}

	rep := &Report{
		Mode:     s.Options().Mode.String(),
		Order:    s.Order(),
		Matrices: s.Matrices(),
	}
	am := s.AtomMap()
	for sp, species := range st.Species {
		imgs := make([][]int, am.NumAtoms(sp))
		for a := range imgs {
			imgs[a] = am[sp][a]
		}
		rep.AtomMap = append(rep.AtomMap, SpeciesImages{Species: species.Name, Images: imgs})
	}

	if withMesh && cfg.HasGrid() {
		g, err := cfg.GridInfo()
		if err != nil {
			return nil, err
		}
		if err = s.SetupMesh(g, q); err != nil {
			return nil, err
		}
		gr := &GridReport{S: g.S, Points: g.Nr, Orbits: s.Orbits().Count(),
			Volume: g.Volume(), DV: g.DV(), Kernel: s.Buffer().Kernel().String()}
		if cp.Embed {
			c := cp.EmbedCenter
			gr.EmbedCenter = &c
		}
		rep.Grid = gr
	}

	red, err := s.ReduceKmesh(q)
	if err != nil {
		return nil, err
	}
	rep.Kpoints = kpointsReport(len(q), red)

	return rep, nil
}

func kpointsReport(input int, red kpoints.Reduction) KpointsReport {
	kr := KpointsReport{Input: input, Reduced: len(red.Points), UsedInversion: red.UsedInversion}
	for _, p := range red.Points {
		kr.Points = append(kr.Points, KpointReport{K: p.K, Weight: p.Weight})
	}
	return kr
}

// writeYAML marshals v with two-space indentation.
func writeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func f6(x float64) string { return strconv.FormatFloat(x, 'f', 6, 64) }

// renderTable writes a pterm table with a header row.
func renderTable(w io.Writer, data pterm.TableData) error {
	s, err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, s)
	return err
}

func writeKpointsTable(w io.Writer, kr KpointsReport) error {
	fmt.Fprint(w, pterm.DefaultSection.Sprintf("k-points: %d reduced to %d", kr.Input, kr.Reduced))
	if kr.UsedInversion {
		fmt.Fprint(w, pterm.Info.Sprintln("inversion symmetry was added to the k-mesh"))
	}
	data := pterm.TableData{{"#", "k0", "k1", "k2", "weight"}}
	for i, p := range kr.Points {
		data = append(data, []string{strconv.Itoa(i), f6(p.K[0]), f6(p.K[1]), f6(p.K[2]), f6(p.Weight)})
	}
	return renderTable(w, data)
}

func writeReportTable(w io.Writer, r *Report) error {
	fmt.Fprint(w, pterm.DefaultSection.Sprintf("Symmetry group: %d operations (%s)", r.Order, r.Mode))
	data := pterm.TableData{{"#", "row 0", "row 1", "row 2"}}
	for i, m := range r.Matrices {
		data = append(data, []string{strconv.Itoa(i), fmt.Sprint(m[0]), fmt.Sprint(m[1]), fmt.Sprint(m[2])})
	}
	if err := renderTable(w, data); err != nil {
		return err
	}

	fmt.Fprint(w, pterm.DefaultSection.Sprintln("Atom map"))
	data = pterm.TableData{{"species", "atom", "images"}}
	for _, sp := range r.AtomMap {
		for a, imgs := range sp.Images {
			data = append(data, []string{sp.Species, strconv.Itoa(a), fmt.Sprint(imgs)})
		}
	}
	if err := renderTable(w, data); err != nil {
		return err
	}

	if g := r.Grid; g != nil {
		fmt.Fprint(w, pterm.DefaultSection.Sprintf("Grid %v: %d points in %d orbits (%s kernel), dV = %.6g", g.S, g.Points, g.Orbits, g.Kernel, g.DV))
		if g.EmbedCenter != nil {
			fmt.Fprintf(w, "embedding center: %v\n", *g.EmbedCenter)
		}
	}

	return writeKpointsTable(w, r.Kpoints)
}
