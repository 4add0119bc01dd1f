package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const poloniumYAML = `
lattice: [[1, 0, 0], [0, 1, 0], [0, 0, 1]]
grid: [6, 6, 6]
kpoints:
  folding: [4, 4, 4]
species:
  - name: Po
    atoms:
      - pos: [0, 0, 0]
log:
  level: error
`

const offCenterYAML = `
lattice: [[1, 0, 0], [0, 1, 0], [0, 0, 1]]
symmetry:
  move-atoms: true
species:
  - name: X
    atoms:
      - pos: [0.25, 0.25, 0.25]
log:
  level: error
`

// execute runs the CLI with args and returns stdout, stderr and the error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	pterm.DisableStyling()
	t.Cleanup(pterm.EnableStyling)

	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	if err != nil {
		printError(&errOut, err)
	}
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestAnalyze_YAML(t *testing.T) {
	out, _, err := execute(t, "analyze", "--config", writeFile(t, poloniumYAML), "--output", "yaml")
	require.NoError(t, err)

	var rep Report
	require.NoError(t, yaml.Unmarshal([]byte(out), &rep))
	assert.Equal(t, "automatic", rep.Mode)
	assert.Equal(t, 48, rep.Order)
	require.Len(t, rep.Matrices, 48)
	assert.True(t, rep.Matrices[0].IsIdentity())
	require.Len(t, rep.AtomMap, 1)
	assert.Len(t, rep.AtomMap[0].Images[0], 48)

	require.NotNil(t, rep.Grid)
	assert.Equal(t, 216, rep.Grid.Points)
	assert.Equal(t, 20, rep.Grid.Orbits)
	assert.InDelta(t, 1.0, rep.Grid.Volume, 1e-12)
	assert.InDelta(t, 1.0/216, rep.Grid.DV, 1e-15)
	assert.Equal(t, "serial", rep.Grid.Kernel)

	assert.Equal(t, 64, rep.Kpoints.Input)
	assert.Equal(t, 10, rep.Kpoints.Reduced)
	assert.Len(t, rep.Kpoints.Points, 10)
}

func TestAnalyze_Table(t *testing.T) {
	out, _, err := execute(t, "analyze", "-c", writeFile(t, poloniumYAML))
	require.NoError(t, err)
	assert.Contains(t, out, "Symmetry group: 48 operations (automatic)")
	assert.Contains(t, out, "Atom map")
	assert.Contains(t, out, "216 points in 20 orbits")
	assert.Contains(t, out, "k-points: 64 reduced to 10")
}

func TestKpoints_YAML(t *testing.T) {
	out, _, err := execute(t, "kpoints", "-c", writeFile(t, poloniumYAML), "-o", "yaml")
	require.NoError(t, err)

	var kr KpointsReport
	require.NoError(t, yaml.Unmarshal([]byte(out), &kr))
	assert.Equal(t, 10, kr.Reduced)
	total := 0.0
	for _, p := range kr.Points {
		total += p.Weight
	}
	assert.InDelta(t, 1.0, total, 1e-12)
}

func TestAnalyze_BetterCenterIsFatal(t *testing.T) {
	_, errOut, err := execute(t, "analyze", "-c", writeFile(t, offCenterYAML))
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))
	assert.Contains(t, errOut, "better-center")
	assert.Contains(t, errOut, "move-atoms")
	assert.Contains(t, errOut, "suggested positions")
	assert.Contains(t, errOut, "6 -> 48 operations")
}

func TestRoot_UsageErrors(t *testing.T) {
	_, errOut, err := execute(t, "analyze")
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(err))
	assert.Contains(t, errOut, "--config")

	_, _, err = execute(t, "analyze", "-c", writeFile(t, poloniumYAML), "-o", "xml")
	assert.Error(t, err)

	_, _, err = execute(t, "analyze", "-c", filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
