// SPDX-License-Identifier: MIT

// Package config loads a crystalsym run description with viper.
//
// Sources, lowest precedence first:
//   - defaults registered by SetDefaults;
//   - the config file (YAML, TOML or JSON, chosen by extension);
//   - CRYSTALSYM_* environment variables ("symmetry.move-atoms" is
//     CRYSTALSYM_SYMMETRY_MOVE_ATOMS).
//
// Config mirrors the file layout; the conversion helpers in convert.go turn
// it into lattice, ions, grid, kpoints, coulomb and symmetry values.
package config

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CRYSTALSYM"

// ErrInvalidConfig marks every shape or value problem found by Validate.
var ErrInvalidConfig = errors.New("config: invalid")

// Config is the whole run description.
type Config struct {
	Symmetry SymmetryConfig  `mapstructure:"symmetry" yaml:"symmetry"`
	Lattice  [][]float64     `mapstructure:"lattice" yaml:"lattice"`
	Grid     []int           `mapstructure:"grid" yaml:"grid,omitempty"`
	Kpoints  KpointsConfig   `mapstructure:"kpoints" yaml:"kpoints"`
	Coulomb  CoulombConfig   `mapstructure:"coulomb" yaml:"coulomb"`
	Species  []SpeciesConfig `mapstructure:"species" yaml:"species"`
	Log      LogConfig       `mapstructure:"log" yaml:"log"`
}

// SymmetryConfig holds the symmetry.* keys.
type SymmetryConfig struct {
	Mode          string    `mapstructure:"mode" yaml:"mode"`
	Matrices      [][][]int `mapstructure:"matrices" yaml:"matrices,omitempty"`
	MoveAtoms     bool      `mapstructure:"move-atoms" yaml:"move-atoms"`
	PrintMatrices bool      `mapstructure:"print-matrices" yaml:"print-matrices"`
	Tolerance     float64   `mapstructure:"tolerance" yaml:"tolerance"`
	Kernel        string    `mapstructure:"kernel" yaml:"kernel"`
	Workers       int       `mapstructure:"workers" yaml:"workers"`
}

// KpointsConfig holds the kpoints.* keys. A non-empty List replaces the
// folded mesh.
type KpointsConfig struct {
	Folding []int          `mapstructure:"folding" yaml:"folding"`
	Offset  []float64      `mapstructure:"offset" yaml:"offset"`
	List    []KpointConfig `mapstructure:"list" yaml:"list,omitempty"`
}

// KpointConfig is one explicit k-point.
type KpointConfig struct {
	K      []float64 `mapstructure:"k" yaml:"k"`
	Weight float64   `mapstructure:"weight" yaml:"weight"`
}

// CoulombConfig holds the coulomb.* keys.
type CoulombConfig struct {
	Truncated   []bool    `mapstructure:"truncated" yaml:"truncated"`
	Embed       bool      `mapstructure:"embed" yaml:"embed"`
	EmbedCenter []float64 `mapstructure:"embed-center" yaml:"embed-center"`
}

// SpeciesConfig is one species and its atoms.
type SpeciesConfig struct {
	Name  string       `mapstructure:"name" yaml:"name"`
	Atoms []AtomConfig `mapstructure:"atoms" yaml:"atoms"`
}

// AtomConfig is one atom. Moment and MoveScale are pointers so that an
// omitted key is distinguishable from zero.
type AtomConfig struct {
	Pos        []float64 `mapstructure:"pos" yaml:"pos"`
	Moment     *float64  `mapstructure:"moment" yaml:"moment,omitempty"`
	MoveScale  *float64  `mapstructure:"move-scale" yaml:"move-scale,omitempty"`
	Constraint string    `mapstructure:"constraint" yaml:"constraint,omitempty"`
	Direction  []float64 `mapstructure:"direction" yaml:"direction,omitempty"`
}

// LogConfig holds the log.* keys.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	JSON  bool   `mapstructure:"json" yaml:"json"`
}

// SetDefaults registers the default of every scalar key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("symmetry.mode", "automatic")
	v.SetDefault("symmetry.move-atoms", false)
	v.SetDefault("symmetry.print-matrices", false)
	v.SetDefault("symmetry.tolerance", 1e-4)
	v.SetDefault("symmetry.kernel", "serial")
	v.SetDefault("symmetry.workers", 0) // GOMAXPROCS

	v.SetDefault("kpoints.folding", []int{1, 1, 1})
	v.SetDefault("kpoints.offset", []float64{0, 0, 0})

	v.SetDefault("coulomb.truncated", []bool{false, false, false})
	v.SetDefault("coulomb.embed", false)
	v.SetDefault("coulomb.embed-center", []float64{0, 0, 0})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
}

// NewViper returns a viper instance with env binding and defaults, and with
// path (if non-empty) as its config file.
func NewViper(path string) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	if path != "" {
		v.SetConfigFile(path)
	}

	return v
}

// Load reads path (plus defaults and environment) and validates the result.
func Load(path string) (*Config, error) {
	v := NewViper(path)
	if path != "" {
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "config: read %s", path)
		}
	}

	return LoadWithViper(v)
}

// LoadWithViper unmarshals and validates an already prepared viper instance.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "config: unmarshal")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
