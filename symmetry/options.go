// SPDX-License-Identifier: MIT

package symmetry

import (
	"runtime"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/katalvlaran/crystalsym/lattice"
	"github.com/katalvlaran/crystalsym/latticesym"
	"go.uber.org/zap"
)

// DefaultThreshold is the geometric tolerance on fractional coordinates;
// positions and wavevectors match when their periodic squared distance is
// below DefaultThreshold².
const DefaultThreshold = 1e-4

// Mode selects how the group is obtained.
type Mode int

const (
	// ModeNone uses the identity-only group.
	ModeNone Mode = iota
	// ModeAutomatic runs the full discovery pipeline.
	ModeAutomatic
	// ModeManual validates caller-supplied matrices.
	ModeManual
)

// String returns the configuration spelling.
func (m Mode) String() string {
	switch m {
	case ModeAutomatic:
		return "automatic"
	case ModeManual:
		return "manual"
	default:
		return "none"
	}
}

// ParseMode parses "none", "automatic" or "manual" (case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "off":
		return ModeNone, nil
	case "", "automatic", "auto":
		return ModeAutomatic, nil
	case "manual":
		return ModeManual, nil
	}
	return ModeNone, errors.Wrapf(ErrBadOption, "unknown symmetry mode %q", s)
}

// Kernel selects the storage/kernel pair behind the orbit table. It is fixed
// at construction and never mixed within one Symmetries value.
type Kernel int

const (
	// KernelSerial walks the whole table in one flat loop.
	KernelSerial Kernel = iota
	// KernelParallel shards orbits across Workers goroutines.
	KernelParallel
)

// String returns the configuration spelling.
func (k Kernel) String() string {
	if k == KernelParallel {
		return "parallel"
	}
	return "serial"
}

// ParseKernel parses "serial" or "parallel" (case-insensitive, "" = serial).
func ParseKernel(s string) (Kernel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "serial":
		return KernelSerial, nil
	case "parallel":
		return KernelParallel, nil
	}
	return KernelSerial, errors.Wrapf(ErrBadOption, "unknown kernel %q", s)
}

// Options configures a Symmetries value.
//
// Mode          : none / automatic / manual. Default automatic.
// Manual        : matrices used in manual mode.
// MoveAtoms     : search atom positions and pair midpoints for a better origin.
// PrintMatrices : log every matrix and the atom map.
// Tolerance     : geometric tolerance; must be > 0. Default DefaultThreshold.
// Finder        : lattice point-group source. Default latticesym.Brute.
// Kernel/Workers: orbit kernel; Workers ≤ 0 means GOMAXPROCS.
type Options struct {
	Mode          Mode
	Manual        []lattice.IMat3
	MoveAtoms     bool
	PrintMatrices bool
	Tolerance     float64
	Finder        latticesym.Finder
	Kernel        Kernel
	Workers       int
	Logger        *zap.Logger
}

// Option represents a functional option for configuring Symmetries.
type Option func(*Options)

// DefaultOptions returns the defaults every New call starts from.
func DefaultOptions() Options {
	return Options{
		Mode:      ModeAutomatic,
		Tolerance: DefaultThreshold,
		Finder:    latticesym.Brute{},
		Kernel:    KernelSerial,
		Logger:    zap.NewNop(),
	}
}

// WithMode sets the discovery mode.
func WithMode(m Mode) Option {
	return func(o *Options) { o.Mode = m }
}

// WithManualMatrices switches to manual mode with the given matrices (copied).
func WithManualMatrices(ms []lattice.IMat3) Option {
	return func(o *Options) {
		o.Mode = ModeManual
		o.Manual = append([]lattice.IMat3(nil), ms...)
	}
}

// WithMoveAtoms enables or disables the better-origin search.
func WithMoveAtoms(enabled bool) Option {
	return func(o *Options) { o.MoveAtoms = enabled }
}

// WithPrintMatrices enables verbose matrix and atom-map logging.
func WithPrintMatrices(enabled bool) Option {
	return func(o *Options) { o.PrintMatrices = enabled }
}

// WithTolerance overrides the geometric tolerance.
func WithTolerance(tol float64) Option {
	return func(o *Options) { o.Tolerance = tol }
}

// WithFinder overrides the lattice symmetry finder.
func WithFinder(f latticesym.Finder) Option {
	return func(o *Options) { o.Finder = f }
}

// WithKernel selects the orbit kernel.
func WithKernel(k Kernel) Option {
	return func(o *Options) { o.Kernel = k }
}

// WithWorkers sets the goroutine count of KernelParallel.
func WithWorkers(n int) Option {
	return func(o *Options) { o.Workers = n }
}

// WithLogger sets the diagnostics sink. nil keeps the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// validate checks option values after all overrides are applied.
func (o *Options) validate() error {
	if !(o.Tolerance > 0) {
		return errors.Wrapf(ErrBadOption, "tolerance must be > 0, got %g", o.Tolerance)
	}
	if o.Mode < ModeNone || o.Mode > ModeManual {
		return errors.Wrapf(ErrBadOption, "mode %d", int(o.Mode))
	}
	if o.Kernel != KernelSerial && o.Kernel != KernelParallel {
		return errors.Wrapf(ErrBadOption, "kernel %d", int(o.Kernel))
	}
	if o.Mode == ModeAutomatic && o.Finder == nil {
		return errors.Wrap(ErrBadOption, "automatic mode needs a lattice finder")
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}

	return nil
}
