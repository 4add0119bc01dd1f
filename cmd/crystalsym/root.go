// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/katalvlaran/crystalsym/config"
	"github.com/katalvlaran/crystalsym/logging"
	"github.com/katalvlaran/crystalsym/symmetry"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Output formats accepted by --output.
const (
	outputTable = "table"
	outputYAML  = "yaml"
)

// app carries what PersistentPreRunE prepares for the subcommands.
type app struct {
	configPath string
	output     string
	logLevel   string

	cfg *config.Config
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "crystalsym",
		Short: "Space-group symmetry analysis for periodic crystal structures",
		Long: `crystalsym finds the point-group operations of a crystal (lattice plus
basis, optionally with magnetic moments and movement constraints), checks
them against the real-space grid and reduces the Brillouin-zone k-mesh.

Available commands:
  analyze  - full report: group, atom map, grid orbits, k-points
  kpoints  - reduced k-point list only`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.prepare(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "run description (YAML, TOML or JSON)")
	pf.StringVarP(&a.output, "output", "o", outputTable, "report format: table or yaml")
	pf.StringVar(&a.logLevel, "log-level", "", "override log.level (debug, info, warn, error)")

	root.AddCommand(newAnalyzeCmd(a), newKpointsCmd(a))

	return root
}

// prepare loads the configuration and builds the logger.
func (a *app) prepare(cmd *cobra.Command) error {
	if a.configPath == "" {
		return errors.WithHint(errors.New("no configuration given"), "pass --config <file>")
	}
	switch a.output {
	case outputTable, outputYAML:
	default:
		return errors.Newf("unknown output format %q", a.output)
	}

	v := config.NewViper(a.configPath)
	if err := v.BindPFlag("log.level", cmd.Flags().Lookup("log-level")); err != nil {
		return err
	}
	if err := v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "read %s", a.configPath)
	}
	cfg, err := config.LoadWithViper(v)
	if err != nil {
		return err
	}
	log, err := logging.NewWithWriter(cfg.LoggingOptions(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.cfg, a.log = cfg, log.Named("crystalsym")

	return nil
}

// printError writes err, its classification and every hint.
func printError(w io.Writer, err error) {
	msg := err.Error()
	if k := symmetry.KindOf(err); k != symmetry.KindUnknown {
		msg = fmt.Sprintf("%s [%s]", msg, k)
	}
	fmt.Fprint(w, pterm.Error.Sprintln(msg))
	for _, h := range errors.GetAllHints(err) {
		fmt.Fprint(w, pterm.Info.Sprintln(h))
	}

	var bc *symmetry.BetterCenterError
	if errors.As(err, &bc) {
		var sb strings.Builder
		_ = bc.Positions.WritePositions(&sb)
		fmt.Fprintf(w, "suggested positions (shift %v, %d -> %d operations):\n%s",
			bc.Shift, bc.OldOrder, bc.NewOrder, sb.String())
	}
}

// exitCode is 2 for structural symmetry failures, 1 otherwise.
func exitCode(err error) int {
	if symmetry.IsFatal(err) {
		return 2
	}
	return 1
}
