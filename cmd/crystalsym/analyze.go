// SPDX-License-Identifier: MIT

package main

import (
	"github.com/spf13/cobra"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Discover the symmetry group and report everything derived from it",
		Long: `Runs the whole pipeline on the configured structure:

  1. point-group discovery (automatic, manual or none),
  2. atom permutation table with moment and constraint checks,
  3. grid commensuration, embedding center and orbit table (when grid is set),
  4. k-mesh reduction.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := pipeline(a.cfg, a.log, true)
			if err != nil {
				return err
			}
			if a.output == outputYAML {
				return writeYAML(cmd.OutOrStdout(), rep)
			}
			return writeReportTable(cmd.OutOrStdout(), rep)
		},
	}
}

func newKpointsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "kpoints",
		Short: "Print the symmetry-reduced k-point list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := pipeline(a.cfg, a.log, false)
			if err != nil {
				return err
			}
			if a.output == outputYAML {
				return writeYAML(cmd.OutOrStdout(), rep.Kpoints)
			}
			return writeKpointsTable(cmd.OutOrStdout(), rep.Kpoints)
		},
	}
}
