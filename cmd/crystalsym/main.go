// SPDX-License-Identifier: MIT

// Command crystalsym discovers the space-group symmetries of a crystal and
// reports the derived data: atom permutations, grid orbits and the reduced
// k-point mesh.
//
//	crystalsym analyze --config run.yaml
//	crystalsym analyze --config run.yaml --output yaml
//	crystalsym kpoints --config run.yaml
package main

import (
	"os"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		printError(root.ErrOrStderr(), err)
		os.Exit(exitCode(err))
	}
}
