// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newRootCommand(log *logrus.Logger) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "lazurite",
		Short: "Restore and recompile RenderDragon compiled material shaders",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newDecompileCommand(log),
		newVaryingCommand(log),
		newCompileCommand(log),
	)
	return root
}
