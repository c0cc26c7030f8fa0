// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gogpu/lazurite/compilerexec"
	"github.com/gogpu/lazurite/project"
)

func newCompileCommand(log *logrus.Logger) *cobra.Command {
	var (
		output      string
		profiles    []string
		defineStrs  []string
		shadercPath string
		dxcPath     string
		maxWorkers  int
	)

	cmd := &cobra.Command{
		Use:   "compile <project>...",
		Short: "Compile every material folder in a project into .material.bin files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defines := make([]compilerexec.MacroDefine, len(defineStrs))
			for i, d := range defineStrs {
				defines[i] = compilerexec.ParseMacroDefine(d)
			}

			orch := &project.Orchestrator{}
			for _, path := range args {
				log.Infof("compiling project %q", path)
				opts := project.CompileOptions{
					Profiles:     profiles,
					OutputFolder: output,
					ExtraDefines: defines,
					MaxWorkers:   maxWorkers,
					Log:          log,
				}
				if shadercPath != "" {
					opts.ShadercPaths = []string{shadercPath}
				}
				if dxcPath != "" {
					opts.DxcPaths = []string{dxcPath}
				}

				results, err := orch.CompileAll(context.Background(), path, opts)
				if err != nil {
					return errors.Wrapf(err, "compile project %s", path)
				}
				for _, r := range results {
					log.Infof("%s -> %s (%d shaders)", r.MaterialName, r.OutputPath, r.ShaderCount)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory (defaults to the project's parent directory)")
	cmd.Flags().StringSliceVar(&profiles, "profile", nil, "project config profiles to apply")
	cmd.Flags().StringSliceVar(&defineStrs, "define", nil, "extra preprocessor defines applied to every compile")
	cmd.Flags().StringVar(&shadercPath, "shaderc", "", "path to the shaderc binary")
	cmd.Flags().StringVar(&dxcPath, "dxc", "", "path to the dxc binary")
	cmd.Flags().IntVar(&maxWorkers, "max-workers", 0, "maximum concurrent compiler invocations (0 = unlimited)")

	return cmd
}
