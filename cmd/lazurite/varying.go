// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gogpu/lazurite/container"
	"github.com/gogpu/lazurite/varying"
)

func newVaryingCommand(log *logrus.Logger) *cobra.Command {
	var (
		output  string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "varying <material>...",
		Short: "Restore a varying.def.sc file from compiled materials",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := listPackedMaterials(args)
			if err != nil {
				return err
			}
			for _, file := range files {
				if err := varyingOne(file, output, timeout, log); err != nil {
					return errors.Wrapf(err, "restore varying for %s", file)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", ".", "output directory")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 10*time.Second, "per line-group search timeout")
	return cmd
}

func varyingOne(file, output string, timeout time.Duration, log *logrus.Logger) error {
	name := strings.TrimSuffix(filepath.Base(file), container.Extension)
	log.Info(filepath.Base(file))

	f, err := os.Open(file)
	if err != nil {
		return err
	}
	material, err := container.ReadMaterial(f)
	f.Close()
	if err != nil {
		return err
	}

	code, err := varying.Restore(material, timeout, logrusObserver{log})
	if err != nil {
		return err
	}
	if code == "" {
		log.Warn("failed to generate varying.def.sc, no input/output definitions were found in the target material")
		return nil
	}

	outPath := filepath.Join(output, name+".varying.def.sc")
	return os.WriteFile(outPath, []byte(code), 0o644)
}
