// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gogpu/lazurite/container"
)

func newDecompileCommand(log *logrus.Logger) *cobra.Command {
	var (
		output        string
		timeout       time.Duration
		splitPasses   bool
		mergeStages   bool
		noProcessing  bool
		platformNames []string
	)

	cmd := &cobra.Command{
		Use:   "decompile <material>...",
		Short: "Restore readable shader source from compiled materials",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := listPackedMaterials(args)
			if err != nil {
				return err
			}

			platforms, err := resolvePlatforms(platformNames)
			if err != nil {
				return err
			}

			for _, file := range files {
				if err := decompileOne(file, output, platforms, splitPasses, mergeStages, noProcessing, timeout, log); err != nil {
					return errors.Wrapf(err, "decompile %s", file)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", ".", "output directory")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 10*time.Second, "per line-group search timeout")
	cmd.Flags().BoolVar(&splitPasses, "split-passes", false, "write one file per render pass")
	cmd.Flags().BoolVar(&mergeStages, "merge-stages", false, "merge vertex/fragment/compute stages into one file")
	cmd.Flags().BoolVar(&noProcessing, "no-processing", false, "skip post-processing, emitting raw restored shader bytes")
	cmd.Flags().StringSliceVar(&platformNames, "platform", []string{"ESSL_310", "ESSL_300"}, "platforms to restore")

	return cmd
}

func resolvePlatforms(names []string) (map[container.Platform]bool, error) {
	out := map[container.Platform]bool{}
	for _, name := range names {
		p, err := container.PlatformFromName(name)
		if err != nil {
			return nil, err
		}
		out[p] = true
	}
	return out, nil
}

func allStages() map[container.Stage]bool {
	return map[container.Stage]bool{
		container.Vertex:   true,
		container.Fragment: true,
		container.Compute:  true,
	}
}

func decompileOne(file, output string, platforms map[container.Platform]bool, splitPasses, mergeStages, noProcessing bool, timeout time.Duration, log *logrus.Logger) error {
	name := strings.TrimSuffix(filepath.Base(file), container.Extension)
	log.Info(filepath.Base(file))

	f, err := os.Open(file)
	if err != nil {
		return err
	}
	material, err := container.ReadMaterial(f)
	f.Close()
	if err != nil {
		if errors.Is(err, container.ErrEncrypted) {
			log.Warnf("%s material is encrypted, this tool cannot restore its decrypted shaders", name)
			return nil
		}
		return err
	}

	material.SortVariants()

	shaders, err := material.RestoreShaders(platforms, allStages(), splitPasses, mergeStages, !noProcessing, timeout, logrusObserver{log})
	if err != nil {
		return err
	}

	for _, s := range shaders {
		tokens := []string{name}
		if splitPasses {
			tokens = append(tokens, s.Pass)
		}
		tokens = append(tokens, s.Platform.String())
		if !mergeStages {
			tokens = append(tokens, s.Stage.String())
		}
		if noProcessing {
			tokens = append(tokens, s.Platform.FileExtension())
		} else {
			tokens = append(tokens, "sc")
		}

		outPath := filepath.Join(output, strings.Join(tokens, "."))
		if err := os.WriteFile(outPath, []byte(s.Code), 0o644); err != nil {
			return errors.Wrapf(err, "write %s", outPath)
		}
	}
	return nil
}

func listPackedMaterials(inputs []string) ([]string, error) {
	var files []string
	for _, path := range inputs {
		info, err := os.Stat(path)
		if err != nil {
			return nil, errors.Errorf("invalid path to material or folder: %s", path)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(e.Name(), container.Extension) {
				files = append(files, filepath.Join(path, e.Name()))
			}
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no materials found")
	}
	return files, nil
}
