// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package compilerexec

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/pkg/errors"

	"github.com/gogpu/lazurite/container"
)

// DxcCompiler drives an external "dxc" binary, used for Direct3D shader
// model platforms that shaderc does not target directly.
type DxcCompiler struct {
	path string
}

// NewDxcCompiler probes candidatePaths (or ["dxc", "./dxc"] when empty) for
// a working dxc binary.
func NewDxcCompiler(candidatePaths ...string) (*DxcCompiler, error) {
	if len(candidatePaths) == 0 {
		candidatePaths = []string{"dxc", "./dxc"}
	}
	for _, p := range candidatePaths {
		cmd := exec.Command(p, "-help")
		if err := cmd.Run(); err != nil {
			var execErr *exec.Error
			if errors.As(err, &execErr) {
				continue
			}
		}
		return &DxcCompiler{path: p}, nil
	}
	return nil, errors.Errorf("no valid dxc compiler found in %v", candidatePaths)
}

// DxcOptions configures one DxcCompiler.Compile invocation.
type DxcOptions struct {
	Platform   container.Platform
	Stage      container.Stage
	EntryPoint string
	Include    []string
	Defines    []MacroDefine
	Extra      []string
}

// Compile runs dxc against a source file on disk and returns the raw
// compiled bytecode. Unlike ShadercCompiler.Compile, dxc's output is not a
// BGFX-wrapped binary.
func (c *DxcCompiler) Compile(ctx context.Context, sourceFile string, opts DxcOptions) ([]byte, error) {
	name := opts.Platform.String()
	if !strings.HasPrefix(name, "Direct3D_SM") {
		return nil, errors.Errorf("%s shaders cannot be compiled with the dxc compiler", name)
	}

	var profile string
	switch opts.Stage {
	case container.Compute:
		profile = "cs"
	case container.Vertex:
		profile = "vs"
	default:
		profile = "ps"
	}
	version := strings.TrimPrefix(name, "Direct3D_SM")

	args := []string{sourceFile, "-T", profile + "_" + strings.Join(strings.Split(version, ""), "_")}

	if opts.EntryPoint != "" {
		args = append(args, "-E", opts.EntryPoint)
	}
	for _, inc := range opts.Include {
		args = append(args, "-I", inc)
	}
	for _, d := range opts.Defines {
		args = append(args, "-D", d.FormatDxc())
	}
	args = append(args, opts.Extra...)

	out, err := os.CreateTemp("", "lazurite-dxc-*.bin")
	if err != nil {
		return nil, errors.Wrap(err, "create dxc output temp file")
	}
	outPath := out.Name()
	out.Close()
	defer os.Remove(outPath)

	args = append(args, "-Fo", outPath)

	cmd := exec.CommandContext(ctx, c.path, args...) //nolint:gosec // G204: caller-controlled compiler path and args
	if err := cmd.Run(); err != nil {
		return nil, errors.Wrapf(err, "dxc failed\ncommand: %s %s", c.path, strings.Join(args, " "))
	}

	return os.ReadFile(outPath)
}
