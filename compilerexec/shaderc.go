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

// ShadercCompiler drives an external "shaderc" binary (the BGFX shader
// compiler) as a subprocess.
type ShadercCompiler struct {
	path string
}

// NewShadercCompiler probes candidatePaths (or the conventional
// ["shaderc", "./shaderc"] when empty) for a working shaderc binary,
// exactly as ShadercCompiler.__init__ probes its path list.
func NewShadercCompiler(candidatePaths ...string) (*ShadercCompiler, error) {
	if len(candidatePaths) == 0 {
		candidatePaths = []string{"shaderc", "./shaderc"}
	}
	for _, p := range candidatePaths {
		cmd := exec.Command(p, "-v")
		if err := cmd.Run(); err != nil {
			var execErr *exec.Error
			if errors.As(err, &execErr) {
				continue // binary not found on this candidate path, try the next
			}
		}
		return &ShadercCompiler{path: p}, nil
	}
	return nil, errors.Errorf("no valid shaderc compiler found in %v", candidatePaths)
}

// ShadercOptions configures one ShadercCompiler.Compile invocation.
type ShadercOptions struct {
	Platform   container.Platform
	Stage      container.Stage
	VaryingDef string
	Include    []string
	Defines    []MacroDefine
	Extra      []string
}

// Compile runs shaderc against a source file on disk, returning the parsed
// BGFX shader binary it produces.
func (c *ShadercCompiler) Compile(ctx context.Context, sourceFile string, opts ShadercOptions) (*container.BgfxShader, error) {
	args := []string{"-f", sourceFile}

	if device := shadercDevice(opts.Platform); device != "" {
		args = append(args, "--platform", device)
	}
	if profile := shadercProfile(opts.Platform); profile != "" {
		args = append(args, "-p", profile)
	}

	args = append(args, "--type", shadercStageName(opts.Stage))

	if opts.VaryingDef != "" {
		args = append(args, "--varyingdef", opts.VaryingDef)
	}
	for _, inc := range opts.Include {
		args = append(args, "-i", inc)
	}
	if len(opts.Defines) > 0 {
		parts := make([]string, len(opts.Defines))
		for i, d := range opts.Defines {
			parts[i] = d.FormatBgfx()
		}
		args = append(args, "--define", strings.Join(parts, ";"))
	}
	args = append(args, opts.Extra...)

	out, err := os.CreateTemp("", "lazurite-shaderc-*.bin")
	if err != nil {
		return nil, errors.Wrap(err, "create shaderc output temp file")
	}
	outPath := out.Name()
	out.Close()
	defer os.Remove(outPath)

	args = append(args, "-o", outPath)

	cmd := exec.CommandContext(ctx, c.path, args...) //nolint:gosec // G204: caller-controlled compiler path and args
	combined, runErr := cmd.CombinedOutput()
	if runErr != nil {
		return nil, errors.Wrapf(runErr, "shaderc failed: %s\ncommand: %s %s", combined, c.path, strings.Join(args, " "))
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		return nil, errors.Wrap(err, "read shaderc output")
	}
	return container.ParseBgfxShader(data, opts.Platform, opts.Stage)
}

func shadercDevice(p container.Platform) string {
	name := p.String()
	switch {
	case p == container.Metal:
		return "ios"
	case strings.HasPrefix(name, "ESSL"):
		return "android"
	case strings.HasPrefix(name, "GLSL"):
		return "linux"
	case strings.HasPrefix(name, "Direct3D"):
		return "windows"
	default:
		return ""
	}
}

func shadercProfile(p container.Platform) string {
	name := p.String()
	switch {
	case p == container.Direct3DSM40:
		return "s_4_0"
	case p == container.Vulkan:
		return "spirv"
	case p == container.Metal, p == container.PSSL:
		return strings.ToLower(name)
	case strings.HasPrefix(name, "Direct3D_SM"):
		return "s_5_0"
	case strings.HasPrefix(name, "GLSL_"):
		return strings.TrimPrefix(name, "GLSL_")
	case strings.HasPrefix(name, "ESSL_"):
		return strings.TrimPrefix(name, "ESSL_") + "_es"
	default:
		return ""
	}
}

func shadercStageName(s container.Stage) string {
	switch s {
	case container.Compute:
		return "compute"
	case container.Vertex:
		return "vertex"
	default:
		return "fragment"
	}
}
