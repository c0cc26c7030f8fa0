// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package compilerexec

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/pkg/errors"

	"github.com/gogpu/lazurite/container"
)

// Glslang drives an external "glslang" validator binary, used to sanity
// check restored GLSL/ESSL source without actually producing a BGFX binary.
type Glslang struct {
	path string
}

// NewGlslang probes candidatePaths (or ["glslang", "./glslang"] when empty)
// for a working glslang validator.
func NewGlslang(candidatePaths ...string) (*Glslang, error) {
	if len(candidatePaths) == 0 {
		candidatePaths = []string{"glslang", "./glslang"}
	}
	for _, p := range candidatePaths {
		cmd := exec.Command(p, "--stdin", "-S", "frag")
		cmd.Stdin = bytes.NewReader(nil)
		if err := cmd.Run(); err != nil {
			var execErr *exec.Error
			if errors.As(err, &execErr) {
				continue
			}
		}
		return &Glslang{path: p}, nil
	}
	return nil, errors.Errorf("no valid glslang validator found in %v", candidatePaths)
}

// Validate runs glslang against in-memory source for the given platform and
// stage, returning any diagnostic log text (empty if the tool produced
// none). Only GLSL/ESSL platforms are accepted.
func (g *Glslang) Validate(ctx context.Context, code string, platform container.Platform, stage container.Stage) (string, error) {
	name := platform.String()
	if !strings.HasPrefix(name, "GLSL") && !strings.HasPrefix(name, "ESSL") {
		return "", errors.Errorf("platform %q does not support glslang validation, only GLSL and ESSL do", name)
	}

	args := []string{"--stdin", "-S"}
	switch stage {
	case container.Compute:
		args = append(args, "comp")
	case container.Vertex:
		args = append(args, "vert")
	default:
		args = append(args, "frag")
	}

	versionString := name[len(name)-3:]
	if platform == container.ESSL310 {
		versionString += "es"
	}
	args = append(args, "--glsl-version", versionString)

	cmd := exec.CommandContext(ctx, g.path, args...) //nolint:gosec // G204: caller-controlled validator path and args
	cmd.Stdin = strings.NewReader(code)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", errors.Wrapf(err, "glslang failed: %s", out)
	}
	return string(out), nil
}
