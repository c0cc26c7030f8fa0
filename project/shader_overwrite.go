// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package project

import "github.com/gogpu/lazurite/container"

// ShaderFileOverwrite names the on-disk source file conventionally used for
// each shader stage within a material folder, with per-pass overrides
// layered on top of a default set.
type ShaderFileOverwrite struct {
	EntryPoint string `toml:"entry_point"`
	Fragment   string `toml:"fragment"`
	Vertex     string `toml:"vertex"`
	Compute    string `toml:"compute"`
	Unknown    string `toml:"unknown"`
	Varying    string `toml:"varying"`
}

// DefaultShaderFileOverwrite matches ShaderFileOverwrite.__init__'s defaults.
func DefaultShaderFileOverwrite() ShaderFileOverwrite {
	return ShaderFileOverwrite{
		Fragment: "shaders/fragment.sc",
		Vertex:   "shaders/vertex.sc",
		Compute:  "shaders/compute.sc",
		Unknown:  "shaders/unknown.sc",
		Varying:  "shaders/varying.def.sc",
	}
}

// overlay replaces any field explicitly set (non-empty) in other.
func (s *ShaderFileOverwrite) overlay(other ShaderFileOverwrite) {
	if other.EntryPoint != "" {
		s.EntryPoint = other.EntryPoint
	}
	if other.Fragment != "" {
		s.Fragment = other.Fragment
	}
	if other.Vertex != "" {
		s.Vertex = other.Vertex
	}
	if other.Compute != "" {
		s.Compute = other.Compute
	}
	if other.Unknown != "" {
		s.Unknown = other.Unknown
	}
	if other.Varying != "" {
		s.Varying = other.Varying
	}
}

// GetStage returns the conventional source path for the given stage.
func (s ShaderFileOverwrite) GetStage(stage container.Stage) string {
	switch stage {
	case container.Fragment:
		return s.Fragment
	case container.Vertex:
		return s.Vertex
	case container.Compute:
		return s.Compute
	default:
		return s.Unknown
	}
}
