// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package container

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func sampleMaterial() *Material {
	m := NewMaterial()
	m.Name = "opaque"
	m.Buffers = []*Buffer{
		{Name: "Frame", Reg1: 3, Access: AccessReadonly, Type: BufferTexture2D, AlwaysOne: 1},
	}
	m.Uniforms = []*Uniform{
		{Name: "u_color", Type: UniformVec4, Count: 1, Default: []float32{1, 1, 1, 1}},
	}
	m.Passes = []*Pass{
		{
			Name:               "Opaque",
			SupportedPlatforms: NewSupportedPlatforms(""),
			DefaultBlendMode:   BlendUnspecified,
			DefaultVariant:     map[string]string{"quality": "High"},
			Variants: []*Variant{
				{
					IsSupported: true,
					Flags:       map[string]string{"quality": "High"},
					Shaders: []*Shader{
						{
							Stage:    Fragment,
							Platform: ESSL310,
							Inputs: []*ShaderInput{
								{Name: "v_color", Type: InputVec4, Semantic: InputSemantic{Index: 4, SubIndex: 0}, Precision: PrecisionNone, Interpolation: InterpolationNone},
							},
							Hash: 12345,
							Bgfx: &BgfxShader{
								Hash:        1,
								ShaderBytes: []byte("void main() {}"),
								Size:        -1,
							},
						},
					},
				},
			},
		},
	}
	return m
}

func TestMaterialWriteReadRoundTrip(t *testing.T) {
	m := sampleMaterial()

	var buf bytes.Buffer
	if err := m.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := ReadMaterial(&buf)
	if err != nil {
		t.Fatalf("ReadMaterial: %v", err)
	}

	if got.Name != m.Name {
		t.Fatalf("Name = %q, want %q", got.Name, m.Name)
	}
	if len(got.Passes) != 1 || got.Passes[0].Name != "Opaque" {
		t.Fatalf("Passes = %+v", got.Passes)
	}
	if len(got.Passes[0].Variants) != 1 {
		t.Fatalf("Variants = %+v", got.Passes[0].Variants)
	}
	shader := got.Passes[0].Variants[0].Shaders[0]
	if shader.Platform != ESSL310 || shader.Stage != Fragment {
		t.Fatalf("shader platform/stage = %v/%v", shader.Platform, shader.Stage)
	}
	if string(shader.Bgfx.ShaderBytes) != "void main() {}" {
		t.Fatalf("shader bytes = %q", shader.Bgfx.ShaderBytes)
	}
	if shader.Bgfx.Size != -1 {
		t.Fatalf("shader bgfx size = %d, want -1 (no trailing attribute block)", shader.Bgfx.Size)
	}
}

func TestMaterialWriteRejectsEncrypted(t *testing.T) {
	m := sampleMaterial()
	m.Encryption = EncryptionSimplePassphrase

	var buf bytes.Buffer
	if err := m.Write(&buf); err == nil {
		t.Fatalf("Write of an encrypted material should fail, got nil error")
	}
}

func TestMaterialGetPlatformsAndStages(t *testing.T) {
	m := sampleMaterial()
	platforms := m.GetPlatforms()
	if !platforms[ESSL310] || len(platforms) != 1 {
		t.Fatalf("GetPlatforms = %v", platforms)
	}
	stages := m.GetStages()
	if !stages[Fragment] || len(stages) != 1 {
		t.Fatalf("GetStages = %v", stages)
	}
}

func TestRestoreShadersAppliesPostprocessing(t *testing.T) {
	m := sampleMaterial()
	m.Passes[0].Variants[0].Shaders[0].Bgfx.ShaderBytes = []byte(
		"$input a_position\n$input a_normal\nvoid main() {}\n",
	)

	shaders, err := m.RestoreShaders(
		map[Platform]bool{ESSL310: true},
		map[Stage]bool{Fragment: true},
		true, false, true, time.Second, nil,
	)
	if err != nil {
		t.Fatalf("RestoreShaders: %v", err)
	}
	if len(shaders) != 1 {
		t.Fatalf("expected one restored shader, got %d", len(shaders))
	}
	if !strings.Contains(shaders[0].Code, "$input a_position, a_normal") {
		t.Fatalf("expected consecutive $input lines merged by postprocessing, got:\n%s", shaders[0].Code)
	}
}

func TestMaterialMergeVariants(t *testing.T) {
	a := sampleMaterial()
	b := sampleMaterial()
	b.Passes[0].Variants[0].Shaders[0].Platform = GLSL430

	a.MergeVariants(b)
	platforms := a.GetPlatforms()
	if !platforms[ESSL310] || !platforms[GLSL430] {
		t.Fatalf("merged platforms = %v", platforms)
	}
}
