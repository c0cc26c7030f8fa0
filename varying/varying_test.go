// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package varying

import (
	"strings"
	"testing"
	"time"

	"github.com/gogpu/lazurite/container"
)

func TestGenerateLine(t *testing.T) {
	in := &container.ShaderInput{
		Name:          "color",
		Type:          container.InputVec4,
		Semantic:      container.InputSemantic{Index: 4, SubIndex: 0},
		Precision:     container.PrecisionNone,
		Interpolation: container.InterpolationNone,
	}
	isInstance, line := generateLine(in, container.Vertex)
	if isInstance {
		t.Fatalf("expected non-instance-data input")
	}
	if !strings.HasPrefix(line, "vec4 a_") {
		t.Fatalf("line = %q", line)
	}
}

func TestGenerateLineInstanceData(t *testing.T) {
	in := &container.ShaderInput{
		Name:     "instanceData0",
		Type:     container.InputVec4,
		Semantic: container.InputSemantic{Index: 7, SubIndex: 0},
	}
	isInstance, line := generateLine(in, container.Vertex)
	if !isInstance {
		t.Fatalf("expected instance data input")
	}
	if !strings.Contains(line, "i_data1") {
		t.Fatalf("line = %q, want i_data1", line)
	}
}

func TestRestoreEmptyMaterialReturnsEmptyString(t *testing.T) {
	m := container.NewMaterial()
	m.Name = "empty"
	code, err := Restore(m, time.Second, nil)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if code != "" {
		t.Fatalf("expected empty restoration, got %q", code)
	}
}

func TestRestoreSingleInput(t *testing.T) {
	m := container.NewMaterial()
	m.Name = "test"
	m.Passes = []*container.Pass{
		{
			Name: "Opaque",
			Variants: []*container.Variant{
				{
					Flags: map[string]string{},
					Shaders: []*container.Shader{
						{
							Stage:    container.Vertex,
							Platform: container.ESSL310,
							Inputs: []*container.ShaderInput{
								{
									Name:     "position",
									Type:     container.InputVec3,
									Semantic: container.InputSemantic{Index: 0, SubIndex: 0},
								},
							},
						},
					},
				},
			},
		},
	}

	code, err := Restore(m, time.Second, nil)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if !strings.Contains(code, "a_position") {
		t.Fatalf("expected restored code to declare a_position, got %q", code)
	}
}
