// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package extract

import "testing"

func TestExtract_Function(t *testing.T) {
	code := "uniform vec4 u_color;\n\nvec4 shade(vec3 n) {\n    return vec4(n, 1.0);\n}\n\nvoid main() {\n    gl_FragColor = shade(vec3(1.0));\n}\n"

	res := Extract(code)

	if len(res.Order) != 2 {
		t.Fatalf("expected 2 extracted entries, got %d: %v", len(res.Order), res.Order)
	}

	shade, ok := res.Entries["vec4 shade(vec3 n)"]
	if !ok {
		t.Fatalf("expected to find extracted 'shade' function, entries: %v", res.Entries)
	}
	if shade.IsStruct {
		t.Fatalf("shade should not be marked as a struct")
	}

	main, ok := res.Entries["void main()"]
	if !ok {
		t.Fatalf("expected to find extracted 'main' function")
	}
	if main.Code == "" {
		t.Fatalf("expected non-empty main body")
	}

	if !contains(res.Code, FormatMarker("vec4 shade(vec3 n)")) {
		t.Fatalf("expected marker for shade in remaining code, got: %q", res.Code)
	}
}

func TestExtract_Struct(t *testing.T) {
	code := "struct VertexOutput {\n    vec4 position;\n    vec2 uv;\n};\n\nvoid main() {\n}\n"

	res := Extract(code)

	s, ok := res.Entries["struct VertexOutput"]
	if !ok {
		t.Fatalf("expected to find extracted struct, entries: %v", res.Entries)
	}
	if !s.IsStruct {
		t.Fatalf("VertexOutput should be marked as a struct")
	}
}

func TestExtract_UnbalancedBracesStopsExtraction(t *testing.T) {
	code := "void broken() {\n    if (true) {\n"

	res := Extract(code)

	if len(res.Order) != 0 {
		t.Fatalf("expected no extraction on unbalanced input, got %v", res.Order)
	}
	if res.Code != code {
		t.Fatalf("expected code to be left untouched, got %q", res.Code)
	}
}

func contains(haystack, needle string) bool {
	return len(haystack) >= len(needle) && (func() bool {
		for i := 0; i+len(needle) <= len(haystack); i++ {
			if haystack[i:i+len(needle)] == needle {
				return true
			}
		}
		return false
	})()
}
