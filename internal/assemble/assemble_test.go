// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package assemble

import "testing"

func TestLinesUnconditional(t *testing.T) {
	got := Lines([]Group{{Lines: []string{"a", "b"}}})
	if got != "a\nb" {
		t.Fatalf("got %q", got)
	}
}

func TestLinesConditionalWrapsDirective(t *testing.T) {
	got := Lines([]Group{{Lines: []string{"a"}, Directive: "#if FOO"}})
	want := "#if FOO\na\n#endif"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestShaderSplicesFunctionBody(t *testing.T) {
	main := []Group{{Lines: []string{"void main()", "__FN_0__"}}}
	fn := Function{
		Name:   "__FN_0__",
		Groups: []Group{{Lines: []string{"return;"}}},
	}
	marker := func(name string) string { return name }

	got := Shader(main, []Function{fn}, marker)
	want := "void main()\n__FN_0__ {\nreturn;\n}"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestShaderStructGetsSemicolon(t *testing.T) {
	main := []Group{{Lines: []string{"__STRUCT_0__"}}}
	fn := Function{
		Name:     "__STRUCT_0__",
		IsStruct: true,
		Groups:   []Group{{Lines: []string{"float x;"}}},
	}
	marker := func(name string) string { return name }

	got := Shader(main, []Function{fn}, marker)
	want := "__STRUCT_0__ {\nfloat x;\n};"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
