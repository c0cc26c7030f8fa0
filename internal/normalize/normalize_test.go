// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package normalize

import "testing"

func TestStripComments(t *testing.T) {
	code := "int a = 1; // trailing comment\n/* block\ncomment */\nint b = 2;\n"
	got := StripComments(code)
	want := "int a = 1; \nint b = 2;\n"
	if got != want {
		t.Fatalf("StripComments = %q, want %q", got, want)
	}
}

func TestPreprocess_SamplerRewrite(t *testing.T) {
	code := "uniform lowp sampler2D s_Texture;\n"
	got := Preprocess(code)
	want := "SAMPLER2D_AUTOREG(s_Texture);\n"
	if got != want {
		t.Fatalf("Preprocess = %q, want %q", got, want)
	}
}

func TestPreprocess_VaryingBecomesOutputInVertexStage(t *testing.T) {
	code := "#define varying out\nvarying vec3 v_Normal;\n"
	got := Preprocess(code)
	want := "$output v_Normal\n"
	if got != want {
		t.Fatalf("Preprocess = %q, want %q", got, want)
	}
}

func TestPostprocess_MergesInputDeclarations(t *testing.T) {
	code := "$input a_Position\n$input a_Normal\nvoid main() {\n}\n"
	got := Postprocess(code)
	want := "$input a_Position, a_Normal\nvoid main() {\n}\n"
	if got != want {
		t.Fatalf("Postprocess = %q, want %q", got, want)
	}
}

func TestPostprocess_FlagsAttentionLines(t *testing.T) {
	code := "mat4 m = (a) * (b);\nvec4 v = arr[i][j];\n"
	got := Postprocess(code)
	want := "mat4 m = (a) * (b); // Attention!\nvec4 v = arr[i][j]; // Attention!\n"
	if got != want {
		t.Fatalf("Postprocess = %q, want %q", got, want)
	}
}
