// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package boolexpr

import "testing"

func TestDefinitionName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"QualityHigh", "QUALITY_HIGH"},
		{"f_EnableFog", "F_ENABLE_FOG"},
		{"MSAASamples", "MSAA_SAMPLES"},
		{"Texture2D", "TEXTURE2_D"},
	}

	for _, tt := range tests {
		if got := DefinitionName(tt.in); got != tt.want {
			t.Errorf("DefinitionName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFlagNameMacro(t *testing.T) {
	got := FlagNameMacro("quality", "High")
	want := DefinitionName("quality__High")
	if got != want {
		t.Fatalf("FlagNameMacro = %q, want %q", got, want)
	}
}

func TestPassNameMacro(t *testing.T) {
	if got := PassNameMacro("Opaque"); got != "OPAQUE_PASS" {
		t.Fatalf("PassNameMacro(Opaque) = %q", got)
	}
	if got := PassNameMacro("ShadowPass"); got != "SHADOW_PASS" {
		t.Fatalf("PassNameMacro(ShadowPass) = %q, want no doubled suffix", got)
	}
}

func TestSimplify_SingleAtom(t *testing.T) {
	dnf := Simplify([]FoldTerm{{Join: JoinInitial, Atom: "QUALITY_HIGH"}})
	directive, macros := FormatDirective(dnf)
	if directive != "#ifdef QUALITY_HIGH" {
		t.Fatalf("directive = %q", directive)
	}
	if len(macros) != 1 || macros[0] != "QUALITY_HIGH" {
		t.Fatalf("macros = %v", macros)
	}
}

func TestSimplify_NegatedSingleAtom(t *testing.T) {
	dnf := Simplify([]FoldTerm{{Join: JoinInitial, Atom: "QUALITY_HIGH", Negate: true}})
	directive, _ := FormatDirective(dnf)
	if directive != "#ifndef QUALITY_HIGH" {
		t.Fatalf("directive = %q", directive)
	}
}

func TestSimplify_Conjunction(t *testing.T) {
	dnf := Simplify([]FoldTerm{
		{Join: JoinInitial, Atom: "A"},
		{Join: JoinAnd, Atom: "B"},
	})
	directive, macros := FormatDirective(dnf)
	if directive != "#if defined(A) && defined(B)" {
		t.Fatalf("directive = %q", directive)
	}
	if len(macros) != 2 {
		t.Fatalf("macros = %v", macros)
	}
}

func TestSimplify_RedundantTermsCollapse(t *testing.T) {
	// Left fold: A, then (A || B), then (A || B) && A == A regardless of B.
	dnf := Simplify([]FoldTerm{
		{Join: JoinInitial, Atom: "A"},
		{Join: JoinOr, Atom: "B"},
		{Join: JoinAnd, Atom: "A"},
	})
	directive, _ := FormatDirective(dnf)
	if directive != "#ifdef A" {
		t.Fatalf("expected simplification to #ifdef A, got %q", directive)
	}
}
