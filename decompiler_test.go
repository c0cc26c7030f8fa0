// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package decompiler

import (
	"strings"
	"testing"
	"time"
)

func TestRestore_NoVariants(t *testing.T) {
	macros, code, err := Restore(nil, DefaultOptions())
	if err != nil {
		t.Fatalf("Restore returned error: %v", err)
	}
	if len(macros) != 0 {
		t.Fatalf("macros = %v, want empty", macros)
	}
	if code != "" {
		t.Fatalf("code = %q, want empty", code)
	}
}

// S1: two variants, one flag — two line groups, each guarded by exactly one
// directive, and used_macros = {MODE__A, MODE__B}.
func TestRestore_S1_TwoVariantsOneFlag(t *testing.T) {
	variants := []Variant{
		{Flags: FlagAssignment{"MODE": "A"}, Code: "x = 1;\n"},
		{Flags: FlagAssignment{"MODE": "B"}, Code: "x = 2;\n"},
	}

	macros, code, err := Restore(variants, Options{Timeout: time.Second})
	if err != nil {
		t.Fatalf("Restore error: %v", err)
	}

	if !strings.Contains(code, "#ifdef") && !strings.Contains(code, "#ifndef") {
		t.Fatalf("code has no single-atom directive:\n%s", code)
	}
	if strings.Count(code, "#endif") != 2 {
		t.Fatalf("expected 2 #endif blocks, got code:\n%s", code)
	}

	want := map[string]bool{"MODE__A": true, "MODE__B": true}
	if len(macros) != len(want) {
		t.Fatalf("macros = %v, want %v", macros, want)
	}
	for m := range want {
		if _, ok := macros[m]; !ok {
			t.Fatalf("macros missing %s: %v", m, macros)
		}
	}
}

// S2: a flag with three values and an always-present prelude line.
func TestRestore_S2_PreludeAlwaysPresent(t *testing.T) {
	variants := []Variant{
		{Flags: FlagAssignment{"K": "R"}, Code: "init();\nx = 1;\n"},
		{Flags: FlagAssignment{"K": "G"}, Code: "init();\nx = 2;\n"},
		{Flags: FlagAssignment{"K": "B"}, Code: "init();\nx = 3;\n"},
	}

	_, code, err := Restore(variants, Options{Timeout: time.Second})
	if err != nil {
		t.Fatalf("Restore error: %v", err)
	}

	lines := strings.Split(code, "\n")
	if len(lines) == 0 || lines[0] != "init();" {
		t.Fatalf("expected unconditional prelude as first line, got:\n%s", code)
	}
	for _, want := range []string{"K__R", "K__G", "K__B"} {
		if !strings.Contains(code, want) {
			t.Fatalf("code missing directive referencing %s:\n%s", want, code)
		}
	}
}

// S3: the only difference between variants is inside a function body; the
// main namespace should carry no conditional and the function should.
func TestRestore_S3_FunctionExtraction(t *testing.T) {
	variants := []Variant{
		{Flags: FlagAssignment{"MODE": "A"}, Code: "void f() {\n  x = 1;\n}\n"},
		{Flags: FlagAssignment{"MODE": "B"}, Code: "void f() {\n  x = 2;\n}\n"},
	}

	_, code, err := Restore(variants, Options{Timeout: time.Second})
	if err != nil {
		t.Fatalf("Restore error: %v", err)
	}

	if !strings.Contains(code, "void f() {") {
		t.Fatalf("expected reassembled function signature, got:\n%s", code)
	}
	if !strings.Contains(code, "x = 1;") || !strings.Contains(code, "x = 2;") {
		t.Fatalf("expected both function bodies present, got:\n%s", code)
	}
}

// S4: a flag that every variant shares must never appear in an emitted
// directive or in used_macros.
func TestRestore_S4_RedundantFlagFiltered(t *testing.T) {
	variants := []Variant{
		{Flags: FlagAssignment{"PLATFORM": "X", "MODE": "A"}, Code: "x = 1;\n"},
		{Flags: FlagAssignment{"PLATFORM": "X", "MODE": "B"}, Code: "x = 2;\n"},
	}

	macros, code, err := Restore(variants, Options{Timeout: time.Second})
	if err != nil {
		t.Fatalf("Restore error: %v", err)
	}

	if strings.Contains(code, "PLATFORM") {
		t.Fatalf("code references redundant flag PLATFORM:\n%s", code)
	}
	for m := range macros {
		if strings.Contains(m, "PLATFORM") {
			t.Fatalf("macros reference redundant flag: %v", macros)
		}
	}
}

// S5: a binary On/Off flag should be expressed in its positive form.
func TestRestore_S5_BiasPrefersPositiveForm(t *testing.T) {
	variants := []Variant{
		{Flags: FlagAssignment{"FEATURE": "On"}, Code: "x = 1;\n"},
		{Flags: FlagAssignment{"FEATURE": "Off"}, Code: "x = 2;\n"},
	}

	_, code, err := Restore(variants, Options{Timeout: time.Second})
	if err != nil {
		t.Fatalf("Restore error: %v", err)
	}

	idx := strings.Index(code, "x = 1;")
	if idx < 0 {
		t.Fatalf("missing x = 1; line in:\n%s", code)
	}
	before := code[:idx]
	lastIfdef := strings.LastIndex(before, "#ifdef")
	lastIfndef := strings.LastIndex(before, "#ifndef")
	if lastIfdef < lastIfndef {
		t.Fatalf("expected the guard preceding x = 1; to be positive (#ifdef), got:\n%s", code)
	}
}

// Determinism: two runs over the same inputs produce byte-identical output
// and an equal used-macro set.
func TestRestore_Determinism(t *testing.T) {
	variants := []Variant{
		{Flags: FlagAssignment{"MODE": "A", "QUALITY": "High"}, Code: "init();\nx = 1;\ny = 9;\n"},
		{Flags: FlagAssignment{"MODE": "B", "QUALITY": "High"}, Code: "init();\nx = 2;\ny = 9;\n"},
		{Flags: FlagAssignment{"MODE": "A", "QUALITY": "Low"}, Code: "init();\nx = 1;\ny = 0;\n"},
	}

	opts := Options{Timeout: 50 * time.Millisecond}

	macros1, code1, err := Restore(variants, opts)
	if err != nil {
		t.Fatalf("Restore error: %v", err)
	}
	macros2, code2, err := Restore(variants, opts)
	if err != nil {
		t.Fatalf("Restore error: %v", err)
	}

	if code1 != code2 {
		t.Fatalf("non-deterministic output:\n--- run 1 ---\n%s\n--- run 2 ---\n%s", code1, code2)
	}
	if len(macros1) != len(macros2) {
		t.Fatalf("macro sets differ in size: %v vs %v", macros1, macros2)
	}
	for m := range macros1 {
		if _, ok := macros2[m]; !ok {
			t.Fatalf("macro %s present in run 1 but not run 2", m)
		}
	}
}

func TestRestore_StripCommentsAndPreprocess(t *testing.T) {
	variants := []Variant{
		{Flags: FlagAssignment{"MODE": "A"}, Code: "uniform lowp sampler2D s_Tex; // c\nx = 1;\n"},
		{Flags: FlagAssignment{"MODE": "B"}, Code: "uniform lowp sampler2D s_Tex; // c\nx = 2;\n"},
	}

	_, code, err := Restore(variants, Options{StripComments: true, Preprocess: true, Timeout: time.Second})
	if err != nil {
		t.Fatalf("Restore error: %v", err)
	}
	if !strings.Contains(code, "SAMPLER2D_AUTOREG(s_Tex);") {
		t.Fatalf("expected sampler rewrite to survive the pipeline, got:\n%s", code)
	}
	if strings.Contains(code, "// c") {
		t.Fatalf("expected comment to be stripped, got:\n%s", code)
	}
}
