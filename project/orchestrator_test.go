// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/lazurite/container"
	"github.com/gogpu/lazurite/internal/boolexpr"
)

func TestMaterialFoldersExcludesHidden(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"opaque", "transparent", ".git", "_build"} {
		if err := os.Mkdir(filepath.Join(dir, name), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", name, err)
		}
	}
	writeFile(t, filepath.Join(dir, "readme.txt"), "not a folder")

	cfg := DefaultConfig()
	dirs, err := materialFolders(dir, cfg)
	if err != nil {
		t.Fatalf("materialFolders: %v", err)
	}
	if len(dirs) != 2 {
		t.Fatalf("dirs = %v", dirs)
	}
	if filepath.Base(dirs[0]) != "opaque" || filepath.Base(dirs[1]) != "transparent" {
		t.Fatalf("dirs = %v", dirs)
	}
}

func TestGenerateDefinesOrdering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project.toml")
	writeFile(t, path, `macros = ["GLOBAL"]`)
	cfg, err := LoadConfig(path, nil)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	material := container.NewMaterial()
	material.Buffers = []*container.Buffer{{Name: "Frame", Reg1: 3}}

	matCfg := DefaultMaterialConfig()
	pass := &container.Pass{Name: "Opaque"}
	variant := &container.Variant{Flags: map[string]string{"quality": "High", "alpha": "Off"}}

	defines := generateDefines(cfg, material, matCfg, pass, variant, nil)

	names := make([]string, len(defines))
	for i, d := range defines {
		names[i] = d.Name
	}

	want := []string{
		"GLOBAL",
		"BGFX_CONFIG_MAX_BONES",
		"s_Frame_REG",
		boolexpr.PassNameMacro("Opaque"),
		boolexpr.FlagNameMacro("alpha", "Off"),
		boolexpr.FlagNameMacro("quality", "High"),
	}
	if len(names) != len(want) {
		t.Fatalf("defines = %v, want %v", names, want)
	}
	for i, w := range want {
		if names[i] != w {
			t.Fatalf("defines[%d] = %q, want %q (all: %v)", i, names[i], w, names)
		}
	}
}
