// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package project

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "project.toml"), nil)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if len(cfg.IncludePatterns) != 1 || cfg.IncludePatterns[0] != "*" {
		t.Fatalf("IncludePatterns = %v", cfg.IncludePatterns)
	}
	if len(cfg.ExcludePatterns) != 2 {
		t.Fatalf("ExcludePatterns = %v", cfg.ExcludePatterns)
	}
}

func TestLoadConfigParsesMacrosAndPlatforms(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "project.toml")
	writeFile(t, path, `
macros = ["FOO", "BAR 4"]
platforms = ["ESSL_310", "GLSL_430"]
`)

	cfg, err := LoadConfig(path, nil)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if len(cfg.ParsedMacros()) != 2 {
		t.Fatalf("ParsedMacros = %+v", cfg.ParsedMacros())
	}
	if len(cfg.ParsedPlatforms()) != 2 {
		t.Fatalf("ParsedPlatforms = %+v", cfg.ParsedPlatforms())
	}
}

func TestLoadConfigProfileOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "project.toml")
	writeFile(t, path, `
macros = ["FOO"]

[profiles.release]
macros = ["RELEASE"]
`)

	cfg, err := LoadConfig(path, []string{"release"})
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if len(cfg.Macros) != 1 || cfg.Macros[0] != "RELEASE" {
		t.Fatalf("Macros after overlay = %v", cfg.Macros)
	}
}

func TestLoadConfigUnknownProfileIsIgnored(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "project.toml")
	writeFile(t, path, `macros = ["FOO"]`)

	cfg, err := LoadConfig(path, []string{"does-not-exist"})
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if len(cfg.Macros) != 1 || cfg.Macros[0] != "FOO" {
		t.Fatalf("Macros = %v", cfg.Macros)
	}
}

func TestResolveMergeSourceExpandsDirectory(t *testing.T) {
	dir := t.TempDir()
	matDir := filepath.Join(dir, "materials")
	if err := os.Mkdir(matDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, filepath.Join(matDir, "a.material.bin"), "x")
	writeFile(t, filepath.Join(matDir, "ignore.txt"), "x")

	path := filepath.Join(dir, "project.toml")
	writeFile(t, path, `merge_source = ["materials"]`)

	cfg, err := LoadConfig(path, nil)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if len(cfg.MergeSource) != 1 {
		t.Fatalf("MergeSource = %v", cfg.MergeSource)
	}
}
