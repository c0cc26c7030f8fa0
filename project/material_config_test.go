// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package project

import (
	"path/filepath"
	"testing"

	"github.com/gogpu/lazurite/container"
)

func TestLoadMaterialConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadMaterialConfig(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("LoadMaterialConfig: %v", err)
	}
	if cfg.CompilerType != CompilerShaderc {
		t.Fatalf("CompilerType = %v", cfg.CompilerType)
	}
	if !cfg.SupportedPlatforms[container.ESSL310] {
		t.Fatalf("expected ESSL310 supported by default")
	}
}

func TestLoadMaterialConfigParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	writeFile(t, path, `
supported_platforms = ["ESSL_310"]

[compiler]
type = "dxc"
options = ["-Zi"]

[macro_overwrite.passes]
Opaque = ["FOO", "BAR 1"]

[macro_overwrite.flags.quality]
High = ["QUALITY_HIGH"]
`)
	cfg, err := LoadMaterialConfig(path)
	if err != nil {
		t.Fatalf("LoadMaterialConfig: %v", err)
	}
	if cfg.CompilerType != CompilerDxc {
		t.Fatalf("CompilerType = %v", cfg.CompilerType)
	}
	if len(cfg.CompilerOptions) != 1 || cfg.CompilerOptions[0] != "-Zi" {
		t.Fatalf("CompilerOptions = %v", cfg.CompilerOptions)
	}
	if len(cfg.MacroOverwritePass["Opaque"]) != 2 {
		t.Fatalf("MacroOverwritePass = %+v", cfg.MacroOverwritePass)
	}
	if len(cfg.SupportedPlatforms) != 1 || !cfg.SupportedPlatforms[container.ESSL310] {
		t.Fatalf("SupportedPlatforms = %v", cfg.SupportedPlatforms)
	}
}

func TestFileOverwriteForFallsBackToDefault(t *testing.T) {
	cfg := DefaultMaterialConfig()
	got := cfg.FileOverwriteFor("AnyPass")
	if got != cfg.FileOverwriteDefault {
		t.Fatalf("FileOverwriteFor fallback mismatch")
	}
}
