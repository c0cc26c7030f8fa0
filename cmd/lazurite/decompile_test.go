// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/lazurite/container"
)

func TestResolvePlatforms(t *testing.T) {
	platforms, err := resolvePlatforms([]string{"ESSL_310", "GLSL_430"})
	if err != nil {
		t.Fatalf("resolvePlatforms: %v", err)
	}
	if !platforms[container.ESSL310] || !platforms[container.GLSL430] || len(platforms) != 2 {
		t.Fatalf("platforms = %v", platforms)
	}
}

func TestResolvePlatformsRejectsUnknownName(t *testing.T) {
	if _, err := resolvePlatforms([]string{"NOT_A_PLATFORM"}); err == nil {
		t.Fatalf("expected an error for an unknown platform name")
	}
}

func TestListPackedMaterialsExpandsDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.material.bin"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ignore.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	files, err := listPackedMaterials([]string{dir})
	if err != nil {
		t.Fatalf("listPackedMaterials: %v", err)
	}
	if len(files) != 1 || filepath.Base(files[0]) != "a.material.bin" {
		t.Fatalf("files = %v", files)
	}
}

func TestListPackedMaterialsRejectsMissingPath(t *testing.T) {
	if _, err := listPackedMaterials([]string{filepath.Join(t.TempDir(), "nope")}); err == nil {
		t.Fatalf("expected an error for a missing path")
	}
}

func TestListPackedMaterialsErrorsWhenEmpty(t *testing.T) {
	dir := t.TempDir()
	if _, err := listPackedMaterials([]string{dir}); err == nil {
		t.Fatalf("expected an error when no materials are found")
	}
}
