// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package project orchestrates compiling every material folder beneath a
// project root: discovering folders, merging pre-existing source
// materials, generating per-variant preprocessor defines, and fanning the
// actual compiler invocations out across compilerexec.
package project

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/gogpu/lazurite/compilerexec"
	"github.com/gogpu/lazurite/container"
)

// Config is a project's top-level settings, loaded from project.toml.
// Fields set in a selected profile override the base values, mirroring
// ProjectConfig's profile/base_profile layering.
type Config struct {
	Macros          []string          `toml:"macros"`
	Platforms       []string          `toml:"platforms"`
	MergeSource     []string          `toml:"merge_source"`
	IncludePatterns []string          `toml:"include_patterns"`
	ExcludePatterns []string          `toml:"exclude_patterns"`
	IncludeSearch   []string          `toml:"include_search_paths"`
	Profiles        map[string]Config `toml:"profiles"`

	parsedMacros    []compilerexec.MacroDefine
	parsedPlatforms []container.Platform
}

// DefaultConfig returns a Config with the same defaults ProjectConfig.__init__
// establishes.
func DefaultConfig() Config {
	return Config{
		IncludePatterns: []string{"*"},
		ExcludePatterns: []string{".*", "_*"},
	}
}

// LoadConfig reads path (a project.toml), applying any named profiles on top
// of the base configuration in the order given. A missing file yields the
// defaults, matching read_json_file's silent no-op when the path is absent.
func LoadConfig(path string, profiles []string) (Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); err != nil {
		cfg.resolve()
		return cfg, nil
	}

	var raw Config
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return Config{}, errors.Wrapf(err, "parse project config %s", path)
	}

	cfg.overlay(raw)
	for _, name := range profiles {
		profile, ok := raw.Profiles[name]
		if !ok {
			continue
		}
		cfg.overlay(profile)
	}

	cfg.resolveMergeSource(filepath.Dir(path))
	cfg.resolve()
	return cfg, nil
}

// overlay replaces any field explicitly set in other, leaving cfg's current
// value otherwise.
func (c *Config) overlay(other Config) {
	if other.Macros != nil {
		c.Macros = other.Macros
	}
	if other.Platforms != nil {
		c.Platforms = other.Platforms
	}
	if other.MergeSource != nil {
		c.MergeSource = other.MergeSource
	}
	if other.IncludePatterns != nil {
		c.IncludePatterns = other.IncludePatterns
	}
	if other.ExcludePatterns != nil {
		c.ExcludePatterns = other.ExcludePatterns
	}
	if other.IncludeSearch != nil {
		c.IncludeSearch = other.IncludeSearch
	}
}

func (c *Config) resolveMergeSource(baseDir string) {
	var resolved []string
	seen := map[string]bool{}
	for _, rel := range c.MergeSource {
		p := filepath.Clean(filepath.Join(baseDir, rel))
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		if info.IsDir() {
			entries, err := os.ReadDir(p)
			if err != nil {
				continue
			}
			for _, e := range entries {
				child := filepath.Join(p, e.Name())
				if !e.IsDir() && filepath.Ext(child) == container.Extension && !seen[child] {
					seen[child] = true
					resolved = append(resolved, child)
				}
			}
		} else if filepath.Ext(p) == container.Extension && !seen[p] {
			seen[p] = true
			resolved = append(resolved, p)
		}
	}
	c.MergeSource = resolved
}

// resolve parses Macros/Platforms into their typed forms, called once all
// profile layering is complete.
func (c *Config) resolve() {
	c.parsedMacros = make([]compilerexec.MacroDefine, len(c.Macros))
	for i, m := range c.Macros {
		c.parsedMacros[i] = compilerexec.ParseMacroDefine(m)
	}
	c.parsedPlatforms = nil
	for _, name := range c.Platforms {
		if p, err := container.PlatformFromName(name); err == nil {
			c.parsedPlatforms = append(c.parsedPlatforms, p)
		}
	}
}

// ParsedMacros returns the project-wide macro defines applied to every
// compile.
func (c *Config) ParsedMacros() []compilerexec.MacroDefine { return c.parsedMacros }

// ParsedPlatforms returns the project's target platform set.
func (c *Config) ParsedPlatforms() []container.Platform { return c.parsedPlatforms }
