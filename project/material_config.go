// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package project

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/gogpu/lazurite/compilerexec"
	"github.com/gogpu/lazurite/container"
)

// CompilerType selects which external compiler a material folder is built
// with.
type CompilerType int

const (
	CompilerShaderc CompilerType = iota
	CompilerDxc
)

// CompilerTypeFromName parses the "shaderc"/"dxc" config.toml value.
func CompilerTypeFromName(name string) (CompilerType, bool) {
	switch name {
	case "shaderc":
		return CompilerShaderc, true
	case "dxc":
		return CompilerDxc, true
	default:
		return CompilerShaderc, false
	}
}

// rawMaterialConfig is config.toml's on-disk shape.
type rawMaterialConfig struct {
	Compiler struct {
		Type    string   `toml:"type"`
		Options []string `toml:"options"`
	} `toml:"compiler"`
	MacroOverwrite struct {
		Flags map[string]map[string][]string `toml:"flags"`
		Pass  map[string][]string            `toml:"passes"`
	} `toml:"macro_overwrite"`
	FileOverwrite struct {
		Default ShaderFileOverwrite            `toml:"default"`
		Pass    map[string]ShaderFileOverwrite `toml:"passes"`
	} `toml:"file_overwrite"`
	SupportedPlatforms []string `toml:"supported_platforms"`
}

// MaterialConfig is one material folder's config.toml: the compiler to use,
// per-pass/per-flag macro overrides, per-pass source file overrides, and
// the platform subset this material builds for.
type MaterialConfig struct {
	CompilerType         CompilerType
	CompilerOptions      []string
	MacroOverwritePass   map[string][]compilerexec.MacroDefine
	MacroOverwriteFlags  map[string]map[string][]compilerexec.MacroDefine
	FileOverwriteDefault ShaderFileOverwrite
	FileOverwritePass    map[string]ShaderFileOverwrite
	SupportedPlatforms   map[container.Platform]bool
}

// DefaultMaterialConfig matches MaterialConfig.__init__'s defaults: shaderc,
// no overrides, every platform supported.
func DefaultMaterialConfig() MaterialConfig {
	all := map[container.Platform]bool{}
	for _, p := range allPlatforms {
		all[p] = true
	}
	return MaterialConfig{
		CompilerType:         CompilerShaderc,
		FileOverwriteDefault: DefaultShaderFileOverwrite(),
		FileOverwritePass:    map[string]ShaderFileOverwrite{},
		MacroOverwritePass:   map[string][]compilerexec.MacroDefine{},
		MacroOverwriteFlags:  map[string]map[string][]compilerexec.MacroDefine{},
		SupportedPlatforms:   all,
	}
}

var allPlatforms = []container.Platform{
	container.Direct3DSM40, container.Direct3DSM50, container.Direct3DSM60, container.Direct3DSM65,
	container.Direct3DXB1, container.Direct3DXBX, container.GLSL120, container.GLSL430,
	container.ESSL310, container.Metal, container.Vulkan, container.Nvn, container.PSSL,
}

// LoadMaterialConfig reads path (a material folder's config.toml). A
// missing file yields DefaultMaterialConfig, matching
// MaterialConfig.read_from_json_file's no-op on a missing path.
func LoadMaterialConfig(path string) (MaterialConfig, error) {
	cfg := DefaultMaterialConfig()

	if _, err := os.Stat(path); err != nil {
		return cfg, nil
	}

	var raw rawMaterialConfig
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return MaterialConfig{}, errors.Wrapf(err, "parse material config %s", path)
	}

	if t, ok := CompilerTypeFromName(raw.Compiler.Type); ok {
		cfg.CompilerType = t
	}
	if raw.Compiler.Options != nil {
		cfg.CompilerOptions = raw.Compiler.Options
	}

	for key, values := range raw.MacroOverwrite.Flags {
		cfg.MacroOverwriteFlags[key] = map[string][]compilerexec.MacroDefine{}
		for value, macros := range values {
			defines := make([]compilerexec.MacroDefine, len(macros))
			for i, m := range macros {
				defines[i] = compilerexec.ParseMacroDefine(m)
			}
			cfg.MacroOverwriteFlags[key][value] = defines
		}
	}

	for pass, macros := range raw.MacroOverwrite.Pass {
		defines := make([]compilerexec.MacroDefine, len(macros))
		for i, m := range macros {
			defines[i] = compilerexec.ParseMacroDefine(m)
		}
		cfg.MacroOverwritePass[pass] = defines
	}

	cfg.FileOverwriteDefault.overlay(raw.FileOverwrite.Default)
	for pass, overwrite := range raw.FileOverwrite.Pass {
		merged := cfg.FileOverwriteDefault
		merged.overlay(overwrite)
		cfg.FileOverwritePass[pass] = merged
	}

	if len(raw.SupportedPlatforms) > 0 {
		cfg.SupportedPlatforms = map[container.Platform]bool{}
		for _, name := range raw.SupportedPlatforms {
			if p, err := container.PlatformFromName(name); err == nil {
				cfg.SupportedPlatforms[p] = true
			}
		}
	}

	return cfg, nil
}

// FileOverwriteFor returns the effective ShaderFileOverwrite for passName,
// falling back to the material's default.
func (c MaterialConfig) FileOverwriteFor(passName string) ShaderFileOverwrite {
	if fo, ok := c.FileOverwritePass[passName]; ok {
		return fo
	}
	return c.FileOverwriteDefault
}
