// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package compilerexec

import (
	"strconv"
	"strings"

	"github.com/gogpu/lazurite/container"
)

// bgfxDefineKeys is the fixed set of BX_PLATFORM_*/BGFX_SHADER_LANGUAGE_*/
// BGFX_SHADER_TYPE_* flags shaderc expects to see defined (as 0 or 1) on
// every invocation, mirroring generate_bgfx_defines's key list.
var bgfxDefineKeys = []string{
	"BX_PLATFORM_ANDROID",
	"BX_PLATFORM_EMSCRIPTEN",
	"BX_PLATFORM_IOS",
	"BX_PLATFORM_LINUX",
	"BX_PLATFORM_OSX",
	"BX_PLATFORM_PS4",
	"BX_PLATFORM_WINDOWS",
	"BX_PLATFORM_XBOXONE",
	"BGFX_SHADER_LANGUAGE_GLSL",
	"BGFX_SHADER_LANGUAGE_HLSL",
	"BGFX_SHADER_LANGUAGE_METAL",
	"BGFX_SHADER_LANGUAGE_PSSL",
	"BGFX_SHADER_LANGUAGE_SPIRV",
	"BGFX_SHADER_TYPE_COMPUTE",
	"BGFX_SHADER_TYPE_FRAGMENT",
	"BGFX_SHADER_TYPE_VERTEX",
}

// GenerateBgfxDefines builds the full BX_PLATFORM_*/BGFX_SHADER_LANGUAGE_*/
// BGFX_SHADER_TYPE_* define set shaderc needs for one (platform, stage)
// compile, every key defaulting to 0 except the ones the target turns on.
func GenerateBgfxDefines(platform container.Platform, stage container.Stage) []MacroDefine {
	values := make(map[string]int, len(bgfxDefineKeys))
	for _, k := range bgfxDefineKeys {
		values[k] = 0
	}

	switch stage {
	case container.Compute:
		values["BGFX_SHADER_TYPE_COMPUTE"] = 1
	case container.Vertex:
		values["BGFX_SHADER_TYPE_VERTEX"] = 1
	default:
		values["BGFX_SHADER_TYPE_FRAGMENT"] = 1
	}

	name := platform.String()
	switch {
	case platform == container.Metal:
		values["BX_PLATFORM_IOS"] = 1
		values["BGFX_SHADER_LANGUAGE_METAL"] = 1
	case strings.HasPrefix(name, "ESSL_"):
		values["BX_PLATFORM_ANDROID"] = 1
		values["BGFX_SHADER_LANGUAGE_GLSL"] = atoiOr(strings.TrimPrefix(name, "ESSL_"), 0)
	case strings.HasPrefix(name, "GLSL_"):
		values["BX_PLATFORM_LINUX"] = 1
		values["BGFX_SHADER_LANGUAGE_GLSL"] = atoiOr(strings.TrimPrefix(name, "GLSL_"), 0)
	case strings.HasPrefix(name, "Direct3D_"):
		values["BX_PLATFORM_WINDOWS"] = 1
		if platform == container.Direct3DSM40 {
			values["BGFX_SHADER_LANGUAGE_HLSL"] = 400
		} else {
			values["BGFX_SHADER_LANGUAGE_HLSL"] = 500
		}
	case platform == container.PSSL:
		values["BX_PLATFORM_PS4"] = 1
		values["BGFX_SHADER_LANGUAGE_PSSL"] = 1
	case platform == container.Vulkan:
		values["BGFX_SHADER_LANGUAGE_SPIRV"] = 1
	}

	defines := make([]MacroDefine, len(bgfxDefineKeys))
	for i, k := range bgfxDefineKeys {
		defines[i] = NewMacroDefine(k, values[k])
	}
	return defines
}

func atoiOr(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
