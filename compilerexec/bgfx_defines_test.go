// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package compilerexec

import (
	"testing"

	"github.com/gogpu/lazurite/container"
)

func defineValue(t *testing.T, defines []MacroDefine, name string) int {
	t.Helper()
	for _, d := range defines {
		if d.Name == name {
			if d.Value == nil {
				t.Fatalf("define %s has no value", name)
			}
			return *d.Value
		}
	}
	t.Fatalf("define %s not found", name)
	return 0
}

func TestGenerateBgfxDefinesMetalCompute(t *testing.T) {
	defines := GenerateBgfxDefines(container.Metal, container.Compute)
	if defineValue(t, defines, "BX_PLATFORM_IOS") != 1 {
		t.Errorf("expected BX_PLATFORM_IOS=1")
	}
	if defineValue(t, defines, "BGFX_SHADER_LANGUAGE_METAL") != 1 {
		t.Errorf("expected BGFX_SHADER_LANGUAGE_METAL=1")
	}
	if defineValue(t, defines, "BGFX_SHADER_TYPE_COMPUTE") != 1 {
		t.Errorf("expected BGFX_SHADER_TYPE_COMPUTE=1")
	}
	if defineValue(t, defines, "BGFX_SHADER_TYPE_VERTEX") != 0 {
		t.Errorf("expected BGFX_SHADER_TYPE_VERTEX=0")
	}
}

func TestGenerateBgfxDefinesEssl(t *testing.T) {
	defines := GenerateBgfxDefines(container.ESSL310, container.Fragment)
	if defineValue(t, defines, "BX_PLATFORM_ANDROID") != 1 {
		t.Errorf("expected BX_PLATFORM_ANDROID=1")
	}
	if defineValue(t, defines, "BGFX_SHADER_LANGUAGE_GLSL") != 310 {
		t.Errorf("expected BGFX_SHADER_LANGUAGE_GLSL=310")
	}
	if defineValue(t, defines, "BGFX_SHADER_TYPE_FRAGMENT") != 1 {
		t.Errorf("expected BGFX_SHADER_TYPE_FRAGMENT=1")
	}
}

func TestGenerateBgfxDefinesDirect3D(t *testing.T) {
	d40 := GenerateBgfxDefines(container.Direct3DSM40, container.Vertex)
	if defineValue(t, d40, "BGFX_SHADER_LANGUAGE_HLSL") != 400 {
		t.Errorf("expected HLSL=400 for SM40")
	}
	d65 := GenerateBgfxDefines(container.Direct3DSM65, container.Vertex)
	if defineValue(t, d65, "BGFX_SHADER_LANGUAGE_HLSL") != 500 {
		t.Errorf("expected HLSL=500 for SM65")
	}
}
