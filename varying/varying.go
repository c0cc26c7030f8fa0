// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package varying restores a BGFX varying.def.sc file from the shader
// inputs recorded across a material's compiled shader permutations. It is a
// second, thinner consumer of decompiler.Restore: rather than diffing shader
// bodies it diffs small input-declaration blocks built directly from the
// container's own metadata, then rewrites the platform-flag macros Restore
// produces into the BGFX_SHADER_LANGUAGE_* form varying.def.sc expects.
package varying

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gogpu/lazurite/container"
	decompiler "github.com/gogpu/lazurite"
	"github.com/gogpu/lazurite/internal/boolexpr"
)

// generateLine renders one text line of varying.def.sc for a shader input
// observed at the given stage, mirroring generate_varying_line.
func generateLine(in *container.ShaderInput, stage container.Stage) (isInstanceData bool, line string) {
	var b strings.Builder
	if in.Precision != container.PrecisionNone {
		b.WriteString(in.Precision.String())
		b.WriteByte(' ')
	}
	if in.Interpolation != container.InterpolationNone {
		b.WriteString(interpolationName(in.Interpolation))
		b.WriteByte(' ')
	}
	b.WriteString(inputTypeName(in.Type))
	b.WriteByte(' ')

	name := in.Name
	switch {
	case strings.HasPrefix(name, "instanceData"):
		n, err := strconv.Atoi(strings.TrimPrefix(name, "instanceData"))
		if err != nil {
			n = 0
		}
		name = fmt.Sprintf("i_data%d", n+1)
		isInstanceData = true
	case stage == container.Vertex:
		name = "a_" + in.Semantic.GetVariableName()
	default:
		name = "v_" + name
	}

	fmt.Fprintf(&b, "%s : %s;", name, in.Semantic.GetName())
	return isInstanceData, b.String()
}

func interpolationName(i container.Interpolation) string {
	switch i {
	case container.InterpolationFlat:
		return "flat"
	case container.InterpolationSmooth:
		return "smooth"
	case container.InterpolationNoperspective:
		return "noperspective"
	case container.InterpolationCentroid:
		return "centroid"
	default:
		return "none"
	}
}

func inputTypeName(t container.InputType) string {
	switch t {
	case container.InputFloat:
		return "float"
	case container.InputVec2:
		return "vec2"
	case container.InputVec3:
		return "vec3"
	case container.InputVec4:
		return "vec4"
	case container.InputInt:
		return "int"
	case container.InputIVec2:
		return "ivec2"
	case container.InputIVec3:
		return "ivec3"
	case container.InputIVec4:
		return "ivec4"
	case container.InputUint:
		return "uint"
	case container.InputUVec2:
		return "uvec2"
	case container.InputUVec3:
		return "uvec3"
	case container.InputUVec4:
		return "uvec4"
	case container.InputMat4:
		return "mat4"
	default:
		return "float"
	}
}

var alignPattern = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^(.+? )(a_\w+)(\s*: \w+;)`),
	regexp.MustCompile(`(?m)^(.+? )(i_\w+)(\s*: \w+;)`),
	regexp.MustCompile(`(?m)^(.+? )(v_\w+)(\s*: \w+;)`),
}

// align column-aligns the type and name fields of every a_/i_/v_ declaration
// line, matching _postprocess_varying's per-prefix padding pass.
func align(code string) string {
	for _, pattern := range alignPattern {
		matches := pattern.FindAllStringSubmatch(code, -1)
		if len(matches) == 0 {
			continue
		}
		maxType, maxName := 0, 0
		for _, m := range matches {
			if len(m[1]) > maxType {
				maxType = len(m[1])
			}
			if len(m[2]) > maxName {
				maxName = len(m[2])
			}
		}
		code = pattern.ReplaceAllStringFunc(code, func(s string) string {
			m := pattern.FindStringSubmatch(s)
			var b strings.Builder
			b.WriteString(m[1])
			b.WriteString(strings.Repeat(" ", maxType-len(m[1])))
			b.WriteString(m[2])
			b.WriteString(strings.Repeat(" ", maxName-len(m[2])))
			b.WriteString(m[3])
			return b.String()
		})
	}
	return code
}

// platformLanguage returns the BGFX_SHADER_LANGUAGE_* name and version
// number varying.def.sc uses to gate code for p, mirroring
// _postprocess_varying's per-platform table.
func platformLanguage(p container.Platform) (lang string, version int) {
	name := p.String()
	switch {
	case strings.HasPrefix(name, "Direct3D_"):
		lang = "HLSL"
		switch {
		case p == container.Direct3DSM40:
			version = 400
		case strings.HasPrefix(name, "Direct3D_SM"):
			version = 500
		default:
			version = 1
		}
	case strings.HasPrefix(name, "GLSL_"), strings.HasPrefix(name, "ESSL_"):
		lang = "GLSL"
		n, err := strconv.Atoi(name[len(name)-3:])
		if err != nil {
			n = 1
		}
		version = n
	case p == container.Vulkan:
		lang = "SPIRV"
		version = 1
	case p == container.Nvn:
		lang = strings.ToUpper(name)
		version = 1
	default:
		lang = strings.ToUpper(name)
		version = 1
	}
	return lang, version
}

// postprocess rewrites Restore's platform-flag macros into the
// BGFX_SHADER_LANGUAGE_* form, mirroring _postprocess_varying.
func postprocess(code string) string {
	code = align(code)
	for _, p := range allPlatforms {
		lang, version := platformLanguage(p)
		bgfxMacro := fmt.Sprintf("BGFX_SHADER_LANGUAGE_%s", lang)
		macro := boolexpr.FlagNameMacro("platform", p.String())
		code = strings.ReplaceAll(code, fmt.Sprintf("defined(%s)", macro), fmt.Sprintf("(%s == %d)", bgfxMacro, version))
		code = strings.ReplaceAll(code, "#ifdef "+macro, fmt.Sprintf("#if %s == %d", bgfxMacro, version))
		code = strings.ReplaceAll(code, "#ifndef "+macro, fmt.Sprintf("#if %s != %d", bgfxMacro, version))
	}
	return code
}

var allPlatforms = []container.Platform{
	container.Direct3DSM40, container.Direct3DSM50, container.Direct3DSM60, container.Direct3DSM65,
	container.Direct3DXB1, container.Direct3DXBX, container.GLSL120, container.GLSL430,
	container.ESSL310, container.Metal, container.Vulkan, container.Nvn, container.PSSL,
	container.PlatformUnknown,
}

// Restore rebuilds varying.def.sc from every shader input recorded across
// m's passes, returning "" if the material carries no input metadata at
// all (a vertex/fragment-only material with nothing to declare).
func Restore(m *container.Material, timeout time.Duration, observer decompiler.Observer) (string, error) {
	var variants []decompiler.Variant

	for _, p := range m.Passes {
		perPlatform := map[container.Platform]map[container.Stage][]*container.ShaderInput{}
		order := map[container.Platform][]container.Stage{}

		for _, v := range p.Variants {
			for _, s := range v.Shaders {
				if perPlatform[s.Platform] == nil {
					perPlatform[s.Platform] = map[container.Stage][]*container.ShaderInput{}
				}
				if _, ok := perPlatform[s.Platform][s.Stage]; !ok {
					order[s.Platform] = append(order[s.Platform], s.Stage)
				}
				list := perPlatform[s.Platform][s.Stage]
				for _, in := range s.Inputs {
					if !containsInput(list, in) {
						list = append(list, in)
					}
				}
				perPlatform[s.Platform][s.Stage] = list
			}
		}

		platforms := make([]container.Platform, 0, len(perPlatform))
		for pl := range perPlatform {
			platforms = append(platforms, pl)
		}
		sort.Slice(platforms, func(i, j int) bool { return platforms[i] < platforms[j] })

		for _, platform := range platforms {
			var vertexAttrs, instanceData, fragmentVaryings []string

			for _, stage := range order[platform] {
				inputs := append([]*container.ShaderInput(nil), perPlatform[platform][stage]...)
				sort.Slice(inputs, func(i, j int) bool { return inputs[i].Name < inputs[j].Name })

				for _, in := range inputs {
					isInstanceData, line := generateLine(in, stage)
					if countNamed(inputs, in.Name) != 1 {
						line += " // ?"
					}
					switch {
					case isInstanceData:
						instanceData = append(instanceData, line)
					case stage == container.Vertex:
						vertexAttrs = append(vertexAttrs, line)
					default:
						fragmentVaryings = append(fragmentVaryings, line)
					}
				}
			}

			var blocks []string
			if len(vertexAttrs) > 0 {
				blocks = append(blocks, strings.Join(vertexAttrs, "\n"))
			}
			if len(instanceData) > 0 {
				blocks = append(blocks, strings.Join(instanceData, "\n"))
			}
			if len(fragmentVaryings) > 0 {
				blocks = append(blocks, strings.Join(fragmentVaryings, "\n"))
			}
			if len(blocks) == 0 {
				continue
			}

			variants = append(variants, decompiler.Variant{
				Flags: decompiler.FlagAssignment{"pass": p.Name, "f_platform": platform.String()},
				Code:  strings.Join(blocks, "\n\n"),
			})
		}
	}

	if len(variants) == 0 {
		return "", nil
	}

	opts := decompiler.DefaultOptions()
	opts.Preprocess = false
	opts.Timeout = timeout
	opts.Observer = observer
	_, code, err := decompiler.Restore(variants, opts)
	if err != nil {
		return "", err
	}
	return postprocess(code), nil
}

func containsInput(list []*container.ShaderInput, in *container.ShaderInput) bool {
	for _, x := range list {
		if x.Name == in.Name {
			return true
		}
	}
	return false
}

func countNamed(list []*container.ShaderInput, name string) int {
	n := 0
	for _, x := range list {
		if x.Name == name {
			n++
		}
	}
	return n
}
