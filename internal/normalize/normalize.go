// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package normalize implements the decompiler's input normalization: comment
// stripping, and the optional GLSL-to-BGFX-SC preprocessing/postprocessing
// tables. The substitution tables are carried over verbatim from lazurite's
// Python implementation (processing.py) because the specification treats
// them as part of the public contract, not an implementation detail.
package normalize

import (
	"regexp"
	"strings"
)

var (
	reLineComment  = regexp.MustCompile(`//.*\n`)
	reBlockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
	reBlankRun     = regexp.MustCompile(`\n\n+`)
)

// StripComments removes single-line and block comments from GLSL source,
// then collapses any resulting runs of blank lines down to one.
func StripComments(code string) string {
	code = reLineComment.ReplaceAllString(code, "")
	code = reBlockComment.ReplaceAllString(code, "")
	code = reBlankRun.ReplaceAllString(code, "\n")
	return code
}

var (
	reUniformU      = regexp.MustCompile(`(?m)^uniform\s+\w+\s+u_[\w\[\]]+;\n`)
	reBgfxFragColor = regexp.MustCompile(`(\W)bgfx_FragColor(\W)`)
	reBgfxFragData  = regexp.MustCompile(`(\W)bgfx_FragData(\W)`)
	reOutDecl       = regexp.MustCompile(`(?m)^out\s.+?;\n`)
	reVaryingOut    = regexp.MustCompile(`(?m)^#define varying out$`)
	reDefine        = regexp.MustCompile(`(?m)^#define\s.+?\n`)
	reIfEndif       = regexp.MustCompile(`(?ms)^#if\s.+?#endif\n`)
	reExtension     = regexp.MustCompile(`(?m)^#extension\s.+?\n`)
	reVaryingDecl   = regexp.MustCompile(`(?m)^[\s\w]*?varying\s.+? (\w+);$`)
	reAttributeDecl = regexp.MustCompile(`(?m)^[\s\w]*?attribute\s.+? (\w+);$`)
	reVersion       = regexp.MustCompile(`^#version\s.+?\n`)

	reBufferRO = regexp.MustCompile(`(?m)^layout\(std430, .+?\) readonly buffer (\w+) \{ (\w+) .+? \}`)
	reBufferWO = regexp.MustCompile(`(?m)^layout\(std430, .+?\) writeonly buffer (\w+) \{ (\w+) .+? \}`)
	reBufferRW = regexp.MustCompile(`(?m)^layout\(std430, .+?\) buffer (\w+) \{ (\w+) .+? \}`)

	reNumThreads = regexp.MustCompile(`(?m)^layout \(local_size_x = (\d+), local_size_y = (\d+), local_size_z = (\d+)\) in;`)
)

type samplerRewrite struct {
	pattern *regexp.Regexp
	repl    string
}

// samplerRewrites mirrors the SAMPLERS table in processing.py: each entry
// replaces a `uniform <qualifier> <glsl-sampler-type> name;` declaration
// with the matching BGFX_SC AUTOREG macro invocation.
var samplerRewrites = []samplerRewrite{
	{regexp.MustCompile(`(?m)^uniform lowp sampler2D (\w+);`), `SAMPLER2D_AUTOREG(${1});`},
	{regexp.MustCompile(`(?m)^uniform highp sampler2DMS (\w+);`), `SAMPLER2DMS_AUTOREG(${1});`},
	{regexp.MustCompile(`(?m)^uniform highp sampler3D (\w+);`), `SAMPLER3D_AUTOREG(${1});`},
	{regexp.MustCompile(`(?m)^uniform lowp samplerCube (\w+);`), `SAMPLERCUBE_AUTOREG(${1});`},
	{regexp.MustCompile(`(?m)^uniform highp sampler2DShadow (\w+);`), `SAMPLER2DSHADOW_AUTOREG(${1});`},
	{regexp.MustCompile(`(?m)^uniform highp sampler2D (\w+);`), `SAMPLER2D_HIGHP_AUTOREG(${1});`},
	{regexp.MustCompile(`(?m)^uniform highp samplerCube (\w+);`), `SAMPLERCUBE_HIGHP_AUTOREG(${1});`},
	{regexp.MustCompile(`(?m)^uniform highp sampler2DArray (\w+);`), `SAMPLER2DARRAY_AUTOREG(${1});`},
	{regexp.MustCompile(`(?m)^uniform highp sampler2DMSArray (\w+);`), `SAMPLER2DMSARRAY_AUTOREG(${1});`},
	{regexp.MustCompile(`(?m)^uniform highp samplerCubeArray (\w+);`), `SAMPLERCUBEARRAY_AUTOREG(${1});`},
	{regexp.MustCompile(`(?m)^uniform highp sampler2DArrayShadow (\w+);`), `SAMPLER2DARRAYSHADOW_AUTOREG(${1});`},
	{regexp.MustCompile(`(?m)^uniform highp isampler2D (\w+);`), `ISAMPLER2D_AUTOREG(${1});`},
	{regexp.MustCompile(`(?m)^uniform highp usampler2D (\w+);`), `USAMPLER2D_AUTOREG(${1});`},
	{regexp.MustCompile(`(?m)^uniform highp isampler3D (\w+);`), `ISAMPLER3D_AUTOREG(${1});`},
}

// imageRewrite mirrors the nested loop in preprocess_shader that builds the
// IMAGE2D/IMAGE2D_ARRAY/IMAGE3D AUTOREG macro family for every
// access/prefix/dimension combination.
type imageRewrite struct {
	pattern *regexp.Regexp
	name    string
}

var imageRewrites = buildImageRewrites()

func buildImageRewrites() []imageRewrite {
	var out []imageRewrite
	accessKinds := []struct {
		access string
		id     string
	}{
		{"readonly ", "RO"},
		{"writeonly ", "WR"},
		{"", "RW"},
	}
	dims := []struct {
		glslDim string
		macro   string
	}{
		{"image2D", "IMAGE2D"},
		{"image2DArray", "IMAGE2D_ARRAY"},
		{"image3D", "IMAGE3D"},
	}

	for _, ak := range accessKinds {
		for _, prefix := range []string{"i", "u"} {
			p := prefix
			if p == "u" {
				p = "u"
			} else {
				p = ""
			}
			for _, dim := range dims {
				name := strings.ToUpper(p) + dim.macro + "_" + ak.id + "_AUTOREG"
				pattern := regexp.MustCompile(
					`(?m)^layout\((.+?), .+?\) ` + ak.access + `uniform highp ` + p + dim.glslDim + ` (\w+)`,
				)
				out = append(out, imageRewrite{pattern: pattern, name: name})
			}
		}
	}
	return out
}

// Preprocess converts plain-text GLSL shader source into BGFX-SC form:
// removing built-in u_ uniforms, rewriting bgfx_FragColor/bgfx_FragData,
// turning varyings/attributes into $input/$output declarations, replacing
// sampler uniforms with BGFX AUTOREG macros, and turning a compute shader's
// local_size layout into a NUM_THREADS macro call.
func Preprocess(code string) string {
	code = reUniformU.ReplaceAllString(code, "")

	code = reBgfxFragColor.ReplaceAllString(code, "${1}gl_FragColor${2}")
	code = reBgfxFragData.ReplaceAllString(code, "${1}gl_FragData${2}")

	code = reOutDecl.ReplaceAllString(code, "")

	isVertexStage := reVaryingOut.MatchString(code)

	code = reDefine.ReplaceAllString(code, "")
	code = reIfEndif.ReplaceAllString(code, "")
	code = reExtension.ReplaceAllString(code, "")

	if isVertexStage {
		code = reVaryingDecl.ReplaceAllString(code, "$$output ${1}")
	} else {
		code = reVaryingDecl.ReplaceAllString(code, "$$input ${1}")
	}
	code = reAttributeDecl.ReplaceAllString(code, "$$input ${1}")

	code = reVersion.ReplaceAllString(code, "")

	for _, sr := range samplerRewrites {
		code = sr.pattern.ReplaceAllString(code, sr.repl)
	}

	code = reBufferRO.ReplaceAllString(code, `BUFFER_RO_AUTOREG(${1}, ${2});`)
	code = reBufferWO.ReplaceAllString(code, `BUFFER_WR_AUTOREG(${1}, ${2});`)
	code = reBufferRW.ReplaceAllString(code, `BUFFER_RW_AUTOREG(${1}, ${2})`)

	for _, ir := range imageRewrites {
		code = ir.pattern.ReplaceAllStringFunc(code, func(m string) string {
			groups := ir.pattern.FindStringSubmatch(m)
			return ir.name + "(" + groups[2] + ", " + groups[1] + ")"
		})
	}

	code = reNumThreads.ReplaceAllString(code, `NUM_THREADS(${1}, ${2}, ${3})`)

	return code
}

// Postprocess merges consecutive $input/$output declarations into one
// comma-separated line and flags lines containing a matrix-multiplication
// or array-access pattern worth a human's attention.
func Postprocess(code string) string {
	rawLines := splitKeepEnds(code)

	var out []string
	var args []string
	lineType := 0 // 0 none, 1 input, 2 output
	prefix := ""

	flush := func() {
		if lineType != 0 {
			out = append(out, strings.Join(args, ", ")+"\n")
		}
	}

	for _, line := range rawLines {
		current := 0
		switch {
		case strings.HasPrefix(line, "$input "):
			current = 1
			prefix = "$input "
		case strings.HasPrefix(line, "$output "):
			current = 2
			prefix = "$output "
		}

		if lineType != 0 {
			if lineType == current {
				args = append(args, strings.TrimSuffix(strings.TrimPrefix(line, prefix), "\n"))
			} else {
				flush()
			}
		}
		if lineType == 0 || lineType != current {
			if current != 0 {
				args = []string{strings.TrimSuffix(line, "\n")}
			} else {
				out = append(out, line)
			}
		}

		lineType = current
	}
	flush()

	for i, line := range out {
		if strings.Contains(line, ") * (") || strings.Contains(line, "][") {
			out[i] = strings.TrimSuffix(line, "\n") + " // Attention!\n"
		}
	}

	return strings.Join(out, "")
}

func splitKeepEnds(code string) []string {
	var out []string
	start := 0
	for i := 0; i < len(code); i++ {
		if code[i] == '\n' {
			out = append(out, code[start:i+1])
			start = i + 1
		}
	}
	if start < len(code) {
		out = append(out, code[start:])
	}
	return out
}
