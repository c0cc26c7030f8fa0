// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package container implements the binary codec for the .material.bin
// container format: a packed collection of render passes, each holding
// macro-flag variants, each holding one compiled shader per (platform,
// stage) combination. It is the §6 "binary container reader" collaborator
// the decompiler core consumes — this package owns framing and field
// layout only; the macro reconstruction itself lives in the decompiler and
// varying packages.
package container

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"

	decompiler "github.com/gogpu/lazurite"
	"github.com/gogpu/lazurite/internal/boolexpr"
)

const (
	// Magic is the fixed 8-byte sentinel every .material.bin begins with.
	Magic uint64 = 168942106
	// CompiledMaterialDefinition is the format's self-identifying string,
	// stored immediately after Magic.
	CompiledMaterialDefinition = "RenderDragon.CompiledMaterialDefinition"
	// Version is the only container format version this package reads and
	// writes; see DESIGN.md for the version-25 platform enumeration this
	// pins to.
	Version uint64 = 22
	// Extension is the conventional file extension for packed materials.
	Extension = ".material.bin"
)

// Material is one decoded .material.bin container: render passes, buffers,
// and uniforms shared across every pass.
type Material struct {
	Version    uint64
	Name       string
	Encryption EncryptionType
	Parent     string
	Buffers    []*Buffer
	Uniforms   []*Uniform
	Passes     []*Pass
}

// NewMaterial returns an empty material at the package's current format
// version.
func NewMaterial() *Material {
	return &Material{Version: Version, Encryption: EncryptionNone}
}

// ReadMaterial decodes a .material.bin file from r.
func ReadMaterial(r io.Reader) (*Material, error) {
	rd := newReader(r)
	m := NewMaterial()

	magic, err := rd.u64()
	if err != nil {
		return nil, errors.Wrap(err, "read magic")
	}
	if magic != Magic {
		return nil, errors.New("failed to match file magic")
	}

	definition, err := rd.str()
	if err != nil {
		return nil, errors.Wrap(err, "read definition string")
	}
	if definition != CompiledMaterialDefinition {
		return nil, errors.New("failed to recognize file as material")
	}

	version, err := rd.u64()
	if err != nil {
		return nil, errors.Wrap(err, "read version")
	}
	m.Version = version
	if m.Version != Version {
		return nil, fmt.Errorf("unsupported material version: %d", m.Version)
	}

	enc, err := readEncryptionType(rd)
	if err != nil {
		return nil, err
	}
	m.Encryption = enc

	if m.Encryption != EncryptionNone {
		return nil, ErrEncrypted
	}

	if err := m.readRemaining(rd); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Material) readRemaining(rd *reader) error {
	var err error
	if m.Name, err = rd.str(); err != nil {
		return errors.Wrap(err, "read name")
	}

	hasParent, err := rd.bool()
	if err != nil {
		return errors.Wrap(err, "read has_parent")
	}
	if hasParent {
		if m.Parent, err = rd.str(); err != nil {
			return errors.Wrap(err, "read parent")
		}
	}

	bufCount, err := rd.u8()
	if err != nil {
		return errors.Wrap(err, "read buffer count")
	}
	m.Buffers = make([]*Buffer, bufCount)
	for i := range m.Buffers {
		b, err := readBuffer(rd)
		if err != nil {
			return err
		}
		m.Buffers[i] = b
	}

	uniformCount, err := rd.u16()
	if err != nil {
		return errors.Wrap(err, "read uniform count")
	}
	m.Uniforms = make([]*Uniform, uniformCount)
	for i := range m.Uniforms {
		u, err := readUniform(rd)
		if err != nil {
			return err
		}
		m.Uniforms[i] = u
	}

	passCount, err := rd.u16()
	if err != nil {
		return errors.Wrap(err, "read pass count")
	}
	m.Passes = make([]*Pass, passCount)
	for i := range m.Passes {
		p, err := readPass(rd)
		if err != nil {
			return err
		}
		m.Passes[i] = p
	}

	magic, err := rd.u64()
	if err != nil {
		return errors.Wrap(err, "read trailing magic")
	}
	if magic != Magic {
		return errors.New("failed to match trailing file magic")
	}

	return nil
}

// Write encodes the material to w. Encrypted materials cannot be produced
// by this package (decryption/encryption is a declared Non-goal); Write
// refuses any Material whose Encryption is not EncryptionNone.
func (m *Material) Write(w io.Writer) error {
	if m.Encryption != EncryptionNone {
		return ErrEncrypted
	}

	wr := newWriter(w)
	if err := wr.u64(Magic); err != nil {
		return err
	}
	if err := wr.str(CompiledMaterialDefinition); err != nil {
		return err
	}
	if err := wr.u64(m.Version); err != nil {
		return err
	}
	if err := writeEncryptionType(wr, m.Encryption); err != nil {
		return err
	}
	return m.writeRemaining(wr)
}

func (m *Material) writeRemaining(wr *writer) error {
	if err := wr.str(m.Name); err != nil {
		return err
	}
	if err := wr.boolv(m.Parent != ""); err != nil {
		return err
	}
	if m.Parent != "" {
		if err := wr.str(m.Parent); err != nil {
			return err
		}
	}

	if err := wr.u8(uint8(len(m.Buffers))); err != nil {
		return err
	}
	for _, b := range m.Buffers {
		if err := b.write(wr); err != nil {
			return err
		}
	}

	if err := wr.u16(uint16(len(m.Uniforms))); err != nil {
		return err
	}
	for _, u := range m.Uniforms {
		if err := u.write(wr); err != nil {
			return err
		}
	}

	if err := wr.u16(uint16(len(m.Passes))); err != nil {
		return err
	}
	for _, p := range m.Passes {
		if err := p.write(wr); err != nil {
			return err
		}
	}

	return wr.u64(Magic)
}

// GetPlatforms returns the union of platforms used across every pass.
func (m *Material) GetPlatforms() map[Platform]bool {
	out := map[Platform]bool{}
	for _, p := range m.Passes {
		for pl := range p.Platforms() {
			out[pl] = true
		}
	}
	return out
}

// GetStages returns the union of stages used across every pass.
func (m *Material) GetStages() map[Stage]bool {
	out := map[Stage]bool{}
	for _, p := range m.Passes {
		for st := range p.Stages() {
			out[st] = true
		}
	}
	return out
}

// GetFlagDefinitions returns every flag key and the set of values observed
// for it, across all passes.
func (m *Material) GetFlagDefinitions() map[string]map[string]bool {
	out := map[string]map[string]bool{}
	for _, p := range m.Passes {
		for k, values := range p.FlagDefinitions() {
			if out[k] == nil {
				out[k] = map[string]bool{}
			}
			for v := range values {
				out[k][v] = true
			}
		}
	}
	return out
}

// SortVariants sorts each pass's variants by their flag assignment's
// string form (flags listed in key order), for deterministic diffing and
// serialization. The flags of each variant are left as they are.
func (m *Material) SortVariants() {
	for _, p := range m.Passes {
		sort.Slice(p.Variants, func(i, j int) bool {
			return variantSortKey(p.Variants[i]) < variantSortKey(p.Variants[j])
		})
	}
}

func variantSortKey(v *Variant) string {
	keys := make([]string, 0, len(v.Flags))
	for k := range v.Flags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb bytes.Buffer
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s=%s;", k, v.Flags[k])
	}
	return sb.String()
}

// MergeVariants merges another material's passes and variants into m,
// matching passes by name and variants by flag assignment, preferring m's
// own shaders on conflict.
func (m *Material) MergeVariants(other *Material) {
	for _, otherPass := range other.Passes {
		var target *Pass
		for _, p := range m.Passes {
			if p.Name == otherPass.Name {
				target = p
				break
			}
		}
		if target == nil {
			m.Passes = append(m.Passes, otherPass)
			continue
		}
		for _, ov := range otherPass.Variants {
			var match *Variant
			for _, v := range target.Variants {
				if flagsEqual(v.Flags, ov.Flags) {
					match = v
					break
				}
			}
			if match == nil {
				target.Variants = append(target.Variants, ov)
				continue
			}
			for _, os := range ov.Shaders {
				found := false
				for _, s := range match.Shaders {
					if s.Platform == os.Platform && s.Stage == os.Stage {
						found = true
						break
					}
				}
				if !found {
					match.Shaders = append(match.Shaders, os)
				}
			}
		}
	}
}

func flagsEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}

// RestoreShaders reconstructs one combined macro shader source per
// (platform, stage[, pass]) combination requested, mirroring
// Material.restore_shaders. Encrypted materials return ErrEncrypted.
func (m *Material) RestoreShaders(platforms map[Platform]bool, stages map[Stage]bool, splitPasses, mergeStages, processShaders bool, timeout time.Duration, observer decompiler.Observer) ([]RestoredShader, error) {
	if m.Encryption != EncryptionNone {
		return nil, ErrEncrypted
	}
	if len(m.Passes) == 0 {
		return nil, nil
	}

	flagDef := map[string]map[string]bool{}
	var passNames []string
	for _, p := range m.Passes {
		passNames = append(passNames, p.Name)
		for k, v := range p.DefaultVariant {
			if flagDef[k] == nil {
				flagDef[k] = map[string]bool{}
			}
			flagDef[k][v] = true
		}
		for _, v := range p.Variants {
			for k, val := range v.Flags {
				if flagDef[k] == nil {
					flagDef[k] = map[string]bool{}
				}
				flagDef[k][val] = true
			}
		}
	}
	sort.Strings(passNames)

	var flagNames []string
	for k := range flagDef {
		flagNames = append(flagNames, k)
	}
	sort.Strings(flagNames)

	var out []RestoredShader
	for platform := range platforms {
		type key struct {
			pass  string
			stage Stage
		}
		codeLists := map[key][]decompiler.Variant{}
		var keyOrder []key

		for _, p := range m.Passes {
			for _, v := range p.Variants {
				for _, sh := range v.Shaders {
					if sh.Platform != platform || !stages[sh.Stage] {
						continue
					}

					flags := decompiler.FlagAssignment{}
					if !splitPasses {
						flags["pass"] = p.Name
					}
					if mergeStages {
						stage := sh.Stage
						if stage == StageUnknown {
							stage = Fragment
						}
						flags["BGFX_SHADER_TYPE_"] = stageName(stage)
					}
					for k, val := range v.Flags {
						flags["f_"+k] = val
					}

					k := key{pass: p.Name, stage: sh.Stage}
					if mergeStages {
						k.stage = Fragment
					}
					if !splitPasses {
						k.pass = m.Passes[0].Name
					}
					if _, ok := codeLists[k]; !ok {
						keyOrder = append(keyOrder, k)
					}
					codeLists[k] = append(codeLists[k], decompiler.Variant{
						Flags: flags,
						Code:  string(sh.Bgfx.ShaderBytes),
					})
				}
			}
		}

		for _, k := range keyOrder {
			variants := codeLists[k]
			opts := decompiler.DefaultOptions()
			opts.StripComments = true
			opts.Preprocess = processShaders
			opts.Timeout = timeout
			opts.Observer = observer

			macros, code, err := decompiler.Restore(variants, opts)
			if err != nil {
				return nil, errors.Wrap(err, "restore shader")
			}
			if processShaders {
				code = decompiler.Postprocess(code)
			}

			// BGFX stage macros are always defined as 0 or 1, so #ifdef/
			// #ifndef/defined() forms can be simplified to plain #if tests.
			for _, bgfxStage := range []string{"FRAGMENT", "VERTEX", "COMPUTE"} {
				macro := "BGFX_SHADER_TYPE_" + bgfxStage
				code = strings.ReplaceAll(code, "#ifdef "+macro, "#if "+macro)
				code = strings.ReplaceAll(code, "#ifndef "+macro, "#if !"+macro)
				code = strings.ReplaceAll(code, "defined("+macro+")", macro)
			}

			if len(flagNames) > 0 || len(passNames) > 0 {
				code = insertHeaderComment(code, formatAvailableMacrosComment(passNames, flagNames, flagDef, macros))
			}

			out = append(out, RestoredShader{
				Platform: platform,
				Stage:    k.stage,
				Pass:     k.pass,
				Code:     code,
			})
		}
	}

	return out, nil
}

// formatAvailableMacrosComment renders the "/* Available Macros: ... */"
// header restore_shaders prepends, flagging entries the search never ended
// up referencing.
func formatAvailableMacrosComment(passNames, flagNames []string, flagDef map[string]map[string]bool, used map[string]struct{}) string {
	var sb strings.Builder
	sb.WriteString("/*\n* Available Macros:")
	if len(passNames) > 0 {
		sb.WriteString("\n*\n* Passes:")
		for _, name := range passNames {
			macro := boolexpr.PassNameMacro(name)
			sb.WriteString("\n* - " + macro)
			if _, ok := used[macro]; !ok {
				sb.WriteString(" (not used)")
			}
		}
	}
	if len(flagNames) > 0 {
		for _, name := range flagNames {
			sb.WriteString("\n*\n* " + name + ":")
			values := make([]string, 0, len(flagDef[name]))
			for v := range flagDef[name] {
				values = append(values, v)
			}
			sort.Strings(values)
			for _, v := range values {
				macro := boolexpr.FlagNameMacro(name, v)
				sb.WriteString("\n* - " + macro)
				if _, ok := used[macro]; !ok {
					sb.WriteString(" (not used)")
				}
			}
		}
	}
	sb.WriteString("\n*/")
	return sb.String()
}

// insertHeaderComment prepends a comment block to code, placed after a
// leading #version directive if there is one.
func insertHeaderComment(code, comment string) string {
	if strings.HasPrefix(code, "#version") {
		nl := strings.IndexByte(code, '\n')
		if nl == -1 {
			return code + "\n" + comment + "\n"
		}
		return code[:nl+1] + comment + "\n" + code[nl+1:]
	}
	return comment + "\n" + code
}

// RestoredShader is one combined macro source produced by RestoreShaders.
type RestoredShader struct {
	Platform Platform
	Stage    Stage
	Pass     string
	Code     string
}
