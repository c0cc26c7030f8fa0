// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package container

import "github.com/pkg/errors"

// Interpolation is a fragment-stage input's interpolation qualifier. None
// means no qualifier was declared.
type Interpolation int

const (
	InterpolationFlat Interpolation = iota
	InterpolationSmooth
	InterpolationNoperspective
	InterpolationCentroid
	InterpolationNone
)

// InputType is the scalar/vector/matrix shape of a shader input.
type InputType int

const (
	InputFloat InputType = iota
	InputVec2
	InputVec3
	InputVec4
	InputInt
	InputIVec2
	InputIVec3
	InputIVec4
	InputUint
	InputUVec2
	InputUVec3
	InputUVec4
	InputMat4
)

// semanticTypes mirrors InputSemantic.TYPES: (semantic name, variable name
// prefix, whether a numeric suffix is meaningful).
var semanticTypes = []struct {
	semantic    string
	variable    string
	rangeAllowed bool
}{
	{"POSITION", "position", false},
	{"NORMAL", "normal", false},
	{"TANGENT", "tangent", false},
	{"BITANGENT", "bitangent", false},
	{"COLOR", "color", true},
	{"BLENDINDICES", "indices", false},
	{"BLENDWEIGHT", "weight", false},
	{"TEXCOORD", "texcoord", true},
	{"UNKNOWN", "unknown", true},
	{"FRONTFACING", "frontFacing", false},
}

// InputSemantic identifies which vertex attribute or interpolant a shader
// input binds to.
type InputSemantic struct {
	Index    uint8
	SubIndex uint8
}

// GetName renders the semantic's on-disk name, including a numeric suffix
// for ranged semantics like COLOR0/TEXCOORD1.
func (s InputSemantic) GetName() string {
	t := semanticTypes[s.Index]
	if t.rangeAllowed {
		return t.semantic + itoa(int(s.SubIndex))
	}
	return t.semantic
}

// GetVariableName renders the conventional BGFX variable name for this
// semantic (e.g. "texcoord0").
func (s InputSemantic) GetVariableName() string {
	t := semanticTypes[s.Index]
	if t.rangeAllowed {
		return t.variable + itoa(int(s.SubIndex))
	}
	return t.variable
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// ShaderInput is one vertex attribute or fragment interpolant declared by a
// compiled shader.
type ShaderInput struct {
	Name          string
	Type          InputType
	Semantic      InputSemantic
	PerInstance   bool
	Precision     Precision
	Interpolation Interpolation
}

func readShaderInput(r *reader) (*ShaderInput, error) {
	in := &ShaderInput{Precision: PrecisionNone, Interpolation: InterpolationNone}
	var err error
	if in.Name, err = r.str(); err != nil {
		return nil, errors.Wrap(err, "shader input name")
	}
	typ, err := r.u8()
	if err != nil {
		return nil, errors.Wrap(err, "shader input type")
	}
	in.Type = InputType(typ)

	idx, err := r.u8()
	if err != nil {
		return nil, errors.Wrap(err, "shader input semantic index")
	}
	sub, err := r.u8()
	if err != nil {
		return nil, errors.Wrap(err, "shader input semantic sub-index")
	}
	in.Semantic = InputSemantic{Index: idx, SubIndex: sub}

	if in.PerInstance, err = r.bool(); err != nil {
		return nil, errors.Wrap(err, "shader input per_instance")
	}

	hasPrecision, err := r.bool()
	if err != nil {
		return nil, errors.Wrap(err, "shader input has_precision")
	}
	if hasPrecision {
		p, err := r.u8()
		if err != nil {
			return nil, errors.Wrap(err, "shader input precision")
		}
		in.Precision = Precision(p)
	}

	hasInterp, err := r.bool()
	if err != nil {
		return nil, errors.Wrap(err, "shader input has_interpolation")
	}
	if hasInterp {
		i, err := r.u8()
		if err != nil {
			return nil, errors.Wrap(err, "shader input interpolation")
		}
		in.Interpolation = Interpolation(i)
	}

	return in, nil
}

func (in *ShaderInput) write(w *writer) error {
	if err := w.str(in.Name); err != nil {
		return err
	}
	if err := w.u8(uint8(in.Type)); err != nil {
		return err
	}
	if err := w.u8(in.Semantic.Index); err != nil {
		return err
	}
	if err := w.u8(in.Semantic.SubIndex); err != nil {
		return err
	}
	if err := w.boolv(in.PerInstance); err != nil {
		return err
	}

	if err := w.boolv(in.Precision != PrecisionNone); err != nil {
		return err
	}
	if in.Precision != PrecisionNone {
		if err := w.u8(uint8(in.Precision)); err != nil {
			return err
		}
	}

	if err := w.boolv(in.Interpolation != InterpolationNone); err != nil {
		return err
	}
	if in.Interpolation != InterpolationNone {
		if err := w.u8(uint8(in.Interpolation)); err != nil {
			return err
		}
	}

	return nil
}
