// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package container

import "github.com/pkg/errors"

// TextureFilter is the minification/magnification filter baked into a
// buffer's sampler state.
type TextureFilter int

const (
	FilterPoint TextureFilter = iota
	FilterBilinear
)

// TextureWrap is the addressing mode baked into a buffer's sampler state.
type TextureWrap int

const (
	WrapClamp TextureWrap = iota
	WrapRepeat
)

// SamplerState packs filter and wrap into the single byte the format stores.
type SamplerState struct {
	Filter  TextureFilter
	Wrapping TextureWrap
}

func samplerStateFromValue(v uint8) SamplerState {
	return SamplerState{
		Filter:   TextureFilter(v & 1),
		Wrapping: TextureWrap((v >> 1) & 1),
	}
}

func (s SamplerState) value() uint8 {
	return uint8(s.Filter) | uint8(s.Wrapping)<<1
}

// BufferAccess is the read/write access a shader resource buffer declares.
type BufferAccess int

const (
	AccessUndefined BufferAccess = iota
	AccessReadonly
	AccessWriteonly
	AccessReadwrite
)

// BufferType identifies the dimensionality/kind of a bound resource.
type BufferType int

const (
	BufferTexture2D BufferType = iota
	BufferTexture2DArray
	BufferExternal2D
	BufferTexture3D
	BufferTextureCube
	BufferTextureCubeArray
	BufferStructBuffer
	BufferRawBuffer
	BufferAccelerationStructure
	BufferShadow2D
	BufferShadow2DArray
)

// CustomTypeInfo describes a struct-backed buffer's element layout.
type CustomTypeInfo struct {
	Struct string
	Size   uint32
}

// Buffer is one bound resource (texture, structured buffer, image, …)
// declared by a material.
type Buffer struct {
	Name             string
	Reg1             uint16
	Access           BufferAccess
	Precision        Precision
	UnorderedAccess  bool
	Type             BufferType
	TextureFormat    string
	AlwaysOne        uint32
	Reg2             uint8
	SamplerState     *SamplerState
	DefaultTexture   string
	UnknownString    string
	CustomTypeInfo   *CustomTypeInfo
}

func readBuffer(r *reader) (*Buffer, error) {
	b := &Buffer{AlwaysOne: 1}
	var err error
	if b.Name, err = r.str(); err != nil {
		return nil, errors.Wrap(err, "buffer name")
	}
	reg1, err := r.u16()
	if err != nil {
		return nil, errors.Wrap(err, "buffer reg1")
	}
	b.Reg1 = reg1

	access, err := r.u8()
	if err != nil {
		return nil, errors.Wrap(err, "buffer access")
	}
	b.Access = BufferAccess(access)

	prec, err := r.u8()
	if err != nil {
		return nil, errors.Wrap(err, "buffer precision")
	}
	b.Precision = Precision(prec)

	if b.UnorderedAccess, err = r.bool(); err != nil {
		return nil, errors.Wrap(err, "buffer unordered_access")
	}

	typ, err := r.u8()
	if err != nil {
		return nil, errors.Wrap(err, "buffer type")
	}
	b.Type = BufferType(typ)

	if b.TextureFormat, err = r.str(); err != nil {
		return nil, errors.Wrap(err, "buffer texture_format")
	}

	alwaysOne, err := r.u32()
	if err != nil {
		return nil, errors.Wrap(err, "buffer always_one")
	}
	b.AlwaysOne = alwaysOne

	reg2, err := r.u8()
	if err != nil {
		return nil, errors.Wrap(err, "buffer reg2")
	}
	b.Reg2 = reg2

	hasSampler, err := r.bool()
	if err != nil {
		return nil, errors.Wrap(err, "buffer has_sampler_state")
	}
	if hasSampler {
		v, err := r.u8()
		if err != nil {
			return nil, errors.Wrap(err, "buffer sampler_state")
		}
		s := samplerStateFromValue(v)
		b.SamplerState = &s
	}

	hasDefaultTexture, err := r.bool()
	if err != nil {
		return nil, errors.Wrap(err, "buffer has_default_texture")
	}
	if hasDefaultTexture {
		if b.DefaultTexture, err = r.str(); err != nil {
			return nil, errors.Wrap(err, "buffer default_texture")
		}
	}

	hasUnknown, err := r.bool()
	if err != nil {
		return nil, errors.Wrap(err, "buffer has_unknown_string")
	}
	if hasUnknown {
		if b.UnknownString, err = r.str(); err != nil {
			return nil, errors.Wrap(err, "buffer unknown_string")
		}
	}

	hasCustom, err := r.bool()
	if err != nil {
		return nil, errors.Wrap(err, "buffer has_custom_type_info")
	}
	if hasCustom {
		structName, err := r.str()
		if err != nil {
			return nil, errors.Wrap(err, "buffer custom_type_info.struct")
		}
		size, err := r.u32()
		if err != nil {
			return nil, errors.Wrap(err, "buffer custom_type_info.size")
		}
		b.CustomTypeInfo = &CustomTypeInfo{Struct: structName, Size: size}
	}

	return b, nil
}

func (b *Buffer) write(w *writer) error {
	if err := w.str(b.Name); err != nil {
		return err
	}
	if err := w.u16(b.Reg1); err != nil {
		return err
	}
	if err := w.u8(uint8(b.Access)); err != nil {
		return err
	}
	if err := w.u8(uint8(b.Precision)); err != nil {
		return err
	}
	if err := w.boolv(b.UnorderedAccess); err != nil {
		return err
	}
	if err := w.u8(uint8(b.Type)); err != nil {
		return err
	}
	if err := w.str(b.TextureFormat); err != nil {
		return err
	}
	if err := w.u32(b.AlwaysOne); err != nil {
		return err
	}
	if err := w.u8(b.Reg2); err != nil {
		return err
	}

	if err := w.boolv(b.SamplerState != nil); err != nil {
		return err
	}
	if b.SamplerState != nil {
		if err := w.u8(b.SamplerState.value()); err != nil {
			return err
		}
	}

	if err := w.boolv(b.DefaultTexture != ""); err != nil {
		return err
	}
	if b.DefaultTexture != "" {
		if err := w.str(b.DefaultTexture); err != nil {
			return err
		}
	}

	if err := w.boolv(b.UnknownString != ""); err != nil {
		return err
	}
	if b.UnknownString != "" {
		if err := w.str(b.UnknownString); err != nil {
			return err
		}
	}

	if err := w.boolv(b.CustomTypeInfo != nil); err != nil {
		return err
	}
	if b.CustomTypeInfo != nil {
		if err := w.str(b.CustomTypeInfo.Struct); err != nil {
			return err
		}
		if err := w.u32(b.CustomTypeInfo.Size); err != nil {
			return err
		}
	}

	return nil
}
