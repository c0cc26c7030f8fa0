// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package container

import "github.com/pkg/errors"

// Variant is one combination of macro flag values within a render pass,
// carrying the compiled shader for each (platform, stage) it was built for.
type Variant struct {
	IsSupported bool
	Flags       map[string]string
	Shaders     []*Shader
}

func readVariant(r *reader) (*Variant, error) {
	v := &Variant{Flags: map[string]string{}}
	var err error
	if v.IsSupported, err = r.bool(); err != nil {
		return nil, errors.Wrap(err, "variant is_supported")
	}
	flagCount, err := r.u16()
	if err != nil {
		return nil, errors.Wrap(err, "variant flag count")
	}
	shaderCount, err := r.u16()
	if err != nil {
		return nil, errors.Wrap(err, "variant shader count")
	}

	for i := uint16(0); i < flagCount; i++ {
		key, err := r.str()
		if err != nil {
			return nil, errors.Wrap(err, "variant flag key")
		}
		val, err := r.str()
		if err != nil {
			return nil, errors.Wrap(err, "variant flag value")
		}
		v.Flags[key] = val
	}

	v.Shaders = make([]*Shader, shaderCount)
	for i := range v.Shaders {
		s, err := readShader(r)
		if err != nil {
			return nil, err
		}
		v.Shaders[i] = s
	}

	return v, nil
}

func (v *Variant) write(w *writer) error {
	if err := w.boolv(v.IsSupported); err != nil {
		return err
	}
	if err := w.u16(uint16(len(v.Flags))); err != nil {
		return err
	}
	if err := w.u16(uint16(len(v.Shaders))); err != nil {
		return err
	}
	for k, val := range v.Flags {
		if err := w.str(k); err != nil {
			return err
		}
		if err := w.str(val); err != nil {
			return err
		}
	}
	for _, s := range v.Shaders {
		if err := s.write(w); err != nil {
			return err
		}
	}
	return nil
}

// Platforms returns the set of platforms this variant has a shader for.
func (v *Variant) Platforms() map[Platform]bool {
	out := map[Platform]bool{}
	for _, s := range v.Shaders {
		out[s.Platform] = true
	}
	return out
}

// Stages returns the set of stages this variant has a shader for.
func (v *Variant) Stages() map[Stage]bool {
	out := map[Stage]bool{}
	for _, s := range v.Shaders {
		out[s.Stage] = true
	}
	return out
}
