// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package container

import (
	"fmt"

	"github.com/pkg/errors"
)

// UniformType is the shape of a material uniform's default value.
type UniformType int

const (
	UniformVec4 UniformType = 2
	UniformMat3 UniformType = 3
	UniformMat4 UniformType = 4
	UniformExternal UniformType = 5
)

func (t UniformType) componentCount() int {
	switch t {
	case UniformVec4:
		return 4
	case UniformMat3:
		return 9
	case UniformMat4:
		return 16
	default:
		return 0
	}
}

// Uniform is one named shader constant declared by a material, with its
// optional default value.
type Uniform struct {
	Name    string
	Type    UniformType
	Count   uint32
	Default []float32
}

func readUniform(r *reader) (*Uniform, error) {
	u := &Uniform{Type: UniformVec4}
	var err error
	if u.Name, err = r.str(); err != nil {
		return nil, errors.Wrap(err, "uniform name")
	}
	typ, err := r.u16()
	if err != nil {
		return nil, errors.Wrap(err, "uniform type")
	}
	u.Type = UniformType(typ)

	switch u.Type {
	case UniformVec4, UniformMat3, UniformMat4:
		count, err := r.u32()
		if err != nil {
			return nil, errors.Wrap(err, "uniform count")
		}
		u.Count = count

		hasData, err := r.bool()
		if err != nil {
			return nil, errors.Wrap(err, "uniform has_data")
		}
		if hasData {
			vals, err := r.f32s(u.Type.componentCount())
			if err != nil {
				return nil, errors.Wrap(err, "uniform default")
			}
			u.Default = vals
		}
	case UniformExternal:
		// no payload
	default:
		return nil, fmt.Errorf("unrecognized uniform type %d", typ)
	}

	return u, nil
}

func (u *Uniform) write(w *writer) error {
	if err := w.str(u.Name); err != nil {
		return err
	}
	if err := w.u16(uint16(u.Type)); err != nil {
		return err
	}

	switch u.Type {
	case UniformVec4, UniformMat3, UniformMat4:
		if err := w.u32(u.Count); err != nil {
			return err
		}
		if err := w.boolv(len(u.Default) > 0); err != nil {
			return err
		}
	}
	if len(u.Default) > 0 {
		if err := w.f32s(u.Default); err != nil {
			return err
		}
	}
	return nil
}
