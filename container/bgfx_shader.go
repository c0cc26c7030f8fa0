// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package container

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"
)

// BgfxUniform is one uniform declared inside a compiled BGFX shader binary's
// own header (distinct from Material's top-level Uniform list).
type BgfxUniform struct {
	Name     string
	TypeBits uint8
	Count    uint8
	RegIndex uint16
	RegCount uint16
}

func readBgfxUniform(r *reader) (*BgfxUniform, error) {
	nameLen, err := r.u8()
	if err != nil {
		return nil, errors.Wrap(err, "bgfx uniform name length")
	}
	nameBytes, err := r.bytesN(int(nameLen))
	if err != nil {
		return nil, errors.Wrap(err, "bgfx uniform name")
	}
	u := &BgfxUniform{Name: string(nameBytes)}

	if u.TypeBits, err = r.u8(); err != nil {
		return nil, errors.Wrap(err, "bgfx uniform type_bits")
	}
	count, err := r.u8()
	if err != nil {
		return nil, errors.Wrap(err, "bgfx uniform count")
	}
	u.Count = count

	if u.RegIndex, err = r.u16(); err != nil {
		return nil, errors.Wrap(err, "bgfx uniform reg_index")
	}
	if u.RegCount, err = r.u16(); err != nil {
		return nil, errors.Wrap(err, "bgfx uniform reg_count")
	}
	return u, nil
}

func (u *BgfxUniform) write(w *writer) error {
	if err := w.u8(uint8(len(u.Name))); err != nil {
		return err
	}
	if err := w.bytesN([]byte(u.Name)); err != nil {
		return err
	}
	if err := w.u8(u.TypeBits); err != nil {
		return err
	}
	if err := w.u8(u.Count); err != nil {
		return err
	}
	if err := w.u16(u.RegIndex); err != nil {
		return err
	}
	return w.u16(u.RegCount)
}

// BgfxShader is the inner compiled shader payload BGFX itself consumes: a
// small header (uniform table, optional compute group size) followed by the
// raw backend bytecode/source.
type BgfxShader struct {
	Hash         uint32
	Uniforms     []*BgfxUniform
	GroupSize    [3]uint16
	HasGroupSize bool
	ShaderBytes  []byte
	Attributes   []uint16
	Size         int32
}

// ParseBgfxShader decodes the raw compiled output of a BGFX-flavored shader
// compiler (shaderc) for the given platform/stage, as written directly to
// disk by the tool rather than embedded in a .material.bin container.
func ParseBgfxShader(data []byte, platform Platform, stage Stage) (*BgfxShader, error) {
	return readBgfxShader(newReader(bytes.NewReader(data)), platform, stage)
}

func readBgfxShader(outer *reader, platform Platform, stage Stage) (*BgfxShader, error) {
	header, err := outer.bytesN(3)
	if err != nil {
		return nil, errors.Wrap(err, "bgfx shader header")
	}
	headerStr := string(header)
	if headerStr != "VSH" && headerStr != "FSH" && headerStr != "CSH" {
		return nil, fmt.Errorf("unrecognized BGFX shader bin header %q", headerStr)
	}

	version, err := outer.u8()
	if err != nil {
		return nil, errors.Wrap(err, "bgfx shader version")
	}
	if !(version == 5 || (version == 3 && headerStr == "CSH")) {
		return nil, fmt.Errorf("unsupported BGFX shader bin version: %d", version)
	}

	s := &BgfxShader{}
	if s.Hash, err = outer.u32(); err != nil {
		return nil, errors.Wrap(err, "bgfx shader hash")
	}

	uniformCount, err := outer.u16()
	if err != nil {
		return nil, errors.Wrap(err, "bgfx shader uniform count")
	}
	s.Uniforms = make([]*BgfxUniform, uniformCount)
	for i := range s.Uniforms {
		u, err := readBgfxUniform(outer)
		if err != nil {
			return nil, err
		}
		s.Uniforms[i] = u
	}

	if platform == Metal && stage == Compute {
		s.HasGroupSize = true
		for i := 0; i < 3; i++ {
			v, err := outer.u16()
			if err != nil {
				return nil, errors.Wrap(err, "bgfx shader group_size")
			}
			s.GroupSize[i] = v
		}
	}

	shaderLen, err := outer.u32()
	if err != nil {
		return nil, errors.Wrap(err, "bgfx shader byte length")
	}
	if s.ShaderBytes, err = outer.bytesN(int(shaderLen)); err != nil {
		return nil, errors.Wrap(err, "bgfx shader bytes")
	}

	if _, err := outer.u8(); err != nil { // padding
		return nil, errors.Wrap(err, "bgfx shader padding")
	}

	attrCountBuf, err := tryReadByte(outer)
	if err != nil {
		return nil, err
	}
	if attrCountBuf == nil {
		s.Attributes = nil
		s.Size = -1
		return s, nil
	}

	attrCount := *attrCountBuf
	s.Attributes = make([]uint16, attrCount)
	for i := range s.Attributes {
		v, err := outer.u16()
		if err != nil {
			return nil, errors.Wrap(err, "bgfx shader attribute")
		}
		s.Attributes[i] = v
	}
	size, err := outer.u16()
	if err != nil {
		return nil, errors.Wrap(err, "bgfx shader size")
	}
	s.Size = int32(size)

	return s, nil
}

// tryReadByte reads one optional trailing byte, returning nil if the
// underlying reader is already exhausted. Mirrors the original's
// `file.read(1)` returning an empty bytes object at EOF instead of raising.
func tryReadByte(r *reader) (*uint8, error) {
	b, err := r.bytesN(1)
	if err != nil {
		return nil, nil
	}
	v := b[0]
	return &v, nil
}

func (s *BgfxShader) write(outer *writer, platform Platform, stage Stage) error {
	var inner bytes.Buffer
	iw := newWriter(&inner)

	header := "FSH"
	version := uint8(5)
	switch stage {
	case Vertex:
		header = "VSH"
	case Compute:
		header = "CSH"
		version = 3
	}
	if err := iw.bytesN([]byte(header)); err != nil {
		return err
	}
	if err := iw.u8(version); err != nil {
		return err
	}
	if err := iw.u32(s.Hash); err != nil {
		return err
	}

	if err := iw.u16(uint16(len(s.Uniforms))); err != nil {
		return err
	}
	for _, u := range s.Uniforms {
		if err := u.write(iw); err != nil {
			return err
		}
	}

	if platform == Metal && stage == Compute {
		for i := 0; i < 3; i++ {
			if err := iw.u16(s.GroupSize[i]); err != nil {
				return err
			}
		}
	}

	if err := iw.u32(uint32(len(s.ShaderBytes))); err != nil {
		return err
	}
	if err := iw.bytesN(s.ShaderBytes); err != nil {
		return err
	}
	if err := iw.u8(0); err != nil { // padding
		return err
	}

	if s.Size != -1 {
		if err := iw.u8(uint8(len(s.Attributes))); err != nil {
			return err
		}
		for _, a := range s.Attributes {
			if err := iw.u16(a); err != nil {
				return err
			}
		}
		if err := iw.u16(uint16(s.Size)); err != nil {
			return err
		}
	}

	return outer.array(inner.Bytes())
}
