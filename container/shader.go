// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package container

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"
)

// Shader is one compiled shader binary for a specific (platform, stage)
// combination within a variant.
type Shader struct {
	Stage    Stage
	Platform Platform
	Inputs   []*ShaderInput
	Hash     uint64
	Bgfx     *BgfxShader
}

func readShader(r *reader) (*Shader, error) {
	s := &Shader{}

	stageName, err := r.str()
	if err != nil {
		return nil, errors.Wrap(err, "shader stage name")
	}
	s.Stage, err = stageFromName(stageName)
	if err != nil {
		return nil, err
	}

	platformName, err := r.str()
	if err != nil {
		return nil, errors.Wrap(err, "shader platform name")
	}
	s.Platform, err = platformFromName(platformName)
	if err != nil {
		return nil, err
	}

	stageIdx, err := r.u8()
	if err != nil {
		return nil, errors.Wrap(err, "shader stage index")
	}
	if int(stageIdx) != int(s.Stage) {
		return nil, fmt.Errorf("stage name %q and index %d do not match", stageName, stageIdx)
	}

	platformIdx, err := r.u8()
	if err != nil {
		return nil, errors.Wrap(err, "shader platform index")
	}
	wantIdx, err := s.Platform.Value()
	if err != nil {
		return nil, err
	}
	if int(platformIdx) != wantIdx {
		return nil, fmt.Errorf("platform name %q and index %d do not match", platformName, platformIdx)
	}

	inputCount, err := r.u16()
	if err != nil {
		return nil, errors.Wrap(err, "shader input count")
	}
	s.Inputs = make([]*ShaderInput, inputCount)
	for i := range s.Inputs {
		in, err := readShaderInput(r)
		if err != nil {
			return nil, err
		}
		s.Inputs[i] = in
	}

	if s.Hash, err = r.u64(); err != nil {
		return nil, errors.Wrap(err, "shader hash")
	}

	payload, err := r.array()
	if err != nil {
		return nil, errors.Wrap(err, "shader bgfx payload")
	}
	pr := newReader(bytes.NewReader(payload))
	bgfx, err := readBgfxShader(pr, s.Platform, s.Stage)
	if err != nil {
		return nil, errors.Wrap(err, "shader bgfx_shader")
	}
	s.Bgfx = bgfx

	return s, nil
}

func (s *Shader) write(w *writer) error {
	if err := w.str(stageName(s.Stage)); err != nil {
		return err
	}
	if err := w.str(s.Platform.String()); err != nil {
		return err
	}
	if err := w.u8(uint8(s.Stage)); err != nil {
		return err
	}
	idx, err := s.Platform.Value()
	if err != nil {
		return err
	}
	if err := w.u8(uint8(idx)); err != nil {
		return err
	}

	if err := w.u16(uint16(len(s.Inputs))); err != nil {
		return err
	}
	for _, in := range s.Inputs {
		if err := in.write(w); err != nil {
			return err
		}
	}

	if err := w.u64(s.Hash); err != nil {
		return err
	}

	return s.Bgfx.write(w, s.Platform, s.Stage)
}

// FileName is the conventional on-disk name for a shader unpacked at the
// given variant index, matching ShaderDefinition.get_shader_file_name.
func (s *Shader) FileName(index int) string {
	return fmt.Sprintf("%d.%s.%s.%s", index, s.Platform.String(), stageName(s.Stage), s.Platform.FileExtension())
}

func stageName(s Stage) string {
	for name, v := range stageNames {
		if v == s {
			return name
		}
	}
	return s.String()
}
