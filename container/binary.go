// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package container

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"
)

// reader wraps the little-endian, length-prefixed primitives the
// .material.bin format is built from.
type reader struct {
	r io.Reader
}

func newReader(r io.Reader) *reader {
	return &reader{r: r}
}

func (r *reader) bytesN(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		return nil, errors.Wrap(err, "read bytes")
	}
	return buf, nil
}

func (r *reader) u8() (uint8, error) {
	b, err := r.bytesN(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) bool() (bool, error) {
	b, err := r.u8()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

func (r *reader) u16() (uint16, error) {
	b, err := r.bytesN(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *reader) u32() (uint32, error) {
	b, err := r.bytesN(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *reader) u64() (uint64, error) {
	b, err := r.bytesN(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (r *reader) f32s(n int) ([]float32, error) {
	out := make([]float32, n)
	for i := range out {
		bits, err := r.u32()
		if err != nil {
			return nil, err
		}
		out[i] = math.Float32frombits(bits)
	}
	return out, nil
}

// array reads a 4-byte length prefix followed by that many raw bytes.
func (r *reader) array() ([]byte, error) {
	n, err := r.u32()
	if err != nil {
		return nil, err
	}
	return r.bytesN(int(n))
}

// str reads a 4-byte length prefix followed by that many bytes of text.
func (r *reader) str() (string, error) {
	b, err := r.array()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// writer mirrors reader's primitives for the little-endian, length-prefixed
// .material.bin layout.
type writer struct {
	w io.Writer
}

func newWriter(w io.Writer) *writer {
	return &writer{w: w}
}

func (w *writer) bytesN(b []byte) error {
	_, err := w.w.Write(b)
	return errors.Wrap(err, "write bytes")
}

func (w *writer) u8(v uint8) error {
	return w.bytesN([]byte{v})
}

func (w *writer) boolv(v bool) error {
	if v {
		return w.u8(1)
	}
	return w.u8(0)
}

func (w *writer) u16(v uint16) error {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return w.bytesN(b)
}

func (w *writer) u32(v uint32) error {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return w.bytesN(b)
}

func (w *writer) u64(v uint64) error {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return w.bytesN(b)
}

func (w *writer) f32s(vs []float32) error {
	for _, v := range vs {
		if err := w.u32(math.Float32bits(v)); err != nil {
			return err
		}
	}
	return nil
}

// array writes a 4-byte length prefix followed by the raw bytes.
func (w *writer) array(b []byte) error {
	if err := w.u32(uint32(len(b))); err != nil {
		return err
	}
	return w.bytesN(b)
}

// str writes a 4-byte length prefix followed by the text bytes.
func (w *writer) str(s string) error {
	return w.array([]byte(s))
}

