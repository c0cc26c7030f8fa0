// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package container

import (
	"fmt"

	"github.com/pkg/errors"
)

// EncryptionType identifies how a material's payload beyond the header is
// protected.
type EncryptionType int

const (
	EncryptionNone EncryptionType = iota
	EncryptionSimplePassphrase
	EncryptionKeyPair
)

// ErrEncrypted is returned by ReadMaterial when a container declares an
// encrypted payload, and by Material.Write for a non-NONE encryption type. Decrypting it is a declared Non-goal: this package
// only ever reads material definitions stored in the clear.
var ErrEncrypted = errors.New("material payload is encrypted; decryption is not supported")

// encryptionTags mirrors EncryptionType.read/write in the original: a
// 4-byte tag stored byte-reversed.
var encryptionTags = map[string]EncryptionType{
	"ENON": EncryptionNone,
	"LMPS": EncryptionSimplePassphrase,
	"RPYK": EncryptionKeyPair,
}

func readEncryptionType(r *reader) (EncryptionType, error) {
	raw, err := r.bytesN(4)
	if err != nil {
		return 0, errors.Wrap(err, "read encryption type")
	}
	reversed := make([]byte, 4)
	for i, b := range raw {
		reversed[3-i] = b
	}
	tag := string(reversed)
	et, ok := encryptionTags[tag]
	if !ok {
		return 0, fmt.Errorf("unrecognized encryption tag %q", tag)
	}
	return et, nil
}

func writeEncryptionType(w *writer, et EncryptionType) error {
	var tag string
	for t, v := range encryptionTags {
		if v == et {
			tag = t
			break
		}
	}
	if tag == "" {
		return fmt.Errorf("unrecognized encryption type %d", int(et))
	}
	raw := make([]byte, 4)
	for i, b := range []byte(tag) {
		raw[3-i] = b
	}
	return w.bytesN(raw)
}

func (e EncryptionType) String() string {
	switch e {
	case EncryptionNone:
		return "NONE"
	case EncryptionSimplePassphrase:
		return "SIMPLE_PASSPHRASE"
	case EncryptionKeyPair:
		return "KEY_PAIR"
	default:
		return fmt.Sprintf("EncryptionType(%d)", int(e))
	}
}
