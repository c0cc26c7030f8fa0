// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package container

import "github.com/pkg/errors"

// Pass is one named render pass within a material, holding the macro
// variants compiled for it.
type Pass struct {
	Name                string
	SupportedPlatforms  SupportedPlatforms
	FallbackPass        string
	DefaultBlendMode    BlendMode
	DefaultVariant      map[string]string
	Variants            []*Variant
}

func readPass(r *reader) (*Pass, error) {
	p := &Pass{DefaultVariant: map[string]string{}, DefaultBlendMode: BlendUnspecified}
	var err error
	if p.Name, err = r.str(); err != nil {
		return nil, errors.Wrap(err, "pass name")
	}
	bits, err := r.str()
	if err != nil {
		return nil, errors.Wrap(err, "pass supported_platforms")
	}
	p.SupportedPlatforms = NewSupportedPlatforms(bits)

	if p.FallbackPass, err = r.str(); err != nil {
		return nil, errors.Wrap(err, "pass fallback_pass")
	}

	hasBlend, err := r.bool()
	if err != nil {
		return nil, errors.Wrap(err, "pass has_default_blend_mode")
	}
	if hasBlend {
		v, err := r.u16()
		if err != nil {
			return nil, errors.Wrap(err, "pass default_blend_mode")
		}
		p.DefaultBlendMode = BlendMode(v)
	}

	flagCount, err := r.u16()
	if err != nil {
		return nil, errors.Wrap(err, "pass default_variant count")
	}
	for i := uint16(0); i < flagCount; i++ {
		key, err := r.str()
		if err != nil {
			return nil, errors.Wrap(err, "pass default_variant key")
		}
		val, err := r.str()
		if err != nil {
			return nil, errors.Wrap(err, "pass default_variant value")
		}
		p.DefaultVariant[key] = val
	}

	if _, err := r.u32(); err != nil { // reserved
		return nil, errors.Wrap(err, "pass reserved field")
	}

	variantCount, err := r.u16()
	if err != nil {
		return nil, errors.Wrap(err, "pass variant count")
	}
	p.Variants = make([]*Variant, variantCount)
	for i := range p.Variants {
		v, err := readVariant(r)
		if err != nil {
			return nil, err
		}
		p.Variants[i] = v
	}

	return p, nil
}

func (p *Pass) write(w *writer) error {
	if err := w.str(p.Name); err != nil {
		return err
	}
	if err := w.str(p.SupportedPlatforms.BitString()); err != nil {
		return err
	}
	if err := w.str(p.FallbackPass); err != nil {
		return err
	}

	if err := w.boolv(p.DefaultBlendMode != BlendUnspecified); err != nil {
		return err
	}
	if p.DefaultBlendMode != BlendUnspecified {
		if err := w.u16(uint16(p.DefaultBlendMode)); err != nil {
			return err
		}
	}

	if err := w.u16(uint16(len(p.DefaultVariant))); err != nil {
		return err
	}
	for k, v := range p.DefaultVariant {
		if err := w.str(k); err != nil {
			return err
		}
		if err := w.str(v); err != nil {
			return err
		}
	}

	if err := w.u32(0); err != nil {
		return err
	}

	if err := w.u16(uint16(len(p.Variants))); err != nil {
		return err
	}
	for _, v := range p.Variants {
		if err := v.write(w); err != nil {
			return err
		}
	}

	return nil
}

// FlagDefinitions returns every flag key observed in the pass's default
// variant and its explicit variants, mapped to the set of values seen.
func (p *Pass) FlagDefinitions() map[string]map[string]bool {
	defs := map[string]map[string]bool{}
	for k, v := range p.DefaultVariant {
		defs[k] = map[string]bool{v: true}
	}
	for _, variant := range p.Variants {
		for k, v := range variant.Flags {
			if defs[k] == nil {
				defs[k] = map[string]bool{}
			}
			defs[k][v] = true
		}
	}
	return defs
}

// Platforms returns the union of platforms used across all variants.
func (p *Pass) Platforms() map[Platform]bool {
	out := map[Platform]bool{}
	for _, v := range p.Variants {
		for pl := range v.Platforms() {
			out[pl] = true
		}
	}
	return out
}

// Stages returns the union of stages used across all variants.
func (p *Pass) Stages() map[Stage]bool {
	out := map[Stage]bool{}
	for _, v := range p.Variants {
		for st := range v.Stages() {
			out[st] = true
		}
	}
	return out
}
