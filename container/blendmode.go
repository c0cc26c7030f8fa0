// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package container

// BlendMode is a render pass's default blend state. Unspecified means the
// pass carried no default blend mode entry at all, not merely index 0.
type BlendMode int

const (
	BlendUnspecified BlendMode = iota - 1
	BlendNone
	BlendReplace
	BlendAlphaBlend
	BlendColorBlendAlphaAdd
	BlendPreMultiplied
	BlendInvertColor
	BlendAdditive
	BlendAdditiveAlpha
	BlendMultiply
	BlendMultiplyBoth
	BlendInverseSrcAlpha
	BlendSrcAlpha
)

var blendModeNames = map[BlendMode]string{
	BlendUnspecified:        "Unspecified",
	BlendNone:               "NoneMode",
	BlendReplace:            "Replace",
	BlendAlphaBlend:         "AlphaBlend",
	BlendColorBlendAlphaAdd: "ColorBlendAlphaAdd",
	BlendPreMultiplied:      "PreMultiplied",
	BlendInvertColor:        "InvertColor",
	BlendAdditive:           "Additive",
	BlendAdditiveAlpha:      "AdditiveAlpha",
	BlendMultiply:           "Multiply",
	BlendMultiplyBoth:       "MultiplyBoth",
	BlendInverseSrcAlpha:    "InverseSrcAlpha",
	BlendSrcAlpha:           "SrcAlpha",
}

func (b BlendMode) String() string {
	if name, ok := blendModeNames[b]; ok {
		return name
	}
	return "Unspecified"
}
