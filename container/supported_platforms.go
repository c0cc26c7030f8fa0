// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package container

// allPlatformsOrder is the fixed iteration order the bit-string
// serialisation of SupportedPlatforms uses, matching the declaration order
// of the ShaderPlatform enum.
var allPlatformsOrder = []Platform{
	Direct3DSM40, Direct3DSM50, Direct3DSM60, Direct3DSM65,
	Direct3DXB1, Direct3DXBX, GLSL120, GLSL430, ESSL310,
	Metal, Vulkan, Nvn, PSSL, PlatformUnknown,
}

// SupportedPlatforms is a per-pass bitmask of which platforms a render pass
// declares support for, stored on disk as a string of '0'/'1' characters.
type SupportedPlatforms struct {
	bits map[Platform]bool
}

// NewSupportedPlatforms builds a SupportedPlatforms from its on-disk bit
// string. An invalid string (wrong characters) defaults to all platforms
// supported, matching the original's lenient fallback.
func NewSupportedPlatforms(bitString string) SupportedPlatforms {
	valid := true
	for _, c := range bitString {
		if c != '0' && c != '1' {
			valid = false
			break
		}
	}
	if !valid {
		bitString = ""
		for range allPlatformsOrder {
			bitString += "1"
		}
	}
	if len(bitString) > len(allPlatformsOrder) {
		bitString = bitString[:len(allPlatformsOrder)]
	}
	for len(bitString) < len(allPlatformsOrder) {
		bitString = "0" + bitString
	}

	sp := SupportedPlatforms{bits: make(map[Platform]bool, len(allPlatformsOrder))}
	for i, p := range allPlatformsOrder {
		sp.bits[p] = bitString[i] == '1'
	}
	return sp
}

// BitString renders the bitmask back to its on-disk form.
func (sp SupportedPlatforms) BitString() string {
	out := make([]byte, len(allPlatformsOrder))
	for i, p := range allPlatformsOrder {
		if sp.bits[p] {
			out[i] = '1'
		} else {
			out[i] = '0'
		}
	}
	return string(out)
}

// Supports reports whether platform p is marked supported.
func (sp SupportedPlatforms) Supports(p Platform) bool {
	return sp.bits[p]
}
