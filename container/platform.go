// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package container

import "fmt"

// Platform identifies the target shader backend a compiled shader was built
// for.
type Platform int

const (
	Direct3DSM40 Platform = iota
	Direct3DSM50
	Direct3DSM60
	Direct3DSM65
	Direct3DXB1
	Direct3DXBX
	GLSL120
	GLSL430
	ESSL310
	Metal
	Vulkan
	Nvn
	PSSL
	PlatformUnknown
)

// platformValues pins the format-version-25-and-later integer mapping.
// Earlier container versions used a different mapping (one that still
// carried the now-removed ESSL_300 platform as its own slot); this package
// targets version 22 materials exclusively and does not attempt to support
// both, per the decision recorded in DESIGN.md.
var platformValues = map[Platform]int{
	Direct3DSM40:    0,
	Direct3DSM50:    1,
	Direct3DSM60:    2,
	Direct3DSM65:    3,
	Direct3DXB1:     4,
	Direct3DXBX:     5,
	GLSL120:         6,
	GLSL430:         7,
	ESSL310:         8,
	Metal:           9,
	Vulkan:          10,
	Nvn:             11,
	PSSL:            12,
	PlatformUnknown: 13,
}

var platformNames = map[string]Platform{
	"Direct3D_SM40": Direct3DSM40,
	"Direct3D_SM50": Direct3DSM50,
	"Direct3D_SM60": Direct3DSM60,
	"Direct3D_SM65": Direct3DSM65,
	"Direct3D_XB1":  Direct3DXB1,
	"Direct3D_XBX":  Direct3DXBX,
	"GLSL_120":      GLSL120,
	"GLSL_430":      GLSL430,
	"ESSL_300":      ESSL310, // converted: removed as its own slot in version >= 25
	"ESSL_310":      ESSL310,
	"Metal":         Metal,
	"Vulkan":        Vulkan,
	"Nvn":           Nvn,
	"PSSL":          PSSL,
	"Unknown":       PlatformUnknown,
}

func (p Platform) String() string {
	for name, v := range platformNames {
		if v == p && name != "ESSL_300" {
			return name
		}
	}
	return fmt.Sprintf("Platform(%d)", int(p))
}

// Value returns the on-disk integer index for p under the version>=25
// mapping this package targets.
func (p Platform) Value() (int, error) {
	v, ok := platformValues[p]
	if !ok {
		return 0, fmt.Errorf("platform %s has no index in the version>=25 mapping", p)
	}
	return v, nil
}

func platformFromName(name string) (Platform, error) {
	p, ok := platformNames[name]
	if !ok {
		return 0, fmt.Errorf("unrecognized shader platform name %q", name)
	}
	return p, nil
}

// PlatformFromName is the exported form of platformFromName, for callers
// outside the package (project configuration, CLI flags) parsing a platform
// by its on-disk enum name (e.g. "GLSL_430").
func PlatformFromName(name string) (Platform, error) {
	return platformFromName(name)
}

// FileExtension returns the conventional extension for a shader compiled
// for this platform, mirroring material.py's ShaderPlatform.file_extension.
func (p Platform) FileExtension() string {
	switch {
	case p == Direct3DSM40 || p == Direct3DSM50 || p == Direct3DSM60 || p == Direct3DSM65 ||
		p == Direct3DXB1 || p == Direct3DXBX:
		return "dxbc"
	case p == GLSL120 || p == GLSL430 || p == ESSL310:
		return "glsl"
	case p == Metal:
		return "metal"
	case p == Vulkan:
		return "spirv"
	default:
		return "bin"
	}
}
