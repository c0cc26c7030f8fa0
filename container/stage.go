// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package container

import "fmt"

// Stage identifies which point of the graphics pipeline a shader targets.
type Stage int

const (
	Vertex Stage = iota
	Fragment
	Compute
	StageUnknown
)

var stageNames = map[string]Stage{
	"Vertex":   Vertex,
	"Fragment": Fragment,
	"Compute":  Compute,
	"Unknown":  StageUnknown,
}

func (s Stage) String() string {
	for name, v := range stageNames {
		if v == s {
			return name
		}
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

func stageFromName(name string) (Stage, error) {
	s, ok := stageNames[name]
	if !ok {
		return 0, fmt.Errorf("unrecognized shader stage name %q", name)
	}
	return s, nil
}
