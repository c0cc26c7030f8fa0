// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package assemble turns grouped, conditioned lines back into source text:
// joining each group's lines, wrapping conditional groups in their rendered
// macro directive and a matching #endif, then re-substituting extracted
// function and struct bodies back into the markers left behind by the
// extractor.
package assemble

import "strings"

// Group is one line group ready for assembly.
type Group struct {
	// Lines is the group's source text, already decoded from the line
	// table, in order.
	Lines []string
	// Directive is the rendered macro guard for this group, or "" if the
	// lines are unconditional and need no guard at all.
	Directive string
}

// Lines assembles one namespace's groups (the main shader, or a single
// extracted function/struct body) back into source text.
func Lines(groups []Group) string {
	parts := make([]string, 0, len(groups))
	for _, g := range groups {
		body := strings.Join(g.Lines, "\n")
		if g.Directive != "" {
			body = g.Directive + "\n" + body + "\n#endif"
		}
		parts = append(parts, body)
	}
	return strings.Join(parts, "\n")
}

// Function is one extracted namespace ready to be spliced back into the
// main shader at its marker.
type Function struct {
	Name     string
	IsStruct bool
	Groups   []Group
}

// Shader assembles a complete shader: the main code, with every extracted
// function or struct's marker replaced by its reassembled, braced body.
func Shader(mainGroups []Group, functions []Function, marker func(name string) string) string {
	code := Lines(mainGroups)

	for _, fn := range functions {
		body := Lines(fn.Groups)
		if !strings.HasPrefix(body, "\n") {
			body = "\n" + body
		}
		if !strings.HasSuffix(body, "\n") {
			body += "\n"
		}

		replacement := fn.Name + " {" + body + "}"
		if fn.IsStruct {
			replacement += ";"
		}

		code = strings.ReplaceAll(code, marker(fn.Name), replacement)
	}

	return code
}
