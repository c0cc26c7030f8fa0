// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package lines implements the Line Table: interning of source lines into
// small dense identifiers so that later pipeline stages (diffing, grouping,
// assembly) work with comparable integers instead of repeatedly comparing
// strings.
package lines

// ID identifies one unique line of source text within a Table.
type ID int

// Table interns source lines, handing out a stable ID for each distinct
// line of text. The zero value is not usable; construct one with NewTable.
type Table struct {
	index []string
	ids   map[string]ID
}

// NewTable returns an empty line table.
func NewTable() *Table {
	return &Table{ids: make(map[string]ID)}
}

// Intern returns the ID for line, assigning it a new one the first time it
// is seen.
func (t *Table) Intern(line string) ID {
	if id, ok := t.ids[line]; ok {
		return id
	}
	id := ID(len(t.index))
	t.index = append(t.index, line)
	t.ids[line] = id
	return id
}

// InternAll interns every line in lines, in order, and returns their IDs.
func (t *Table) InternAll(srcLines []string) []ID {
	out := make([]ID, len(srcLines))
	for i, l := range srcLines {
		out[i] = t.Intern(l)
	}
	return out
}

// Text returns the source line associated with id. It panics if id was
// never produced by this table.
func (t *Table) Text(id ID) string {
	return t.index[id]
}

// Len returns the number of distinct lines interned so far.
func (t *Table) Len() int {
	return len(t.index)
}

// SplitLines splits code into lines the way Python's str.splitlines does for
// inputs containing only "\n" terminators: a single trailing newline does
// not produce a trailing empty element, but any newline in the middle of the
// text does. The macro decompiler's source code has always been normalized
// to bare "\n" line endings by this point.
func SplitLines(code string) []string {
	if code == "" {
		return nil
	}
	out := splitOnByte(code, '\n')
	if len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}

func splitOnByte(s string, sep byte) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == sep {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}
