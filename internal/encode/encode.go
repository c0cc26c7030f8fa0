// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package encode implements the line encoder and uniquifier: it merges
// permutations that produced byte-identical source text within one
// namespace (the main shader, or one extracted function/struct) and
// replaces each surviving line of text with its Line Table id.
package encode

import (
	"github.com/gogpu/lazurite/internal/lines"
	"github.com/gogpu/lazurite/internal/model"
)

// Permutation is one namespace's code under one variant's flags, prior to
// uniquification.
type Permutation struct {
	Code  string
	Flags model.FlagAssignment
}

// Unique is a single distinct source body for a namespace, together with
// every flag assignment that produced it.
type Unique struct {
	Lines []lines.ID
	Flags []model.FlagAssignment
}

// Table accumulates permutations belonging to one namespace and merges
// byte-identical source bodies as they arrive.
type Table struct {
	order  []string
	byCode map[string][]model.FlagAssignment
}

// NewTable returns an empty uniquifier table.
func NewTable() *Table {
	return &Table{byCode: map[string][]model.FlagAssignment{}}
}

// Insert records one permutation, merging it into an existing entry if its
// code is byte-identical to one already seen.
func (t *Table) Insert(p Permutation) {
	if _, ok := t.byCode[p.Code]; !ok {
		t.order = append(t.order, p.Code)
	}
	t.byCode[p.Code] = append(t.byCode[p.Code], p.Flags)
}

// Encode interns every unique body's lines into lt and returns one Unique
// per distinct body, in first-seen order.
func (t *Table) Encode(lt *lines.Table) []Unique {
	out := make([]Unique, 0, len(t.order))
	for _, code := range t.order {
		ids := lt.InternAll(lines.SplitLines(code))
		out = append(out, Unique{Lines: ids, Flags: t.byCode[code]})
	}
	return out
}
