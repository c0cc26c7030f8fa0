// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package diff

import (
	"testing"

	"github.com/gogpu/lazurite/internal/encode"
	"github.com/gogpu/lazurite/internal/lines"
	"github.com/gogpu/lazurite/internal/model"
)

func TestSequence_KeepInsertRemove(t *testing.T) {
	old := []lines.ID{1, 2, 3}
	updated := []lines.ID{1, 4, 3}

	edits := Sequence(old, updated)

	var ops []Op
	for _, e := range edits {
		ops = append(ops, e.Op)
	}
	want := []Op{Keep, Remove, Insert, Keep}
	if len(ops) != len(want) {
		t.Fatalf("edits = %v, want length %d", ops, len(want))
	}
	for i := range want {
		if ops[i] != want[i] {
			t.Fatalf("edits[%d].Op = %v, want %v (full: %v)", i, ops[i], want[i], ops)
		}
	}
}

func TestFold_TwoVariantsOneFlag(t *testing.T) {
	lt := lines.NewTable()

	on := model.FlagAssignment{"QUALITY": "High"}
	off := model.FlagAssignment{"QUALITY": "Low"}

	perms := []encode.Unique{
		{Lines: lt.InternAll(lines.SplitLines("a\nb\n")), Flags: []model.FlagAssignment{off}},
		{Lines: lt.InternAll(lines.SplitLines("a\nc\nb\n")), Flags: []model.FlagAssignment{on}},
	}

	seq, conditions := Fold(perms)
	groups := GroupLines(seq, conditions)

	if len(seq) != 3 {
		t.Fatalf("expected combined sequence of 3 lines (a, c, b), got %d: %v", len(seq), seq)
	}

	var unconditional, conditional int
	for _, g := range groups {
		if len(g.Condition) == 2 {
			unconditional++
		} else {
			conditional++
		}
	}
	if unconditional == 0 || conditional == 0 {
		t.Fatalf("expected both a common group and a flag-specific group, got groups: %+v", groups)
	}
}
