// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package encode

import (
	"testing"

	"github.com/gogpu/lazurite/internal/lines"
	"github.com/gogpu/lazurite/internal/model"
)

func TestTableInsertMergesIdenticalCode(t *testing.T) {
	tbl := NewTable()
	tbl.Insert(Permutation{Code: "a\nb", Flags: model.FlagAssignment{"quality": "High"}})
	tbl.Insert(Permutation{Code: "a\nb", Flags: model.FlagAssignment{"quality": "Low"}})
	tbl.Insert(Permutation{Code: "c", Flags: model.FlagAssignment{"quality": "Med"}})

	lt := lines.NewTable()
	uniques := tbl.Encode(lt)

	if len(uniques) != 2 {
		t.Fatalf("uniques = %+v", uniques)
	}
	if len(uniques[0].Flags) != 2 {
		t.Fatalf("expected merged flags for identical code, got %+v", uniques[0].Flags)
	}
	if len(uniques[1].Flags) != 1 {
		t.Fatalf("expected one flag assignment for distinct code, got %+v", uniques[1].Flags)
	}
}

func TestTableEncodePreservesFirstSeenOrder(t *testing.T) {
	tbl := NewTable()
	tbl.Insert(Permutation{Code: "z", Flags: model.FlagAssignment{"f": "1"}})
	tbl.Insert(Permutation{Code: "a", Flags: model.FlagAssignment{"f": "2"}})

	lt := lines.NewTable()
	uniques := tbl.Encode(lt)

	if len(uniques) != 2 {
		t.Fatalf("uniques = %+v", uniques)
	}
	zText := lt.Text(uniques[0].Lines[0])
	if zText != "z" {
		t.Fatalf("first unique's line = %q, want %q", zText, "z")
	}
}
