// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package diff folds a namespace's uniquified permutations into one
// combined line sequence, then groups consecutive lines that share an
// identical appearance set.
//
// The fold is a repeated pairwise diff: the running combined sequence plays
// the role of the "old" side and each subsequent permutation's code plays
// the role of the "new" side, exactly as lazurite's Python implementation
// folds variants one at a time with the `myers` library. Kept lines merge
// their appearance sets; removed lines (present in the running sequence but
// absent from the current permutation) keep their existing set; inserted
// lines (present in the current permutation but new to the running
// sequence) start a fresh set. Lines are never dropped once merged in, which
// is what makes the final sequence a superset covering every variant.
package diff

import (
	"github.com/gogpu/lazurite/internal/encode"
	"github.com/gogpu/lazurite/internal/lines"
	"github.com/gogpu/lazurite/internal/model"
)

// Op classifies one step of an edit script.
type Op int

const (
	Keep Op = iota
	Insert
	Remove
)

// Edit is one step of an edit script turning an old sequence into a new one.
type Edit struct {
	Op  Op
	Val lines.ID
}

// Sequence computes a deterministic, longest-common-subsequence edit script
// turning old into new. Ties in the LCS (a line could be validly kept via
// more than one alignment) are broken by preferring to keep over removing,
// and to remove over inserting, at the earliest position — so the result
// never depends on map iteration order or any other incidental ordering.
func Sequence(old, new []lines.ID) []Edit {
	n, m := len(old), len(new)
	dp := make([][]int32, n+1)
	for i := range dp {
		dp[i] = make([]int32, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if old[i] == new[j] {
				dp[i][j] = dp[i+1][j+1] + 1
			} else if dp[i+1][j] >= dp[i][j+1] {
				dp[i][j] = dp[i+1][j]
			} else {
				dp[i][j] = dp[i][j+1]
			}
		}
	}

	edits := make([]Edit, 0, n+m)
	i, j := 0, 0
	for i < n && j < m {
		switch {
		case old[i] == new[j]:
			edits = append(edits, Edit{Keep, old[i]})
			i++
			j++
		case dp[i+1][j] >= dp[i][j+1]:
			edits = append(edits, Edit{Remove, old[i]})
			i++
		default:
			edits = append(edits, Edit{Insert, new[j]})
			j++
		}
	}
	for ; i < n; i++ {
		edits = append(edits, Edit{Remove, old[i]})
	}
	for ; j < m; j++ {
		edits = append(edits, Edit{Insert, new[j]})
	}
	return edits
}

// Fold combines a namespace's uniquified permutations into one sequence of
// line ids, each carrying the appearance set of flag assignments it was
// observed under.
func Fold(perms []encode.Unique) ([]lines.ID, []model.AppearanceSet) {
	var seq []lines.ID
	var conditions []model.AppearanceSet

	for _, perm := range perms {
		edits := Sequence(seq, perm.Lines)

		newSeq := make([]lines.ID, 0, len(edits))
		newConditions := make([]model.AppearanceSet, 0, len(edits))
		cur := 0

		for _, e := range edits {
			newSeq = append(newSeq, e.Val)
			switch e.Op {
			case Insert:
				newConditions = append(newConditions, append(model.AppearanceSet{}, perm.Flags...))
			case Remove:
				newConditions = append(newConditions, conditions[cur])
				cur++
			case Keep:
				merged := append(model.AppearanceSet{}, conditions[cur]...)
				merged = append(merged, perm.Flags...)
				newConditions = append(newConditions, merged)
				cur++
			}
		}

		seq = newSeq
		conditions = newConditions
	}

	return seq, conditions
}

// Group is a run of consecutive combined lines that all share the same
// appearance set — the unit the expression search and assembler operate on.
type Group struct {
	Lines     []lines.ID
	Condition model.AppearanceSet
	// SearchIndex is the index into the namespace's shared expression
	// search input/output slices, or -1 if the group's condition is the
	// full all-flags list (meaning the lines are unconditional and need no
	// macro guard at all).
	SearchIndex int
}

// GroupLines groups consecutive lines sharing an identical appearance set.
func GroupLines(seq []lines.ID, conditions []model.AppearanceSet) []*Group {
	if len(seq) == 0 {
		return nil
	}

	var groups []*Group
	cur := &Group{Condition: conditions[0], SearchIndex: -1}
	for i, id := range seq {
		if !conditions[i].Equal(cur.Condition) {
			groups = append(groups, cur)
			cur = &Group{Condition: conditions[i], SearchIndex: -1}
		}
		cur.Lines = append(cur.Lines, id)
	}
	groups = append(groups, cur)
	return groups
}
