// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package search implements expression search: given a line group's
// observed outcomes across every flag assignment in a namespace, it looks
// for a sequence of expression tokens that reproduces those outcomes.
//
// Two algorithms are combined, exactly as lazurite's Python implementation
// does: a fast greedy search that builds one token at a time, picking
// whichever configuration improves the score the most, followed (only when
// the fast search is imperfect) by a bounded brute-force search over every
// possible token sequence up to a wall-clock timeout. The brute-force
// search's third, "hybrid" sibling in the original is deliberately not
// ported — it is marked work in progress there, and the spec only commits
// to the fast+slow combination.
package search

import (
	"time"

	"github.com/gogpu/lazurite/internal/diff"
	"github.com/gogpu/lazurite/internal/flags"
	"github.com/gogpu/lazurite/internal/model"
)

// Join determines how a token combines with the tokens before it.
type Join int

const (
	// JoinInitial must only be used for the first token in a sequence: the
	// expression's running value becomes the token's value directly.
	JoinInitial Join = iota
	JoinOr
	JoinAnd
)

// Token is one element of an expression search output: a single flag
// comparison, possibly negated, joined to the tokens before it.
type Token struct {
	Join      Join
	Negate    bool
	FlagName  string
	FlagValue string
}

// Outcome records whether a line group was observed to be present (true) or
// absent (false) under one particular flag assignment.
type Outcome struct {
	Wanted bool
	Flags  model.FlagAssignment
}

// Input is the search problem for a single line group: reproduce Outcomes
// using only flags drawn from FlagDef.
type Input struct {
	FlagDef  *flags.Definition
	Outcomes []Outcome
}

// Equal reports whether two inputs describe the identical search problem,
// used to deduplicate line groups that need the same condition.
func (in Input) Equal(other Input) bool {
	if in.FlagDef != other.FlagDef {
		return false
	}
	if len(in.Outcomes) != len(other.Outcomes) {
		return false
	}
	for i := range in.Outcomes {
		if in.Outcomes[i].Wanted != other.Outcomes[i].Wanted {
			return false
		}
		if !in.Outcomes[i].Flags.Equal(other.Outcomes[i].Flags) {
			return false
		}
	}
	return true
}

// BuildInputs extracts one search Input per distinct condition needed by
// groups, appending new ones to into and deduplicating against whatever it
// already contains (so that main-shader groups and function groups can
// share one combined search pass). Each group's SearchIndex is set to the
// resulting index into into, or left at -1 when the group's condition
// already spans every flag assignment in the namespace (meaning the lines
// are unconditional).
func BuildInputs(groups []*diff.Group, all flags.AllFlags, def *flags.Definition, into *[]Input) {
	for _, g := range groups {
		if len(g.Condition) == len(all) {
			g.SearchIndex = -1
			continue
		}

		in := Input{FlagDef: def, Outcomes: make([]Outcome, 0, len(all))}
		for _, fa := range all {
			in.Outcomes = append(in.Outcomes, Outcome{Wanted: g.Condition.Contains(fa), Flags: fa})
		}

		idx := -1
		for i, existing := range *into {
			if existing.Equal(in) {
				idx = i
				break
			}
		}
		if idx < 0 {
			idx = len(*into)
			*into = append(*into, in)
		}
		g.SearchIndex = idx
	}
}

// Hooks lets a caller observe slow-path search activity without the core
// algorithm depending on any logging package.
type Hooks struct {
	OnSlowSearch func()
	OnNotFound   func()
}

// Output is the result of searching for one line group's condition.
type Output struct {
	Score  int
	Tokens []Token
}

func evaluate(tokens []Token, fa model.FlagAssignment) bool {
	for i := len(tokens) - 1; i >= 0; i-- {
		t := tokens[i]
		val := fa[t.FlagName] == t.FlagValue
		if t.Negate {
			val = !val
		}
		switch t.Join {
		case JoinAnd:
			if !val {
				return false
			}
		case JoinOr:
			if val {
				return true
			}
		case JoinInitial:
			return val
		}
	}
	return false
}

// calcScore scores a token list against every outcome. An empty token list
// evaluates to neither true nor false (mirroring the original's None
// sentinel for "no expression yet"), so it never matches an outcome either
// way and contributes 0 to the score rather than scoring every absent
// outcome as a match.
func calcScore(tokens []Token, outcomes []Outcome) int {
	if len(tokens) == 0 {
		return 0
	}
	score := 0
	for _, o := range outcomes {
		if evaluate(tokens, o.Flags) == o.Wanted {
			score++
		}
	}
	return score
}

func fastSearch(in Input) Output {
	var best []Token
	bestScore := 0
	var current []Token

	limit := in.FlagDef.Len() + 5
	for iter := 0; iter < limit; iter++ {
		current = append(current, Token{})
		idx := len(current) - 1

		var joinList []Join
		if idx == 0 {
			joinList = []Join{JoinInitial}
		} else {
			joinList = []Join{JoinOr, JoinAnd}
		}

		var bestToken Token
		bestTokenScore := 0

		for _, negate := range [...]bool{false, true} {
			for _, join := range joinList {
				for _, name := range in.FlagDef.Names() {
					for _, val := range in.FlagDef.Values(name) {
						current[idx] = Token{Join: join, Negate: negate, FlagName: name, FlagValue: val}
						score := calcScore(current, in.Outcomes)
						if score > bestTokenScore {
							bestTokenScore = score
							bestToken = current[idx]
						}
					}
				}
			}
		}
		current[idx] = bestToken

		if bestTokenScore > bestScore {
			best = append([]Token{}, current...)
			bestScore = bestTokenScore
		}

		if bestScore >= len(in.Outcomes) {
			break
		}
	}

	return Output{Score: bestScore, Tokens: best}
}

// increment advances expr to the next candidate sequence in a fixed,
// deterministic enumeration order: cycle a token's flag value, then its
// flag name, then its join type, then whether it is negated; once every
// token has exhausted every combination, append a fresh token.
func increment(expr []Token, def *flags.Definition) []Token {
	names := def.Names()
	if len(names) == 0 {
		return expr
	}

	for i := range expr {
		t := &expr[i]

		vals := def.Values(t.FlagName)
		if vi := indexOfString(vals, t.FlagValue) + 1; vi != len(vals) {
			t.FlagValue = vals[vi]
			return expr
		}

		if ni := indexOfString(names, t.FlagName) + 1; ni != len(names) {
			t.FlagName = names[ni]
			t.FlagValue = def.Values(t.FlagName)[0]
			return expr
		}

		t.FlagName = names[0]
		t.FlagValue = def.Values(t.FlagName)[0]

		if t.Join != JoinInitial {
			if t.Join == JoinOr {
				t.Join = JoinAnd
				return expr
			}
			t.Join = JoinOr
		}

		if !t.Negate {
			t.Negate = true
			return expr
		}
		t.Negate = false
	}

	nt := Token{FlagName: names[0], FlagValue: def.Values(names[0])[0]}
	if len(expr) == 0 {
		nt.Join = JoinInitial
	} else {
		nt.Join = JoinOr
	}
	return append(expr, nt)
}

func slowSearch(in Input, timeout time.Duration) Output {
	if in.FlagDef.Len() == 0 {
		return Output{Score: calcScore(nil, in.Outcomes)}
	}

	var best []Token
	bestScore := 0
	var current []Token
	start := time.Now()

	for {
		score := calcScore(current, in.Outcomes)
		if score > bestScore {
			bestScore = score
			best = append([]Token{}, current...)
		}

		if bestScore == len(in.Outcomes) || time.Since(start) >= timeout {
			break
		}

		current = increment(current, in.FlagDef)
	}

	return Output{Score: bestScore, Tokens: best}
}

// Run searches for an expression for every input, falling back to the slow
// path only when the fast path is not a perfect match, and preferring
// whichever result scores higher, then whichever is shorter.
func Run(inputs []Input, timeout time.Duration, hooks Hooks) []Output {
	outputs := make([]Output, 0, len(inputs))

	for _, in := range inputs {
		out := fastSearch(in)

		if out.Score != len(in.Outcomes) {
			if hooks.OnSlowSearch != nil {
				hooks.OnSlowSearch()
			}

			slowOut := slowSearch(in, timeout)
			if slowOut.Score > out.Score || (slowOut.Score == out.Score && len(slowOut.Tokens) < len(out.Tokens)) {
				out = slowOut
			}

			if out.Score < len(in.Outcomes) && hooks.OnNotFound != nil {
				hooks.OnNotFound()
			}
		}

		outputs = append(outputs, out)
	}

	return outputs
}

func indexOfString(vals []string, v string) int {
	for i, x := range vals {
		if x == v {
			return i
		}
	}
	return -1
}
