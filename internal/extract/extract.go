// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package extract pulls top-level function and struct bodies out of a
// shader permutation's source so that each one can be diffed in its own
// namespace, independent of the flags that condition the surrounding code.
// A marker is left behind at the extraction site so the assembler can later
// re-substitute the rebuilt body.
package extract

import "regexp"

var (
	reFuncStart = regexp.MustCompile(`(?ms)^\s*?([^#\s]\w+)\s+(\w+)\s*\(([^;]*?)\)\s*\{`)
	reStruct    = regexp.MustCompile(`(?ms)^\s*?struct\s+(\w+)\s*\{(.*?)\};`)
	reArgNL     = regexp.MustCompile(`\r?\n`)
)

// Entry is one extracted function or struct body.
type Entry struct {
	// Name is the full signature used as the namespace key, e.g.
	// "void main()" or "struct VertexOutput".
	Name     string
	IsStruct bool
	Code     string
}

// Result is the outcome of extracting functions/structs from one shader
// permutation.
type Result struct {
	// Code is the permutation's code with every extracted body replaced by
	// a FormatMarker(name) placeholder line.
	Code string
	// Order lists extracted names in the order they were first encountered,
	// so callers can rebuild deterministic namespace iteration order.
	Order []string
	// Entries maps a name to its extracted body. A name can repeat across
	// separate calls to Extract (once per permutation); callers accumulate
	// them into a per-namespace encode.Table.
	Entries map[string]Entry
}

// FormatMarker returns the placeholder substituted into the surrounding code
// at the point a function or struct was extracted from.
func FormatMarker(name string) string {
	return "START_NAME|||" + name + "|||END_NAME"
}

// Extract finds every top-level function and struct in code, replacing each
// with a marker line and returning their bodies keyed by signature.
//
// Function bodies are located with brace balancing rather than a single
// regular expression, since GLSL bodies can nest braces arbitrarily deeply;
// struct bodies are matched by a regular expression up to the first "};".
// If a function's braces never balance (a malformed or truncated
// permutation), extraction stops at that point: the offending text and
// everything after it is left untouched in Code rather than the whole
// operation failing. This mirrors the decompiler's policy of never
// hard-failing on a single malformed function — it just stops extracting.
func Extract(code string) Result {
	res := Result{Entries: map[string]Entry{}}

	remaining := code
	var out string
	for {
		loc := reFuncStart.FindStringSubmatchIndex(remaining)
		if loc == nil {
			break
		}

		groups := submatches(remaining, loc)
		returnType, funcName, args := groups[0], groups[1], groups[2]
		args = reArgNL.ReplaceAllString(args, "")
		sig := returnType + " " + funcName + "(" + args + ")"

		bodyStart := loc[1] // end of the opening "{"
		balance := 1
		end := -1
		for i := bodyStart; i < len(remaining); i++ {
			switch remaining[i] {
			case '{':
				balance++
			case '}':
				balance--
			}
			if balance == 0 {
				end = i
				break
			}
		}
		if balance != 0 {
			// Unbalanced braces: stop extracting, keep the remainder as-is.
			break
		}

		out += remaining[:loc[0]]
		out += FormatMarker(sig) + "\n"

		body := remaining[bodyStart:end]
		res.addEntry(sig, body, false)

		remaining = remaining[end+1:]
	}
	out += remaining
	res.Code = out

	res.Code = res.extractStructs(res.Code)

	return res
}

func (r *Result) extractStructs(code string) string {
	for {
		loc := reStruct.FindStringSubmatchIndex(code)
		if loc == nil {
			break
		}
		groups := submatches(code, loc)
		name, body := groups[0], groups[1]
		sig := "struct " + name

		whole := code[loc[0]:loc[1]]
		r.addEntry(sig, body, true)

		code = code[:loc[0]] + FormatMarker(sig) + "\n" + code[loc[1]:]
		_ = whole
	}
	return code
}

func (r *Result) addEntry(name, code string, isStruct bool) {
	if _, ok := r.Entries[name]; !ok {
		r.Order = append(r.Order, name)
	}
	r.Entries[name] = Entry{Name: name, IsStruct: isStruct, Code: code}
}

func submatches(s string, loc []int) []string {
	n := len(loc)/2 - 1
	out := make([]string, n)
	for i := 0; i < n; i++ {
		start, end := loc[2+2*i], loc[3+2*i]
		if start < 0 {
			continue
		}
		out[i] = s[start:end]
	}
	return out
}
