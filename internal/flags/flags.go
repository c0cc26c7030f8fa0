// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package flags builds, per diff namespace, the Flag-Definition (every flag
// name observed and the distinct values it took) and the All-Flags List
// (every distinct flag assignment observed), then applies the bias the
// expression search relies on to prefer the "positive" form of a flag.
package flags

import (
	"sort"

	"github.com/gogpu/lazurite/internal/diff"
	"github.com/gogpu/lazurite/internal/model"
)

// Definition holds, for one namespace, every flag name observed and the
// ordered list of distinct values it took.
//
// Flag names are kept in sorted order rather than first-seen order. The
// original Python implementation relies on dict insertion order, which
// reflects the order flags were listed in the input material; Go maps make
// no such guarantee, so names are sorted instead. This is a deliberate,
// documented substitute for an ordering property that was incidental to the
// source material's layout, not a guarantee the specification depends on.
type Definition struct {
	names  []string
	values map[string][]string
}

// BuildDefinition scans every group's appearance set and collects, for each
// flag name, the ordered set of distinct values it was seen taking.
func BuildDefinition(groups []*diff.Group) *Definition {
	values := map[string][]string{}
	for _, g := range groups {
		for _, fa := range g.Condition {
			for name, val := range fa {
				if !containsString(values[name], val) {
					values[name] = append(values[name], val)
				}
			}
		}
	}

	names := make([]string, 0, len(values))
	for n := range values {
		names = append(names, n)
	}
	sort.Strings(names)

	return &Definition{names: names, values: values}
}

// Names returns the flag names in this definition, in canonical order.
func (d *Definition) Names() []string {
	return d.names
}

// Values returns the distinct values observed for name, in bias order.
func (d *Definition) Values(name string) []string {
	return d.values[name]
}

// Len returns the number of flag names remaining in the definition.
func (d *Definition) Len() int {
	return len(d.names)
}

// FilterAndBias drops flags that only ever took a single value (they can
// never distinguish a line group, so they would only add noise to the
// search space) and reorders each remaining flag's values so that the
// "positive" form — On/Enabled — is tried first and the "negative" form —
// Off/Disabled — is tried last. This biases the expression search toward
// expressing a condition in its enabling form rather than its disabling
// form when both are equally valid, without ever inverting the flag's
// actual semantics.
func (d *Definition) FilterAndBias() {
	kept := make([]string, 0, len(d.names))
	for _, name := range d.names {
		vals := d.values[name]
		if len(vals) <= 1 {
			delete(d.values, name)
			continue
		}
		d.values[name] = biasOrder(vals)
		kept = append(kept, name)
	}
	d.names = kept
}

func biasOrder(vals []string) []string {
	for _, v := range []string{"Off", "Disabled"} {
		vals = moveToEnd(vals, v)
	}
	for _, v := range []string{"On", "Enabled"} {
		vals = moveToFront(vals, v)
	}
	return vals
}

func moveToEnd(vals []string, target string) []string {
	idx := indexOfString(vals, target)
	if idx < 0 {
		return vals
	}
	out := make([]string, 0, len(vals))
	out = append(out, vals[:idx]...)
	out = append(out, vals[idx+1:]...)
	return append(out, target)
}

func moveToFront(vals []string, target string) []string {
	idx := indexOfString(vals, target)
	if idx < 0 {
		return vals
	}
	rest := make([]string, 0, len(vals)-1)
	rest = append(rest, vals[:idx]...)
	rest = append(rest, vals[idx+1:]...)
	return append([]string{target}, rest...)
}

func containsString(vals []string, v string) bool {
	return indexOfString(vals, v) >= 0
}

func indexOfString(vals []string, v string) int {
	for i, x := range vals {
		if x == v {
			return i
		}
	}
	return -1
}

// AllFlags is the ordered, deduplicated list of every distinct flag
// assignment observed across a namespace's line groups.
type AllFlags []model.FlagAssignment

// BuildAllFlags collects every distinct flag assignment appearing in
// groups, in first-seen order.
func BuildAllFlags(groups []*diff.Group) AllFlags {
	var all AllFlags
	for _, g := range groups {
		for _, fa := range g.Condition {
			if !all.contains(fa) {
				all = append(all, fa)
			}
		}
	}
	return all
}

func (a AllFlags) contains(fa model.FlagAssignment) bool {
	for _, x := range a {
		if x.Equal(fa) {
			return true
		}
	}
	return false
}
