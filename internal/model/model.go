// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package model holds the small value types shared by every stage of the
// macro decompiler pipeline. They are kept separate from the root decompiler
// package so that internal stages can depend on them without importing the
// package that orchestrates them.
package model

// FlagAssignment is the set of macro flag values a single concrete shader
// variant was compiled with. Two assignments are equal when they contain
// exactly the same name/value pairs, independent of map iteration order.
type FlagAssignment map[string]string

// Equal reports whether f and other contain exactly the same entries.
func (f FlagAssignment) Equal(other FlagAssignment) bool {
	if len(f) != len(other) {
		return false
	}
	for k, v := range f {
		if ov, ok := other[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of f.
func (f FlagAssignment) Clone() FlagAssignment {
	out := make(FlagAssignment, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Variant is one concrete (flags, source) pair handed to the decompiler.
type Variant struct {
	Flags FlagAssignment
	Code  string
}

// AppearanceSet is the ordered, possibly-repeating list of flag assignments
// under which a line of code was observed. It is deliberately not a true
// set: equality and containment are element-wise and order-sensitive,
// because the same flag assignment can legitimately appear more than once
// as variants are folded together.
type AppearanceSet []FlagAssignment

// Equal reports whether a and b contain the same assignments in the same
// order.
func (a AppearanceSet) Equal(b AppearanceSet) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// Contains reports whether fa occurs anywhere in the appearance set.
func (a AppearanceSet) Contains(fa FlagAssignment) bool {
	for _, x := range a {
		if x.Equal(fa) {
			return true
		}
	}
	return false
}

// Clone returns a shallow copy of the appearance set (the FlagAssignment
// elements themselves are shared, which is safe since they are never
// mutated in place after construction).
func (a AppearanceSet) Clone() AppearanceSet {
	out := make(AppearanceSet, len(a))
	copy(out, a)
	return out
}
