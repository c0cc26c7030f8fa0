// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package boolexpr

import "sort"

type triState byte

const (
	bit0 triState = iota
	bit1
	bitDC
)

// implicant is one term in the Quine-McCluskey reduction: a bit pattern
// over the expression's atoms (by position), where bitDC marks a position
// that has been generalized away ("don't care"), plus the set of minterms
// it covers.
type implicant struct {
	bits     []triState
	minterms map[int]bool
}

func newImplicant(minterm, n int) implicant {
	bits := make([]triState, n)
	mt := map[int]bool{minterm: true}
	for i := 0; i < n; i++ {
		if minterm>>i&1 == 1 {
			bits[i] = bit1
		} else {
			bits[i] = bit0
		}
	}
	return implicant{bits: bits, minterms: mt}
}

func (imp implicant) key() string {
	b := make([]byte, len(imp.bits))
	for i, v := range imp.bits {
		switch v {
		case bit0:
			b[i] = '0'
		case bit1:
			b[i] = '1'
		default:
			b[i] = '-'
		}
	}
	return string(b)
}

// combine merges two implicants that differ in exactly one defined bit
// position (and agree everywhere else, including don't-cares), producing a
// more general implicant with that position marked don't-care.
func combine(a, b implicant) (implicant, bool) {
	diff := -1
	for i := range a.bits {
		if a.bits[i] != b.bits[i] {
			if a.bits[i] == bitDC || b.bits[i] == bitDC {
				return implicant{}, false
			}
			if diff != -1 {
				return implicant{}, false
			}
			diff = i
		}
	}
	if diff == -1 {
		return implicant{}, false
	}

	bits := append([]triState{}, a.bits...)
	bits[diff] = bitDC

	mt := make(map[int]bool, len(a.minterms)+len(b.minterms))
	for k := range a.minterms {
		mt[k] = true
	}
	for k := range b.minterms {
		mt[k] = true
	}

	return implicant{bits: bits, minterms: mt}, true
}

// quineMcCluskey reduces a set of minterms (over n boolean atoms) into its
// set of prime implicants.
func quineMcCluskey(minterms []int, n int) []implicant {
	seed := map[string]implicant{}
	for _, m := range minterms {
		imp := newImplicant(m, n)
		seed[imp.key()] = imp
	}

	current := make([]implicant, 0, len(seed))
	for _, imp := range seed {
		current = append(current, imp)
	}
	sort.Slice(current, func(i, j int) bool { return current[i].key() < current[j].key() })

	primes := map[string]implicant{}

	for len(current) > 0 {
		combinedKeys := map[string]bool{}
		next := map[string]implicant{}

		for i := 0; i < len(current); i++ {
			for j := i + 1; j < len(current); j++ {
				merged, ok := combine(current[i], current[j])
				if !ok {
					continue
				}
				combinedKeys[current[i].key()] = true
				combinedKeys[current[j].key()] = true
				next[merged.key()] = merged
			}
		}

		for _, imp := range current {
			if !combinedKeys[imp.key()] {
				primes[imp.key()] = imp
			}
		}

		current = current[:0]
		for _, imp := range next {
			current = append(current, imp)
		}
		sort.Slice(current, func(i, j int) bool { return current[i].key() < current[j].key() })
	}

	out := make([]implicant, 0, len(primes))
	for _, imp := range primes {
		out = append(out, imp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].key() < out[j].key() })
	return out
}

// selectCover picks a deterministic (not necessarily globally minimal) set
// of prime implicants that together cover every minterm: first every
// essential prime implicant (one that is the sole cover of some minterm),
// then a greedy largest-remaining-coverage pass over whatever is left,
// breaking ties by implicant key so the result never depends on map
// iteration order.
func selectCover(primes []implicant, minterms []int) []implicant {
	uncovered := map[int]bool{}
	for _, m := range minterms {
		uncovered[m] = true
	}

	coverers := map[int][]implicant{}
	for _, p := range primes {
		for m := range p.minterms {
			coverers[m] = append(coverers[m], p)
		}
	}

	var selected []implicant
	selectedKeys := map[string]bool{}

	sortedMinterms := append([]int{}, minterms...)
	sort.Ints(sortedMinterms)

	for _, m := range sortedMinterms {
		covers := coverers[m]
		if len(covers) == 1 && !selectedKeys[covers[0].key()] {
			p := covers[0]
			selected = append(selected, p)
			selectedKeys[p.key()] = true
			for mm := range p.minterms {
				delete(uncovered, mm)
			}
		}
	}

	sortedPrimes := append([]implicant{}, primes...)
	sort.Slice(sortedPrimes, func(i, j int) bool { return sortedPrimes[i].key() < sortedPrimes[j].key() })

	for len(uncovered) > 0 {
		bestCount := 0
		bestIdx := -1
		for i, p := range sortedPrimes {
			if selectedKeys[p.key()] {
				continue
			}
			cnt := 0
			for m := range p.minterms {
				if uncovered[m] {
					cnt++
				}
			}
			if cnt > bestCount {
				bestCount = cnt
				bestIdx = i
			}
		}
		if bestIdx < 0 {
			break
		}
		p := sortedPrimes[bestIdx]
		selected = append(selected, p)
		selectedKeys[p.key()] = true
		for mm := range p.minterms {
			delete(uncovered, mm)
		}
	}

	sort.Slice(selected, func(i, j int) bool { return selected[i].key() < selected[j].key() })
	return selected
}
