// Package decompiler restores BGFX/RenderDragon macro shader source from a
// set of concrete compiled variants.
//
// Given the same shader compiled many times under different combinations of
// preprocessor flags, the core builds one combined source that reproduces
// every variant under its own `#if`/`#ifdef` guard, the way the original
// macro-flavoured source looked before it was expanded and compiled once per
// flag combination. The pipeline is: normalise each variant's text, extract
// top-level functions and structs into their own namespaces, intern lines
// into a shared line table, fold variants together with a deterministic
// line diff, group consecutive lines that share an identical condition,
// search for a boolean expression over the flags that reproduces each
// group's condition, simplify and format that expression as a directive,
// then reassemble everything — including splicing extracted functions and
// structs back into their markers.
//
// Example usage:
//
//	variants := []decompiler.Variant{
//		{Flags: decompiler.FlagAssignment{"MODE": "A"}, Code: "x = 1;\n"},
//		{Flags: decompiler.FlagAssignment{"MODE": "B"}, Code: "x = 2;\n"},
//	}
//	macros, source, err := decompiler.Restore(variants, decompiler.DefaultOptions())
package decompiler

import (
	"fmt"
	"strings"
	"time"

	"github.com/gogpu/lazurite/internal/assemble"
	"github.com/gogpu/lazurite/internal/boolexpr"
	"github.com/gogpu/lazurite/internal/diff"
	"github.com/gogpu/lazurite/internal/encode"
	"github.com/gogpu/lazurite/internal/extract"
	"github.com/gogpu/lazurite/internal/flags"
	"github.com/gogpu/lazurite/internal/lines"
	"github.com/gogpu/lazurite/internal/model"
	"github.com/gogpu/lazurite/internal/normalize"
	"github.com/gogpu/lazurite/internal/search"
)

// Variant is one concrete (flags, source) pair the decompiler reconstructs
// macro source from.
type Variant = model.Variant

// FlagAssignment is the set of macro flag values a single variant was
// compiled with.
type FlagAssignment = model.FlagAssignment

// mainNamespace is the namespace key for a variant's top-level code, after
// its functions and structs have been extracted into their own namespaces.
const mainNamespace = "MAIN"

// Observer receives diagnostic events during expression search. A nil
// Observer is always safe to use — the core never requires one and never
// logs to a global sink (see spec §7).
type Observer interface {
	// SlowSearch is called once per distinct search input (line groups
	// needing the same condition share one) for which the fast greedy
	// search did not reach a perfect score, just before the bounded
	// brute-force search begins.
	SlowSearch()
	// NotFound is called once per distinct search input for which neither
	// search reached a perfect score, after both have run.
	NotFound()
}

// Options configures one decompilation run.
type Options struct {
	// StripComments removes // and /* */ comments before extraction.
	StripComments bool
	// Preprocess converts GLSL-dialect source into BGFX-SC form before
	// extraction (see internal/normalize).
	Preprocess bool
	// Timeout bounds the brute-force slow search per line group. Zero
	// means the slow search never runs a single iteration beyond the
	// first candidate — callers that need saturation should set this to
	// a value large enough for their inputs to converge (see spec §9's
	// "determinism under timeout" note).
	Timeout time.Duration
	// Observer optionally receives search diagnostics. May be nil.
	Observer Observer
}

// DefaultOptions returns sensible defaults: comments stripped, no dialect
// preprocessing, and a one-second slow-search timeout per line group.
func DefaultOptions() Options {
	return Options{
		StripComments: true,
		Timeout:       time.Second,
	}
}

// Postprocess applies the optional §4.11 post-processing pass to already
// assembled combined_source: merging consecutive $input/$output
// declarations and flagging lines whose rewritten form may need a human's
// attention. It is not run automatically by Restore, since a caller
// restoring a varying.def.sc wants a different postprocessing table than
// one restoring a shader body (see the varying package).
func Postprocess(code string) string {
	return normalize.Postprocess(code)
}

// Restore reconstructs combined macro source from a set of compiled
// variants, returning the union of every macro identifier referenced by an
// emitted directive.
//
// An empty variants slice is not an error: it returns an empty macro set
// and empty source, per spec §7's NoVariants policy.
func Restore(variants []Variant, opts Options) (usedMacros map[string]struct{}, combinedSource string, err error) {
	usedMacros = map[string]struct{}{}
	if len(variants) == 0 {
		return usedMacros, "", nil
	}

	mainTable := encode.NewTable()
	nsTables := map[string]*encode.Table{}
	nsOrder := []string{}
	nsIsStruct := map[string]bool{}

	for _, v := range variants {
		code := v.Code
		if opts.StripComments {
			code = normalize.StripComments(code)
		}
		if opts.Preprocess {
			code = normalize.Preprocess(code)
		}

		res := extract.Extract(code)
		mainTable.Insert(encode.Permutation{Code: res.Code, Flags: v.Flags})

		for _, name := range res.Order {
			entry := res.Entries[name]
			tbl, ok := nsTables[name]
			if !ok {
				tbl = encode.NewTable()
				nsTables[name] = tbl
				nsOrder = append(nsOrder, name)
				nsIsStruct[name] = entry.IsStruct
			}
			tbl.Insert(encode.Permutation{Code: entry.Code, Flags: v.Flags})
		}
	}

	lt := lines.NewTable()

	type namespace struct {
		name   string
		groups []*diff.Group
	}

	buildNamespace := func(name string, tbl *encode.Table, inputs *[]search.Input) namespace {
		uniques := tbl.Encode(lt)
		seq, conditions := diff.Fold(uniques)
		groups := diff.GroupLines(seq, conditions)

		def := flags.BuildDefinition(groups)
		def.FilterAndBias()
		all := flags.BuildAllFlags(groups)

		search.BuildInputs(groups, all, def, inputs)

		return namespace{name: name, groups: groups}
	}

	var inputs []search.Input
	main := buildNamespace(mainNamespace, mainTable, &inputs)

	namespaces := make([]namespace, 0, len(nsOrder))
	for _, name := range nsOrder {
		namespaces = append(namespaces, buildNamespace(name, nsTables[name], &inputs))
	}

	hooks := search.Hooks{}
	if opts.Observer != nil {
		hooks.OnSlowSearch = opts.Observer.SlowSearch
		hooks.OnNotFound = opts.Observer.NotFound
	}
	outputs := search.Run(inputs, opts.Timeout, hooks)

	cache := map[string]boolexpr.DNF{}
	render := func(groups []*diff.Group) []assemble.Group {
		out := make([]assemble.Group, 0, len(groups))
		for _, g := range groups {
			lns := make([]string, len(g.Lines))
			for i, id := range g.Lines {
				lns[i] = lt.Text(id)
			}

			directive := ""
			if g.SearchIndex >= 0 {
				in := inputs[g.SearchIndex]
				searchOut := outputs[g.SearchIndex]

				dnf := simplifyCached(cache, searchOut.Tokens)
				dstr, atoms := boolexpr.FormatDirective(dnf)
				for _, a := range atoms {
					usedMacros[a] = struct{}{}
				}

				if searchOut.Score < len(in.Outcomes) {
					dstr = fmt.Sprintf("// Approximation, matches %d cases out of %d\n%s",
						searchOut.Score, len(in.Outcomes), dstr)
				}
				directive = dstr
			}

			out = append(out, assemble.Group{Lines: lns, Directive: directive})
		}
		return out
	}

	mainGroups := render(main.groups)

	functions := make([]assemble.Function, 0, len(namespaces))
	for _, ns := range namespaces {
		functions = append(functions, assemble.Function{
			Name:     ns.name,
			IsStruct: nsIsStruct[ns.name],
			Groups:   render(ns.groups),
		})
	}

	combinedSource = assemble.Shader(mainGroups, functions, extract.FormatMarker)
	return usedMacros, combinedSource, nil
}

// atomName implements the macro identifier contract of spec §6: the flag
// name "pass" uses the pass-name macro form, names prefixed "f_" use the
// flag-name macro form with the prefix stripped, and every other flag name
// falls back to definition_name(name + value). Boolean-valued flag
// inversion (the original's commented-out is_bool path) is deliberately not
// implemented — see DESIGN.md.
func atomName(flagName, flagValue string) string {
	switch {
	case flagName == "pass":
		return boolexpr.PassNameMacro(flagValue)
	case strings.HasPrefix(flagName, "f_"):
		return boolexpr.FlagNameMacro(strings.TrimPrefix(flagName, "f_"), flagValue)
	default:
		return boolexpr.DefinitionName(flagName + flagValue)
	}
}

func joinOf(j search.Join) boolexpr.Join {
	switch j {
	case search.JoinAnd:
		return boolexpr.JoinAnd
	case search.JoinOr:
		return boolexpr.JoinOr
	default:
		return boolexpr.JoinInitial
	}
}

func tokenKey(tokens []search.Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		fmt.Fprintf(&sb, "%d|%t|%s|%s;", t.Join, t.Negate, t.FlagName, t.FlagValue)
	}
	return sb.String()
}

// simplifyCached simplifies tokens into a DNF, reusing a prior result for
// the identical pre-simplification token list, per spec §4.9's caching
// requirement.
func simplifyCached(cache map[string]boolexpr.DNF, tokens []search.Token) boolexpr.DNF {
	key := tokenKey(tokens)
	if dnf, ok := cache[key]; ok {
		return dnf
	}

	terms := make([]boolexpr.FoldTerm, len(tokens))
	for i, t := range tokens {
		terms[i] = boolexpr.FoldTerm{
			Join:   joinOf(t.Join),
			Atom:   atomName(t.FlagName, t.FlagValue),
			Negate: t.Negate,
		}
	}

	dnf := boolexpr.Simplify(terms)
	cache[key] = dnf
	return dnf
}
