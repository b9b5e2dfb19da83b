// Package treeparse is a generic backtracking query algebra over tree-shaped
// contexts. A parser inspects the current context and either produces a value
// or fails; failure is a pure boolean outcome with no diagnostics and no side
// effects, so enclosing alternatives can absorb it silently.
//
// The combinators are deliberately small: selection of sub-contexts is an
// ordinary function, sequencing is ordinary Go code, and choice is ordered
// and short-circuiting. The context type is free to change between a parser
// and its sub-parsers, which is how the declaration grammar descends from
// forests into nodes and from nodes into identifier tables with one
// vocabulary.
package treeparse

// Parser inspects a context of type C and either yields an A or fails.
type Parser[C, A any] func(C) (A, bool)

// Selector lists the sub-contexts a combinator should try. The sub-context
// type D need not equal C; a selector is also the context switch.
type Selector[C, D any] func(C) []D

// Fail is the parser that never matches.
func Fail[C, A any]() Parser[C, A] {
	return func(C) (A, bool) {
		var zero A
		return zero, false
	}
}

// Pure succeeds with a fixed value without inspecting the context.
func Pure[C, A any](v A) Parser[C, A] {
	return func(C) (A, bool) { return v, true }
}

// Check succeeds, with no value, iff pred holds on the current context.
func Check[C any](pred func(C) bool) Parser[C, struct{}] {
	return func(c C) (struct{}, bool) {
		return struct{}{}, pred(c)
	}
}

// All runs sub on every selected sub-context and collects every result.
// It fails if sub fails on any of them; with no sub-contexts it succeeds
// with an empty slice.
func All[C, D, A any](sel Selector[C, D], sub Parser[D, A]) Parser[C, []A] {
	return func(c C) ([]A, bool) {
		ds := sel(c)
		out := make([]A, 0, len(ds))
		for _, d := range ds {
			v, ok := sub(d)
			if !ok {
				return nil, false
			}
			out = append(out, v)
		}
		return out, true
	}
}

// Many runs sub on every selected sub-context, silently omitting the ones
// where sub fails. Many itself never fails.
func Many[C, D, A any](sel Selector[C, D], sub Parser[D, A]) Parser[C, []A] {
	return func(c C) ([]A, bool) {
		var out []A
		for _, d := range sel(c) {
			if v, ok := sub(d); ok {
				out = append(out, v)
			}
		}
		return out, true
	}
}

// Some is Many restricted to non-empty results: it fails when no sub-context
// matches.
func Some[C, D, A any](sel Selector[C, D], sub Parser[D, A]) Parser[C, []A] {
	return func(c C) ([]A, bool) {
		out, _ := Many(sel, sub)(c)
		if len(out) == 0 {
			return nil, false
		}
		return out, true
	}
}

// Any tries the selected sub-contexts in order and returns the first result
// for which sub succeeds. The choice is committed: once a sub-context
// matches, later ones are never consulted.
func Any[C, D, A any](sel Selector[C, D], sub Parser[D, A]) Parser[C, A] {
	return func(c C) (A, bool) {
		for _, d := range sel(c) {
			if v, ok := sub(d); ok {
				return v, true
			}
		}
		var zero A
		return zero, false
	}
}

// One requires sub to succeed on exactly one selected sub-context and
// returns that result. Zero matches fail; so do two or more.
func One[C, D, A any](sel Selector[C, D], sub Parser[D, A]) Parser[C, A] {
	return func(c C) (A, bool) {
		var (
			result A
			found  bool
		)
		for _, d := range sel(c) {
			v, ok := sub(d)
			if !ok {
				continue
			}
			if found {
				var zero A
				return zero, false
			}
			result, found = v, true
		}
		return result, found
	}
}

// Within replaces the entire parsing context for the scope of sub. conv may
// itself fail, in which case so does Within.
func Within[C, D, A any](conv func(C) (D, bool), sub Parser[D, A]) Parser[C, A] {
	return func(c C) (A, bool) {
		d, ok := conv(c)
		if !ok {
			var zero A
			return zero, false
		}
		return sub(d)
	}
}

// Choice tries the given parsers against the same context in order and
// returns the first success.
func Choice[C, A any](parsers ...Parser[C, A]) Parser[C, A] {
	return func(c C) (A, bool) {
		for _, p := range parsers {
			if v, ok := p(c); ok {
				return v, true
			}
		}
		var zero A
		return zero, false
	}
}

// Map applies f to a parser's result.
func Map[C, A, B any](p Parser[C, A], f func(A) B) Parser[C, B] {
	return func(c C) (B, bool) {
		v, ok := p(c)
		if !ok {
			var zero B
			return zero, false
		}
		return f(v), true
	}
}
