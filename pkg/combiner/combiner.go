// Package combiner implements the operative/applicative distinction:
// wrap/unwrap between the two, and parameter-tree
// (ptree) matching, which is how a combiner's formal parameters get
// bound against its actual operand tree regardless of whether that
// operand tree was ever evaluated.
//
// How a wrapped or unwrapped combiner actually gets invoked is part of
// the evaluator trampoline (pkg/eval), since invoking an applicative
// requires evaluating its operands — which requires the evaluator —
// and this package intentionally stays free of that dependency.
package combiner

import (
	"kernelgo/pkg/kenv"
	"kernelgo/pkg/kerror"
	"kernelgo/pkg/pairs"
	"kernelgo/pkg/value"
)

// Wrap builds an applicative whose underlying combiner is comb.
func Wrap(comb *value.Value) *value.Value {
	return value.NewApplicative(comb)
}

// Unwrap returns v's underlying combiner, or a type-error if v isn't
// an applicative.
func Unwrap(v *value.Value) (*value.Value, error) {
	if !value.IsApplicative(v) {
		return nil, kerror.New(kerror.KindType, "unwrap: not an applicative")
	}
	return v.Comb.Underlying, nil
}

// MatchPtree destructures operands against ptree, adding every bound
// symbol to env. A ptree is built from the same grammar as a Kernel
// list: #ignore discards the corresponding position, a symbol binds
// whatever is there (including a whole sublist), () requires an exact
// match with no leftover operands, a pair recurses into car and cdr,
// and a dotted tail binds the remainder. Anything else is a malformed
// parameter tree.
func MatchPtree(ptree, operands, env *value.Value) error {
	switch {
	case value.IsIgnore(ptree):
		return nil
	case value.IsSymbol(ptree):
		return kenv.AddBinding(env, ptree.Sym, operands)
	case value.IsNil(ptree):
		if !value.IsNil(operands) {
			return kerror.New(kerror.KindMatch, "too many arguments")
		}
		return nil
	case value.IsPair(ptree):
		if !value.IsPair(operands) {
			return kerror.New(kerror.KindMatch, "too few arguments")
		}
		if err := MatchPtree(ptree.Car, operands.Car, env); err != nil {
			return err
		}
		return MatchPtree(ptree.Cdr, operands.Cdr, env)
	default:
		return kerror.New(kerror.KindMatch, "malformed parameter tree")
	}
}

// CheckPtree validates ptree the way $vau must before it closes over it:
// the tree itself must be acyclic and proper-or-dotted (no cycle through
// its cdr spine), and every symbol appearing as a leaf must be distinct,
// since two formals bound to the same name would make one permanently
// unreachable. Grounded on original_source/src/kgenvironments.c's
// check_copy_ptree, which performs this same pass before copying the
// ptree into the derived operative.
func CheckPtree(ptree *value.Value) error {
	info := pairs.Metrics(ptree)
	if info.CycleLen > 0 {
		return kerror.New(kerror.KindStructure, "$vau: cyclic parameter tree")
	}
	seen := map[string]bool{}
	var walk func(t *value.Value) error
	walk = func(t *value.Value) error {
		switch {
		case value.IsIgnore(t), value.IsNil(t):
			return nil
		case value.IsSymbol(t):
			if seen[t.Sym] {
				return kerror.New(kerror.KindMatch, "$vau: duplicate symbol in parameter tree: %s", t.Sym)
			}
			seen[t.Sym] = true
			return nil
		case value.IsPair(t):
			if err := walk(t.Car); err != nil {
				return err
			}
			return walk(t.Cdr)
		default:
			return kerror.New(kerror.KindMatch, "$vau: malformed parameter tree")
		}
	}
	return walk(ptree)
}
