package eval

import (
	"kernelgo/pkg/combiner"
	"kernelgo/pkg/kcont"
	"kernelgo/pkg/kenv"
	"kernelgo/pkg/kerror"
	"kernelgo/pkg/value"
)

// letOptions parameterizes the single doLet continuation that backs
// every member of the $let family, following original_source/src/
// kgenvironments.c's do_let, which is one function parameterized by
// xparams rather than five near-identical copies.
type letOptions struct {
	sequential bool // $let*, $letrec*: each init sees previous bindings
	recursive  bool // $letrec, $letrec*: every name pre-bound to #inert
}

// doLet processes bindings one at a time: each binding's init
// expression is evaluated (in baseEnv normally, or in newEnv itself
// when opts.sequential or opts.recursive is set, so an init sees the
// bindings made before it), its value is destructured against the
// binding's formal into newEnv, and once bindings is exhausted body is
// evaluated in newEnv in tail position with respect to cc.
func doLet(bindings, body, baseEnv, newEnv, denv, cc *value.Value, opts letOptions) value.Step {
	if value.IsNil(bindings) {
		return EvalSequence(body, newEnv, cc)
	}
	if !value.IsPair(bindings) || !value.IsPair(bindings.Car) {
		return value.StepFail(kerror.New(kerror.KindArgument, "$let: malformed bindings"))
	}
	binding := bindings.Car
	formal := binding.Car
	initExpr := value.Inert
	if value.IsPair(binding.Cdr) {
		initExpr = binding.Cdr.Car
	}
	evalEnv := baseEnv
	if opts.sequential || opts.recursive {
		evalEnv = newEnv
	}
	cont := kcont.Extend(cc, denv, func(v *value.Value) value.Step {
		if err := combiner.MatchPtree(formal, v, newEnv); err != nil {
			return value.StepFail(err)
		}
		return doLet(bindings.Cdr, body, baseEnv, newEnv, denv, cc, opts)
	})
	return TailEval(initExpr, evalEnv, cont)
}

func collectSymbols(ptree *value.Value, out *[]string) {
	switch {
	case value.IsSymbol(ptree):
		*out = append(*out, ptree.Sym)
	case value.IsPair(ptree):
		collectSymbols(ptree.Car, out)
		collectSymbols(ptree.Cdr, out)
	}
}

func preBindInert(bindings, env *value.Value) error {
	for cur := bindings; value.IsPair(cur); cur = cur.Cdr {
		binding := cur.Car
		if !value.IsPair(binding) {
			return kerror.New(kerror.KindArgument, "$letrec: malformed bindings")
		}
		var names []string
		collectSymbols(binding.Car, &names)
		for _, n := range names {
			if err := kenv.AddBinding(env, n, value.Inert); err != nil {
				return err
			}
		}
	}
	return nil
}

func makeLetOperative(name string, opts letOptions) *value.Value {
	return value.NewOperative(name, func(operands, denv, cc *value.Value) value.Step {
		if !value.IsPair(operands) {
			return value.StepFail(kerror.New(kerror.KindArgument, "%s: expected (bindings . body)", name))
		}
		bindings, body := operands.Car, operands.Cdr
		newEnv := kenv.Make(value.List1(denv))
		if opts.recursive {
			if err := preBindInert(bindings, newEnv); err != nil {
				return value.StepFail(err)
			}
		}
		return doLet(bindings, body, denv, newEnv, denv, cc, opts)
	}, nil)
}

// LetOperative, LetStarOperative, LetrecOperative and
// LetrecStarOperative implement the four core members of the $let
// family.
var (
	LetOperative       = makeLetOperative("$let", letOptions{})
	LetStarOperative   = makeLetOperative("$let*", letOptions{sequential: true})
	LetrecOperative    = makeLetOperative("$letrec", letOptions{recursive: true})
	LetrecStarOperative = makeLetOperative("$letrec*", letOptions{sequential: true, recursive: true})
)

// LetRedirectOperative implements $let-redirect: (env-expr bindings .
// body) behaves like $let except that the new environment holding the
// bindings has the environment env-expr evaluates to as its parent,
// not denv; every binding's init expression is still evaluated in denv.
var LetRedirectOperative = value.NewOperative("$let-redirect", func(operands, denv, cc *value.Value) value.Step {
	if !value.IsPair(operands) || !value.IsPair(operands.Cdr) {
		return value.StepFail(kerror.New(kerror.KindArgument, "$let-redirect: expected (env-expr bindings . body)"))
	}
	envExpr, bindings, body := operands.Car, operands.Cdr.Car, operands.Cdr.Cdr
	envCont := kcont.Extend(cc, denv, func(redirectEnv *value.Value) value.Step {
		if !value.IsEnvironment(redirectEnv) {
			return value.StepFail(kerror.New(kerror.KindType, "$let-redirect: not an environment"))
		}
		newEnv := kenv.Make(value.List1(redirectEnv))
		return doLet(bindings, body, denv, newEnv, denv, cc, letOptions{})
	})
	return TailEval(envExpr, denv, envCont)
}, nil)

// LetSafeOperative implements $let-safe: (bindings . body) behaves
// like $let but newEnv's only parent is the empty-environment marker
// rather than denv, so the body can observe nothing but the bindings
// themselves — no accidental capture of whatever denv happens to be at
// the call site.
var LetSafeOperative = value.NewOperative("$let-safe", func(operands, denv, cc *value.Value) value.Step {
	if !value.IsPair(operands) {
		return value.StepFail(kerror.New(kerror.KindArgument, "$let-safe: expected (bindings . body)"))
	}
	bindings, body := operands.Car, operands.Cdr
	newEnv := kenv.Make(value.EmptyEnv)
	return doLet(bindings, body, denv, newEnv, denv, cc, letOptions{})
}, nil)
