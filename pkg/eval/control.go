package eval

import (
	"kernelgo/pkg/combiner"
	"kernelgo/pkg/kcont"
	"kernelgo/pkg/kenv"
	"kernelgo/pkg/kerror"
	"kernelgo/pkg/value"
)

// callCCInner receives its single, already-evaluated proc argument
// (call/cc is an applicative) and combines it with a one-element
// argument list holding the current continuation itself — reifying
// "the current continuation" as an ordinary first-class value.
var callCCInner = value.NewOperative("call/cc", func(operands, denv, cc *value.Value) value.Step {
	if !value.IsPair(operands) || !value.IsNil(operands.Cdr) {
		return value.StepFail(kerror.New(kerror.KindArgument, "call/cc: expected one combiner"))
	}
	proc := operands.Car
	return Combine(proc, value.List1(cc), denv, cc)
}, nil)

// CallCC is call/cc wrapped as an applicative (the form Kernel code
// actually invokes it as), exposed here as the Go-level equivalent of
// what a ground environment would bind the symbol call/cc to — this
// module carries no ground-environment registration table (out of
// scope), so callers wire CallCC into whatever environment they build.
var CallCC = combiner.Wrap(callCCInner)

// RemoteEvalOperative implements $remote-eval: (expr env-expr)
// evaluates env-expr in denv to get a target environment, then
// evaluates expr in that environment, in tail position with respect
// to cc.
var RemoteEvalOperative = value.NewOperative("$remote-eval", func(operands, denv, cc *value.Value) value.Step {
	if !value.IsPair(operands) || !value.IsPair(operands.Cdr) || !value.IsNil(operands.Cdr.Cdr) {
		return value.StepFail(kerror.New(kerror.KindArgument, "$remote-eval: expected (expr env-expr)"))
	}
	expr, envExpr := operands.Car, operands.Cdr.Car
	envCont := kcont.Extend(cc, denv, func(target *value.Value) value.Step {
		if !value.IsEnvironment(target) {
			return value.StepFail(kerror.New(kerror.KindType, "$remote-eval: not an environment"))
		}
		return TailEval(expr, target, cc)
	})
	return TailEval(envExpr, denv, envCont)
}, nil)

// BindingsToEnvironmentOperative implements $bindings->environment: a
// parenthesized list of (formal init) bindings, evaluated exactly like
// $let's bindings clause, but the result is the fresh environment
// itself rather than a body's value.
var BindingsToEnvironmentOperative = value.NewOperative("$bindings->environment", func(operands, denv, cc *value.Value) value.Step {
	newEnv := kenv.Make(value.Nil)
	return bindOnly(operands, denv, newEnv, denv, cc)
}, nil)

func bindOnly(bindings, baseEnv, newEnv, denv, cc *value.Value) value.Step {
	if value.IsNil(bindings) {
		return kcont.Apply(cc, newEnv)
	}
	if !value.IsPair(bindings) || !value.IsPair(bindings.Car) {
		return value.StepFail(kerror.New(kerror.KindArgument, "$bindings->environment: malformed bindings"))
	}
	binding := bindings.Car
	formal := binding.Car
	initExpr := value.Inert
	if value.IsPair(binding.Cdr) {
		initExpr = binding.Cdr.Car
	}
	cont := kcont.Extend(cc, denv, func(v *value.Value) value.Step {
		if err := combiner.MatchPtree(formal, v, newEnv); err != nil {
			return value.StepFail(err)
		}
		return bindOnly(bindings.Cdr, baseEnv, newEnv, denv, cc)
	})
	return TailEval(initExpr, baseEnv, cont)
}

// IsAncestorOperative implements a direct probe of continuation
// ancestry (applicative: both operands already evaluated), used by
// guard/dynamic-wind-style constructs layered on top of this core to
// decide whether invoking one continuation passes through another.
var IsAncestorOperative = combiner.Wrap(value.NewOperative("continuation->ancestor?", func(operands, denv, cc *value.Value) value.Step {
	if !value.IsPair(operands) || !value.IsPair(operands.Cdr) || !value.IsNil(operands.Cdr.Cdr) {
		return value.StepFail(kerror.New(kerror.KindArgument, "continuation->ancestor?: expected two continuations"))
	}
	result := kcont.IsAncestor(operands.Car, operands.Cdr.Car)
	return kcont.Apply(cc, value.Bool(result))
}, nil))
