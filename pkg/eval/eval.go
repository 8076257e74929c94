// Package eval implements the trampolined evaluator: tail_eval and
// apply_cc as functions that return a value.Step describing what to do
// next. Symbol lookups, self-evaluating values and applicative calls
// hand their next action back to a single driver loop (Run) as a
// bounce instead of calling it, so the Go call stack does not grow
// with Kernel call depth; Run bounces until the computation is Done.
//
// Built around a trampolined Eval with explicit continuation plumbing
// for call/cc, generalized to klisp's tail_eval/apply_cc pair described
// in original_source/src/keval.h and kstate.h.
package eval

import (
	"kernelgo/pkg/combiner"
	"kernelgo/pkg/kcont"
	"kernelgo/pkg/kenv"
	"kernelgo/pkg/kerror"
	"kernelgo/pkg/pairs"
	"kernelgo/pkg/value"
)

// Run drives a Step to completion.
func Run(s value.Step) (*value.Value, error) {
	for !s.Done {
		if s.Err != nil {
			return nil, s.Err
		}
		s = s.Next()
	}
	return s.Val, s.Err
}

// Eval evaluates expr in env under a fresh root continuation and runs
// the trampoline to completion.
func Eval(expr, env *value.Value) (*value.Value, error) {
	return Run(TailEval(expr, env, kcont.NewRoot()))
}

// TailEval evaluates expr in env, delivering the result to cc. Calling
// TailEval is itself a tail call for whatever invoked it: a symbol's or
// a self-evaluating value's result goes to cc through a bounce, and a
// combination continues with a tail call on its operator, never a
// nested blocking evaluation.
func TailEval(expr, env, cc *value.Value) value.Step {
	switch {
	case value.IsSymbol(expr):
		v, err := kenv.Lookup(env, expr.Sym)
		if err != nil {
			return value.StepFail(err)
		}
		return value.StepBounce(func() value.Step { return kcont.Apply(cc, v) })
	case value.IsPair(expr):
		opExpr, opsExpr := expr.Car, expr.Cdr
		combineCont := kcont.Extend(cc, env, func(opVal *value.Value) value.Step {
			return Combine(opVal, opsExpr, env, cc)
		})
		return TailEval(opExpr, env, combineCont)
	default:
		// Self-evaluating: fixints, infinities, booleans, inert,
		// ignore, nil, strings, characters, environments, combiners,
		// continuations and ports all evaluate to themselves.
		return value.StepBounce(func() value.Step { return kcont.Apply(cc, expr) })
	}
}

// Combine applies comb to the operand tree opsExpr, evaluated in env,
// delivering the result to cc: an operative receives opsExpr exactly
// as written, an applicative evaluates every element first, and a
// continuation applied directly evaluates its arguments and then
// performs a non-local transfer of control to that continuation
// instead of returning to cc at all.
func Combine(comb, opsExpr, env, cc *value.Value) value.Step {
	switch {
	case value.IsOperative(comb):
		return invokeOperative(comb, opsExpr, env, cc)
	case value.IsApplicative(comb):
		if err := pairs.CheckProperList("combine", opsExpr); err != nil {
			return value.StepFail(err)
		}
		argCont := kcont.Extend(cc, env, func(evaluated *value.Value) value.Step {
			return value.StepBounce(func() value.Step {
				return Combine(comb.Comb.Underlying, evaluated, env, cc)
			})
		})
		return evalList(opsExpr, env, argCont)
	case value.IsContinuation(comb):
		if err := pairs.CheckProperList("combine", opsExpr); err != nil {
			return value.StepFail(err)
		}
		argCont := kcont.Extend(cc, env, func(evaluated *value.Value) value.Step {
			return kcont.Apply(comb, unwrapSingle(evaluated))
		})
		return evalList(opsExpr, env, argCont)
	default:
		return value.StepFail(kerror.New(kerror.KindType, "combine: not a combiner"))
	}
}

// unwrapSingle reduces a one-element result list to its sole element,
// matching the common case of "invoking a continuation with a value"
// rather than "invoking it with a list of values".
func unwrapSingle(results *value.Value) *value.Value {
	if value.IsPair(results) && value.IsNil(results.Cdr) {
		return results.Car
	}
	return results
}

func invokeOperative(comb, opsExpr, denv, cc *value.Value) value.Step {
	cd := comb.Comb
	if cd.IsPrimitive() {
		return cd.Prim(opsExpr, denv, cc)
	}
	callEnv := kenv.Make(value.List1(cd.StaticEnv))
	if err := combiner.MatchPtree(cd.Params, opsExpr, callEnv); err != nil {
		return value.StepFail(err)
	}
	if value.IsSymbol(cd.EnvFormal) {
		if err := kenv.AddBinding(callEnv, cd.EnvFormal.Sym, denv); err != nil {
			return value.StepFail(err)
		}
	}
	return EvalSequence(cd.Body, callEnv, cc)
}

// EvalSequence evaluates every element of body in env for effect
// except the last, which is evaluated in tail position with respect
// to cc — the shared tail-call-preserving implementation behind
// $sequence, derived-operative bodies and every $let variant's body.
func EvalSequence(body, env, cc *value.Value) value.Step {
	if value.IsNil(body) {
		return kcont.Apply(cc, value.Inert)
	}
	if !value.IsPair(body) {
		return value.StepFail(kerror.New(kerror.KindType, "$sequence: improper body"))
	}
	if value.IsNil(body.Cdr) {
		return TailEval(body.Car, env, cc)
	}
	discardCont := kcont.Extend(cc, env, func(_ *value.Value) value.Step {
		return EvalSequence(body.Cdr, env, cc)
	})
	return TailEval(body.Car, env, discardCont)
}

// evalList evaluates every element of a proper list in env, left to
// right, and delivers the list of results to cc. Each element's
// evaluation is threaded through its own continuation rather than a
// nested blocking call so an operand expression can be arbitrarily
// deep without consuming Go stack proportional to its nesting.
func evalList(list, env, cc *value.Value) value.Step {
	if value.IsNil(list) {
		return kcont.Apply(cc, value.Nil)
	}
	if !value.IsPair(list) {
		return value.StepFail(kerror.New(kerror.KindStructure, "combine: improper operand list"))
	}
	headCont := kcont.Extend(cc, env, func(headVal *value.Value) value.Step {
		tailCont := kcont.Extend(cc, env, func(tailVal *value.Value) value.Step {
			return kcont.Apply(cc, value.NewPair(headVal, tailVal))
		})
		return evalList(list.Cdr, env, tailCont)
	})
	return TailEval(list.Car, env, headCont)
}
