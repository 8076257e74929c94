package main

import (
	"kernelgo/pkg/eval"
	"kernelgo/pkg/kenv"
	"kernelgo/pkg/value"
)

// scenario is one runnable demonstration: a thunk that builds an AST
// and environment and evaluates it through pkg/eval.
type scenario struct {
	describe string
	Run      func() (*value.Value, error)
}

// baseEnv builds a small starter environment binding the handful of
// primitive applicatives pkg/eval exposes, plus the special forms this
// module implements. This is the demo's own scratch environment, not
// a ground-environment registration table: there is no attempt here to
// reproduce Kernel's full standard library.
func baseEnv() *value.Value {
	env := kenv.Make(value.Nil)
	bindings := map[string]*value.Value{
		"+":                       eval.Plus,
		"-":                       eval.Minus,
		"*":                       eval.Times,
		"cons":                    eval.Cons,
		"car":                     eval.Car,
		"cdr":                     eval.Cdr,
		"eq?":                     eval.EqP,
		"<?":                      eval.LessP,
		"wrap":                    eval.Wrap,
		"unwrap":                  eval.Unwrap,
		"call/cc":                 eval.CallCC,
		"$if":                     eval.IfOperative,
		"$sequence":               eval.SequenceOperative,
		"$vau":                    eval.VauOperative,
		"$define!":                eval.DefineOperative,
		"$let":                    eval.LetOperative,
		"$let*":                   eval.LetStarOperative,
		"$letrec":                 eval.LetrecOperative,
		"$letrec*":                eval.LetrecStarOperative,
		"$let-redirect":           eval.LetRedirectOperative,
		"$let-safe":               eval.LetSafeOperative,
		"$remote-eval":            eval.RemoteEvalOperative,
		"$bindings->environment":  eval.BindingsToEnvironmentOperative,
		"gcd":                     eval.GcdOp,
		"lcm":                     eval.LcmOp,
	}
	for name, v := range bindings {
		_ = kenv.AddBinding(env, name, v)
	}
	return env
}

func sym(name string) *value.Value { return value.NewSymbol(name) }

func list(items ...*value.Value) *value.Value { return value.SliceToList(items) }

func demoNames() []string {
	return []string{"arithmetic", "let-fib", "call-cc-escape"}
}

var demos = map[string]scenario{
	// (+ 1 2 3) => 6
	"arithmetic": {
		describe: "variadic fixint arithmetic",
		Run: func() (*value.Value, error) {
			env := baseEnv()
			expr := list(sym("+"), value.NewFixint(1), value.NewFixint(2), value.NewFixint(3))
			return eval.Eval(expr, env)
		},
	},

	// ($letrec ((fact (wrap ($vau (n) #ignore
	//                   ($if (eq? n 0) 1 (* n (fact (- n 1))))))))
	//   (fact 5))
	//
	// $lambda itself is out of scope (it would belong to a
	// ground-environment registration table); wrap + $vau is its
	// building block, exercised directly here.
	"let-fib": {
		describe: "$letrec-bound recursive factorial",
		Run: func() (*value.Value, error) {
			env := baseEnv()
			n := sym("n")
			factBody := list(
				sym("$if"),
				list(sym("eq?"), n, value.NewFixint(0)),
				value.NewFixint(1),
				list(sym("*"), n, list(sym("fact"), list(sym("-"), n, value.NewFixint(1)))),
			)
			vauExpr := list(sym("$vau"), list(n), sym("#ignore"), factBody)
			wrappedExpr := list(sym("wrap"), vauExpr)
			letrecExpr := list(
				sym("$letrec"),
				list(list(sym("fact"), wrappedExpr)),
				list(sym("fact"), value.NewFixint(5)),
			)
			return eval.Eval(letrecExpr, env)
		},
	},

	// (call/cc ($vau (k) #ignore ($sequence (k 42) -1)))  => 42,
	// discarding the -1 that would otherwise follow (k 42).
	"call-cc-escape": {
		describe: "non-local exit through a captured continuation",
		Run: func() (*value.Value, error) {
			env := baseEnv()
			k := sym("k")
			escapeBody := list(sym("$sequence"), list(k, value.NewFixint(42)), value.NewFixint(-1))
			vauExpr := list(sym("$vau"), list(k), sym("#ignore"), escapeBody)
			callExpr := list(sym("call/cc"), vauExpr)
			return eval.Eval(callExpr, env)
		},
	},
}
