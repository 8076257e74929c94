package eval

import (
	"kernelgo/pkg/combiner"
	"kernelgo/pkg/kcont"
	"kernelgo/pkg/kenv"
	"kernelgo/pkg/kerror"
	"kernelgo/pkg/knum"
	"kernelgo/pkg/value"
)

// The values below are a handful of primitive applicatives used by the
// demo CLI and by this package's own tests to build runnable Kernel
// ASTs directly in Go, since the reader is out of scope and there is
// no ground-environment registration table (also out of scope) to
// look names like "+" up in. A real embedder wires
// these (and many more) into whatever environment it constructs;
// nothing here installs a binding on its own.

func wrapPrim(name string, fn func(operands *value.Value) (*value.Value, error)) *value.Value {
	return combiner.Wrap(value.NewOperative(name, func(operands, _denv, cc *value.Value) value.Step {
		result, err := fn(operands)
		if err != nil {
			return value.StepFail(err)
		}
		return kcont.Apply(cc, result)
	}, nil))
}

var (
	Plus  = wrapPrim("+", knum.Add)
	Minus = wrapPrim("-", knum.Sub)
	Times = wrapPrim("*", knum.Mul)

	Cons = wrapPrim("cons", func(operands *value.Value) (*value.Value, error) {
		if !value.IsPair(operands) || !value.IsPair(operands.Cdr) || !value.IsNil(operands.Cdr.Cdr) {
			return nil, kerror.New(kerror.KindArgument, "cons: expected two arguments")
		}
		return value.NewPair(operands.Car, operands.Cdr.Car), nil
	})

	Car = wrapPrim("car", func(operands *value.Value) (*value.Value, error) {
		if !value.IsPair(operands) || !value.IsNil(operands.Cdr) || !value.IsPair(operands.Car) {
			return nil, kerror.New(kerror.KindType, "car: expected one pair")
		}
		return operands.Car.Car, nil
	})

	Cdr = wrapPrim("cdr", func(operands *value.Value) (*value.Value, error) {
		if !value.IsPair(operands) || !value.IsNil(operands.Cdr) || !value.IsPair(operands.Car) {
			return nil, kerror.New(kerror.KindType, "cdr: expected one pair")
		}
		return operands.Car.Cdr, nil
	})

	EqP = wrapPrim("eq?", func(operands *value.Value) (*value.Value, error) {
		if !value.IsPair(operands) || !value.IsPair(operands.Cdr) || !value.IsNil(operands.Cdr.Cdr) {
			return nil, kerror.New(kerror.KindArgument, "eq?: expected two arguments")
		}
		return value.Bool(value.Eq(operands.Car, operands.Cdr.Car)), nil
	})

	LessP = wrapPrim("<?", func(operands *value.Value) (*value.Value, error) {
		ok, err := knum.Compare("<?", operands, func(a, b int64) bool { return a < b })
		if err != nil {
			return nil, err
		}
		return value.Bool(ok), nil
	})

	// Wrap and Unwrap expose the combiner protocol's own wrap/unwrap
	// pair as applicatives, so Kernel code (rather than
	// only Go code) can turn an operative into an argument-evaluating
	// applicative and back.
	Wrap = wrapPrim("wrap", func(operands *value.Value) (*value.Value, error) {
		if !value.IsPair(operands) || !value.IsNil(operands.Cdr) {
			return nil, kerror.New(kerror.KindArgument, "wrap: expected one combiner")
		}
		if !value.IsCombiner(operands.Car) {
			return nil, kerror.New(kerror.KindType, "wrap: expected a combiner")
		}
		return combiner.Wrap(operands.Car), nil
	})

	Unwrap = wrapPrim("unwrap", func(operands *value.Value) (*value.Value, error) {
		if !value.IsPair(operands) || !value.IsNil(operands.Cdr) {
			return nil, kerror.New(kerror.KindArgument, "unwrap: expected one applicative")
		}
		return combiner.Unwrap(operands.Car)
	})

	GcdOp = wrapPrim("gcd", knum.GcdList)
	LcmOp = wrapPrim("lcm", knum.LcmList)

	// GetKeyedStaticVar gives keyed dynamic variables (pkg/kenv's keyed
	// chain, built by kenv.MakeKeyedStatic) a Kernel-visible accessor: a
	// miss surfaces as unbound-keyed through the ordinary kerror path
	// instead of only being observable from Go.
	GetKeyedStaticVar = wrapPrim("get-keyed-static-variable", func(operands *value.Value) (*value.Value, error) {
		if !value.IsPair(operands) || !value.IsPair(operands.Cdr) || !value.IsNil(operands.Cdr.Cdr) {
			return nil, kerror.New(kerror.KindArgument, "get-keyed-static-variable: expected (environment key)")
		}
		env, key := operands.Car, operands.Cdr.Car
		if !value.IsEnvironment(env) {
			return nil, kerror.New(kerror.KindType, "get-keyed-static-variable: not an environment")
		}
		return kenv.GetKeyedVar(env, key)
	})
)
