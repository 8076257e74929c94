package eval

import (
	"kernelgo/pkg/combiner"
	"kernelgo/pkg/kcont"
	"kernelgo/pkg/kerror"
	"kernelgo/pkg/pairs"
	"kernelgo/pkg/value"
)

// IfOperative implements $if: (test then [else]). test must evaluate
// to a boolean; else defaults to #inert. Grounded on
// original_source/src/kgcontrol.h's documented $if signature.
var IfOperative = value.NewOperative("$if", opIf, nil)

func opIf(operands, denv, cc *value.Value) value.Step {
	if !value.IsPair(operands) || !value.IsPair(operands.Cdr) {
		return value.StepFail(kerror.New(kerror.KindArgument, "$if: expected (test then [else])"))
	}
	test, thenExpr, rest := operands.Car, operands.Cdr.Car, operands.Cdr.Cdr

	testCont := kcont.Extend(cc, denv, func(tv *value.Value) value.Step {
		switch {
		case value.IsTrue(tv):
			return TailEval(thenExpr, denv, cc)
		case value.Eq(tv, value.False):
			if value.IsPair(rest) {
				return TailEval(rest.Car, denv, cc)
			}
			return kcont.Apply(cc, value.Inert)
		default:
			return value.StepFail(kerror.New(kerror.KindType, "$if: test must be a boolean"))
		}
	})
	return TailEval(test, denv, testCont)
}

// SequenceOperative implements $sequence: evaluate every operand for
// effect except the last, which is evaluated in tail position.
var SequenceOperative = value.NewOperative("$sequence", func(operands, denv, cc *value.Value) value.Step {
	return EvalSequence(operands, denv, cc)
}, nil)

// VauOperative implements $vau: (ptree eformal . body), evaluated in
// the static environment denv it was invoked in, producing a derived
// operative that closes over denv. The ptree and body are validated
// and copied into immutable structure before the operative is built
// (check_copy_ptree in original_source/src/kgenvironments.c), so a
// caller mutating its own ptree/body list after construction can't
// retroactively change the derived operative's binding behavior.
var VauOperative = value.NewOperative("$vau", func(operands, denv, cc *value.Value) value.Step {
	if !value.IsPair(operands) || !value.IsPair(operands.Cdr) {
		return value.StepFail(kerror.New(kerror.KindArgument, "$vau: expected (ptree eformal . body)"))
	}
	ptree, eformal, body := operands.Car, operands.Cdr.Car, operands.Cdr.Cdr
	if !value.IsSymbol(eformal) && !value.IsIgnore(eformal) {
		return value.StepFail(kerror.New(kerror.KindArgument, "$vau: environment-formal must be a symbol or #ignore"))
	}
	if err := combiner.CheckPtree(ptree); err != nil {
		return value.StepFail(err)
	}
	frozenPtree := pairs.CopyEsImmutable(ptree, false)
	frozenBody := pairs.CopyEsImmutable(body, false)
	op := value.NewDerivedOperative(frozenPtree, eformal, frozenBody, denv)
	return kcont.Apply(cc, op)
}, nil)

// DefineOperative implements $define!: (ptree expr). expr is evaluated
// in denv and its value is destructured against ptree, adding bindings
// to denv.
var DefineOperative = value.NewOperative("$define!", func(operands, denv, cc *value.Value) value.Step {
	if !value.IsPair(operands) || !value.IsPair(operands.Cdr) || !value.IsNil(operands.Cdr.Cdr) {
		return value.StepFail(kerror.New(kerror.KindArgument, "$define!: expected (ptree expr)"))
	}
	ptree, expr := operands.Car, operands.Cdr.Car
	valCont := kcont.Extend(cc, denv, func(v *value.Value) value.Step {
		if err := combiner.MatchPtree(ptree, v, denv); err != nil {
			return value.StepFail(err)
		}
		return kcont.Apply(cc, value.Inert)
	})
	return TailEval(expr, denv, valCont)
}, nil)
