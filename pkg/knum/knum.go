// Package knum implements the numeric tower: 30-bit
// signed fixints plus the two exact infinities, with the cycle
// discipline +, -, * and the comparison predicates need when handed a
// cyclic operand list, and the four integer-division flavors (div,
// mod, div0, mod0).
//
// Grounded on original_source/src/kgnumbers.c (kplus/ktimes/kminus's
// two-phase acyclic/cyclic accumulation, div_mod's shared zerop-
// centered helper, gcd2/kgcd/klcm).
package knum

import (
	"math"

	"kernelgo/pkg/kerror"
	"kernelgo/pkg/pairs"
	"kernelgo/pkg/value"
)

func rankOf(who string, v *value.Value) (int64, error) {
	switch {
	case value.IsFixint(v):
		return int64(v.Int), nil
	case value.Eq(v, value.PosInf):
		return math.MaxInt64, nil
	case value.Eq(v, value.NegInf):
		return math.MinInt64, nil
	default:
		return 0, kerror.New(kerror.KindType, "%s: expected a number", who)
	}
}

func toValue(rank int64) *value.Value {
	switch rank {
	case math.MaxInt64:
		return value.PosInf
	case math.MinInt64:
		return value.NegInf
	default:
		// overflow beyond FixintMin/FixintMax is left undefined here,
		// matching klisp's fixints.
		return value.NewFixint(int32(rank))
	}
}

// sumLike implements the shared two-phase accumulation + and * use: an
// acyclic prefix accumulated directly, and — only when the operand
// list is cyclic — one revolution of the cycle checked against the
// operation's identity element. A cyclic operand list has a primary
// value only when repeating its cycle infinitely can't change the
// running total, i.e. the cycle's own contribution collapses back to
// identity (0 for +, 1 for *) and introduces no new infinity.
func sumLike(who string, operands *value.Value, identity int64, step func(acc, x int64) int64) (*value.Value, error) {
	info := pairs.Metrics(operands)

	accFinite := identity
	var posInf, negInf bool
	cur := operands
	for i := 0; i < info.PrefixLen; i++ {
		if err := accumulate(who, cur.Car, step, &accFinite, &posInf, &negInf); err != nil {
			return nil, err
		}
		cur = cur.Cdr
	}

	if info.CycleLen == 0 {
		return combineFinal(who, accFinite, posInf, negInf)
	}

	cycleAcc := identity
	var cyclePosInf, cycleNegInf bool
	for i := 0; i < info.CycleLen; i++ {
		if err := accumulate(who, cur.Car, step, &cycleAcc, &cyclePosInf, &cycleNegInf); err != nil {
			return nil, err
		}
		cur = cur.Cdr
	}
	if cyclePosInf || cycleNegInf || cycleAcc != identity {
		return nil, kerror.New(kerror.KindNoPrimaryValue, "%s: cyclic argument list has no primary value", who).Continuable()
	}
	return combineFinal(who, accFinite, posInf, negInf)
}

func accumulate(who string, v *value.Value, step func(acc, x int64) int64, acc *int64, posInf, negInf *bool) error {
	switch {
	case value.IsFixint(v):
		*acc = step(*acc, int64(v.Int))
	case value.Eq(v, value.PosInf):
		*posInf = true
	case value.Eq(v, value.NegInf):
		*negInf = true
	default:
		return kerror.New(kerror.KindType, "%s: expected a number", who)
	}
	return nil
}

func combineFinal(who string, accFinite int64, posInf, negInf bool) (*value.Value, error) {
	if posInf && negInf {
		return nil, kerror.New(kerror.KindNoPrimaryValue, "%s: +infinity and -infinity have no primary value", who).Continuable()
	}
	if posInf {
		return value.PosInf, nil
	}
	if negInf {
		return value.NegInf, nil
	}
	return value.NewFixint(int32(accFinite)), nil
}

// Add implements Kernel's variadic +.
func Add(operands *value.Value) (*value.Value, error) {
	return sumLike("+", operands, 0, func(acc, x int64) int64 { return acc + x })
}

// Mul implements Kernel's variadic *.
func Mul(operands *value.Value) (*value.Value, error) {
	return sumLike("*", operands, 1, func(acc, x int64) int64 { return acc * x })
}

// Negate computes the additive inverse of a single number.
func Negate(v *value.Value) (*value.Value, error) {
	switch {
	case value.IsFixint(v):
		return value.NewFixint(-v.Int), nil
	case value.Eq(v, value.PosInf):
		return value.NegInf, nil
	case value.Eq(v, value.NegInf):
		return value.PosInf, nil
	default:
		return nil, kerror.New(kerror.KindType, "-: expected a number")
	}
}

// Sub implements Kernel's variadic -: (- z) negates, (- z1 z2 ...)
// subtracts the sum of the rest (itself cycle-aware via Add) from z1.
func Sub(operands *value.Value) (*value.Value, error) {
	if !value.IsPair(operands) {
		return nil, kerror.New(kerror.KindArgument, "-: requires at least one argument")
	}
	first := operands.Car
	if !value.IsNumber(first) {
		return nil, kerror.New(kerror.KindType, "-: expected a number")
	}
	rest := operands.Cdr
	if value.IsNil(rest) {
		return Negate(first)
	}
	restSum, err := Add(rest)
	if err != nil {
		return nil, err
	}
	negRestSum, err := Negate(restSum)
	if err != nil {
		return nil, err
	}
	return Add(value.List2(first, negRestSum))
}

// Compare checks that cmp holds between every consecutive pair of
// operands.Car values, including across a cycle's wraparound (one
// extra step beyond a full revolution), so a relation that holds for
// one lap of a cyclic argument list is known to hold forever.
func Compare(who string, operands *value.Value, cmp func(a, b int64) bool) (bool, error) {
	if !value.IsPair(operands) || value.IsNil(operands.Cdr) {
		return true, nil
	}
	info := pairs.Metrics(operands)
	total := info.PrefixLen - 1
	if info.CycleLen > 0 {
		total = info.PrefixLen + info.CycleLen
	}

	cur := operands
	prev, err := rankOf(who, cur.Car)
	if err != nil {
		return false, err
	}
	cur = cur.Cdr
	for i := 1; i <= total; i++ {
		next, err := rankOf(who, cur.Car)
		if err != nil {
			return false, err
		}
		if !cmp(prev, next) {
			return false, nil
		}
		prev = next
		cur = cur.Cdr
	}
	return true, nil
}

// MinMax returns the least (max=false) or greatest (max=true) of
// operands, tolerating a cyclic operand list (repeats can't change the
// extremum, unlike Add/Mul).
func MinMax(who string, operands *value.Value, max bool) (*value.Value, error) {
	if !value.IsPair(operands) {
		return nil, kerror.New(kerror.KindArgument, "%s: requires at least one argument", who)
	}
	info := pairs.Metrics(operands)
	total := info.PrefixLen
	if info.CycleLen > 0 {
		total += info.CycleLen
	}
	cur := operands
	var best int64
	have := false
	for i := 0; i < total; i++ {
		rank, err := rankOf(who, cur.Car)
		if err != nil {
			return nil, err
		}
		if !have || (max && rank > best) || (!max && rank < best) {
			best, have = rank, true
		}
		cur = cur.Cdr
	}
	return toValue(best), nil
}

func abs32(x int32) int32 {
	if x < 0 {
		return -x
	}
	return x
}

// DivMod implements div/mod (zeroCentered=false, Euclidean: 0 <= mod <
// |b|) and div0/mod0 (zeroCentered=true: -|b|/2 <= mod0 < |b|/2), the
// two families sharing klisp's div_mod helper.
func DivMod(a, b int32, zeroCentered bool) (q, r int32, err error) {
	if b == 0 {
		return 0, 0, kerror.New(kerror.KindArith, "div/mod: division by zero")
	}
	q64 := int64(a) / int64(b)
	r64 := int64(a) % int64(b)
	if r64 < 0 {
		if b > 0 {
			q64--
			r64 += int64(b)
		} else {
			q64++
			r64 -= int64(b)
		}
	}
	if zeroCentered {
		half := int64(abs32(b))
		if 2*r64 >= half && half != 0 {
			if b > 0 {
				q64++
				r64 -= int64(b)
			} else {
				q64--
				r64 += int64(b)
			}
		}
	}
	return int32(q64), int32(r64), nil
}

// Gcd computes the non-negative greatest common divisor via Euclid's
// algorithm (gcd2 in kgnumbers.c). Unlike the variadic GcdList, the
// pairwise gcd2 treats a zero argument as the identity (gcd(a,0)=a),
// matching kgnumbers.c's comment that this differs from the general
// Kernel gcd.
func Gcd(a, b int32) int32 {
	a, b = abs32(a), abs32(b)
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// Lcm computes the non-negative least common multiple; lcm with 0 is 0.
func Lcm(a, b int32) int32 {
	if a == 0 || b == 0 {
		return 0
	}
	g := Gcd(a, b)
	return abs32(a / g * b)
}

// GcdList implements the variadic Kernel `gcd`, cycle-aware per
// check_typed_list's "cyclic lists only need one lap" discipline.
// Grounded on kgnumbers.c's kgcd: a fixint zero sets seen_zero; a
// finite non-zero fixint accumulates via gcd2; an exact infinity
// affects neither flag. The result is the accumulated finite gcd if
// any finite non-zero argument was seen; otherwise, if a zero was
// seen, the result has no primary value; otherwise (no arguments, or
// only infinities) the result is +infinity.
func GcdList(operands *value.Value) (*value.Value, error) {
	n, err := pairs.CheckTypedList("gcd", "number", operands, value.IsNumber)
	if err != nil {
		return nil, err
	}
	var seenZero, seenFiniteNonZero bool
	var finiteGcd int32
	cur := operands
	for i := 0; i < n; i++ {
		first := cur.Car
		switch {
		case value.IsFixint(first) && first.Int == 0:
			seenZero = true
		case value.IsFixint(first):
			seenFiniteNonZero = true
			finiteGcd = Gcd(finiteGcd, first.Int)
		}
		cur = cur.Cdr
	}
	switch {
	case seenFiniteNonZero:
		return value.NewFixint(finiteGcd), nil
	case seenZero:
		return nil, kerror.New(kerror.KindNoPrimaryValue, "gcd: result has no primary value").Continuable()
	default:
		return value.PosInf, nil
	}
}

// LcmList implements the variadic Kernel `lcm`. Grounded on
// kgnumbers.c's klcm: an exact infinity forces the overall result to
// +infinity but the scan continues (a zero anywhere still throws); a
// zero argument always has no primary value, even after an infinity
// was already seen; otherwise a second pass folds the pairwise Lcm over
// the arguments, following klcm's two-pass accumulation.
func LcmList(operands *value.Value) (*value.Value, error) {
	n, err := pairs.CheckTypedList("lcm", "number", operands, value.IsNumber)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return value.NewFixint(1), nil
	}
	seenInfinite := false
	cur := operands
	for i := 0; i < n; i++ {
		first := cur.Car
		switch {
		case value.IsEinf(first):
			seenInfinite = true
		case first.Int == 0:
			return nil, kerror.New(kerror.KindNoPrimaryValue, "lcm: result has no primary value").Continuable()
		}
		cur = cur.Cdr
	}
	if seenInfinite {
		return value.PosInf, nil
	}
	lcm := int32(1)
	cur = operands
	for i := 0; i < n; i++ {
		lcm = Lcm(lcm, cur.Car.Int)
		cur = cur.Cdr
	}
	return value.NewFixint(lcm), nil
}
