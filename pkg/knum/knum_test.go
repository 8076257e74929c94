package knum_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kernelgo/pkg/kerror"
	"kernelgo/pkg/knum"
	"kernelgo/pkg/pairs"
	"kernelgo/pkg/value"
)

func fx(n int32) *value.Value { return value.NewFixint(n) }

func TestAddSumsAcyclicOperands(t *testing.T) {
	result, err := knum.Add(value.List3(fx(1), fx(2), fx(3)))
	require.NoError(t, err)
	assert.Equal(t, int32(6), result.Int)
}

func TestAddOnEmptyReturnsIdentity(t *testing.T) {
	result, err := knum.Add(value.Nil)
	require.NoError(t, err)
	assert.Equal(t, int32(0), result.Int)
}

func TestMulOnEmptyReturnsIdentity(t *testing.T) {
	result, err := knum.Mul(value.Nil)
	require.NoError(t, err)
	assert.Equal(t, int32(1), result.Int)
}

func TestMulProducts(t *testing.T) {
	result, err := knum.Mul(value.List3(fx(2), fx(3), fx(4)))
	require.NoError(t, err)
	assert.Equal(t, int32(24), result.Int)
}

func TestAddPropagatesInfinities(t *testing.T) {
	result, err := knum.Add(value.List2(fx(1), value.PosInf))
	require.NoError(t, err)
	assert.True(t, value.Eq(result, value.PosInf))
}

func TestAddMixedInfinitiesHasNoPrimaryValue(t *testing.T) {
	_, err := knum.Add(value.List2(value.PosInf, value.NegInf))
	require.Error(t, err)
	ke, ok := kerror.As(err)
	require.True(t, ok)
	assert.Equal(t, kerror.KindNoPrimaryValue, ke.Kind)
	assert.True(t, ke.CanContinue)
}

func makeCycleOfInts(prefix []int32, cycle []int32) *value.Value {
	var head, tail *value.Value
	for _, n := range prefix {
		p := value.NewPair(fx(n), value.Nil)
		if head == nil {
			head = p
		} else {
			tail.Cdr = p
		}
		tail = p
	}
	var cHead, cTail *value.Value
	for _, n := range cycle {
		p := value.NewPair(fx(n), value.Nil)
		if cHead == nil {
			cHead = p
		} else {
			cTail.Cdr = p
		}
		cTail = p
	}
	cTail.Cdr = cHead
	if tail == nil {
		return cHead
	}
	tail.Cdr = cHead
	return head
}

func TestAddCyclicWithIdentityCycleHasPrimaryValue(t *testing.T) {
	// prefix sums to 3; cycle is a single 0, which is +'s identity.
	ls := makeCycleOfInts([]int32{1, 2}, []int32{0})
	result, err := knum.Add(ls)
	require.NoError(t, err)
	assert.Equal(t, int32(3), result.Int)
}

func TestAddCyclicWithNonIdentityCycleHasNoPrimaryValue(t *testing.T) {
	ls := makeCycleOfInts([]int32{1, 2}, []int32{1})
	_, err := knum.Add(ls)
	require.Error(t, err)
	ke, ok := kerror.As(err)
	require.True(t, ok)
	assert.Equal(t, kerror.KindNoPrimaryValue, ke.Kind)
}

func TestMulCyclicWithIdentityCycleHasPrimaryValue(t *testing.T) {
	// cycle of [1, 1] multiplies to 1, *'s identity.
	ls := makeCycleOfInts([]int32{2, 3}, []int32{1, 1})
	result, err := knum.Mul(ls)
	require.NoError(t, err)
	assert.Equal(t, int32(6), result.Int)
}

func TestNegate(t *testing.T) {
	result, err := knum.Negate(fx(5))
	require.NoError(t, err)
	assert.Equal(t, int32(-5), result.Int)

	result, err = knum.Negate(value.PosInf)
	require.NoError(t, err)
	assert.True(t, value.Eq(result, value.NegInf))
}

func TestSubUnaryNegates(t *testing.T) {
	result, err := knum.Sub(value.List1(fx(5)))
	require.NoError(t, err)
	assert.Equal(t, int32(-5), result.Int)
}

func TestSubVariadicSubtractsSumOfRest(t *testing.T) {
	result, err := knum.Sub(value.List3(fx(10), fx(2), fx(3)))
	require.NoError(t, err)
	assert.Equal(t, int32(5), result.Int)
}

func TestCompareChainHolds(t *testing.T) {
	ok, err := knum.Compare("<?", value.List3(fx(1), fx(2), fx(3)), func(a, b int64) bool { return a < b })
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCompareChainFails(t *testing.T) {
	ok, err := knum.Compare("<?", value.List3(fx(1), fx(3), fx(2)), func(a, b int64) bool { return a < b })
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCompareSingleElementIsVacuouslyTrue(t *testing.T) {
	ok, err := knum.Compare("<?", value.List1(fx(1)), func(a, b int64) bool { return a < b })
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMinMax(t *testing.T) {
	operands := value.List3(fx(3), fx(1), fx(2))
	min, err := knum.MinMax("min", operands, false)
	require.NoError(t, err)
	assert.Equal(t, int32(1), min.Int)

	max, err := knum.MinMax("max", operands, true)
	require.NoError(t, err)
	assert.Equal(t, int32(3), max.Int)
}

func TestMinMaxToleratesCyclicOperands(t *testing.T) {
	ls := makeCycleOfInts([]int32{5}, []int32{1, 9})
	min, err := knum.MinMax("min", ls, false)
	require.NoError(t, err)
	assert.Equal(t, int32(1), min.Int)
}

func TestDivModEuclidean(t *testing.T) {
	q, r, err := knum.DivMod(7, 2, false)
	require.NoError(t, err)
	assert.Equal(t, int32(3), q)
	assert.Equal(t, int32(1), r)

	q, r, err = knum.DivMod(-7, 2, false)
	require.NoError(t, err)
	assert.Equal(t, int32(-4), q)
	assert.Equal(t, int32(1), r)
}

func TestDivModZeroCentered(t *testing.T) {
	q, r, err := knum.DivMod(7, 2, true)
	require.NoError(t, err)
	assert.Equal(t, int32(4), q)
	assert.Equal(t, int32(-1), r)
}

func TestDivModByZeroFails(t *testing.T) {
	_, _, err := knum.DivMod(1, 0, false)
	require.Error(t, err)
	ke, ok := kerror.As(err)
	require.True(t, ok)
	assert.Equal(t, kerror.KindArith, ke.Kind)
}

func TestGcdAndLcm(t *testing.T) {
	assert.Equal(t, int32(6), knum.Gcd(54, 24))
	assert.Equal(t, int32(36), knum.Lcm(12, 18))
	assert.Equal(t, int32(0), knum.Lcm(0, 5))
}

func TestGcdListNoArgumentsIsPositiveInfinity(t *testing.T) {
	result, err := knum.GcdList(value.Nil)
	require.NoError(t, err)
	assert.True(t, value.Eq(result, value.PosInf))
}

func TestGcdListAllZeroHasNoPrimaryValue(t *testing.T) {
	_, err := knum.GcdList(value.List3(fx(0), fx(0), fx(0)))
	require.Error(t, err)
	ke, ok := kerror.As(err)
	require.True(t, ok)
	assert.Equal(t, kerror.KindNoPrimaryValue, ke.Kind)
	assert.True(t, ke.CanContinue)
}

func TestGcdListIgnoresInfinitiesAmongFiniteArgs(t *testing.T) {
	result, err := knum.GcdList(value.List2(fx(54), value.PosInf))
	require.NoError(t, err)
	assert.Equal(t, int32(54), result.Int)
}

func TestLcmListNoArgumentsIsOne(t *testing.T) {
	result, err := knum.LcmList(value.Nil)
	require.NoError(t, err)
	assert.Equal(t, int32(1), result.Int)
}

func TestLcmListZeroArgumentHasNoPrimaryValue(t *testing.T) {
	_, err := knum.LcmList(value.List2(fx(3), fx(0)))
	require.Error(t, err)
	ke, ok := kerror.As(err)
	require.True(t, ok)
	assert.Equal(t, kerror.KindNoPrimaryValue, ke.Kind)
}

func TestLcmListInfinityForcesPositiveInfinity(t *testing.T) {
	result, err := knum.LcmList(value.List2(fx(3), value.PosInf))
	require.NoError(t, err)
	assert.True(t, value.Eq(result, value.PosInf))
}

func TestLcmListComputesOverMultipleArguments(t *testing.T) {
	result, err := knum.LcmList(value.List3(fx(4), fx(6), fx(8)))
	require.NoError(t, err)
	assert.Equal(t, int32(24), result.Int)
}

func TestMetricsSanityUsedByKnumAlgorithms(t *testing.T) {
	// sumLike/Compare/MinMax all depend on pairs.Metrics; confirm the
	// acyclic/cyclic boundary they rely on directly.
	info := pairs.Metrics(value.List2(fx(1), fx(2)))
	assert.Equal(t, 2, info.PrefixLen)
	assert.Equal(t, 0, info.CycleLen)
}
