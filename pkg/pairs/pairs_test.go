package pairs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kernelgo/pkg/kerror"
	"kernelgo/pkg/pairs"
	"kernelgo/pkg/value"
)

func TestMetricsOnProperList(t *testing.T) {
	ls := value.List3(value.NewFixint(1), value.NewFixint(2), value.NewFixint(3))
	info := pairs.Metrics(ls)
	assert.Equal(t, 3, info.PrefixLen)
	assert.Equal(t, 0, info.CycleLen)
	assert.True(t, info.Proper)
}

func TestMetricsOnNil(t *testing.T) {
	info := pairs.Metrics(value.Nil)
	assert.Equal(t, 0, info.PrefixLen)
	assert.True(t, info.Proper)
}

func TestMetricsOnImproperList(t *testing.T) {
	ls := value.NewPair(value.NewFixint(1), value.NewFixint(2))
	info := pairs.Metrics(ls)
	assert.Equal(t, 1, info.PrefixLen)
	assert.False(t, info.Proper)
	assert.Equal(t, 0, info.CycleLen)
}

func makeCycle(prefixLen, cycleLen int) *value.Value {
	var head, tail *value.Value
	for i := 0; i < prefixLen; i++ {
		p := value.NewPair(value.NewFixint(int32(i)), value.Nil)
		if head == nil {
			head = p
		} else {
			tail.Cdr = p
		}
		tail = p
	}
	var cycleHead, cycleTail *value.Value
	for i := 0; i < cycleLen; i++ {
		p := value.NewPair(value.NewFixint(int32(100+i)), value.Nil)
		if cycleHead == nil {
			cycleHead = p
		} else {
			cycleTail.Cdr = p
		}
		cycleTail = p
	}
	cycleTail.Cdr = cycleHead
	if tail == nil {
		return cycleHead
	}
	tail.Cdr = cycleHead
	return head
}

func TestMetricsDetectsExactCycleShape(t *testing.T) {
	ls := makeCycle(2, 3)
	info := pairs.Metrics(ls)
	assert.Equal(t, 2, info.PrefixLen)
	assert.Equal(t, 3, info.CycleLen)
}

func TestMetricsDetectsPureCycle(t *testing.T) {
	ls := makeCycle(0, 4)
	info := pairs.Metrics(ls)
	assert.Equal(t, 0, info.PrefixLen)
	assert.Equal(t, 4, info.CycleLen)
}

func TestCheckProperListRejectsCyclicAndImproper(t *testing.T) {
	assert.NoError(t, pairs.CheckProperList("test", value.List2(value.NewFixint(1), value.NewFixint(2))))
	assert.Error(t, pairs.CheckProperList("test", makeCycle(1, 2)))
	assert.Error(t, pairs.CheckProperList("test", value.NewPair(value.NewFixint(1), value.NewFixint(2))))
}

func TestCheckTypedListWalksOneLapOnCycle(t *testing.T) {
	ls := makeCycle(1, 2)
	count, err := pairs.CheckTypedList("test", "fixint", ls, func(v *value.Value) bool { return value.IsFixint(v) })
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestCopyEsImmutablePreservesSharedStructure(t *testing.T) {
	shared := value.List1(value.NewFixint(99))
	original := value.NewPair(shared, value.NewPair(shared, value.Nil))

	copied := pairs.CopyEsImmutable(original, false)
	require.True(t, value.Equal(original, copied))
	assert.False(t, value.Eq(original, copied))
	assert.True(t, value.Eq(copied.Car, copied.Cdr.Car), "sharing must be preserved in the copy")
	assert.False(t, copied.Car.IsMutable())
}

func TestCopyEsImmutablePreservesCycles(t *testing.T) {
	ls := makeCycle(1, 2)
	copied := pairs.CopyEsImmutable(ls, true)
	info := pairs.Metrics(copied)
	assert.Equal(t, 1, info.PrefixLen)
	assert.Equal(t, 2, info.CycleLen)
	assert.True(t, copied.IsMutable())
}

func TestEncycleLinksTailBackIntoCycle(t *testing.T) {
	ls := value.List3(value.NewFixint(1), value.NewFixint(2), value.NewFixint(3))
	err := pairs.Encycle(ls, 1, 2)
	require.NoError(t, err)
	info := pairs.Metrics(ls)
	assert.Equal(t, 1, info.PrefixLen)
	assert.Equal(t, 2, info.CycleLen)
}

func TestEncycleRejectsNegativeIndex(t *testing.T) {
	ls := value.List1(value.NewFixint(1))
	err := pairs.Encycle(ls, -1, 0)
	require.Error(t, err)
	ke, ok := kerror.As(err)
	require.True(t, ok)
	assert.Equal(t, kerror.KindRange, ke.Kind)
}

func TestEncycleRejectsTooFewPairs(t *testing.T) {
	ls := value.List1(value.NewFixint(1))
	err := pairs.Encycle(ls, 1, 5)
	assert.Error(t, err)
}

func TestAppendSplicesProperLists(t *testing.T) {
	a := value.List2(value.NewFixint(1), value.NewFixint(2))
	b := value.List2(value.NewFixint(3), value.NewFixint(4))
	result, err := pairs.Append([]*value.Value{a, b})
	require.NoError(t, err)
	assert.Equal(t, "(1 2 3 4)", result.String())
}

func TestAppendAllowsImproperLastArgument(t *testing.T) {
	a := value.List1(value.NewFixint(1))
	improperTail := value.NewPair(value.NewFixint(2), value.NewFixint(3))
	result, err := pairs.Append([]*value.Value{a, improperTail})
	require.NoError(t, err)
	assert.True(t, value.Equal(result, value.NewPair(value.NewFixint(1), improperTail)))
}

func TestAppendRejectsImproperNonLastArgument(t *testing.T) {
	bad := value.NewPair(value.NewFixint(1), value.NewFixint(2))
	ok := value.List1(value.NewFixint(3))
	_, err := pairs.Append([]*value.Value{bad, ok})
	assert.Error(t, err)
}

func TestAppendOnEmptyReturnsNil(t *testing.T) {
	result, err := pairs.Append(nil)
	require.NoError(t, err)
	assert.True(t, value.IsNil(result))
}

func TestAssqAndMemqp(t *testing.T) {
	keyA := value.NewSymbol("a")
	keyB := value.NewSymbol("b")
	entryA := value.NewPair(keyA, value.NewFixint(1))
	alist := value.List1(entryA)

	assert.True(t, value.Eq(pairs.Assq(keyA, alist), entryA))
	assert.True(t, value.IsNil(pairs.Assq(keyB, alist)))

	assert.True(t, pairs.Memqp(keyA, value.List1(keyA)))
	assert.False(t, pairs.Memqp(keyB, value.List1(keyA)))
}
