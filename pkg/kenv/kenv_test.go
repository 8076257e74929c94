package kenv_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kernelgo/pkg/kenv"
	"kernelgo/pkg/kerror"
	"kernelgo/pkg/value"
)

func TestAddAndLookupLocalBinding(t *testing.T) {
	env := kenv.Make(value.Nil)
	require.NoError(t, kenv.AddBinding(env, "x", value.NewFixint(42)))

	v, err := kenv.Lookup(env, "x")
	require.NoError(t, err)
	assert.Equal(t, int32(42), v.Int)
}

func TestLookupUnboundReturnsError(t *testing.T) {
	env := kenv.Make(value.Nil)
	_, err := kenv.Lookup(env, "nope")
	require.Error(t, err)
	ke, ok := kerror.As(err)
	require.True(t, ok)
	assert.Equal(t, kerror.KindUnboundVariable, ke.Kind)
	assert.True(t, ke.CanContinue, "unbound-symbol must be continuable per the report")
}

func TestLookupSearchesParentsLeftToRight(t *testing.T) {
	parent1 := kenv.Make(value.Nil)
	require.NoError(t, kenv.AddBinding(parent1, "x", value.NewFixint(1)))
	parent2 := kenv.Make(value.Nil)
	require.NoError(t, kenv.AddBinding(parent2, "x", value.NewFixint(2)))

	child := kenv.Make(value.List2(parent1, parent2))
	v, err := kenv.Lookup(child, "x")
	require.NoError(t, err)
	assert.Equal(t, int32(1), v.Int, "left parent must win over right parent")
}

func TestLookupLocalShadowsParent(t *testing.T) {
	parent := kenv.Make(value.Nil)
	require.NoError(t, kenv.AddBinding(parent, "x", value.NewFixint(1)))
	child := kenv.Make(parent)
	require.NoError(t, kenv.AddBinding(child, "x", value.NewFixint(99)))

	v, err := kenv.Lookup(child, "x")
	require.NoError(t, err)
	assert.Equal(t, int32(99), v.Int)
}

func TestLookupToleratesDiamondParentGraph(t *testing.T) {
	top := kenv.Make(value.Nil)
	require.NoError(t, kenv.AddBinding(top, "x", value.NewFixint(7)))
	left := kenv.Make(top)
	right := kenv.Make(top)
	child := kenv.Make(value.List2(left, right))

	v, err := kenv.Lookup(child, "x")
	require.NoError(t, err)
	assert.Equal(t, int32(7), v.Int)
}

func TestAddBindingOnImmutableEnvironmentFails(t *testing.T) {
	env := kenv.Make(value.Nil)
	env.SetMutable(false)
	err := kenv.AddBinding(env, "x", value.NewFixint(1))
	require.Error(t, err)
	ke, ok := kerror.As(err)
	require.True(t, ok)
	assert.Equal(t, kerror.KindImmutable, ke.Kind)
}

func TestMakeTableBackedEnvironmentBehavesLikeAlist(t *testing.T) {
	env := kenv.MakeTable(value.Nil)
	require.NoError(t, kenv.AddBinding(env, "x", value.NewFixint(5)))
	v, err := kenv.Lookup(env, "x")
	require.NoError(t, err)
	assert.Equal(t, int32(5), v.Int)
}

func TestKeyedVariableChain(t *testing.T) {
	key := value.NewSymbol("dynamic-key")
	root := kenv.MakeKeyedStatic(nil, key, value.NewFixint(1))
	child := kenv.MakeKeyedStatic(root, key, value.NewFixint(2))

	v, err := kenv.GetKeyedVar(child, key)
	require.NoError(t, err)
	assert.Equal(t, int32(2), v.Int, "nearest keyed frame wins")

	otherKey := value.NewSymbol("other")
	_, err = kenv.GetKeyedVar(child, otherKey)
	require.Error(t, err)
	ke, ok := kerror.As(err)
	require.True(t, ok)
	assert.Equal(t, kerror.KindUnboundKeyed, ke.Kind)
	assert.True(t, ke.CanContinue)
}

func TestFlattenKeyedChainOrdersFromNearest(t *testing.T) {
	key := value.NewSymbol("k")
	root := kenv.MakeKeyedStatic(nil, key, value.NewFixint(1))
	mid := kenv.MakeKeyedStatic(root, key, value.NewFixint(2))
	leaf := kenv.MakeKeyedStatic(mid, key, value.NewFixint(3))

	chain := kenv.FlattenKeyedChain(leaf)
	require.Len(t, chain, 3)
	assert.True(t, value.Eq(chain[0], leaf))
	assert.True(t, value.Eq(chain[2], root))
}
