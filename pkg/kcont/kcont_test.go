package kcont_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kernelgo/pkg/kcont"
	"kernelgo/pkg/kerror"
	"kernelgo/pkg/value"
)

func TestRootContinuationEndsTrampoline(t *testing.T) {
	root := kcont.NewRoot()
	require.True(t, kcont.IsRoot(root))

	step := kcont.Apply(root, value.NewFixint(42))
	require.True(t, step.Done)
	assert.Equal(t, int32(42), step.Val.Int)
}

func TestExtendedContinuationIsNotRoot(t *testing.T) {
	root := kcont.NewRoot()
	child := kcont.Extend(root, value.Nil, func(v *value.Value) value.Step {
		return value.StepDone(v)
	})
	assert.False(t, kcont.IsRoot(child))
}

func TestApplyOnNonContinuationFails(t *testing.T) {
	step := kcont.Apply(value.NewFixint(1), value.Inert)
	require.NotNil(t, step.Err)
	ke, ok := kerror.As(step.Err)
	require.True(t, ok)
	assert.Equal(t, kerror.KindType, ke.Kind)
}

func TestApplyDelegatesToParentThroughResumeChain(t *testing.T) {
	root := kcont.NewRoot()
	doubled := kcont.Extend(root, value.Nil, func(v *value.Value) value.Step {
		return kcont.Apply(root, value.NewFixint(v.Int*2))
	})
	step := kcont.Apply(doubled, value.NewFixint(21))
	require.True(t, step.Done)
	assert.Equal(t, int32(42), step.Val.Int)
}

func TestIsAncestorFindsParentInChain(t *testing.T) {
	root := kcont.NewRoot()
	mid := kcont.Extend(root, value.Nil, func(v *value.Value) value.Step { return value.StepDone(v) })
	leaf := kcont.Extend(mid, value.Nil, func(v *value.Value) value.Step { return value.StepDone(v) })

	assert.True(t, kcont.IsAncestor(root, leaf))
	assert.True(t, kcont.IsAncestor(mid, leaf))
	assert.True(t, kcont.IsAncestor(leaf, leaf), "a continuation is its own ancestor")
}

func TestIsAncestorFalseWhenUnrelated(t *testing.T) {
	root := kcont.NewRoot()
	branchA := kcont.Extend(root, value.Nil, func(v *value.Value) value.Step { return value.StepDone(v) })
	branchB := kcont.Extend(root, value.Nil, func(v *value.Value) value.Step { return value.StepDone(v) })

	assert.False(t, kcont.IsAncestor(branchA, branchB))
}

func TestIsAncestorClearsMarksAfterQuery(t *testing.T) {
	root := kcont.NewRoot()
	leaf := kcont.Extend(root, value.Nil, func(v *value.Value) value.Step { return value.StepDone(v) })

	require.True(t, kcont.IsAncestor(root, leaf))
	// Calling it again must still work correctly, proving the first
	// call cleaned up every mark it set rather than leaking state.
	assert.True(t, kcont.IsAncestor(root, leaf))
	assert.False(t, kcont.IsAncestor(leaf, root))
}
