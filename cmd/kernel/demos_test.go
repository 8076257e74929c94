package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArithmeticDemo(t *testing.T) {
	result, err := demos["arithmetic"].Run()
	require.NoError(t, err)
	assert.Equal(t, "6", result.String())
}

func TestLetFibDemo(t *testing.T) {
	result, err := demos["let-fib"].Run()
	require.NoError(t, err)
	assert.Equal(t, "120", result.String())
}

func TestCallCCEscapeDemo(t *testing.T) {
	result, err := demos["call-cc-escape"].Run()
	require.NoError(t, err)
	assert.Equal(t, "42", result.String())
}

func TestDemoNamesMatchRegisteredDemos(t *testing.T) {
	for _, name := range demoNames() {
		_, ok := demos[name]
		assert.True(t, ok, "demoNames entry %q must have a registered scenario", name)
	}
}
