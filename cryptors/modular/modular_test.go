package modular_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgallie/hill/cryptors/modular"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		x, m, want int
	}{
		{0, 26, 0},
		{25, 26, 25},
		{26, 26, 0},
		{27, 26, 1},
		{-1, 26, 25},
		{-26, 26, 0},
		{-27, 26, 25},
		{-53, 26, 25},
		{97, 26, 19},
		{7, 5, 2},
	}

	for _, tc := range cases {
		assert.Equalf(t, tc.want, modular.Normalize(tc.x, tc.m), "Normalize(%d, %d)", tc.x, tc.m)
	}
}

func TestNormalizeRange(t *testing.T) {
	for x := -200; x <= 200; x++ {
		r := modular.Mod26(x)
		require.GreaterOrEqual(t, r, 0)
		require.Less(t, r, modular.Modulus)
		require.Zero(t, (x-r)%modular.Modulus, "x=%d r=%d", x, r)
	}
}

func TestInverseKnownValues(t *testing.T) {
	inv, ok := modular.Inverse(9, 26)
	require.True(t, ok)
	assert.Equal(t, 3, inv)

	inv, ok = modular.Inverse(3, 26)
	require.True(t, ok)
	assert.Equal(t, 9, inv)

	inv, ok = modular.Inverse(25, 26)
	require.True(t, ok)
	assert.Equal(t, 25, inv)

	_, ok = modular.Inverse(13, 26)
	assert.False(t, ok)

	_, ok = modular.Inverse(0, 26)
	assert.False(t, ok)

	_, ok = modular.Inverse(3, 1)
	assert.False(t, ok)
}

func TestInverseNegativeInput(t *testing.T) {
	// -17 is 9 modulo 26.
	inv, ok := modular.Inverse(-17, 26)
	require.True(t, ok)
	assert.Equal(t, 3, inv)
}

// TestInverseMatchesCoprime checks the exhaustive search against the gcd
// characterization for every residue modulo 26.
func TestInverseMatchesCoprime(t *testing.T) {
	count := 0
	for a := 0; a < modular.Modulus; a++ {
		inv, ok := modular.Inverse(a, modular.Modulus)
		require.Equal(t, modular.Coprime(a, modular.Modulus), ok, "a=%d", a)
		if ok {
			count++
			assert.Equal(t, 1, (a*inv)%modular.Modulus)
		}
	}

	// Euler's totient of 26.
	assert.Equal(t, 12, count)
}

func TestGCD(t *testing.T) {
	assert.Equal(t, 1, modular.GCD(9, 26))
	assert.Equal(t, 13, modular.GCD(-13, 26))
	assert.Equal(t, 26, modular.GCD(0, 26))
	assert.Equal(t, 0, modular.GCD(0, 0))
}
