package tntsource_test

import (
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgallie/hill/cryptors/key"
	"github.com/bgallie/hill/cryptors/tntsource"
)

func draw(t *testing.T, s *tntsource.Source, count, n int) []int {
	t.Helper()

	out := make([]int, count)
	for i := range out {
		v, err := s.Intn(n)
		require.NoError(t, err)
		out[i] = v
	}

	return out
}

func TestSourceIsReproducible(t *testing.T) {
	a, err := tntsource.New("correct horse battery staple", "", nil)
	require.NoError(t, err)
	defer a.Close()

	b, err := tntsource.New("correct horse battery staple", "", nil)
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, draw(t, a, 64, 26), draw(t, b, 64, 26))
}

func TestSourceAfterOtherPassphrases(t *testing.T) {
	gen := func() []int {
		s, err := tntsource.New("hill keys", "", nil)
		require.NoError(t, err)
		defer s.Close()
		return draw(t, s, 32, 26)
	}

	first := gen()
	for _, other := range []string{"alpha", "bravo", "charlie"} {
		s, err := tntsource.New(other, "", nil)
		require.NoError(t, err)
		draw(t, s, 8, 26)
		require.NoError(t, s.Close())
	}

	assert.Equal(t, first, gen())
}

func TestSourceStart(t *testing.T) {
	a, err := tntsource.New("start offset", "", nil)
	require.NoError(t, err)
	defer a.Close()

	// One block holds 32 bytes; every byte is accepted for n = 256.
	all := draw(t, a, 64, 256)
	assert.Equal(t, big.NewInt(2), a.Index())

	b, err := tntsource.New("start offset", "", big.NewInt(1))
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, all[32:], draw(t, b, 32, 256))

	_, err = tntsource.New("start offset", "", big.NewInt(-1))
	assert.True(t, errors.Is(err, tntsource.ErrNegativeStart))
}

func TestSourceConcurrentUse(t *testing.T) {
	want := func(secret string) []int {
		s, err := tntsource.New(secret, "", nil)
		require.NoError(t, err)
		defer s.Close()
		return draw(t, s, 40, 26)
	}
	secrets := []string{"one", "two", "three", "four"}
	expected := make(map[string][]int, len(secrets))
	for _, secret := range secrets {
		expected[secret] = want(secret)
	}

	var wg sync.WaitGroup
	got := make([][]int, 4*len(secrets))
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := tntsource.New(secrets[i%len(secrets)], "", nil)
			if !assert.NoError(t, err) {
				return
			}
			defer s.Close()

			out := make([]int, 40)
			for j := range out {
				v, err := s.Intn(26)
				if !assert.NoError(t, err) {
					return
				}
				out[j] = v
			}
			got[i] = out
		}(i)
	}
	wg.Wait()

	for i, out := range got {
		assert.Equal(t, expected[secrets[i%len(secrets)]], out, "goroutine %d", i)
	}
}

func TestSourceRange(t *testing.T) {
	s, err := tntsource.New("range check", "", nil)
	require.NoError(t, err)
	defer s.Close()

	for _, v := range draw(t, s, 500, 26) {
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 26)
	}

	_, err = s.Intn(0)
	assert.True(t, errors.Is(err, tntsource.ErrRange))
	_, err = s.Intn(257)
	assert.True(t, errors.Is(err, tntsource.ErrRange))
}

func TestSourceKeys(t *testing.T) {
	gen := func() []int {
		s, err := tntsource.New("hill keys", "", nil)
		require.NoError(t, err)
		defer s.Close()

		m, err := key.Random(3, s, 0)
		require.NoError(t, err)
		require.True(t, key.Validate(m))
		return m.Flatten()
	}

	assert.Equal(t, gen(), gen())
}

func TestSourceClose(t *testing.T) {
	s, err := tntsource.New("closing", "", nil)
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err = s.Intn(26)
	assert.True(t, errors.Is(err, tntsource.ErrClosed))
}

func TestEmptySecret(t *testing.T) {
	_, err := tntsource.New("", "", nil)
	assert.True(t, errors.Is(err, tntsource.ErrEmptySecret))
}
