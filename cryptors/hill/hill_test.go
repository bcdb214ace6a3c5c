package hill_test

import (
	"errors"
	"math/rand"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/bgallie/hill/cryptors/hill"
	"github.com/bgallie/hill/cryptors/key"
	"github.com/bgallie/hill/cryptors/matrix"
)

var helpKey = matrix.Matrix{{3, 3}, {2, 5}}

type HillSuite struct {
	suite.Suite
}

func TestHillSuite(t *testing.T) {
	suite.Run(t, new(HillSuite))
}

func (s *HillSuite) TestEncryptHelp() {
	out, err := hill.Encrypt("HELP", helpKey, nil)
	s.Require().NoError(err)
	s.Equal("HIAT", out)
}

func (s *HillSuite) TestDecryptHelp() {
	out, err := hill.Decrypt("HIAT", helpKey, nil)
	s.Require().NoError(err)
	s.Equal("HELP", out)
}

func (s *HillSuite) TestEncryptSanitizesAndPads() {
	out, err := hill.Encrypt("  h-e l!p  ", helpKey, nil)
	s.Require().NoError(err)
	s.Equal("HIAT", out)

	out, err = hill.Encrypt("hello", helpKey, nil)
	s.Require().NoError(err)
	s.Len(out, 6)

	back, err := hill.Decrypt(out, helpKey, nil)
	s.Require().NoError(err)
	s.Equal("HELLOX", back)
}

// TestClassic3x3 uses the textbook key GYBNQKURP: ACT enciphers to POH.
func (s *HillSuite) TestClassic3x3() {
	k, err := key.DeriveFromText("GYBNQKURP", 3)
	s.Require().NoError(err)

	out, err := hill.Encrypt("act", k, nil)
	s.Require().NoError(err)
	s.Equal("POH", out)

	back, err := hill.Decrypt("POH", k, nil)
	s.Require().NoError(err)
	s.Equal("ACT", back)
}

func (s *HillSuite) TestKeyOutOfRangeIsNormalized() {
	out, err := hill.Encrypt("HELP", matrix.Matrix{{29, -23}, {-24, 31}}, nil)
	s.Require().NoError(err)
	s.Equal("HIAT", out)
}

func (s *HillSuite) TestEmptyInput() {
	for _, in := range []string{"", "   ", "123 !?", "\n\t"} {
		_, err := hill.Encrypt(in, helpKey, nil)
		s.True(errors.Is(err, hill.ErrEmptyInput), "%q", in)
		_, err = hill.Decrypt(in, helpKey, nil)
		s.True(errors.Is(err, hill.ErrEmptyInput), "%q", in)
	}
}

func (s *HillSuite) TestSingularKey() {
	_, err := hill.Encrypt("HELP", matrix.Matrix{{2, 4}, {1, 2}}, nil)
	s.True(errors.Is(err, hill.ErrSingularKey))

	_, err = hill.Decrypt("HELP", matrix.Matrix{{2, 4}, {1, 2}}, nil)
	s.True(errors.Is(err, hill.ErrSingularKey))
}

func (s *HillSuite) TestUnsupportedSize() {
	id, _ := matrix.Identity(4)
	_, err := hill.Encrypt("HELP", id, nil)

	var sizeErr *matrix.UnsupportedSizeError
	s.Require().True(errors.As(err, &sizeErr))
	s.Equal(4, sizeErr.N)
}

func (s *HillSuite) TestApplyPanicsOnWrongLength() {
	c, err := hill.NewCipher(helpKey)
	s.Require().NoError(err)
	s.Panics(func() { c.ApplyF(matrix.Vector{1, 2, 3}) })
	s.Panics(func() { c.ApplyG(matrix.Vector{1}) })
}

func (s *HillSuite) TestCipherAccessorsCopy() {
	c, err := hill.NewCipher(helpKey)
	s.Require().NoError(err)
	s.Equal(2, c.BlockSize())
	s.Equal(matrix.Matrix{{15, 17}, {20, 9}}, c.Inverse())

	k := c.Key()
	k[0][0] = 0
	out, err := c.Encrypt("HELP", nil)
	s.Require().NoError(err)
	s.Equal("HIAT", out)
}

func randomLetters(rng *rand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('A' + rng.Intn(26))
	}

	return string(b)
}

type mathSource struct{ rng *rand.Rand }

func (m mathSource) Intn(n int) (int, error) { return m.rng.Intn(n), nil }

// TestRoundTrip checks decrypt(encrypt(P)) == P for random invertible keys
// and letter-only plaintexts whose length is a multiple of N.
func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(26))
	for _, n := range matrix.Supported() {
		for i := 0; i < 200; i++ {
			k, err := key.Random(n, mathSource{rng}, 0)
			require.NoError(t, err)

			p := randomLetters(rng, n*(1+rng.Intn(12)))
			c, err := hill.Encrypt(p, k, nil)
			require.NoError(t, err)
			require.Len(t, c, len(p))

			back, err := hill.Decrypt(c, k, nil)
			require.NoError(t, err)
			require.Equal(t, p, back, "key %v", k)
		}
	}
}

// TestTraceIsOptional checks that tracing never changes the output.
func TestTraceIsOptional(t *testing.T) {
	var trace hill.Trace
	with, err := hill.Encrypt("Meet me at noon", helpKey, &trace)
	require.NoError(t, err)
	without, err := hill.Encrypt("Meet me at noon", helpKey, nil)
	require.NoError(t, err)
	assert.Equal(t, without, with)
	assert.NotEmpty(t, trace)
}

func TestEncryptTrace(t *testing.T) {
	var trace hill.Trace
	_, err := hill.Encrypt("Help!", helpKey, &trace)
	require.NoError(t, err)

	assert.Equal(t, []hill.StepKind{
		hill.KindPreprocess, hill.KindKey, hill.KindVectors,
		hill.KindBlock, hill.KindBlock, hill.KindResult,
	}, trace.Kinds())

	pre := trace[0].Payload.(hill.PreprocessStep)
	assert.Equal(t, "Help!", pre.Original)
	assert.Equal(t, "HELP", pre.Cleaned)
	assert.Zero(t, pre.Padding)

	vec := trace[2].Payload.(hill.VectorsStep)
	assert.Equal(t, []matrix.Vector{{7, 4}, {11, 15}}, vec.Vectors)

	b1 := trace[3].Payload.(hill.BlockStep)
	assert.Equal(t, "Encrypt block 1", trace[3].Title)
	assert.Equal(t, matrix.Vector{33, 34}, b1.Raw)
	assert.Equal(t, matrix.Vector{7, 8}, b1.Reduced)

	b2 := trace[4].Payload.(hill.BlockStep)
	assert.Equal(t, 1, b2.Index)
	assert.Equal(t, matrix.Vector{78, 97}, b2.Raw)
	assert.Equal(t, matrix.Vector{0, 19}, b2.Reduced)

	assert.Equal(t, "HIAT", trace[5].Payload.(hill.ResultStep).Text)
}

func TestDecryptTrace(t *testing.T) {
	var trace hill.Trace
	_, err := hill.Decrypt("HIAT", helpKey, &trace)
	require.NoError(t, err)

	assert.Equal(t, []hill.StepKind{
		hill.KindPreprocess, hill.KindKey, hill.KindInverse, hill.KindVectors,
		hill.KindBlock, hill.KindBlock, hill.KindResult,
	}, trace.Kinds())

	inv := trace[2].Payload.(hill.InverseStep)
	assert.Equal(t, 9, inv.Determinant)
	assert.Equal(t, 3, inv.DeterminantInverse)
	assert.Equal(t, matrix.Matrix{{5, -3}, {-2, 3}}, inv.Adjugate)
	assert.Equal(t, matrix.Matrix{{15, 17}, {20, 9}}, inv.Inverse)

	// [[15,17],[20,9]]·[7,8] = [241, 212] -> [7, 4].
	b1 := trace[4].Payload.(hill.BlockStep)
	assert.Equal(t, "Decrypt block 1", trace[4].Title)
	assert.Equal(t, matrix.Vector{241, 212}, b1.Raw)
	assert.Equal(t, matrix.Vector{7, 4}, b1.Reduced)
}

func TestObserverFunc(t *testing.T) {
	var titles []string
	obs := hill.ObserverFunc(func(s hill.Step) { titles = append(titles, s.Title) })
	_, err := hill.Encrypt("HELP", helpKey, obs)
	require.NoError(t, err)
	assert.Equal(t, "Preprocess text", titles[0])
	assert.Equal(t, "Result", titles[len(titles)-1])
}

// TestObserverCannotAlterResult scribbles over every payload it is handed.
func TestObserverCannotAlterResult(t *testing.T) {
	scribble := hill.ObserverFunc(func(s hill.Step) {
		switch p := s.Payload.(type) {
		case hill.BlockStep:
			for i := range p.Reduced {
				p.Reduced[i], p.Raw[i], p.Input[i] = 0, 0, 0
			}
		case hill.VectorsStep:
			for _, v := range p.Vectors {
				for i := range v {
					v[i] = 0
				}
			}
		}
	})

	out, err := hill.Encrypt("HELP", helpKey, scribble)
	require.NoError(t, err)
	assert.Equal(t, "HIAT", out)

	back, err := hill.Decrypt("HIAT", helpKey, scribble)
	require.NoError(t, err)
	assert.Equal(t, "HELP", back)
}

func TestLargeKeyEntries(t *testing.T) {
	// 4000000002 ≡ 24 (mod 26): the key reduces to [[24 1] [1 24]], det 3.
	large := matrix.Matrix{{4000000002, 1}, {1, 4000000002}}
	require.True(t, key.Validate(large))

	want, err := hill.Encrypt("HELP", matrix.Matrix{{24, 1}, {1, 24}}, nil)
	require.NoError(t, err)
	got, err := hill.Encrypt("HELP", large, nil)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

// TestConcurrentUse runs independent calls on a shared Cipher.
func TestConcurrentUse(t *testing.T) {
	c, err := hill.NewCipher(helpKey)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := c.Encrypt(strings.Repeat("HELP", 50), nil)
			if err == nil && out != strings.Repeat("HIAT", 50) {
				err = errors.New("unexpected ciphertext " + out)
			}
			errs <- err
		}()
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
}
