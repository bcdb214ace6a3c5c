package key_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgallie/hill/cryptors/key"
	"github.com/bgallie/hill/cryptors/matrix"
)

// ABCD derives [[0,1],[2,3]], determinant -2 = 24 (mod 26), which shares
// the factor 2 with 26.  Changing the first letter to x gives 3x-2, so the
// first invertible replacements are B (1), D (7) and H (19); F gives 13.
func TestSuggestFixesScanOrder(t *testing.T) {
	require.False(t, key.Validate(mustDerive(t, "ABCD", 2)))

	got, err := key.SuggestFixes("ABCD", 2)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, key.Suggestion{Key: "BBCD", Position: 0, Original: 'A', Replacement: 'B'}, got[0])
	assert.Equal(t, "DBCD", got[1].Key)
	assert.Equal(t, "HBCD", got[2].Key)
	assert.Equal(t, `Replace "A" with "B" at position 1`, got[0].String())

	for _, s := range got {
		assert.True(t, key.Validate(mustDerive(t, s.Key, 2)), s.Key)
	}
}

// TestSuggestFixesMatchesExhaustiveScan rebuilds the scan independently for
// several singular keys and compares the results.
func TestSuggestFixesMatchesExhaustiveScan(t *testing.T) {
	for _, tc := range []struct {
		base string
		n    int
	}{
		{"ABCD", 2},
		{"AAAA", 2},
		{"ZZZZ", 2},
		{"NNNN", 2},
		{"AAAAAAAAA", 3},
		{"ABCDEFGHI", 3},
	} {
		t.Run(tc.base, func(t *testing.T) {
			require.False(t, key.Validate(mustDerive(t, tc.base, tc.n)))

			want := []string{}
		scan:
			for pos := 0; pos < tc.n*tc.n; pos++ {
				for ch := byte('A'); ch <= 'Z'; ch++ {
					if ch == tc.base[pos] {
						continue
					}
					cand := []byte(tc.base)
					cand[pos] = ch
					if key.Validate(mustDerive(t, string(cand), tc.n)) {
						want = append(want, string(cand))
						if len(want) == key.MaxSuggestions {
							break scan
						}
					}
				}
			}

			got, err := key.SuggestFixes(tc.base, tc.n)
			require.NoError(t, err)
			require.LessOrEqual(t, len(got), key.MaxSuggestions)

			keys := make([]string, 0, len(got))
			for _, s := range got {
				keys = append(keys, s.Key)
				assert.NotEqual(t, tc.base[s.Position], s.Replacement)
				assert.Equal(t, tc.base[s.Position], s.Original)
			}
			assert.Equal(t, want, keys)
		})
	}
}

func TestSuggestFixesUsesFirstLetters(t *testing.T) {
	got, err := key.SuggestFixes("a b c d extra", 2)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "BBCD", got[0].Key)
}

func TestSuggestFixesErrors(t *testing.T) {
	var lenErr *key.InsufficientLengthError
	_, err := key.SuggestFixes("ABC", 2)
	require.True(t, errors.As(err, &lenErr))
	assert.Equal(t, 4, lenErr.Needed)
	assert.Equal(t, 3, lenErr.Have)

	var sizeErr *matrix.UnsupportedSizeError
	_, err = key.SuggestFixes("ABCDEFGHIJKLMNOPQRSTUVWXY", 5)
	assert.True(t, errors.As(err, &sizeErr))
}

func TestInspect(t *testing.T) {
	r, err := key.Inspect("ab c", 2)
	require.NoError(t, err)
	assert.False(t, r.Ready())
	assert.Equal(t, 1, r.Missing())
	assert.Nil(t, r.Matrix)

	r, err = key.Inspect("HELP", 2)
	require.NoError(t, err)
	assert.True(t, r.Ready())
	assert.Zero(t, r.Missing())
	assert.True(t, r.Invertible)
	assert.Empty(t, r.Suggestions)
	assert.Equal(t, matrix.Matrix{{7, 4}, {11, 15}}, r.Matrix)

	r, err = key.Inspect("ABCD", 2)
	require.NoError(t, err)
	assert.False(t, r.Invertible)
	assert.Len(t, r.Suggestions, 3)

	_, err = key.Inspect("HELP", 7)
	assert.Error(t, err)
}

func mustDerive(t *testing.T, phrase string, n int) matrix.Matrix {
	t.Helper()

	m, err := key.DeriveFromText(phrase, n)
	require.NoError(t, err, fmt.Sprintf("derive %q", phrase))
	return m
}
