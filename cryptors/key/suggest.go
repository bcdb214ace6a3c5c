package key

import (
	"fmt"

	"github.com/bgallie/hill/cryptors/codec"
	"github.com/bgallie/hill/cryptors/matrix"
)

// MaxSuggestions caps the number of repairs SuggestFixes returns.
const MaxSuggestions = 3

// Suggestion is a key phrase that differs from a singular one in exactly
// one letter and derives an invertible matrix.
type Suggestion struct {
	Key         string `json:"key"`
	Position    int    `json:"position"` // zero based
	Original    byte   `json:"-"`
	Replacement byte   `json:"-"`
}

// String describes the edit with a one based position.
func (s Suggestion) String() string {
	return fmt.Sprintf("Replace %q with %q at position %d", string(s.Original), string(s.Replacement), s.Position+1)
}

// SuggestFixes scans single letter substitutions of the first n² letters of
// baseKey, position by position and within a position from A to Z, and
// returns the first MaxSuggestions that give an invertible key.  The scan
// order is fixed so the output is deterministic.
func SuggestFixes(baseKey string, n int) ([]Suggestion, error) {
	if !matrix.IsSupported(n) {
		return nil, &matrix.UnsupportedSizeError{N: n}
	}

	letters := codec.Sanitize(baseKey)
	needed := n * n
	if len(letters) < needed {
		return nil, &InsufficientLengthError{Needed: needed, Have: len(letters)}
	}

	base := []byte(letters[:needed])
	suggestions := make([]Suggestion, 0, MaxSuggestions)
	candidate := make([]byte, needed)

	for pos := 0; pos < needed && len(suggestions) < MaxSuggestions; pos++ {
		for ch := byte('A'); ch <= 'Z' && len(suggestions) < MaxSuggestions; ch++ {
			if ch == base[pos] {
				continue
			}

			copy(candidate, base)
			candidate[pos] = ch
			m, err := DeriveFromText(string(candidate), n)
			if err != nil {
				return nil, err
			}

			if matrix.IsInvertible(m) {
				suggestions = append(suggestions, Suggestion{
					Key:         string(candidate),
					Position:    pos,
					Original:    base[pos],
					Replacement: ch,
				})
			}
		}
	}

	return suggestions, nil
}

// Report is the outcome of inspecting a key phrase for a given size.
type Report struct {
	Needed      int
	Have        int
	Invertible  bool
	Matrix      matrix.Matrix
	Suggestions []Suggestion
}

// Ready reports whether the phrase has enough letters to derive a key.
func (r Report) Ready() bool {
	return r.Have >= r.Needed
}

// Missing returns how many more letters the phrase needs.
func (r Report) Missing() int {
	if r.Ready() {
		return 0
	}

	return r.Needed - r.Have
}

// Inspect derives a key from phrase when it is long enough and, if that
// key is singular, attaches repair suggestions.  A short phrase is not an
// error here; the report says how many letters are missing.
func Inspect(phrase string, n int) (Report, error) {
	if !matrix.IsSupported(n) {
		return Report{}, &matrix.UnsupportedSizeError{N: n}
	}

	r := Report{Needed: n * n, Have: len(codec.Sanitize(phrase))}
	if !r.Ready() {
		return r, nil
	}

	m, err := DeriveFromText(phrase, n)
	if err != nil {
		return r, err
	}

	r.Matrix = m
	r.Invertible = matrix.IsInvertible(m)
	if !r.Invertible {
		r.Suggestions, err = SuggestFixes(phrase, n)
		if err != nil {
			return r, err
		}
	}

	return r, nil
}
