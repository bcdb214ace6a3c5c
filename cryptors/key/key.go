// Package key validates Hill cipher key matrices, derives them from key
// phrases, proposes single letter repairs for singular phrases and
// generates random invertible keys.
package key

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bgallie/hill/cryptors/codec"
	"github.com/bgallie/hill/cryptors/matrix"
	"github.com/bgallie/hill/cryptors/modular"
)

var (
	// ErrMalformed is returned when a numeric key cannot be parsed.
	ErrMalformed = errors.New("key: malformed numeric key")

	// ErrNoInvertibleKey is returned when random generation runs out of
	// attempts without drawing an invertible matrix.
	ErrNoInvertibleKey = errors.New("key: no invertible key found")
)

// InsufficientLengthError is returned when a key phrase has fewer letters
// than the N² a key matrix needs.
type InsufficientLengthError struct {
	Needed int
	Have   int
}

func (e *InsufficientLengthError) Error() string {
	return fmt.Sprintf("key: key phrase needs %d letters, have %d", e.Needed, e.Have)
}

// Key is a key matrix whose entries are held in [0, 26).  Invertibility is
// never cached; it is recomputed from the current entries on every call.
type Key struct {
	m matrix.Matrix
}

// New validates the shape of m and returns a Key holding a normalized copy.
func New(m matrix.Matrix) (*Key, error) {
	if err := matrix.Validate(m); err != nil {
		return nil, err
	}

	return &Key{m: m.Normalized()}, nil
}

// FromText derives a Key from a key phrase.
func FromText(phrase string, n int) (*Key, error) {
	m, err := DeriveFromText(phrase, n)
	if err != nil {
		return nil, err
	}

	return New(m)
}

// Size returns the key's block size N.
func (k *Key) Size() int {
	return k.m.Size()
}

// Matrix returns a copy of the key matrix.
func (k *Key) Matrix() matrix.Matrix {
	return k.m.Clone()
}

// Set stores value (normalized) at row i, column j.
func (k *Key) Set(i, j, value int) error {
	if i < 0 || i >= len(k.m) || j < 0 || j >= len(k.m) {
		return fmt.Errorf("key: index (%d,%d) out of range for %dx%d key", i, j, len(k.m), len(k.m))
	}

	k.m[i][j] = modular.Mod26(value)
	return nil
}

// Invertible reports whether the key currently permits encryption and
// decryption.
func (k *Key) Invertible() bool {
	return Validate(k.m)
}

// String renders the key as N² letters in row-major order.
func (k *Key) String() string {
	return codec.Join(k.m)
}

// Validate reports whether m is a usable key: supported size and
// invertible modulo 26.
func Validate(m matrix.Matrix) bool {
	return matrix.IsInvertible(m)
}

// DeriveFromText fills an n×n matrix row-major from the letter indices of
// the first n² letters of phrase.  Non-letters are ignored.
func DeriveFromText(phrase string, n int) (matrix.Matrix, error) {
	if !matrix.IsSupported(n) {
		return nil, &matrix.UnsupportedSizeError{N: n}
	}

	letters := codec.Sanitize(phrase)
	needed := n * n
	if len(letters) < needed {
		return nil, &InsufficientLengthError{Needed: needed, Have: len(letters)}
	}

	vectors, err := codec.Chunk(letters[:needed], n)
	if err != nil {
		return nil, err
	}

	return matrix.Matrix(vectors), nil
}

// Parse reads a numeric key of row-major integers separated by spaces,
// commas or semicolons.  When n is zero the size is inferred from the
// number of values, which must then be a perfect square.
func Parse(text string, n int) (matrix.Matrix, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ' ' || r == ',' || r == ';' || r == '\t' || r == '\n' || r == '\r' || r == '[' || r == ']'
	})

	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no values", ErrMalformed)
	}

	values := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an integer", ErrMalformed, f)
		}
		values[i] = v
	}

	if n == 0 {
		for n*n < len(values) {
			n++
		}
	}

	if n*n != len(values) {
		return nil, fmt.Errorf("%w: %d values do not form a square matrix of size %d", ErrMalformed, len(values), n)
	}

	if !matrix.IsSupported(n) {
		return nil, &matrix.UnsupportedSizeError{N: n}
	}

	return matrix.New(n, values...)
}
