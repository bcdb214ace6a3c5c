// Package codec converts between letter text and the integer vectors the
// Hill transform operates on.
package codec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bgallie/hill/cryptors/matrix"
	"github.com/bgallie/hill/cryptors/modular"
)

// Filler is appended to text until its length is a multiple of the block size.
const Filler = 'X'

var (
	// ErrNotLetter is returned for a character outside A-Z / a-z.
	ErrNotLetter = errors.New("codec: not a letter")

	// ErrUnpadded is an internal contract violation: Chunk was given text
	// whose length is not a multiple of the block size.
	ErrUnpadded = errors.New("codec: text length is not a multiple of the block size")

	// ErrBlockSize is returned for a block size smaller than one.
	ErrBlockSize = errors.New("codec: invalid block size")
)

// IsLetter reports whether ch is an ASCII letter.
func IsLetter(ch byte) bool {
	return ('A' <= ch && ch <= 'Z') || ('a' <= ch && ch <= 'z')
}

// LetterToIndex maps A (or a) to 0 through Z (or z) to 25.
func LetterToIndex(ch byte) (int, error) {
	switch {
	case 'A' <= ch && ch <= 'Z':
		return int(ch - 'A'), nil
	case 'a' <= ch && ch <= 'z':
		return int(ch - 'a'), nil
	}

	return 0, fmt.Errorf("%w: %q", ErrNotLetter, ch)
}

// IndexToLetter maps n mod 26 back to an uppercase letter.
func IndexToLetter(n int) byte {
	return byte('A' + modular.Mod26(n))
}

// Sanitize drops every character that is not an ASCII letter and
// uppercases the rest.
func Sanitize(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if !IsLetter(ch) {
			continue
		}
		if ch >= 'a' {
			ch -= 'a' - 'A'
		}
		sb.WriteByte(ch)
	}

	return sb.String()
}

// Pad appends Filler until len(text) is a multiple of blockSize.  An empty
// string stays empty and a blockSize below one leaves text unchanged.
func Pad(text string, blockSize int) string {
	if blockSize < 1 {
		return text
	}

	rem := len(text) % blockSize
	if rem == 0 {
		return text
	}

	return text + strings.Repeat(string(Filler), blockSize-rem)
}

// Prepare is Pad(Sanitize(text), blockSize).
func Prepare(text string, blockSize int) string {
	return Pad(Sanitize(text), blockSize)
}

// Chunk splits letter text into consecutive vectors of blockSize indices.
// The text must already be padded.
func Chunk(text string, blockSize int) ([]matrix.Vector, error) {
	if blockSize < 1 {
		return nil, ErrBlockSize
	}

	if len(text)%blockSize != 0 {
		return nil, fmt.Errorf("%w: length %d, block size %d", ErrUnpadded, len(text), blockSize)
	}

	vectors := make([]matrix.Vector, 0, len(text)/blockSize)
	for i := 0; i < len(text); i += blockSize {
		v := make(matrix.Vector, blockSize)
		for j := range v {
			idx, err := LetterToIndex(text[i+j])
			if err != nil {
				return nil, err
			}
			v[j] = idx
		}
		vectors = append(vectors, v)
	}

	return vectors, nil
}

// Join flattens vectors back into letters, keeping block and in-block order.
func Join(vectors []matrix.Vector) string {
	var sb strings.Builder
	for _, v := range vectors {
		for _, n := range v {
			sb.WriteByte(IndexToLetter(n))
		}
	}

	return sb.String()
}
