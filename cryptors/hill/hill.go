// Package hill implements the Hill cipher block transform on top of the
// modular matrix engine: text is sanitized and padded, split into vectors
// of the key size, multiplied by the key (or its inverse) and reassembled.
//
// Every function here is a pure function of its arguments.  The optional
// Observer only watches intermediate values; passing nil skips tracing
// entirely.
package hill

import (
	"errors"
	"fmt"
	"slices"

	"github.com/bgallie/hill/cryptors"
	"github.com/bgallie/hill/cryptors/codec"
	"github.com/bgallie/hill/cryptors/key"
	"github.com/bgallie/hill/cryptors/matrix"
	"github.com/bgallie/hill/cryptors/modular"
)

var (
	// ErrEmptyInput is returned when the text holds no letters.
	ErrEmptyInput = errors.New("hill: input has no letters")

	// ErrSingularKey is returned when the key matrix is not invertible
	// modulo 26.
	ErrSingularKey = errors.New("hill: key matrix is not invertible modulo 26")

	// ErrBlockLength marks a block whose length differs from the key size.
	// It indicates a caller bug.
	ErrBlockLength = errors.New("hill: block length does not match key size")
)

// Cipher is a validated key together with its inverse.  It is immutable and
// safe for concurrent use.
type Cipher struct {
	key     matrix.Matrix
	inverse matrix.Matrix
	det     int
	detInv  int
	adj     matrix.Matrix
}

var _ cryptors.Crypter = (*Cipher)(nil)

// NewCipher validates m (normalizing its entries into [0, 26)) and
// precomputes its inverse.  It fails with an *matrix.UnsupportedSizeError,
// a shape error or ErrSingularKey.
func NewCipher(m matrix.Matrix) (*Cipher, error) {
	k, err := key.New(m)
	if err != nil {
		return nil, err
	}

	if !k.Invertible() {
		return nil, ErrSingularKey
	}

	km := k.Matrix()
	det, detInv, err := matrix.DeterminantInverse(km)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSingularKey, err)
	}

	adj, err := matrix.Adjugate(km)
	if err != nil {
		return nil, err
	}

	inv, err := matrix.Inverse(km)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSingularKey, err)
	}

	if err := checkInverse(km, inv); err != nil {
		return nil, err
	}

	return &Cipher{key: km, inverse: inv, det: det, detInv: detInv, adj: adj}, nil
}

// checkInverse confirms k·inv is the identity modulo 26.
func checkInverse(k, inv matrix.Matrix) error {
	id, err := matrix.Identity(len(k))
	if err != nil {
		return err
	}

	prod, err := matrix.Mul(k, inv)
	if err != nil {
		return err
	}

	if !matrix.Equal(prod, id) {
		return fmt.Errorf("%w: computed inverse does not satisfy K·K⁻¹ = I", ErrSingularKey)
	}

	return nil
}

// BlockSize returns the key size N.
func (c *Cipher) BlockSize() int {
	return len(c.key)
}

// Key returns a copy of the normalized key matrix.
func (c *Cipher) Key() matrix.Matrix {
	return c.key.Clone()
}

// Inverse returns a copy of the decryption matrix.
func (c *Cipher) Inverse() matrix.Matrix {
	return c.inverse.Clone()
}

// ApplyF enciphers one block.  It panics with ErrBlockLength if len(v)
// differs from the block size.
func (c *Cipher) ApplyF(v matrix.Vector) matrix.Vector {
	return applyBlock(c.key, v, encryptReduce).Reduced
}

// ApplyG deciphers one block.  It panics with ErrBlockLength if len(v)
// differs from the block size.
func (c *Cipher) ApplyG(v matrix.Vector) matrix.Vector {
	return applyBlock(c.inverse, v, decryptReduce).Reduced
}

// encryptReduce is a plain truncating mod.  Key entries and letter indices
// are both non-negative, so the raw sums are too.
func encryptReduce(x int) int {
	return x % modular.Modulus
}

// decryptReduce normalizes into [0, 26) even for negative sums.
func decryptReduce(x int) int {
	return modular.Mod26(x)
}

func applyBlock(m matrix.Matrix, v matrix.Vector, reduce func(int) int) matrix.Product {
	if len(v) != len(m) {
		panic(fmt.Errorf("%w: got %d, want %d", ErrBlockLength, len(v), len(m)))
	}

	p, err := matrix.Multiply(m, v)
	if err != nil {
		panic(err)
	}

	for i, x := range p.Raw {
		p.Reduced[i] = reduce(x)
	}

	return p
}

// Encrypt enciphers text: non-letters are dropped, the rest uppercased and
// padded with X to a multiple of the block size.
func (c *Cipher) Encrypt(text string, obs Observer) (string, error) {
	padded, err := c.prepare(text, obs)
	if err != nil {
		return "", err
	}

	emit(obs, KindKey, "Key matrix", KeyStep{Matrix: c.Key()})

	return c.transform(padded, c.key, encryptReduce, "Encrypt block", obs)
}

// Decrypt deciphers text with the inverse key.  The text goes through the
// same sanitizing and padding as Encrypt.
func (c *Cipher) Decrypt(text string, obs Observer) (string, error) {
	padded, err := c.prepare(text, obs)
	if err != nil {
		return "", err
	}

	emit(obs, KindKey, "Key matrix", KeyStep{Matrix: c.Key()})
	emit(obs, KindInverse, "Inverse key matrix", InverseStep{
		Determinant:        c.det,
		DeterminantInverse: c.detInv,
		Adjugate:           c.adj.Clone(),
		Inverse:            c.Inverse(),
	})

	return c.transform(padded, c.inverse, decryptReduce, "Decrypt block", obs)
}

func (c *Cipher) prepare(text string, obs Observer) (string, error) {
	cleaned := codec.Sanitize(text)
	if cleaned == "" {
		return "", ErrEmptyInput
	}

	padded := codec.Pad(cleaned, c.BlockSize())
	emit(obs, KindPreprocess, "Preprocess text", PreprocessStep{
		Original: text,
		Cleaned:  padded,
		Padding:  len(padded) - len(cleaned),
	})

	return padded, nil
}

func (c *Cipher) transform(text string, m matrix.Matrix, reduce func(int) int, title string, obs Observer) (string, error) {
	vectors, err := codec.Chunk(text, c.BlockSize())
	if err != nil {
		return "", err
	}

	if obs != nil {
		emit(obs, KindVectors, "Letters to numbers", VectorsStep{Text: text, Vectors: cloneVectors(vectors)})
	}

	out := make([]matrix.Vector, len(vectors))
	for i, v := range vectors {
		p := applyBlock(m, v, reduce)
		out[i] = p.Reduced
		if obs != nil {
			emit(obs, KindBlock, fmt.Sprintf("%s %d", title, i+1), BlockStep{
				Index:   i,
				Input:   slices.Clone(v),
				Raw:     slices.Clone(p.Raw),
				Reduced: slices.Clone(p.Reduced),
			})
		}
	}

	result := codec.Join(out)
	emit(obs, KindResult, "Result", ResultStep{Text: result})

	return result, nil
}

// cloneVectors copies vs so observers cannot reach the blocks in flight.
func cloneVectors(vs []matrix.Vector) []matrix.Vector {
	out := make([]matrix.Vector, len(vs))
	for i, v := range vs {
		out[i] = slices.Clone(v)
	}

	return out
}

// Encrypt enciphers text with key m.  obs may be nil.
func Encrypt(text string, m matrix.Matrix, obs Observer) (string, error) {
	c, err := NewCipher(m)
	if err != nil {
		return "", err
	}

	return c.Encrypt(text, obs)
}

// Decrypt deciphers text with key m.  obs may be nil.
func Decrypt(text string, m matrix.Matrix, obs Observer) (string, error) {
	c, err := NewCipher(m)
	if err != nil {
		return "", err
	}

	return c.Decrypt(text, obs)
}
