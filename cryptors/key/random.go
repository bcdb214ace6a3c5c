package key

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/bgallie/hill/cryptors/matrix"
	"github.com/bgallie/hill/cryptors/modular"
)

// DefaultAttempts bounds the number of matrices Random draws.
const DefaultAttempts = 100

// Source supplies uniformly distributed integers in [0, n).
type Source interface {
	Intn(n int) (int, error)
}

// SystemSource draws from crypto/rand.
type SystemSource struct{}

// Intn implements Source.
func (SystemSource) Intn(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}

	return int(v.Int64()), nil
}

// Random draws n×n matrices with entries in [0, 26) from src until one is
// invertible.  After maxAttempts singular draws it gives up with
// ErrNoInvertibleKey.  A maxAttempts below one means DefaultAttempts.
func Random(n int, src Source, maxAttempts int) (matrix.Matrix, error) {
	if !matrix.IsSupported(n) {
		return nil, &matrix.UnsupportedSizeError{N: n}
	}

	if src == nil {
		src = SystemSource{}
	}

	if maxAttempts < 1 {
		maxAttempts = DefaultAttempts
	}

	values := make([]int, n*n)
	for attempt := 0; attempt < maxAttempts; attempt++ {
		for i := range values {
			v, err := src.Intn(modular.Modulus)
			if err != nil {
				return nil, fmt.Errorf("key: drawing random entry: %w", err)
			}
			values[i] = v
		}

		m, err := matrix.New(n, values...)
		if err != nil {
			return nil, err
		}

		if matrix.IsInvertible(m) {
			return m, nil
		}
	}

	return nil, fmt.Errorf("%w after %d attempts", ErrNoInvertibleKey, maxAttempts)
}
