package matrix

import (
	"errors"
	"fmt"
)

var (
	// ErrEmpty is returned for a nil or zero-sized matrix.
	ErrEmpty = errors.New("matrix: empty matrix")

	// ErrNotSquare is returned when a row length differs from the row count.
	ErrNotSquare = errors.New("matrix: matrix is not square")

	// ErrDimensionMismatch is returned when a vector length does not match
	// the matrix size, or two matrices differ in size.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrSingular is returned when the determinant has no inverse modulo 26.
	ErrSingular = errors.New("matrix: singular matrix")
)

// UnsupportedSizeError reports a square matrix whose size has no
// determinant/adjugate kernel.
type UnsupportedSizeError struct {
	N int
}

func (e *UnsupportedSizeError) Error() string {
	return fmt.Sprintf("matrix: unsupported matrix size %dx%d", e.N, e.N)
}

func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
