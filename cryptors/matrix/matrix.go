// Package matrix implements the modulo 26 linear algebra behind the Hill
// cipher: determinants, invertibility, adjugate based inversion and
// matrix-vector products.
//
// Entries are plain ints and are not required to lie in [0, 26); they are
// reduced only where an operation documents it.
package matrix

import (
	"fmt"
	"strings"

	"github.com/bgallie/hill/cryptors/modular"
)

// Matrix is a square, row-major grid of integers.
type Matrix [][]int

// Vector is one block of N letter indices, or the raw sums produced from one.
type Vector = []int

// Product is the result of multiplying a matrix by a vector.  Raw holds the
// sums before any reduction; Reduced holds them normalized into [0, 26).
type Product struct {
	Raw     Vector
	Reduced Vector
}

// New builds an n×n matrix from row-major values.
func New(n int, values ...int) (Matrix, error) {
	if n <= 0 {
		return nil, ErrEmpty
	}

	if len(values) != n*n {
		return nil, matrixErrorf("New", ErrDimensionMismatch)
	}

	m := make(Matrix, n)
	for i := range m {
		m[i] = append(Vector(nil), values[i*n:(i+1)*n]...)
	}

	return m, nil
}

// Identity returns the n×n identity matrix.
func Identity(n int) (Matrix, error) {
	if n <= 0 {
		return nil, ErrEmpty
	}

	m := make(Matrix, n)
	for i := range m {
		m[i] = make([]int, n)
		m[i][i] = 1
	}

	return m, nil
}

// Size returns the number of rows.
func (m Matrix) Size() int {
	return len(m)
}

// Clone returns a deep copy of m.
func (m Matrix) Clone() Matrix {
	if m == nil {
		return nil
	}

	c := make(Matrix, len(m))
	for i, row := range m {
		c[i] = append([]int(nil), row...)
	}

	return c
}

// Flatten returns the entries of m in row-major order.
func (m Matrix) Flatten() []int {
	out := make([]int, 0, len(m)*len(m))
	for _, row := range m {
		out = append(out, row...)
	}

	return out
}

// Equal reports whether a and b have the same shape and entries.
func Equal(a, b Matrix) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}

	return true
}

// Normalized returns a copy of m with every entry reduced into [0, 26).
func (m Matrix) Normalized() Matrix {
	c := m.Clone()
	for i := range c {
		for j := range c[i] {
			c[i][j] = modular.Mod26(c[i][j])
		}
	}

	return c
}

// String renders the matrix one bracketed row per line.
func (m Matrix) String() string {
	var sb strings.Builder
	for i, row := range m {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(fmt.Sprint([]int(row)))
	}

	return sb.String()
}

// Validate checks that m is a non-empty square matrix of a supported size.
func Validate(m Matrix) error {
	if len(m) == 0 {
		return matrixErrorf("Validate", ErrEmpty)
	}

	for _, row := range m {
		if len(row) != len(m) {
			return matrixErrorf("Validate", ErrNotSquare)
		}
	}

	if !IsSupported(len(m)) {
		return &UnsupportedSizeError{N: len(m)}
	}

	return nil
}

// Determinant returns the determinant of m taken mod 26 with Go's
// truncating %, so the result lies in (-26, 26) and may be negative.
// Normalize it before using it as the argument of a modular inverse.
// Entries are reduced into [0, 26) first, so arbitrarily large entries
// cannot overflow the cofactor products.
func Determinant(m Matrix) (int, error) {
	if err := Validate(m); err != nil {
		return 0, err
	}

	return kernels[len(m)].determinant(m.Normalized()) % modular.Modulus, nil
}

// IsInvertible reports whether m has an inverse modulo 26.  Invalid or
// unsupported matrices are never invertible.
func IsInvertible(m Matrix) bool {
	det, err := Determinant(m)
	if err != nil {
		return false
	}

	return modular.Coprime(modular.Mod26(det), modular.Modulus)
}

// DeterminantInverse returns the normalized determinant of m and its
// inverse modulo 26, or ErrSingular.
func DeterminantInverse(m Matrix) (det, inv int, err error) {
	d, err := Determinant(m)
	if err != nil {
		return 0, 0, err
	}

	det = modular.Mod26(d)
	inv, ok := modular.Inverse(det, modular.Modulus)
	if !ok {
		return det, 0, matrixErrorf("DeterminantInverse", ErrSingular)
	}

	return det, inv, nil
}

// Adjugate returns the exact (unreduced) adjugate of m.  Entries may be
// negative.  The result is only meaningful when the cofactor products fit
// in an int; normalize m first when its entries may be large.
func Adjugate(m Matrix) (Matrix, error) {
	if err := Validate(m); err != nil {
		return nil, err
	}

	return kernels[len(m)].adjugate(m), nil
}

// Inverse returns the inverse of m modulo 26: every adjugate entry is
// multiplied by the inverse of the determinant and normalized into
// [0, 26).  It fails with ErrSingular when the determinant is not
// invertible, even if the caller has already checked IsInvertible.
func Inverse(m Matrix) (Matrix, error) {
	_, inv, err := DeterminantInverse(m)
	if err != nil {
		return nil, err
	}

	adj, err := Adjugate(m.Normalized())
	if err != nil {
		return nil, err
	}

	for i := range adj {
		for j := range adj[i] {
			adj[i][j] = modular.Mod26(adj[i][j] * inv)
		}
	}

	return adj, nil
}

// Multiply computes m·v.  Both the raw sums and their normalized residues
// are returned because callers that narrate the computation need both.
func Multiply(m Matrix, v Vector) (Product, error) {
	if len(m) == 0 {
		return Product{}, matrixErrorf("Multiply", ErrEmpty)
	}

	if len(v) != len(m) {
		return Product{}, matrixErrorf("Multiply", ErrDimensionMismatch)
	}

	raw := make(Vector, len(m))
	reduced := make(Vector, len(m))
	for i, row := range m {
		if len(row) != len(v) {
			return Product{}, matrixErrorf("Multiply", ErrNotSquare)
		}

		sum := 0
		for j, x := range v {
			sum += row[j] * x
		}

		raw[i] = sum
		reduced[i] = modular.Mod26(sum)
	}

	return Product{Raw: raw, Reduced: reduced}, nil
}

// Mul returns the product a·b modulo 26.  Entries of a and b are reduced
// before multiplying and every entry of the result lies in [0, 26).
func Mul(a, b Matrix) (Matrix, error) {
	if len(a) == 0 || len(b) == 0 {
		return nil, matrixErrorf("Mul", ErrEmpty)
	}

	if len(a[0]) != len(b) {
		return nil, matrixErrorf("Mul", ErrDimensionMismatch)
	}

	cols := len(b[0])
	for _, row := range b {
		if len(row) != cols {
			return nil, matrixErrorf("Mul", ErrDimensionMismatch)
		}
	}

	out := make(Matrix, len(a))
	for i := range a {
		if len(a[i]) != len(b) {
			return nil, matrixErrorf("Mul", ErrDimensionMismatch)
		}

		out[i] = make([]int, cols)
		for j := 0; j < cols; j++ {
			sum := 0
			for k := range b {
				sum += modular.Mod26(a[i][k]) * modular.Mod26(b[k][j])
			}
			out[i][j] = modular.Mod26(sum)
		}
	}

	return out, nil
}
