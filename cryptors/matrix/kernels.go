package matrix

import "sort"

// kernel holds the closed-form formulas for one matrix size.  Both
// functions work on exact integers; no reduction happens here.
type kernel struct {
	determinant func(Matrix) int
	adjugate    func(Matrix) Matrix
}

// kernels is keyed by matrix size.  Cofactor expansion is used instead of
// elimination because Z/26Z is not a field: elimination would need to
// divide by pivots that have no inverse.
var kernels = map[int]kernel{
	2: {determinant: det2, adjugate: adj2},
	3: {determinant: det3, adjugate: adj3},
}

// Supported returns the matrix sizes the engine can handle, ascending.
func Supported() []int {
	sizes := make([]int, 0, len(kernels))
	for n := range kernels {
		sizes = append(sizes, n)
	}

	sort.Ints(sizes)
	return sizes
}

// IsSupported reports whether n×n matrices can be used as keys.
func IsSupported(n int) bool {
	_, ok := kernels[n]
	return ok
}

func det2(m Matrix) int {
	return m[0][0]*m[1][1] - m[0][1]*m[1][0]
}

func adj2(m Matrix) Matrix {
	return Matrix{
		{m[1][1], -m[0][1]},
		{-m[1][0], m[0][0]},
	}
}

func det3(m Matrix) int {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// adj3 is the transposed cofactor matrix.
func adj3(m Matrix) Matrix {
	return Matrix{
		{
			m[1][1]*m[2][2] - m[1][2]*m[2][1],
			m[0][2]*m[2][1] - m[0][1]*m[2][2],
			m[0][1]*m[1][2] - m[0][2]*m[1][1],
		},
		{
			m[1][2]*m[2][0] - m[1][0]*m[2][2],
			m[0][0]*m[2][2] - m[0][2]*m[2][0],
			m[0][2]*m[1][0] - m[0][0]*m[1][2],
		},
		{
			m[1][0]*m[2][1] - m[1][1]*m[2][0],
			m[0][1]*m[2][0] - m[0][0]*m[2][1],
			m[0][0]*m[1][1] - m[0][1]*m[1][0],
		},
	}
}
