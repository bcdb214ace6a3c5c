// Package modular provides the scalar residue helpers used by the Hill
// cipher engine.
package modular

// Modulus is the size of the alphabet: the letters A through Z.
const Modulus = 26

// Normalize returns x reduced into [0, m).  Unlike the % operator it is
// correct for negative x.  m must be positive.
func Normalize(x, m int) int {
	return ((x % m) + m) % m
}

// Mod26 is Normalize(x, Modulus).
func Mod26(x int) int {
	return Normalize(x, Modulus)
}

// Inverse searches [1, m) for x such that (a*x) mod m == 1.  The second
// result is false when a and m are not coprime and no inverse exists.
// a may be negative or larger than m; it is normalized first.
func Inverse(a, m int) (int, bool) {
	if m <= 1 {
		return 0, false
	}

	a = Normalize(a, m)
	for x := 1; x < m; x++ {
		if (a*x)%m == 1 {
			return x, true
		}
	}

	return 0, false
}

// GCD returns the greatest common divisor of a and b, always non-negative.
func GCD(a, b int) int {
	if a < 0 {
		a = -a
	}

	if b < 0 {
		b = -b
	}

	for b != 0 {
		a, b = b, a%b
	}

	return a
}

// Coprime reports whether a and m share no factor other than 1.
func Coprime(a, m int) bool {
	return GCD(a, m) == 1
}
