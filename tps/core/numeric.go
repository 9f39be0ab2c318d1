package core

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

const defaultEpsilon = 1e-12

// ClampInt limits v to [lo, hi].
func ClampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

// NearlyEqual reports whether a and b are equal within eps.
// eps is absolute near zero and relative otherwise.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}

// Geomspace returns n samples spaced with a constant ratio from lo to hi.
// Both ends are included. lo and hi must be positive and n >= 2.
func Geomspace(lo, hi float64, n int) []float64 {
	out := floats.LogSpan(make([]float64, n), lo, hi)
	// exp(log(x)) is not exact; pin the ends.
	out[0], out[n-1] = lo, hi
	return out
}

// Linspace returns n evenly spaced samples from lo to hi inclusive. n >= 2.
func Linspace(lo, hi float64, n int) []float64 {
	return floats.Span(make([]float64, n), lo, hi)
}

// StrictlyIncreasing reports whether every element of s is larger than
// its predecessor.
func StrictlyIncreasing(s []float64) bool {
	for i := 1; i < len(s); i++ {
		if !(s[i] > s[i-1]) {
			return false
		}
	}
	return true
}

// StrictlyDecreasing reports whether every element of s is smaller than
// its predecessor.
func StrictlyDecreasing(s []float64) bool {
	for i := 1; i < len(s); i++ {
		if !(s[i] < s[i-1]) {
			return false
		}
	}
	return true
}
