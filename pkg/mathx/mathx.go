package mathx

import "golang.org/x/exp/constraints"

// Number covers the numeric types the weighting math operates on.
type Number interface {
	constraints.Integer | constraints.Float
}

// Clamp bounds v to the closed interval [lo, hi].
func Clamp[N Number](v, lo, hi N) N {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Sum adds up all values in the slice.
func Sum[N Number](values []N) N {
	var total N
	for _, v := range values {
		total += v
	}
	return total
}
