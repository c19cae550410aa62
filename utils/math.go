package utils

import (
	"math"
)

func ConstArray(N int, val float64) (v []float64) {
	v = make([]float64, N)
	for i := range v {
		v[i] = val
	}
	return
}

func POW(x float64, pp int) (y float64) {
	var (
		p       = pp
		flipped bool
	)
	if pp > 8 || pp < -8 {
		goto MATHPOW
	}

	if p < 0 {
		p = -pp
		flipped = true
	}
	switch p {
	case 0:
		y = 1
	case 1:
		y = x
	case 2:
		y = x * x
	case 3:
		y = x * x * x
	case 4:
		y = x * x
		y = y * y
	case 5:
		y = x * x
		y = y * y * x
	case 6:
		y = x * x
		y = y * y * y
	case 7:
		y = x * x
		y = y * y * y * x
	case 8:
		y = x * x
		y = y * y * y * y
	}
	if flipped {
		y = 1. / y
	}
	return

MATHPOW:
	y = math.Pow(x, float64(p))
	return
}

// Interp1 linearly interpolates the table (x, y) at xi, x must be increasing.
// Points outside the table take the end values.
func Interp1(x, y []float64, xi float64) float64 {
	N := len(x)
	if xi <= x[0] {
		return y[0]
	}
	if xi >= x[N-1] {
		return y[N-1]
	}
	lo, hi := 0, N-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if x[mid] <= xi {
			lo = mid
		} else {
			hi = mid
		}
	}
	w := (xi - x[lo]) / (x[hi] - x[lo])
	return (1-w)*y[lo] + w*y[hi]
}
