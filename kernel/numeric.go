package kernel

import "github.com/chewxy/math32"

// priceEpsilon is the floor applied before taking logs, so a zero or
// negative price doesn't blow up the kernel.
const priceEpsilon float32 = 0.01

// priceCap bounds the log-distance before rescaling to [0,1]; distances
// beyond a ~3-order-of-magnitude ratio all read as maximally distant.
const priceCap float32 = 7.0

// Exact returns 0 if a == b, else 1 (spec.md §4.2).
func Exact(a, b string, aAbsent, bAbsent bool) Result {
	if aAbsent || bAbsent {
		return Missing
	}
	if a == b {
		return Of(0)
	}
	return Of(1)
}

// Price computes |log(max(a,eps)) - log(max(b,eps))|, capped and rescaled
// into [0,1] (spec.md §4.2).
func Price(a, b float64, aAbsent, bAbsent bool) Result {
	if aAbsent || bAbsent {
		return Missing
	}
	fa, fb := float32(a), float32(b)
	if fa < priceEpsilon {
		fa = priceEpsilon
	}
	if fb < priceEpsilon {
		fb = priceEpsilon
	}
	d := math32.Abs(math32.Log(fa) - math32.Log(fb))
	return Of(clamp01(d / priceCap))
}
