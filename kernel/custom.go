package kernel

// Custom evaluates a caller-supplied pure distance function, given as a
// closure returning (distance, ok) where ok=false signals "missing"
// (spec.md §3's Custom field type). The closure's return value is clamped
// into [0,1] the same as every built-in kernel.
func Custom(compare func() (float64, bool)) Result {
	d, ok := compare()
	if !ok {
		return Missing
	}
	return Of(clamp01(float32(d)))
}
