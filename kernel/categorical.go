package kernel

// CategoricalIndicator evaluates one of the k*(k-1)/2 pairwise indicator
// columns a Categorical field expands to. Each column is keyed by an
// unordered category pair (catA, catB); it reads 1 when the two records
// fall on different sides of that pair, 0 when they agree, and Missing if
// either value is absent or outside the declared category set.
func CategoricalIndicator(a, b, catA, catB string, aAbsent, bAbsent bool) Result {
	if aAbsent || bAbsent {
		return Missing
	}
	sideA := categorySide(a, catA, catB)
	sideB := categorySide(b, catA, catB)
	if sideA == 0 || sideB == 0 {
		return Missing
	}
	if sideA == sideB {
		return Of(0)
	}
	return Of(1)
}

// categorySide returns 1 if v==catA, 2 if v==catB, 0 otherwise (neither, or
// a category not part of this pair).
func categorySide(v, catA, catB string) int {
	switch v {
	case catA:
		return 1
	case catB:
		return 2
	default:
		return 0
	}
}
