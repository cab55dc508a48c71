package kernel

import "github.com/chewxy/math32"

// Affine-gap parameters fixed by spec.md §4.2.
const (
	editMatch      float32 = -5
	editMismatch   float32 = 5
	editGapStart   float32 = 4
	editGapExtend  float32 = 1
	editExtDecay   float32 = 0.125
)

const infCost float32 = 1e9

// AffineGapDistance runs a Gotoh-style three-matrix affine-gap alignment
// between a and b and normalises the result to [0,1] via the max-length
// rule of spec.md §4.2. Either operand absent yields Missing.
func AffineGapDistance(a, b string, aAbsent, bAbsent bool) Result {
	if aAbsent || bAbsent {
		return Missing
	}
	ra, rb := []rune(a), []rune(b)
	n, m := len(ra), len(rb)
	if n == 0 && m == 0 {
		return Of(0)
	}

	raw := affineGapAlign(ra, rb)

	maxLen := float32(n)
	if float32(m) > maxLen {
		maxLen = float32(m)
	}
	if maxLen == 0 {
		return Of(0)
	}

	// Identical sequences score editMatch*maxLen; worst-case mismatch scores
	// editMismatch*maxLen. Rescale that span onto [0,1].
	lo := editMatch * maxLen
	hi := editMismatch * maxLen
	norm := (raw - lo) / (hi - lo)
	return Of(clamp01(norm))
}

// cell bundles a running score with the length of the gap run leading into
// it, so extend cost can decay geometrically per spec.md's ext_decay term.
type cell struct {
	score float32
	run   int
}

func minCell(a, b cell) cell {
	if a.score <= b.score {
		return a
	}
	return b
}

func extendCost(run int) float32 {
	decay := math32.Pow(editExtDecay, float32(run))
	return editGapExtend * decay
}

// affineGapAlign computes the minimum-cost alignment score of a against b
// under the fixed affine-gap parameters, tracking gap-run length so the
// extend penalty can decay per step.
func affineGapAlign(a, b []rune) float32 {
	n, m := len(a), len(b)

	M := make([][]cell, n+1)
	Ix := make([][]cell, n+1)
	Iy := make([][]cell, n+1)
	for i := range M {
		M[i] = make([]cell, m+1)
		Ix[i] = make([]cell, m+1)
		Iy[i] = make([]cell, m+1)
	}

	M[0][0] = cell{score: 0}
	Ix[0][0] = cell{score: infCost}
	Iy[0][0] = cell{score: infCost}

	for i := 1; i <= n; i++ {
		M[i][0] = cell{score: infCost}
		Ix[i][0] = cell{score: infCost}
		prevBest := minCell(M[i-1][0], Iy[i-1][0])
		run := 1
		if i > 1 && Iy[i-1][0].run > 0 && Iy[i-1][0].score <= M[i-1][0].score {
			run = Iy[i-1][0].run + 1
		}
		cost := editGapStart
		if i > 1 {
			cost = extendCost(run - 1)
		}
		Iy[i][0] = cell{score: prevBest.score + cost, run: run}
	}
	for j := 1; j <= m; j++ {
		M[0][j] = cell{score: infCost}
		Iy[0][j] = cell{score: infCost}
		prevBest := minCell(M[0][j-1], Ix[0][j-1])
		run := 1
		if j > 1 && Ix[0][j-1].run > 0 && Ix[0][j-1].score <= M[0][j-1].score {
			run = Ix[0][j-1].run + 1
		}
		cost := editGapStart
		if j > 1 {
			cost = extendCost(run - 1)
		}
		Ix[0][j] = cell{score: prevBest.score + cost, run: run}
	}

	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			sub := editMismatch
			if a[i-1] == b[j-1] {
				sub = editMatch
			}
			M[i][j] = cell{score: sub + minOf3(M[i-1][j-1].score, Ix[i-1][j-1].score, Iy[i-1][j-1].score)}

			// Gap in b (consume a[i-1], Ix tracks gaps along the b axis).
			openX := minCell(M[i-1][j], Iy[i-1][j])
			extX := Ix[i-1][j]
			if openX.score+editGapStart <= extX.score+extendCost(extX.run) {
				Ix[i][j] = cell{score: openX.score + editGapStart, run: 1}
			} else {
				Ix[i][j] = cell{score: extX.score + extendCost(extX.run), run: extX.run + 1}
			}

			// Gap in a (consume b[j-1]).
			openY := minCell(M[i][j-1], Ix[i][j-1])
			extY := Iy[i][j-1]
			if openY.score+editGapStart <= extY.score+extendCost(extY.run) {
				Iy[i][j] = cell{score: openY.score + editGapStart, run: 1}
			} else {
				Iy[i][j] = cell{score: extY.score + extendCost(extY.run), run: extY.run + 1}
			}
		}
	}

	return minOf3(M[n][m].score, Ix[n][m].score, Iy[n][m].score)
}

func minOf3(a, b, c float32) float32 {
	v := a
	if b < v {
		v = b
	}
	if c < v {
		v = c
	}
	return v
}
