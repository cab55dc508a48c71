// Package threshold implements the Threshold Selector of spec.md §4.10:
// picking the match-probability cutoff that maximizes expected F-beta over
// a sample of scored pairs, assuming each pair's classifier probability is
// itself a calibrated estimate of match likelihood.
//
// Grounded on dedupe/api.py's goodThreshold: sort scores descending, treat
// the cumulative sum of probabilities as the expected true-positive count
// at each cut point, derive expected precision/recall from that, and pick
// the cut maximizing the recall-weighted F score.
package threshold

import (
	"sort"

	"github.com/kittclouds/matchkit/scorer"
)

// Result is the selected cutoff plus the expected precision/recall the
// selection was optimizing, for diagnostics/logging.
type Result struct {
	Threshold          float64
	ExpectedPrecision  float64
	ExpectedRecall     float64
	ExpectedFBeta      float64
}

// DefaultRecallWeight matches dedupe's default recall_weight of 1.5: recall
// is weighted 1.5x as important as precision.
const DefaultRecallWeight = 1.5

// Select picks the probability cutoff over a sample of scored pairs that
// maximizes the recall-weighted F score, per dedupe/api.py:goodThreshold.
// recallWeight > 1 favors recall, < 1 favors precision, 1 is balanced F1.
// An empty sample returns a zero-value Result with Threshold 0.
func Select(scored []scorer.Scored, recallWeight float64) Result {
	return SelectSample(scored, recallWeight, 0)
}

// SelectSample is Select with an explicit cap on how many scored pairs are
// considered: dedupe/api.py's goodThreshold runs over a sample of blocked
// pairs rather than the full candidate stream, since the candidate stream
// can be far larger than needed to estimate a stable cutoff. maxSample <= 0
// means no cap. When scored exceeds maxSample, an evenly-strided
// deterministic subsample is taken (rather than a random one) so the same
// input always yields the same threshold.
func SelectSample(scored []scorer.Scored, recallWeight float64, maxSample int) Result {
	if len(scored) == 0 {
		return Result{}
	}
	if recallWeight <= 0 {
		recallWeight = DefaultRecallWeight
	}
	if maxSample > 0 && len(scored) > maxSample {
		scored = stridedSample(scored, maxSample)
	}

	probs := make([]float64, len(scored))
	for i, s := range scored {
		probs[i] = s.Probability
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(probs)))

	var cumulative float64
	expectedDupes := make([]float64, len(probs))
	for i, p := range probs {
		cumulative += p
		expectedDupes[i] = cumulative
	}
	total := expectedDupes[len(expectedDupes)-1]
	if total == 0 {
		return Result{Threshold: probs[len(probs)-1]}
	}

	beta2 := recallWeight * recallWeight

	bestIdx := 0
	bestScore := -1.0
	var bestRecall, bestPrecision float64
	for i := range probs {
		recall := expectedDupes[i] / total
		precision := expectedDupes[i] / float64(i+1)

		denom := recall + beta2*precision
		var score float64
		if denom > 0 {
			score = (1 + beta2) * recall * precision / denom
		}
		if score > bestScore {
			bestScore = score
			bestIdx = i
			bestRecall = recall
			bestPrecision = precision
		}
	}

	return Result{
		Threshold:         probs[bestIdx],
		ExpectedPrecision: bestPrecision,
		ExpectedRecall:    bestRecall,
		ExpectedFBeta:     bestScore,
	}
}

// stridedSample picks n evenly-spaced elements from scored, preserving
// relative order.
func stridedSample(scored []scorer.Scored, n int) []scorer.Scored {
	out := make([]scorer.Scored, 0, n)
	stride := float64(len(scored)) / float64(n)
	for i := 0; i < n; i++ {
		idx := int(float64(i) * stride)
		if idx >= len(scored) {
			idx = len(scored) - 1
		}
		out = append(out, scored[idx])
	}
	return out
}
