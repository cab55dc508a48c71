package threshold

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kittclouds/matchkit/record"
	"github.com/kittclouds/matchkit/scorer"
)

func sc(p float64) scorer.Scored {
	return scorer.Scored{Pair: record.NewPair("a", "b"), Probability: p}
}

func TestSelect_EmptySampleReturnsZero(t *testing.T) {
	r := Select(nil, DefaultRecallWeight)
	assert.Equal(t, 0.0, r.Threshold)
}

func TestSelect_PicksThresholdWithinSampleRange(t *testing.T) {
	sample := []scorer.Scored{sc(0.95), sc(0.9), sc(0.85), sc(0.2), sc(0.1)}
	r := Select(sample, DefaultRecallWeight)
	assert.GreaterOrEqual(t, r.Threshold, 0.1)
	assert.LessOrEqual(t, r.Threshold, 0.95)
	assert.Greater(t, r.ExpectedFBeta, 0.0)
}

func TestSelect_HighRecallWeightPrefersLowerThreshold(t *testing.T) {
	sample := []scorer.Scored{sc(0.99), sc(0.6), sc(0.55), sc(0.05)}
	lowWeight := Select(sample, 0.1)
	highWeight := Select(sample, 10.0)
	assert.LessOrEqual(t, highWeight.Threshold, lowWeight.Threshold)
}

func TestSelectSample_CapsConsideredPairs(t *testing.T) {
	sample := make([]scorer.Scored, 1000)
	for i := range sample {
		sample[i] = sc(float64(1000-i) / 1000)
	}
	r := SelectSample(sample, DefaultRecallWeight, 10)
	assert.GreaterOrEqual(t, r.Threshold, 0.0)
	assert.LessOrEqual(t, r.Threshold, 1.0)
}

func TestSelectSample_NoCapMatchesSelect(t *testing.T) {
	sample := []scorer.Scored{sc(0.9), sc(0.3)}
	assert.Equal(t, Select(sample, DefaultRecallWeight), SelectSample(sample, DefaultRecallWeight, 0))
}
