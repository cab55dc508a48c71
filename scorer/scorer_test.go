package scorer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittclouds/matchkit/classifier"
	"github.com/kittclouds/matchkit/errs"
	"github.com/kittclouds/matchkit/feature"
	"github.com/kittclouds/matchkit/record"
	"github.com/kittclouds/matchkit/schema"
)

func testBuilder(t *testing.T) *feature.Builder {
	t.Helper()
	dm, err := schema.NewDataModel([]schema.FieldDef{
		{Name: "name", Kind: schema.KindString},
	})
	require.NoError(t, err)
	return feature.NewBuilder(dm, nil, nil)
}

func records() map[record.ID]record.Record {
	return map[record.ID]record.Record{
		"1": {"name": record.String("acme corp")},
		"2": {"name": record.String("acme corp")},
		"3": {"name": record.String("zzz totally different")},
	}
}

func TestScorer_FiltersBelowThreshold(t *testing.T) {
	builder := testBuilder(t)
	model := &classifier.Model{Weights: []float64{-20}, Bias: 10}

	s := New(builder, model, WithChunkSize(1))
	recs := records()
	pairs := []record.Pair{record.NewPair("1", "2"), record.NewPair("1", "3")}

	out, err := s.Score(context.Background(), pairs, recs, 0.5)
	require.NoError(t, err)
	for _, o := range out {
		assert.GreaterOrEqual(t, o.Probability, 0.5)
	}
}

func TestScorer_EmptyCandidatesYieldsNil(t *testing.T) {
	builder := testBuilder(t)
	model := &classifier.Model{Weights: []float64{1}, Bias: 0}
	s := New(builder, model)

	out, err := s.Score(context.Background(), nil, records(), 0.0)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestScorer_SortedDescendingByProbability(t *testing.T) {
	builder := testBuilder(t)
	model := &classifier.Model{Weights: []float64{-20}, Bias: 10}
	s := New(builder, model, WithChunkSize(1))

	recs := records()
	pairs := []record.Pair{record.NewPair("1", "3"), record.NewPair("1", "2")}

	out, err := s.Score(context.Background(), pairs, recs, 0.0)
	require.NoError(t, err)
	for i := 1; i < len(out); i++ {
		assert.GreaterOrEqual(t, out[i-1].Probability, out[i].Probability)
	}
}

func TestScorer_UnknownRecordErrors(t *testing.T) {
	builder := testBuilder(t)
	model := &classifier.Model{Weights: []float64{1}, Bias: 0}
	s := New(builder, model)

	pairs := []record.Pair{record.NewPair("1", "missing")}
	_, err := s.Score(context.Background(), pairs, records(), 0.0)
	assert.Error(t, err)
}

func TestScorer_CancelledContextReturnsErrCancelled(t *testing.T) {
	builder := testBuilder(t)
	model := &classifier.Model{Weights: []float64{-20}, Bias: 10}
	s := New(builder, model, WithChunkSize(1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pairs := []record.Pair{record.NewPair("1", "2"), record.NewPair("1", "3")}
	_, err := s.Score(ctx, pairs, records(), 0.0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrCancelled))
}

func TestScorer_DedupsRepeatedPairs(t *testing.T) {
	builder := testBuilder(t)
	model := &classifier.Model{Weights: []float64{-20}, Bias: 10}
	s := New(builder, model, WithChunkSize(1))

	recs := records()
	pair := record.NewPair("1", "2")
	pairs := []record.Pair{pair, pair, pair}

	out, err := s.Score(context.Background(), pairs, recs, 0.0)
	require.NoError(t, err)
	assert.Len(t, out, 1)
	assert.Equal(t, pair, out[0].Pair)
}
