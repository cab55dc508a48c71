package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittclouds/matchkit/classifier"
	"github.com/kittclouds/matchkit/feature"
	"github.com/kittclouds/matchkit/predicate"
	"github.com/kittclouds/matchkit/record"
	"github.com/kittclouds/matchkit/schema"
)

func testController(t *testing.T) *Controller {
	t.Helper()
	dm, err := schema.NewDataModel([]schema.FieldDef{
		{Name: "name", Kind: schema.KindString},
	})
	require.NoError(t, err)
	builder := feature.NewBuilder(dm, nil, nil)
	model := &classifier.Model{Weights: []float64{-20}, Bias: 10}

	fp := predicate.NewFingerprinter([]predicate.Compound{
		{Terms: []predicate.Predicate{predicate.FirstWord("name")}},
	})

	return New(builder, model, fp)
}

func recordsOf(pairs map[string]string) map[record.ID]record.Record {
	out := make(map[record.ID]record.Record, len(pairs))
	for id, name := range pairs {
		out[record.ID(id)] = record.Record{"name": record.String(name)}
	}
	return out
}

func TestPartition_GroupsNearDuplicates(t *testing.T) {
	c := testController(t)
	recs := recordsOf(map[string]string{
		"1": "acme corporation",
		"2": "acme corporation",
		"3": "totally unrelated widgets",
	})

	clusters, err := c.Partition(context.Background(), recs, 0.5)
	require.NoError(t, err)

	// Full cover: every input record appears in exactly one cluster,
	// including "3" as its own singleton with score 1.
	seen := make(map[record.ID]bool)
	var singleton bool
	for _, cl := range clusters {
		for _, m := range cl {
			seen[m.ID] = true
			if m.ID == "3" {
				require.Len(t, cl, 1)
				assert.Equal(t, 1.0, m.Score)
				singleton = true
			}
		}
	}
	assert.True(t, singleton, "record 3 must appear as its own singleton cluster")
	assert.Len(t, seen, 3)
}

func TestJoin_RejectsOverlappingIDs(t *testing.T) {
	c := testController(t)
	left := recordsOf(map[string]string{"1": "acme"})
	right := recordsOf(map[string]string{"1": "acme"})

	_, err := c.Join(context.Background(), left, right, 0.5)
	assert.Error(t, err)
}

func TestJoin_LinksAcrossPools(t *testing.T) {
	c := testController(t)
	left := recordsOf(map[string]string{"l1": "acme corporation"})
	right := recordsOf(map[string]string{"r1": "acme corporation", "r2": "zzz other"})

	linked, err := c.Join(context.Background(), left, right, 0.5)
	require.NoError(t, err)
	for _, s := range linked {
		assert.True(t, s.Pair.A == "l1" || s.Pair.B == "l1")
	}
}

func TestSearch_RespectsMatchLimit(t *testing.T) {
	c := testController(t)
	messy := recordsOf(map[string]string{"m1": "acme corporation"})
	canonical := recordsOf(map[string]string{
		"c1": "acme corporation",
		"c2": "acme corporation inc",
	})

	results, err := c.Search(context.Background(), messy, canonical, 1, 0.0)
	require.NoError(t, err)
	for _, matches := range results {
		assert.LessOrEqual(t, len(matches), 1)
	}
}

func TestThreshold_ReturnsValueInUnitRange(t *testing.T) {
	c := testController(t)
	recs := recordsOf(map[string]string{
		"1": "acme corporation",
		"2": "acme corporation",
		"3": "zzz other",
	})

	tau, err := c.Threshold(context.Background(), recs, 1.5)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, tau, 0.0)
	assert.LessOrEqual(t, tau, 1.0)
}
