package blocklearn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittclouds/matchkit/predicate"
	"github.com/kittclouds/matchkit/record"
)

func rec(name string) record.Record { return record.Record{"name": record.String(name)} }

func TestLearn_SelectsPredicateCoveringAllMatches(t *testing.T) {
	candidates := []Candidate{
		{Compound: predicate.Compound{Terms: []predicate.Predicate{predicate.WholeField("name")}}, Simple: true, FieldOrder: 0},
		{Compound: predicate.Compound{Terms: []predicate.Predicate{predicate.FirstWord("name")}}, Simple: true, FieldOrder: 0},
	}

	matches := [][2]record.Record{
		{rec("acme"), rec("acme")},
		{rec("widgets"), rec("widgets")},
	}
	distincts := [][2]record.Record{
		{rec("acme"), rec("other")},
	}

	result := Learn(candidates, matches, distincts, nil, 1.0, 0)
	require.NotEmpty(t, result.Selected)
	assert.True(t, result.RecallMet)
	assert.Equal(t, 2, result.Covered)
}

func TestLearn_StopsAtRecallTarget(t *testing.T) {
	candidates := []Candidate{
		{Compound: predicate.Compound{Terms: []predicate.Predicate{predicate.WholeField("name")}}, Simple: true},
	}
	matches := [][2]record.Record{
		{rec("acme"), rec("acme")},
		{rec("foo"), rec("bar")},
	}

	result := Learn(candidates, matches, nil, nil, 0.5, 0)
	assert.True(t, result.RecallMet)
	assert.Equal(t, 1, result.Covered)
}

func TestLearn_EmptyCandidatePoolYieldsNoSelection(t *testing.T) {
	matches := [][2]record.Record{{rec("acme"), rec("acme")}}
	result := Learn(nil, matches, nil, nil, 1.0, 0)
	assert.Empty(t, result.Selected)
	assert.False(t, result.RecallMet)
}
