package labeledstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittclouds/matchkit/record"
)

func TestStore_PreservesInsertionOrder(t *testing.T) {
	s := New()
	a1 := record.Record{"name": record.String("a1")}
	b1 := record.Record{"name": record.String("b1")}
	a2 := record.Record{"name": record.String("a2")}
	b2 := record.Record{"name": record.String("b2")}

	require.True(t, s.Add("1", "2", a1, b1, true))
	require.True(t, s.Add("3", "4", a2, b2, true))

	matches := s.Matches()
	require.Len(t, matches, 2)
	assert.Equal(t, record.ID("1"), matches[0].AID)
	assert.Equal(t, record.ID("3"), matches[1].AID)
}

func TestStore_DeduplicatesStructuralEquality(t *testing.T) {
	s := New()
	a := record.Record{"name": record.String("acme"), "city": record.String("ny")}
	b := record.Record{"name": record.String("acme corp"), "city": record.String("ny")}

	added1 := s.Add("1", "2", a, b, true)
	added2 := s.Add("1", "2", a, b, true)

	assert.True(t, added1)
	assert.False(t, added2)
	assert.Equal(t, 1, s.Len())
}

func TestStore_OrderIndependentFieldMapHashing(t *testing.T) {
	s := New()
	a1 := record.Record{"name": record.String("acme"), "city": record.String("ny")}
	a2 := record.Record{"city": record.String("ny"), "name": record.String("acme")}
	b := record.Record{"name": record.String("other")}

	require.True(t, s.Add("1", "2", a1, b, false))
	assert.False(t, s.Add("1", "2", a2, b, false))
}

func TestStore_SeparatesMatchesAndDistincts(t *testing.T) {
	s := New()
	a := record.Record{"name": record.String("a")}
	b := record.Record{"name": record.String("b")}
	c := record.Record{"name": record.String("c")}

	s.Add("1", "2", a, b, true)
	s.Add("1", "3", a, c, false)

	assert.Len(t, s.Matches(), 1)
	assert.Len(t, s.Distincts(), 1)
	assert.Equal(t, 2, s.Len())
}
