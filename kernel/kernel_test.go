package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAffineGapDistance_IdenticalIsZero(t *testing.T) {
	r := AffineGapDistance("smith", "smith", false, false)
	require.False(t, r.Missing)
	assert.InDelta(t, 0.0, float64(r.Value), 1e-4)
}

func TestAffineGapDistance_Missing(t *testing.T) {
	r := AffineGapDistance("smith", "", true, false)
	assert.True(t, r.Missing)
}

func TestAffineGapDistance_CompletelyDifferentIsBounded(t *testing.T) {
	r := AffineGapDistance("abc", "xyz", false, false)
	require.False(t, r.Missing)
	assert.GreaterOrEqual(t, r.Value, float32(0))
	assert.LessOrEqual(t, r.Value, float32(1))
}

func TestAffineGapDistance_Symmetric(t *testing.T) {
	ab := AffineGapDistance("kitten", "sitting", false, false)
	ba := AffineGapDistance("sitting", "kitten", false, false)
	assert.InDelta(t, float64(ab.Value), float64(ba.Value), 1e-4)
}

func TestHaversine_SamePointIsZero(t *testing.T) {
	r := Haversine(51.5, -0.1, 51.5, -0.1, false, false)
	require.False(t, r.Missing)
	assert.InDelta(t, 0.0, float64(r.Value), 1e-4)
}

func TestHaversine_Antipodal(t *testing.T) {
	r := Haversine(0, 0, 0, 180, false, false)
	require.False(t, r.Missing)
	assert.LessOrEqual(t, r.Value, float32(1))
}

func TestJaccard_IdenticalSets(t *testing.T) {
	r := Jaccard([]string{"a", "b"}, []string{"b", "a"}, false, false, nil)
	require.False(t, r.Missing)
	assert.InDelta(t, 0.0, float64(r.Value), 1e-6)
}

func TestJaccard_DisjointSets(t *testing.T) {
	r := Jaccard([]string{"a"}, []string{"b"}, false, false, nil)
	require.False(t, r.Missing)
	assert.InDelta(t, 1.0, float64(r.Value), 1e-6)
}

func TestExact(t *testing.T) {
	assert.Equal(t, float32(0), Exact("x", "x", false, false).Value)
	assert.Equal(t, float32(1), Exact("x", "y", false, false).Value)
	assert.True(t, Exact("x", "y", true, false).Missing)
}

func TestPrice_IdenticalIsZero(t *testing.T) {
	r := Price(100, 100, false, false)
	require.False(t, r.Missing)
	assert.InDelta(t, 0.0, float64(r.Value), 1e-6)
}

func TestPrice_MonotoneInRatio(t *testing.T) {
	small := Price(100, 110, false, false)
	big := Price(100, 1000, false, false)
	assert.Greater(t, big.Value, small.Value)
}

func TestCategoricalIndicator(t *testing.T) {
	same := CategoricalIndicator("red", "red", "red", "blue", false, false)
	assert.Equal(t, float32(0), same.Value)

	diff := CategoricalIndicator("red", "blue", "red", "blue", false, false)
	assert.Equal(t, float32(1), diff.Value)

	outside := CategoricalIndicator("green", "red", "red", "blue", false, false)
	assert.True(t, outside.Missing)
}

func TestInteraction_MissingPropagates(t *testing.T) {
	r := Interaction(Missing, Of(0.5))
	assert.True(t, r.Missing)

	ok := Interaction(Of(0.5), Of(0.5))
	assert.InDelta(t, 0.25, float64(ok.Value), 1e-6)
}

func TestTFIDFCosine_IdenticalDocuments(t *testing.T) {
	idx := NewTFIDFIndex([]string{
		"acme corporation widgets", "acme corporation gadgets",
		"other company products", "another firm entirely",
	})
	r := idx.Cosine("acme corporation widgets", "acme corporation widgets", false, false)
	require.False(t, r.Missing)
	assert.InDelta(t, 0.0, float64(r.Value), 1e-3)
}

func TestTFIDFCosine_EmptyDocumentsAreIdentical(t *testing.T) {
	idx := NewTFIDFIndex([]string{"a b c", ""})
	r := idx.Cosine("", "", false, false)
	require.False(t, r.Missing)
	assert.Equal(t, float32(0), r.Value)
}
