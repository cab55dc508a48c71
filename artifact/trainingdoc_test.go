package artifact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTrainingDocument_DecodesFieldKinds(t *testing.T) {
	data := []byte(`{
		"match": [
			[{"name": "acme inc", "lat_lon": [37.7, -122.4], "tags": ["a", "b"]}, {"name": "acme incorporated"}]
		],
		"distinct": [
			[{"name": "acme inc"}, {"name": "smith co", "missing_field": null}]
		]
	}`)

	doc, err := ParseTrainingDocument(data)
	require.NoError(t, err)
	require.Len(t, doc.Match, 1)
	require.Len(t, doc.Distinct, 1)

	a := doc.Match[0][0]
	name, ok := a.Get("name").AsString()
	assert.True(t, ok)
	assert.Equal(t, "acme inc", name)

	geo, ok := a.Get("lat_lon").AsGeoPoint()
	assert.True(t, ok)
	assert.Equal(t, 37.7, geo.Lat)

	tags, ok := a.Get("tags").AsTuple()
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, tags)

	b := doc.Distinct[0][1]
	assert.True(t, b.Get("missing_field").IsAbsent())
}

func TestParseTrainingDocument_BadJSONErrors(t *testing.T) {
	_, err := ParseTrainingDocument([]byte(`not json`))
	assert.Error(t, err)
}

func TestParseTrainingDocument_BadTupleElementErrors(t *testing.T) {
	data := []byte(`{"match": [[{"bad": [1, 2, 3]}, {}]], "distinct": []}`)
	_, err := ParseTrainingDocument(data)
	assert.Error(t, err)
}
