package predicate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittclouds/matchkit/record"
)

func TestFingerprinter_EmitsPrefixedKeys(t *testing.T) {
	fp := NewFingerprinter([]Compound{
		{Terms: []Predicate{WholeField("name")}},
		{Terms: []Predicate{FirstWord("city")}},
	})

	r := record.Record{"name": record.String("acme"), "city": record.String("springfield")}
	keys := fp.Emit("1", r)

	require.Len(t, keys, 2)
	assert.True(t, strings.HasPrefix(string(keys[0]), "0:"))
	assert.True(t, strings.HasPrefix(string(keys[1]), "1:"))
}

func TestFingerprinter_CompoundRequiresAllTerms(t *testing.T) {
	fp := NewFingerprinter([]Compound{
		{Terms: []Predicate{WholeField("name"), WholeField("city")}},
	})

	full := record.Record{"name": record.String("acme"), "city": record.String("springfield")}
	partial := record.Record{"name": record.String("acme")}

	assert.Len(t, fp.Emit("1", full), 1)
	assert.Len(t, fp.Emit("2", partial), 0)
}

func TestFingerprinter_IndexAndResetIndices(t *testing.T) {
	canopy := TFIDFCanopy("desc", 0.4)
	fp := NewFingerprinter([]Compound{{Terms: []Predicate{canopy}}})

	fp.Index(map[string][]string{"desc": {"acme widgets", "acme gadgets", "other stuff"}})
	r := record.Record{"desc": record.String("acme widgets")}
	keys := fp.Emit("1", r)
	assert.NotNil(t, keys)

	fp.ResetIndices()
	assert.Empty(t, fp.Emit("1", r))
}
