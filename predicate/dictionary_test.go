package predicate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenDictionary_FindsIndexedTokens(t *testing.T) {
	p := TokenDictionary("name", 10)
	p.Index([]string{"acme corporation", "acme industries", "widget co"})

	keys := p.Keys("acme corporation of texas", false)
	assert.Contains(t, keys, "acme")
	assert.Contains(t, keys, "corporation")
	assert.NotContains(t, keys, "texas")
}

func TestTokenDictionary_AbsentYieldsNoKeys(t *testing.T) {
	p := TokenDictionary("name", 10)
	p.Index([]string{"acme corporation"})
	assert.Empty(t, p.Keys("acme", true))
}

func TestTokenDictionary_ResetIndicesClearsDictionary(t *testing.T) {
	p := TokenDictionary("name", 10)
	p.Index([]string{"acme corporation"})
	p.ResetIndices()
	assert.Empty(t, p.Keys("acme corporation", false))
}
