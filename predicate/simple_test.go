package predicate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWholeField(t *testing.T) {
	p := WholeField("name")
	assert.Equal(t, []string{"acme corp"}, p.Keys("acme corp", false))
	assert.Nil(t, p.Keys("", true))
}

func TestTokens(t *testing.T) {
	p := Tokens("name")
	assert.Equal(t, []string{"acme", "corp"}, p.Keys("acme corp", false))
}

func TestNGram(t *testing.T) {
	p := NGram("name", 4)
	keys := p.Keys("acme", false)
	assert.Equal(t, []string{"acme"}, keys)

	assert.Nil(t, p.Keys("ab", false))
}

func TestPrefixK(t *testing.T) {
	p := PrefixK("name", 3)
	assert.Equal(t, []string{"acm"}, p.Keys("acme corp", false))
	assert.Nil(t, p.Keys("ac", false))
}

func TestCommonIntegers(t *testing.T) {
	p := CommonIntegers("address")
	assert.Equal(t, []string{"123", "45"}, p.Keys("123 Main St Apt 45", false))
}

func TestNearIntegers(t *testing.T) {
	p := NearIntegers("year")
	assert.Equal(t, []string{"1999", "2000", "2001"}, p.Keys("2000", false))
}

func TestSortedAcronym(t *testing.T) {
	p := SortedAcronym("name")
	a := p.Keys("International Business Machines", false)
	b := p.Keys("Business Machines International", false)
	assert.Equal(t, a, b)
}

func TestFirstWord(t *testing.T) {
	p := FirstWord("name")
	assert.Equal(t, []string{"acme"}, p.Keys("acme corp", false))
}

func TestGeoGridCell(t *testing.T) {
	p := GeoGridCell("loc", 1.0)
	a := p.Keys("(51.2,-0.3)", false)
	b := p.Keys("(51.6,-0.1)", false)
	assert.Equal(t, a, b)
}
