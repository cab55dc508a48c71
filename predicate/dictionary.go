package predicate

import (
	"sort"
	"strings"

	aho_corasick "github.com/petar-dambovaliev/aho-corasick"
)

// tokenDictionaryPredicate blocks on which vocabulary tokens occur in a
// field value, verified in one pass over the raw string via an
// Aho-Corasick automaton rather than a tokenize-then-lookup loop per
// candidate term. Grounded on qgram/query_verifier.go's
// NewQueryVerifier/IterOverlapping shape, adapted from multi-clause query
// verification to multi-token block-key emission: every distinct token
// seen at Index time becomes one automaton pattern, and Keys returns the
// subset actually present in a given value.
type tokenDictionaryPredicate struct {
	field    string
	maxTerms int

	ac    aho_corasick.AhoCorasick
	terms []string
}

// TokenDictionary builds a predicate whose block keys are the dictionary
// tokens (the maxTerms most frequent distinct tokens observed at Index
// time) present in a value. Two records share a block whenever they share
// at least one dictionary token, which Emit's cross-product combines with
// other compound terms to narrow further.
func TokenDictionary(field string, maxTerms int) Indexed {
	if maxTerms <= 0 {
		maxTerms = 500
	}
	return &tokenDictionaryPredicate{field: field, maxTerms: maxTerms}
}

func (p *tokenDictionaryPredicate) Name() string  { return "token_dictionary" }
func (p *tokenDictionaryPredicate) Field() string { return p.field }

// Index builds the automaton over the maxTerms most frequent distinct
// tokens in values.
func (p *tokenDictionaryPredicate) Index(values []string) {
	counts := make(map[string]int)
	for _, v := range values {
		for _, tok := range strings.Fields(v) {
			counts[tok]++
		}
	}

	terms := make([]string, 0, len(counts))
	for tok := range counts {
		terms = append(terms, tok)
	}
	sort.Slice(terms, func(i, j int) bool {
		if counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > p.maxTerms {
		terms = terms[:p.maxTerms]
	}
	p.terms = terms

	builder := aho_corasick.NewAhoCorasickBuilder(aho_corasick.Opts{
		AsciiCaseInsensitive: false,
		MatchOnlyWholeWords:  true,
		MatchKind:            aho_corasick.StandardMatch,
		DFA:                  false,
	})
	p.ac = builder.Build(terms)
}

// ResetIndices drops the automaton and term dictionary.
func (p *tokenDictionaryPredicate) ResetIndices() {
	p.terms = nil
	p.ac = aho_corasick.AhoCorasick{}
}

// Keys returns the distinct dictionary tokens found in value, sorted, one
// key per token.
func (p *tokenDictionaryPredicate) Keys(value string, absent bool) []string {
	if absent || len(p.terms) == 0 {
		return nil
	}

	seen := make(map[string]struct{})
	iter := p.ac.IterOverlapping(value)
	for {
		m := iter.Next()
		if m == nil {
			break
		}
		idx := m.Pattern()
		if idx < 0 || idx >= len(p.terms) {
			continue
		}
		seen[p.terms[idx]] = struct{}{}
	}

	out := make([]string, 0, len(seen))
	for tok := range seen {
		out = append(out, tok)
	}
	sort.Strings(out)
	return out
}
