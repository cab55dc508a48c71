package kernel

import "github.com/chewxy/math32"

// SetCorpus supplies per-token document frequency for IDF-weighted Jaccard.
// A nil *SetCorpus means "unweighted" (spec.md §4.2: "plus IDF-weighted
// variant when corpus given").
type SetCorpus struct {
	docFreq map[string]int
	numDocs int
}

// NewSetCorpus builds token document frequencies over one token-set per
// document.
func NewSetCorpus(docs [][]string) *SetCorpus {
	sc := &SetCorpus{docFreq: make(map[string]int), numDocs: len(docs)}
	for _, toks := range docs {
		seen := make(map[string]struct{}, len(toks))
		for _, t := range toks {
			seen[t] = struct{}{}
		}
		for t := range seen {
			sc.docFreq[t]++
		}
	}
	return sc
}

func (sc *SetCorpus) idf(token string) float32 {
	df := sc.docFreq[token]
	if df == 0 {
		df = 1
	}
	return math32.Log(float32(sc.numDocs+1) / float32(df))
}

// Jaccard computes 1 - |A∩B|/|A∪B| over two token tuples. If corpus is
// non-nil, the intersection and union are IDF-weighted sums rather than
// plain counts.
func Jaccard(a, b []string, aAbsent, bAbsent bool, corpus *SetCorpus) Result {
	if aAbsent || bAbsent {
		return Missing
	}
	if len(a) == 0 && len(b) == 0 {
		return Of(0)
	}

	setA := toSet(a)
	setB := toSet(b)

	var inter, union float32
	for tok := range setA {
		w := weightOf(tok, corpus)
		union += w
		if _, ok := setB[tok]; ok {
			inter += w
		}
	}
	for tok := range setB {
		if _, ok := setA[tok]; !ok {
			union += weightOf(tok, corpus)
		}
	}
	if union == 0 {
		return Of(0)
	}
	return Of(clamp01(1 - inter/union))
}

func weightOf(tok string, corpus *SetCorpus) float32 {
	if corpus == nil {
		return 1
	}
	return corpus.idf(tok)
}

func toSet(toks []string) map[string]struct{} {
	s := make(map[string]struct{}, len(toks))
	for _, t := range toks {
		s[t] = struct{}{}
	}
	return s
}
