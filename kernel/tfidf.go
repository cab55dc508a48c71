package kernel

import (
	"strings"

	"github.com/chewxy/math32"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/orsinium-labs/stopwords"
	"github.com/tsawler/prose/v3"
)

// TFIDFIndex holds the document-frequency statistics for one Text field,
// built once over a corpus and reused across every pairwise comparison
// against that field (spec.md §4.2's "requires precomputed document
// frequencies over a corpus"). An empty document contributes to N but
// supplies no term frequencies, per the empty-document policy this module
// resolves the open question with.
type TFIDFIndex struct {
	docFreq     map[string]int
	numDocs     int
	stopThresh  float64
	stop        stopwords.StopWords
	vectorCache *lru.Cache[string, map[string]float32]
}

// NewTFIDFIndex builds a document-frequency index over corpus, one document
// per element (an element may be the empty string). Stop words below df<2
// ("singletons") and above the stop-word threshold max(0.025*N, 500) are
// dropped at lookup time, mirroring dedupe/tfidf.py's weightVectors.
func NewTFIDFIndex(corpus []string) *TFIDFIndex {
	idx := &TFIDFIndex{
		docFreq: make(map[string]int),
		numDocs: len(corpus),
		stop:    stopwords.English,
	}
	idx.vectorCache, _ = lru.New[string, map[string]float32](4096)

	for _, doc := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range tokenize(doc) {
			seen[tok] = struct{}{}
		}
		for tok := range seen {
			idx.docFreq[tok]++
		}
	}
	idx.stopThresh = 0.025 * float64(idx.numDocs)
	if idx.stopThresh < 500 {
		idx.stopThresh = 500
	}
	return idx
}

// tokenize splits on whitespace and word boundaries using prose's
// tokenizer, lowercasing each token.
func tokenize(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	doc, err := prose.NewDocument(s)
	if err != nil {
		return strings.Fields(strings.ToLower(s))
	}
	toks := doc.Tokens()
	out := make([]string, 0, len(toks))
	for _, t := range toks {
		tok := strings.ToLower(strings.TrimSpace(t.Text))
		if tok == "" {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func (idx *TFIDFIndex) included(token string) bool {
	if idx.stop.In(token) {
		return false
	}
	if idx.docFreq[token] < 2 {
		return false
	}
	if float64(idx.docFreq[token]) > idx.stopThresh {
		return false
	}
	return true
}

// vector builds the L2-normalised TF-IDF weight vector for one field value,
// caching by raw string since the same value recurs across many pairs in a
// batch.
func (idx *TFIDFIndex) vector(s string) map[string]float32 {
	if v, ok := idx.vectorCache.Get(s); ok {
		return v
	}

	tf := make(map[string]int)
	for _, tok := range tokenize(s) {
		tf[tok]++
	}

	weights := make(map[string]float32, len(tf))
	var normSq float32
	for tok, count := range tf {
		if !idx.included(tok) {
			continue
		}
		df := idx.docFreq[tok]
		idf := math32.Log(float32(idx.numDocs) / float32(df))
		w := float32(count) * idf
		weights[tok] = w
		normSq += w * w
	}
	if normSq > 0 {
		norm := math32.Sqrt(normSq)
		for tok := range weights {
			weights[tok] /= norm
		}
	}

	idx.vectorCache.Add(s, weights)
	return weights
}

// Cosine computes 1 − cosine-similarity between the TF-IDF vectors of a and
// b. Either operand absent yields Missing; both empty after tokenisation
// yields a distance of 0 (two empty documents are deemed identical).
func (idx *TFIDFIndex) Cosine(a, b string, aAbsent, bAbsent bool) Result {
	if aAbsent || bAbsent {
		return Missing
	}
	va := idx.vector(a)
	vb := idx.vector(b)
	if len(va) == 0 && len(vb) == 0 {
		return Of(0)
	}

	var dot float32
	small, big := va, vb
	if len(va) > len(vb) {
		small, big = vb, va
	}
	for tok, w := range small {
		dot += w * big[tok]
	}
	return Of(clamp01(1 - dot))
}
