package predicate

import (
	"strconv"
	"strings"

	"github.com/fogfish/hnsw"
	hnswvector "github.com/fogfish/hnsw/vector"
	kvector "github.com/kshard/vector"

	"github.com/kittclouds/matchkit/kernel"
)

// tfidfCanopyPredicate implements the TF-IDF canopy predicate of spec.md
// §4.5: two records share a block key if their Text field's token-count
// vectors have a canopy centre in common among their approximate nearest
// neighbours. Candidate centres are the indexed values themselves; neighbours
// are found via HNSW approximate nearest-neighbour search, grounded on the
// teacher's pkg/vector.Store pattern.
type tfidfCanopyPredicate struct {
	field     string
	threshold float64

	tfidf   *kernel.TFIDFIndex
	index   *hnsw.HNSW[hnswvector.VF32]
	centres map[uint32]string
	vocab   map[string]int
	nextID  uint32
}

// TFIDFCanopy constructs a canopy predicate at the given similarity
// threshold (one of {0.2, 0.4, 0.6, 0.8} per spec.md §4.5).
func TFIDFCanopy(field string, threshold float64) Indexed {
	return &tfidfCanopyPredicate{
		field:     field,
		threshold: threshold,
		centres:   make(map[uint32]string),
		vocab:     make(map[string]int),
	}
}

func (p *tfidfCanopyPredicate) Name() string  { return "tfidf_canopy_" + strconv.FormatFloat(p.threshold, 'f', 1, 64) }
func (p *tfidfCanopyPredicate) Field() string { return p.field }

// Index builds the TF-IDF document-frequency table and an HNSW index of
// every distinct corpus value's dense bag-of-words vector, seeding the
// vocabulary shared by every subsequent call to Keys.
func (p *tfidfCanopyPredicate) Index(values []string) {
	p.tfidf = kernel.NewTFIDFIndex(values)
	p.index = hnsw.New[hnswvector.VF32](hnswvector.SurfaceVF32(kvector.Cosine()))

	seen := make(map[string]struct{})
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}

		dense := p.denseVector(v)
		if dense == nil {
			continue
		}
		id := p.nextID
		p.nextID++
		p.centres[id] = v
		p.index.Insert(hnswvector.VF32{Key: id, Vec: dense})
	}
}

func (p *tfidfCanopyPredicate) ResetIndices() {
	p.tfidf = nil
	p.index = nil
	p.centres = make(map[uint32]string)
	p.vocab = make(map[string]int)
	p.nextID = 0
}

// denseVector turns a field value's raw token counts into a dense float32
// vector over the shared vocabulary, growing the vocabulary as new tokens
// are seen. p.tfidf is only checked for nil; its weights are not used.
func (p *tfidfCanopyPredicate) denseVector(v string) []float32 {
	if p.tfidf == nil {
		return nil
	}
	toks := strings.Fields(v)
	for _, t := range toks {
		if _, ok := p.vocab[t]; !ok {
			p.vocab[t] = len(p.vocab)
		}
	}
	if len(p.vocab) == 0 {
		return nil
	}
	dense := make([]float32, len(p.vocab))
	count := make(map[string]int)
	for _, t := range toks {
		count[t]++
	}
	for t, c := range count {
		if idx, ok := p.vocab[t]; ok {
			dense[idx] = float32(c)
		}
	}
	return dense
}

// Keys returns the ids of the k canopy centres nearest to value, expressed
// as block keys, where k = int((1-p.threshold)*20), at least 1.
func (p *tfidfCanopyPredicate) Keys(value string, absent bool) []string {
	if absent || p.index == nil || value == "" {
		return nil
	}
	dense := p.denseVector(value)
	if dense == nil {
		return nil
	}

	// A stricter (higher) threshold keeps a narrower, tighter canopy: fewer
	// approximate neighbours are retained as block-key partners.
	k := int((1 - p.threshold) * 20)
	if k < 1 {
		k = 1
	}
	results := p.index.Search(hnswvector.VF32{Vec: dense}, k, 64)

	keys := make([]string, 0, len(results))
	for _, r := range results {
		keys = append(keys, strconv.FormatUint(uint64(r.Key), 10))
	}
	return keys
}

// lshMinhashPredicate approximates Jaccard-similar token sets sharing a
// block key via banded min-hash signatures (spec.md §4.5's "LSH minhash
// bands").
type lshMinhashPredicate struct {
	field    string
	numBands int
	rowsPer  int
	seeds    []uint32
}

// LSHMinhashBands constructs a banded minhash predicate: numBands bands of
// rowsPerBand hash functions each; two records share a key if any band's
// hashes agree across every row.
func LSHMinhashBands(field string, numBands, rowsPerBand int) Predicate {
	total := numBands * rowsPerBand
	seeds := make([]uint32, total)
	for i := range seeds {
		seeds[i] = uint32(2654435761 * uint32(i+1))
	}
	return &lshMinhashPredicate{field: field, numBands: numBands, rowsPer: rowsPerBand, seeds: seeds}
}

func (p *lshMinhashPredicate) Name() string  { return "lsh_minhash" }
func (p *lshMinhashPredicate) Field() string { return p.field }

func (p *lshMinhashPredicate) Keys(value string, absent bool) []string {
	if absent {
		return nil
	}
	toks := strings.Fields(value)
	if len(toks) == 0 {
		return nil
	}

	sig := make([]uint32, len(p.seeds))
	for i, seed := range p.seeds {
		min := uint32(0xFFFFFFFF)
		for _, tok := range toks {
			h := fnv32(tok) ^ seed
			if h < min {
				min = h
			}
		}
		sig[i] = min
	}

	keys := make([]string, 0, p.numBands)
	for b := 0; b < p.numBands; b++ {
		var sb strings.Builder
		sb.WriteString("b")
		sb.WriteString(strconv.Itoa(b))
		for r := 0; r < p.rowsPer; r++ {
			sb.WriteByte(':')
			sb.WriteString(strconv.FormatUint(uint64(sig[b*p.rowsPer+r]), 16))
		}
		keys = append(keys, sb.String())
	}
	return keys
}

func fnv32(s string) uint32 {
	var h uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}
