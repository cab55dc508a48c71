// Package candidate implements the Redundant-Free Comparison candidate
// generator of spec.md §4.7: from a (block_key, record_id) stream, produces
// each unordered record pair exactly once, regardless of how many blocks the
// two records share.
//
// Grounded on Kolb et al.'s redundancy-free blocking scheme: a pair (a, b)
// is emitted only at the smallest-indexed block both records belong to.
// Per-record block membership is tracked with a bits-and-blooms/bitset
// bitset; within-block candidate postings use RoaringBitmap/roaring, dual
// mode per the teacher's qgram.PostingList split between small (sorted
// slice) and large (bitmap) posting lists.
package candidate

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/bits-and-blooms/bitset"

	"github.com/kittclouds/matchkit/errs"
	"github.com/kittclouds/matchkit/predicate"
	"github.com/kittclouds/matchkit/record"
)

// smallPostingThreshold mirrors the teacher's posting-list dual-mode split:
// blocks smaller than this use a sorted slice, larger ones a roaring bitmap.
const smallPostingThreshold = 2000

// posting is one block's membership list, kept as a sorted slice while
// small and promoted to a roaring bitmap once it crosses
// smallPostingThreshold, mirroring the teacher's qgram.PostingList split
// (most blocking keys are small and sparse; a handful are hot and dense).
type posting struct {
	small []uint32        // sorted, unique; nil once promoted
	big   *roaring.Bitmap // nil until promoted
}

func (p *posting) add(idx uint32) {
	if p.big != nil {
		p.big.Add(idx)
		return
	}
	pos := sort.Search(len(p.small), func(i int) bool { return p.small[i] >= idx })
	if pos < len(p.small) && p.small[pos] == idx {
		return
	}
	p.small = append(p.small, 0)
	copy(p.small[pos+1:], p.small[pos:])
	p.small[pos] = idx
	if len(p.small) > smallPostingThreshold {
		p.promote()
	}
}

// promote converts a sorted-slice posting to a roaring bitmap once it grows
// past smallPostingThreshold, trading per-element overhead for compact
// storage and fast set operations on hot blocking keys.
func (p *posting) promote() {
	p.big = roaring.New()
	p.big.AddMany(p.small)
	p.small = nil
}

func (p *posting) cardinality() int {
	if p.big != nil {
		return int(p.big.GetCardinality())
	}
	return len(p.small)
}

// members returns the block's record indices; small postings are already
// sorted, large ones are read off the bitmap in ascending order.
func (p *posting) members() []uint32 {
	if p.big != nil {
		out := make([]uint32, 0, p.big.GetCardinality())
		it := p.big.Iterator()
		for it.HasNext() {
			out = append(out, it.Next())
		}
		return out
	}
	out := make([]uint32, len(p.small))
	copy(out, p.small)
	return out
}

// Generator accumulates a (block_key, record_id) stream and, once fully
// fed, yields every unordered pair exactly once.
type Generator struct {
	maxBlockSize int

	recordIndex map[record.ID]uint32
	recordIDs   []record.ID

	blockOrder []predicate.BlockKey
	blockSeen  map[predicate.BlockKey]int
	postings   []*posting // index-aligned with blockOrder
}

// NewGenerator constructs a Generator. maxBlockSize <= 0 means unbounded;
// a block exceeding the cap causes Generate to fail with ErrBlocking rather
// than silently truncating, per spec.md §5's resource-cap policy.
func NewGenerator(maxBlockSize int) *Generator {
	return &Generator{
		maxBlockSize: maxBlockSize,
		recordIndex:  make(map[record.ID]uint32),
		blockSeen:    make(map[predicate.BlockKey]int),
	}
}

func (g *Generator) indexOf(id record.ID) uint32 {
	if idx, ok := g.recordIndex[id]; ok {
		return idx
	}
	idx := uint32(len(g.recordIDs))
	g.recordIndex[id] = idx
	g.recordIDs = append(g.recordIDs, id)
	return idx
}

// Feed registers one (block_key, record_id) emission from the fingerprinter.
func (g *Generator) Feed(key predicate.BlockKey, id record.ID) {
	idx := g.indexOf(id)
	blockIdx, ok := g.blockSeen[key]
	if !ok {
		blockIdx = len(g.blockOrder)
		g.blockSeen[key] = blockIdx
		g.blockOrder = append(g.blockOrder, key)
		g.postings = append(g.postings, &posting{})
	}
	g.postings[blockIdx].add(idx)
}

// Generate computes the redundancy-free candidate pair set. cancel, if
// non-nil, is polled between blocks; a closed/true cancel produces
// ErrCancelled rather than a partial result.
func (g *Generator) Generate(cancel <-chan struct{}) ([]record.Pair, error) {
	numBlocks := len(g.blockOrder)
	numRecords := len(g.recordIDs)

	membership := make([]*bitset.BitSet, numRecords)
	for i := range membership {
		membership[i] = bitset.New(uint(numBlocks))
	}
	for b, p := range g.postings {
		if g.maxBlockSize > 0 && p.cardinality() > g.maxBlockSize {
			return nil, errs.Wrap(errs.ErrBlocking, "block %q exceeds max size %d", g.blockOrder[b], g.maxBlockSize)
		}
		for _, idx := range p.members() {
			membership[idx].Set(uint(b))
		}
	}

	var out []record.Pair
	for b, p := range g.postings {
		select {
		case <-cancel:
			return nil, errs.ErrCancelled
		default:
		}

		members := p.members()
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				ri, rj := members[i], members[j]
				shared := membership[ri].Clone()
				shared.InPlaceIntersection(membership[rj])
				minBlock, ok := shared.NextSet(0)
				if !ok || int(minBlock) != b {
					continue
				}
				out = append(out, record.NewPair(g.recordIDs[ri], g.recordIDs[rj]))
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return out, nil
}
