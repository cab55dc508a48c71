// Package blocklearn implements the greedy weighted set-cover blocker
// learner of spec.md §4.6: given labeled match pairs and a pool of
// candidate compound predicates, selects an ordered disjunction meeting a
// recall target under a per-predicate comparison-count cap.
package blocklearn

import (
	"sort"

	"github.com/kittclouds/matchkit/predicate"
	"github.com/kittclouds/matchkit/record"
)

// Candidate is one pool entry: a compound predicate plus bookkeeping the
// learner needs to rank it (its field indices, for tie-breaking, and
// whether it's a simple single-term predicate).
type Candidate struct {
	Compound predicate.Compound
	// FieldOrder is the lowest declared field index any term of this
	// compound reads from, used for the "lower index fields over higher"
	// tie-break.
	FieldOrder int
	// Simple is true for one-term compounds, used for the "simple over
	// compound" tie-break.
	Simple bool
}

// Result is the learner's output: the selected predicates in application
// order, plus whether the recall target was actually met.
type Result struct {
	Selected   []predicate.Compound
	RecallMet  bool
	Covered    int
	TotalMatch int
}

// keyerOf builds the block-key set a compound predicate produces for one
// record, used only to test "do these two records share a block key
// under this predicate" — not to emit keys for storage.
func keyerOf(c predicate.Compound, r record.Record) map[string]struct{} {
	fp := predicate.NewFingerprinter([]predicate.Compound{c})
	keys := fp.Emit("", r)
	out := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		out[string(k)] = struct{}{}
	}
	return out
}

func sharesBlock(c predicate.Compound, a, b record.Record) bool {
	ka := keyerOf(c, a)
	if len(ka) == 0 {
		return false
	}
	kb := keyerOf(c, b)
	for k := range kb {
		if _, ok := ka[k]; ok {
			return true
		}
	}
	return false
}

// blockSize estimates the largest block this compound would produce across
// a pool of records, for the max-comparisons-per-predicate cap.
func blockSize(c predicate.Compound, records []record.Record) int {
	counts := make(map[string]int)
	fp := predicate.NewFingerprinter([]predicate.Compound{c})
	for _, r := range records {
		for _, k := range fp.Emit("", r) {
			counts[string(k)]++
		}
	}
	max := 0
	for _, n := range counts {
		if n > max {
			max = n
		}
	}
	return max
}

// Learn runs greedy weighted set cover over matchPairs, scoring each
// candidate's cost by how many distinct pairs (distinctPairs) it puts in a
// shared block, per spec.md §4.6. unlabeledSample does not enter the cost;
// it is used only to estimate each candidate's largest block for the
// max-comparisons cap.
func Learn(
	candidates []Candidate,
	matchPairs [][2]record.Record,
	distinctPairs [][2]record.Record,
	unlabeledSample []record.Record,
	recallTarget float64,
	maxComparisonsPerPredicate int,
) Result {
	total := len(matchPairs)
	uncoveredTarget := int((1 - recallTarget) * float64(total))

	covered := make([]bool, total)
	uncovered := total

	var selected []predicate.Compound
	remaining := append([]Candidate(nil), candidates...)

	type scored struct {
		idx         int
		costPerGain float64
	}

	for uncovered > uncoveredTarget && len(remaining) > 0 {
		var best *scored

		for i, cand := range remaining {
			if maxComparisonsPerPredicate > 0 && blockSize(cand.Compound, unlabeledSample) > maxComparisonsPerPredicate {
				continue
			}

			newCovered := 0
			for p, pair := range matchPairs {
				if !covered[p] && sharesBlock(cand.Compound, pair[0], pair[1]) {
					newCovered++
				}
			}
			if newCovered == 0 {
				continue
			}

			cost := 0
			for _, pair := range distinctPairs {
				if sharesBlock(cand.Compound, pair[0], pair[1]) {
					cost++
				}
			}

			costPerGain := float64(cost+1) / float64(newCovered)
			if best == nil || isBetterCandidate(costPerGain, cand, remaining[best.idx], best.costPerGain) {
				best = &scored{idx: i, costPerGain: costPerGain}
			}
		}

		if best == nil {
			break
		}

		chosen := remaining[best.idx]
		selected = append(selected, chosen.Compound)

		for p, pair := range matchPairs {
			if !covered[p] && sharesBlock(chosen.Compound, pair[0], pair[1]) {
				covered[p] = true
				uncovered--
			}
		}

		remaining = append(remaining[:best.idx], remaining[best.idx+1:]...)
	}

	return Result{
		Selected:   selected,
		RecallMet:  uncovered <= uncoveredTarget,
		Covered:    total - uncovered,
		TotalMatch: total,
	}
}

// isBetterCandidate implements the tie-breaking rule of spec.md §4.6: lowest
// cost-per-new-match-covered wins; ties prefer simple over compound, then
// lower field index.
func isBetterCandidate(costA float64, a, b Candidate, costB float64) bool {
	if costA != costB {
		return costA < costB
	}
	if a.Simple != b.Simple {
		return a.Simple
	}
	return a.FieldOrder < b.FieldOrder
}

// SortCandidatesDeterministically orders a candidate pool deterministically
// before learning, so Learn's tie-breaking is reproducible across runs
// given the same pool.
func SortCandidatesDeterministically(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Simple != candidates[j].Simple {
			return candidates[i].Simple
		}
		return candidates[i].FieldOrder < candidates[j].FieldOrder
	})
}
