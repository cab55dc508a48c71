// Package scorer runs the parallel batch scoring stage of spec.md §4.8:
// candidate pairs go in, (pair, match probability) results come out, above
// a caller-supplied minimum probability.
//
// Grounded on the teacher's chunked candidate->verify->score->rank shape
// (pkg/qgram's scorer), rebuilt here over feature.Builder and
// classifier.Model and parallelized with internal/workerpool instead of the
// teacher's single-threaded verifier loop.
package scorer

import (
	"context"
	"sort"

	"github.com/kittclouds/matchkit/classifier"
	"github.com/kittclouds/matchkit/errs"
	"github.com/kittclouds/matchkit/feature"
	"github.com/kittclouds/matchkit/internal/workerpool"
	"github.com/kittclouds/matchkit/record"
)

// Scored is one pair together with its classifier probability of match.
type Scored struct {
	Pair        record.Pair
	Probability float64
}

// Scorer evaluates candidate pairs against a trained model.
type Scorer struct {
	builder   *feature.Builder
	model     *classifier.Model
	chunkSize int
	workers   int
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithChunkSize sets how many pairs each worker task scores in one batch.
// Defaults to 256.
func WithChunkSize(n int) Option {
	return func(s *Scorer) {
		if n > 0 {
			s.chunkSize = n
		}
	}
}

// WithWorkers bounds the number of concurrent scoring goroutines. Defaults
// to unbounded (one goroutine per chunk).
func WithWorkers(n int) Option {
	return func(s *Scorer) { s.workers = n }
}

// New builds a Scorer from a feature builder and a trained classifier.
func New(builder *feature.Builder, model *classifier.Model, opts ...Option) *Scorer {
	s := &Scorer{builder: builder, model: model, chunkSize: 256}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score evaluates every pair in candidates against records, dropping any
// result below minProbability, and returns the survivors compacted to one
// entry per pair, sorted by descending probability then ascending pair
// order. It runs chunkSize-sized batches across s.workers goroutines via
// internal/workerpool, stopping (and returning a nil result plus
// errs.ErrCancelled) if ctx is cancelled, or a wrapped errs.ErrScoring if
// any chunk fails to build features for a pair.
func (s *Scorer) Score(ctx context.Context, candidates []record.Pair, records map[record.ID]record.Record, minProbability float64) ([]Scored, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	numChunks := (len(candidates) + s.chunkSize - 1) / s.chunkSize
	chunkResults := make([][]Scored, numChunks)

	pool := workerpool.New(s.workers)
	err := pool.Run(ctx, numChunks, func(ctx context.Context, i int) error {
		start := i * s.chunkSize
		end := start + s.chunkSize
		if end > len(candidates) {
			end = len(candidates)
		}
		chunk := candidates[start:end]

		rows, err := s.builder.Build(chunk, records)
		if err != nil {
			return errs.Wrap(errs.ErrScoring, "building features for chunk %d: %v", i, err)
		}

		out := make([]Scored, 0, len(chunk))
		for j, row := range rows {
			select {
			case <-ctx.Done():
				return errs.Wrap(errs.ErrCancelled, "scoring cancelled")
			default:
			}
			for _, v := range row {
				if v != v { // NaN
					return errs.Wrap(errs.ErrScoring, "NaN feature value for pair %v", chunk[j])
				}
			}
			p := s.model.Score(row)
			if p < minProbability {
				continue
			}
			out = append(out, Scored{Pair: chunk[j], Probability: p})
		}
		chunkResults[i] = out
		return nil
	})
	if err != nil {
		return nil, err
	}

	var total int
	for _, c := range chunkResults {
		total += len(c)
	}
	results := make([]Scored, 0, total)
	for _, c := range chunkResults {
		results = append(results, c...)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Probability != results[j].Probability {
			return results[i].Probability > results[j].Probability
		}
		if results[i].Pair.A != results[j].Pair.A {
			return results[i].Pair.A < results[j].Pair.A
		}
		return results[i].Pair.B < results[j].Pair.B
	})
	return compactUnique(results), nil
}

// compactUnique collapses adjacent duplicate pairs after sorting, per
// spec.md §4.8's "compact sort + unique" step — the same pair can surface
// more than once when multiple blocking predicates both cover it.
func compactUnique(sorted []Scored) []Scored {
	if len(sorted) == 0 {
		return sorted
	}
	out := sorted[:1]
	for _, s := range sorted[1:] {
		if s.Pair == out[len(out)-1].Pair {
			continue
		}
		out = append(out, s)
	}
	return out
}
