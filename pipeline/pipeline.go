// Package pipeline wires the fingerprinter, candidate generator, scorer,
// cluster engine, and threshold selector into the four top-level matching
// operations of spec.md §4.11: partition (dedup), join (linkage), search
// (gazetteer), and threshold (probing). Callers build its inputs with the
// feature, classifier, predicate, record and schema packages.
package pipeline

import (
	"context"

	"github.com/hashicorp/go-hclog"

	"github.com/kittclouds/matchkit/classifier"
	"github.com/kittclouds/matchkit/cluster"
	"github.com/kittclouds/matchkit/errs"
	"github.com/kittclouds/matchkit/feature"
	"github.com/kittclouds/matchkit/predicate"
	"github.com/kittclouds/matchkit/record"
	"github.com/kittclouds/matchkit/scorer"
	"github.com/kittclouds/matchkit/threshold"

	"github.com/kittclouds/matchkit/candidate"
)

// Controller holds the trained, read-only state a matching run needs:
// the data model's feature builder, the trained classifier, and the
// learned blocking predicates. Not safe for concurrent use: each operation
// seeds the shared fingerprinter's indexed predicates from its own records
// and resets them when it returns.
type Controller struct {
	builder       *feature.Builder
	model         *classifier.Model
	fingerprinter *predicate.Fingerprinter
	logger        hclog.Logger

	maxBlockSize int
	scorerOpts   []scorer.Option
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger overrides the default discard logger.
func WithLogger(l hclog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithMaxBlockSize bounds the candidate generator's per-block size, per
// spec.md §5's resource-cap policy. 0 means unbounded.
func WithMaxBlockSize(n int) Option {
	return func(c *Controller) { c.maxBlockSize = n }
}

// WithScorerOptions forwards options to the underlying scorer.Scorer (e.g.
// scorer.WithWorkers, scorer.WithChunkSize).
func WithScorerOptions(opts ...scorer.Option) Option {
	return func(c *Controller) { c.scorerOpts = opts }
}

// New builds a Controller from trained state.
func New(builder *feature.Builder, model *classifier.Model, fingerprinter *predicate.Fingerprinter, opts ...Option) *Controller {
	c := &Controller{
		builder:       builder,
		model:         model,
		fingerprinter: fingerprinter,
		logger:        hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// cancelChan adapts a context's Done channel to the <-chan struct{} shape
// the candidate generator expects.
func cancelChan(ctx context.Context) <-chan struct{} {
	return ctx.Done()
}

// candidatesFor runs the fingerprinter and candidate generator over one
// pool of records, returning the redundancy-free candidate pair set.
func (c *Controller) candidatesFor(ctx context.Context, records map[record.ID]record.Record) ([]record.Pair, error) {
	names := make(map[string]struct{})
	for _, r := range records {
		for name := range r {
			names[name] = struct{}{}
		}
	}
	fieldValues := make(map[string][]string, len(names))
	for name := range names {
		for _, r := range records {
			if v := r.Get(name); v.IsAbsent() {
				fieldValues[name] = append(fieldValues[name], "")
			} else {
				fieldValues[name] = append(fieldValues[name], v.String())
			}
		}
	}
	c.fingerprinter.Index(fieldValues)
	defer c.fingerprinter.ResetIndices()

	gen := candidate.NewGenerator(c.maxBlockSize)
	for id, r := range records {
		for _, key := range c.fingerprinter.Emit(id, r) {
			gen.Feed(key, id)
		}
	}
	return gen.Generate(cancelChan(ctx))
}

// scoreAll fingerprints, blocks, and scores every candidate pair surviving
// blocking within records, above minProbability.
func (c *Controller) scoreAll(ctx context.Context, records map[record.ID]record.Record, minProbability float64) ([]scorer.Scored, error) {
	pairs, err := c.candidatesFor(ctx, records)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("candidate generation complete", "pairs", len(pairs))

	s := scorer.New(c.builder, c.model, c.scorerOpts...)
	scored, err := s.Score(ctx, pairs, records, minProbability)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("scoring complete", "survivors", len(scored))
	return scored, nil
}

// Partition implements dedup mode: groups records into entity clusters at
// tauMatch, per spec.md's partition(records, tau) -> clusters operation.
// The result is a full cover of records — every id appears in exactly one
// cluster, with unmatched records returned as their own size-1 cluster at
// score 1 (spec.md §4.9, §8).
func (c *Controller) Partition(ctx context.Context, records map[record.ID]record.Record, tauMatch float64) ([][]cluster.Member, error) {
	tauCluster := cluster.TauCluster(tauMatch)
	scored, err := c.scoreAll(ctx, records, tauCluster)
	if err != nil {
		return nil, err
	}
	allIDs := make([]record.ID, 0, len(records))
	for id := range records {
		allIDs = append(allIDs, id)
	}
	return cluster.Dedup(allIDs, scored, tauCluster), nil
}

// Join implements linkage mode: a greedy one-to-one alignment between two
// disjoint record pools at tauMatch, per spec.md's
// join(left_records, right_records, tau) -> pairs operation.
func (c *Controller) Join(ctx context.Context, left, right map[record.ID]record.Record, tauMatch float64) ([]scorer.Scored, error) {
	merged := mergeDisjoint(left, right)
	if merged == nil {
		return nil, errs.Wrap(errs.ErrIngestion, "join: left and right record pools share at least one id")
	}
	scored, err := c.scoreAll(ctx, merged, tauMatch)
	if err != nil {
		return nil, err
	}
	return cluster.Link(crossPairsOnly(scored, left, right), tauMatch), nil
}

// Search implements gazetteer mode: for each messy record, the top
// nMatches canonical matches at or above tauMatch, ranked by descending
// probability, per spec.md's
// search(messy_records, n_matches, tau) -> per-messy-id ranked matches
// operation. Unlike Join, canonical records may match more than one messy
// record.
func (c *Controller) Search(ctx context.Context, messy, canonical map[record.ID]record.Record, nMatches int, tauMatch float64) (map[record.ID][]scorer.Scored, error) {
	merged := mergeDisjoint(messy, canonical)
	if merged == nil {
		return nil, errs.Wrap(errs.ErrIngestion, "search: messy and canonical record pools share at least one id")
	}
	scored, err := c.scoreAll(ctx, merged, tauMatch)
	if err != nil {
		return nil, err
	}

	cross := crossPairsOnly(scored, messy, canonical)
	out := make(map[record.ID][]scorer.Scored, len(messy))
	for _, s := range cross {
		messyID := s.Pair.A
		if _, ok := messy[messyID]; !ok {
			messyID = s.Pair.B
		}
		if len(out[messyID]) >= nMatches {
			continue
		}
		out[messyID] = append(out[messyID], s)
	}
	return out, nil
}

// thresholdSampleCap bounds how many scored pairs Threshold considers,
// matching dedupe/api.py:goodThreshold's sample-of-blocked-pairs behaviour
// rather than scoring (and sorting) an unbounded candidate stream.
const thresholdSampleCap = 50_000

// Threshold implements spec.md's threshold(records, recall_weight) -> tau
// probing operation: scores every candidate pair surviving blocking within
// records and selects the probability cutoff maximizing expected F-beta.
func (c *Controller) Threshold(ctx context.Context, records map[record.ID]record.Record, recallWeight float64) (float64, error) {
	scored, err := c.scoreAll(ctx, records, 0)
	if err != nil {
		return 0, err
	}
	result := threshold.SelectSample(scored, recallWeight, thresholdSampleCap)
	c.logger.Info("threshold selected", "tau", result.Threshold, "precision", result.ExpectedPrecision, "recall", result.ExpectedRecall)
	return result.Threshold, nil
}

// mergeDisjoint unions two record pools, returning nil if their id sets
// overlap (a caller error: left/right or messy/canonical must be disjoint).
func mergeDisjoint(a, b map[record.ID]record.Record) map[record.ID]record.Record {
	out := make(map[record.ID]record.Record, len(a)+len(b))
	for id, r := range a {
		out[id] = r
	}
	for id, r := range b {
		if _, dup := out[id]; dup {
			return nil
		}
		out[id] = r
	}
	return out
}

// crossPairsOnly filters scored pairs down to those with one endpoint in
// left and the other in right, dropping any within-pool pair a merged
// candidate generation run may have produced.
func crossPairsOnly(scored []scorer.Scored, left, right map[record.ID]record.Record) []scorer.Scored {
	out := make([]scorer.Scored, 0, len(scored))
	for _, s := range scored {
		_, aLeft := left[s.Pair.A]
		_, aRight := right[s.Pair.A]
		_, bLeft := left[s.Pair.B]
		_, bRight := right[s.Pair.B]
		if (aLeft && bRight) || (aRight && bLeft) {
			out = append(out, s)
		}
	}
	return out
}
