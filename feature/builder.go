// Package feature assembles the dense distance-feature matrix consumed by
// the classifier, per spec.md §4.3: one row per candidate pair, columns laid
// out exactly as schema.DataModel orders them.
package feature

import (
	"github.com/kittclouds/matchkit/errs"
	"github.com/kittclouds/matchkit/kernel"
	"github.com/kittclouds/matchkit/preprocess"
	"github.com/kittclouds/matchkit/record"
	"github.com/kittclouds/matchkit/schema"
)

// Builder assembles feature rows for a fixed schema.DataModel. Indexed
// kernels (TF-IDF over Text fields, IDF-weighted Jaccard over Set fields
// with a corpus) are supplied pre-built, since they require a scan over the
// whole corpus before any single pair can be scored.
type Builder struct {
	dm      *schema.DataModel
	tfidf   map[string]*kernel.TFIDFIndex
	setCorp map[string]*kernel.SetCorpus
}

// NewBuilder constructs a Builder. tfidf must have an entry for every
// KindText field in dm; setCorp may omit fields that use unweighted Jaccard.
func NewBuilder(dm *schema.DataModel, tfidf map[string]*kernel.TFIDFIndex, setCorp map[string]*kernel.SetCorpus) *Builder {
	return &Builder{dm: dm, tfidf: tfidf, setCorp: setCorp}
}

// Row computes one feature vector for the pair (a, b) in the exact column
// order of b.dm.Columns. Any missing primary value is replaced with 0 in its
// column, per spec.md §4.3, before its indicator is appended. A field that
// is absent from either record and not declared HasMissing is an
// errs.ErrIngestion error.
func (b *Builder) Row(a, bRec record.Record) ([]float32, error) {
	row := make([]float32, len(b.dm.Columns))

	primary := make([]kernel.Result, len(b.dm.Fields))
	for i, fd := range b.dm.Fields {
		if fd.Kind == schema.KindInteraction {
			continue
		}
		if !fd.HasMissing && (a.Get(fd.Name).IsAbsent() || bRec.Get(fd.Name).IsAbsent()) {
			return nil, errs.Wrap(errs.ErrIngestion, "field %q is absent but does not allow missing values", fd.Name)
		}
		primary[i] = b.evalField(fd, a, bRec)
	}

	for i, col := range b.dm.Columns {
		switch {
		case col.IsPrimary():
			row[i] = valueOrZero(primary[col.FieldIndex])
		case col.MissingIndicatorOf >= 0:
			if primary[col.MissingIndicatorOf].Missing {
				row[i] = 0
			} else {
				row[i] = 1
			}
		case col.CategoricalOf >= 0:
			fd := b.dm.Fields[col.CategoricalOf]
			av := stringValue(a.Get(fd.Name))
			bv := stringValue(bRec.Get(fd.Name))
			r := kernel.CategoricalIndicator(av, bv, col.CatA, col.CatB, a.Get(fd.Name).IsAbsent(), bRec.Get(fd.Name).IsAbsent())
			row[i] = valueOrZero(r)
		case col.Kind == schema.KindInteraction:
			p0 := primary[col.InteractionParents[0]]
			p1 := primary[col.InteractionParents[1]]
			row[i] = valueOrZero(kernel.Interaction(p0, p1))
		default:
			return nil, errs.Wrap(errs.ErrScoring, "unhandled column %q", col.Name)
		}
	}

	return row, nil
}

// Build computes a dense (n_pairs, n_features) matrix, one row per pair.
func (b *Builder) Build(pairs []record.Pair, records map[record.ID]record.Record) ([][]float32, error) {
	out := make([][]float32, len(pairs))
	for i, p := range pairs {
		ra, ok := records[p.A]
		if !ok {
			return nil, errs.Wrap(errs.ErrIngestion, "unknown record id %q", p.A)
		}
		rb, ok := records[p.B]
		if !ok {
			return nil, errs.Wrap(errs.ErrIngestion, "unknown record id %q", p.B)
		}
		row, err := b.Row(ra, rb)
		if err != nil {
			return nil, err
		}
		out[i] = row
	}
	return out, nil
}

func valueOrZero(r kernel.Result) float32 {
	if r.Missing {
		return 0
	}
	return r.Value
}

func stringValue(v record.Value) string {
	s, _ := v.AsString()
	return s
}

func (b *Builder) evalField(fd schema.FieldDef, a, bRec record.Record) kernel.Result {
	va, vb := a.Get(fd.Name), bRec.Get(fd.Name)
	aAbs, bAbs := va.IsAbsent(), vb.IsAbsent()

	switch fd.Kind {
	case schema.KindString, schema.KindShortString:
		sa, sb := normalisedString(va), normalisedString(vb)
		return kernel.AffineGapDistance(sa, sb, aAbs, bAbs)
	case schema.KindText:
		sa, sb := normalisedString(va), normalisedString(vb)
		idx := b.tfidf[fd.Name]
		if idx == nil {
			idx = kernel.NewTFIDFIndex(nil)
		}
		return idx.Cosine(sa, sb, aAbs, bAbs)
	case schema.KindExact, schema.KindCategorical:
		sa, sb := normalisedString(va), normalisedString(vb)
		return kernel.Exact(sa, sb, aAbs, bAbs)
	case schema.KindPrice:
		na, _ := va.AsNumber()
		nb, _ := vb.AsNumber()
		return kernel.Price(na, nb, aAbs, bAbs)
	case schema.KindLatLong:
		ga, _ := va.AsGeoPoint()
		gb, _ := vb.AsGeoPoint()
		return kernel.Haversine(ga.Lat, ga.Lon, gb.Lat, gb.Lon, aAbs, bAbs)
	case schema.KindSet:
		ta, _ := va.AsTuple()
		tb, _ := vb.AsTuple()
		return kernel.Jaccard(ta, tb, aAbs, bAbs, b.setCorp[fd.Name])
	case schema.KindCustom:
		return kernel.Custom(func() (float64, bool) { return fd.Comparator(va, vb) })
	default:
		return kernel.Missing
	}
}

func normalisedString(v record.Value) string {
	s, ok := v.AsString()
	if !ok {
		return ""
	}
	n, ok := preprocess.Normalise(s)
	if !ok {
		return ""
	}
	return n
}
