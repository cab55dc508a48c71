package predicate

import "github.com/kittclouds/matchkit/record"

// Fingerprinter applies an ordered disjunction of compound predicates to a
// stream of records, emitting (block_key, record_id) pairs with each key
// carrying its predicate's stable-index disambiguating prefix (spec.md
// §4.5). Compound predicates (1-2 term conjunctions, see blocklearn) are
// represented here as Compound values; a bare Predicate is a one-term
// compound.
type Fingerprinter struct {
	compounds []Compound
}

// Compound is a 1-2 term conjunction of simple predicates: a record gets a
// key only when every term yields at least one key, and the compound's key
// is the term keys joined, so two records share a compound block key only
// if they agree under every term.
type Compound struct {
	Terms []Predicate
}

// NewFingerprinter builds a Fingerprinter over an ordered disjunction of
// compounds. Index position in this slice is the stable index used for
// block-key disambiguation prefixes.
func NewFingerprinter(compounds []Compound) *Fingerprinter {
	return &Fingerprinter{compounds: compounds}
}

// Index seeds every Indexed term across all compounds from the given
// corpus, field by field. values supplies, per field name, every value seen
// in the corpus (including absent-as-empty entries the Indexed predicate is
// free to ignore).
func (f *Fingerprinter) Index(fieldValues map[string][]string) {
	for _, c := range f.compounds {
		for _, term := range c.Terms {
			if ix, ok := term.(Indexed); ok {
				ix.Index(fieldValues[term.Field()])
			}
		}
	}
}

// ResetIndices releases every term's seeded tables.
func (f *Fingerprinter) ResetIndices() {
	for _, c := range f.compounds {
		for _, term := range c.Terms {
			if ix, ok := term.(Indexed); ok {
				ix.ResetIndices()
			}
		}
	}
}

// Emit returns every (block_key, record_id) pair the fingerprinter produces
// for one record, across every compound predicate.
func (f *Fingerprinter) Emit(id record.ID, r record.Record) []BlockKey {
	var out []BlockKey
	for i, c := range f.compounds {
		keys := compoundKeys(c, r)
		for _, k := range keys {
			out = append(out, BlockKey(prefixed(i, k)))
		}
	}
	return out
}

// compoundKeys computes the cross-product of per-term keys for one
// compound predicate, joining the pieces with a separator so distinct
// per-term combinations yield distinct compound keys.
func compoundKeys(c Compound, r record.Record) []string {
	if len(c.Terms) == 0 {
		return nil
	}

	perTerm := make([][]string, len(c.Terms))
	for i, term := range c.Terms {
		v := r.Get(term.Field())
		keys := term.Keys(v.String(), v.IsAbsent())
		if len(keys) == 0 {
			return nil
		}
		perTerm[i] = keys
	}

	combos := perTerm[0]
	for _, next := range perTerm[1:] {
		var merged []string
		for _, a := range combos {
			for _, b := range next {
				merged = append(merged, a+"|"+b)
			}
		}
		combos = merged
	}
	return combos
}
