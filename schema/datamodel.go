package schema

import (
	"fmt"

	"github.com/kittclouds/matchkit/errs"
)

// Column describes one entry of the ordered feature-vector layout produced by
// a DataModel. The layout order is, per spec.md §4.3:
//
//  1. one column per non-meta field using its kernel
//  2. categorical expansion indicator columns
//  3. interaction columns (elementwise product of declared parents)
//  4. missing-indicator columns (1 if the corresponding primary column was
//     non-missing, else 0)
type Column struct {
	Name string
	Kind

	// FieldIndex is the index into DataModel.Fields this column is primarily
	// derived from ("primary" columns only; -1 for synthetic columns).
	FieldIndex int

	// CategoricalOf, when >= 0, is the index into DataModel.Fields of the
	// categorical field this indicator column expands.
	CategoricalOf int

	// CatA, CatB are the two category labels this indicator column
	// distinguishes, set only when CategoricalOf >= 0.
	CatA, CatB string

	// InteractionParents holds the DataModel.Fields indices of the two fields
	// whose primary values are multiplied together, for KindInteraction
	// columns only.
	InteractionParents [2]int

	// MissingIndicatorOf, when >= 0, is the index into DataModel.Fields of
	// the field this missing-indicator column tracks.
	MissingIndicatorOf int
}

// IsPrimary reports whether this is a direct per-field kernel column (as
// opposed to a categorical-expansion, interaction, or missing-indicator
// column derived from one).
func (c Column) IsPrimary() bool {
	return c.CategoricalOf < 0 && c.MissingIndicatorOf < 0 && c.Kind != KindInteraction
}

// DataModel is the immutable catalogue built from a set of field definitions.
// It fully determines the feature-vector layout: FeatureCount is identical
// across training and inference for a given DataModel, satisfying spec.md
// §3's invariant.
type DataModel struct {
	Fields  []FieldDef
	Columns []Column

	byName map[string]int
}

// NewDataModel validates field definitions and builds the ordered column
// layout. Errors are ErrConfiguration per spec.md §7: unknown field type
// or invalid per-kind settings (caught by FieldDef.Validate), duplicate
// field names, and dangling interaction parents. A Text or Set field with
// no Corpus is accepted.
func NewDataModel(fields []FieldDef) (*DataModel, error) {
	byName := make(map[string]int, len(fields))
	for i, f := range fields {
		if _, dup := byName[f.Name]; dup {
			return nil, errs.Wrap(errs.ErrConfiguration, "duplicate field name %q", f.Name)
		}
		if err := f.Validate(); err != nil {
			return nil, err
		}
		byName[f.Name] = i
	}

	dm := &DataModel{Fields: fields, byName: byName}

	var primary []Column
	var categorical []Column
	var interaction []Column
	var missing []Column

	for i, f := range fields {
		switch f.Kind {
		case KindInteraction:
			p0, ok0 := byName[f.InteractionFields[0]]
			p1, ok1 := byName[f.InteractionFields[1]]
			if !ok0 || !ok1 {
				return nil, errs.Wrap(errs.ErrConfiguration,
					"field %q: interaction refers to undefined parent field", f.Name)
			}
			interaction = append(interaction, Column{
				Name:                f.Name,
				Kind:                KindInteraction,
				FieldIndex:          i,
				CategoricalOf:       -1,
				MissingIndicatorOf:  -1,
				InteractionParents:  [2]int{p0, p1},
			})
			continue
		default:
			primary = append(primary, Column{
				Name:               f.Name,
				Kind:               f.Kind,
				FieldIndex:         i,
				CategoricalOf:      -1,
				MissingIndicatorOf: -1,
			})
		}

		if f.Kind == KindCategorical {
			k := len(f.Categories)
			for a := 0; a < k; a++ {
				for b := a + 1; b < k; b++ {
					categorical = append(categorical, Column{
						Name:               fmt.Sprintf("%s:%s!=%s", f.Name, f.Categories[a], f.Categories[b]),
						Kind:               KindCategorical,
						FieldIndex:         i,
						CategoricalOf:      i,
						MissingIndicatorOf: -1,
						CatA:               f.Categories[a],
						CatB:               f.Categories[b],
					})
				}
			}
		}

		if f.HasMissing {
			missing = append(missing, Column{
				Name:               f.Name + ":missing",
				Kind:               f.Kind,
				FieldIndex:         i,
				CategoricalOf:      -1,
				MissingIndicatorOf: i,
			})
		}
	}

	dm.Columns = append(dm.Columns, primary...)
	dm.Columns = append(dm.Columns, categorical...)
	dm.Columns = append(dm.Columns, interaction...)
	dm.Columns = append(dm.Columns, missing...)

	return dm, nil
}

// FeatureCount returns the fixed width of every feature vector this data
// model produces.
func (dm *DataModel) FeatureCount() int { return len(dm.Columns) }

// FieldIndex resolves a field name to its index in dm.Fields, avoiding a
// per-comparison map lookup in hot loops once resolved.
func (dm *DataModel) FieldIndex(name string) (int, bool) {
	i, ok := dm.byName[name]
	return i, ok
}

// ComparisonFields returns the subset of fields that participate directly in
// a kernel comparison (excludes Interaction, which derives from others).
func (dm *DataModel) ComparisonFields() []FieldDef {
	out := make([]FieldDef, 0, len(dm.Fields))
	for _, f := range dm.Fields {
		if f.Kind != KindInteraction {
			out = append(out, f)
		}
	}
	return out
}
