// Package schema builds the immutable field-definition catalogue (the "data
// model" of spec.md §3): a tagged sum of field kinds plus the machinery that
// turns a set of field definitions into a deterministic, ordered list of
// feature columns.
package schema

import (
	"github.com/kittclouds/matchkit/errs"
	"github.com/kittclouds/matchkit/record"
)

// Kind is the tagged sum of recognised field types (spec.md §3 table). A flat
// Kind tag per column keeps the classifier's inner loop a switch over small
// integers rather than a dispatch through an interface vtable.
type Kind int

const (
	KindString Kind = iota
	KindShortString
	KindText
	KindExact
	KindPrice
	KindLatLong
	KindSet
	KindCategorical
	KindCustom
	KindInteraction
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "String"
	case KindShortString:
		return "ShortString"
	case KindText:
		return "Text"
	case KindExact:
		return "Exact"
	case KindPrice:
		return "Price"
	case KindLatLong:
		return "LatLong"
	case KindSet:
		return "Set"
	case KindCategorical:
		return "Categorical"
	case KindCustom:
		return "Custom"
	case KindInteraction:
		return "Interaction"
	default:
		return "Unknown"
	}
}

// CustomComparator is a caller-supplied pure distance function. It must
// return a value in [0,1] (0 = identical) or ok=false to signal "missing".
type CustomComparator func(a, b record.Value) (distance float64, ok bool)

// FieldDef is one entry of the static field-definition configuration
// (spec.md §3: "tuple of (field_name, type, optional corpus, has_missing_flag,
// custom_comparator_ref?)").
type FieldDef struct {
	Name      string
	Kind      Kind
	HasMissing bool

	// Corpus is an optional document/term corpus for Text/Set fields. It is
	// carried through YAML loading and the artifact; no index is built from
	// it here. feature.NewBuilder takes the TF-IDF indexes and set corpora
	// separately, and a Text field with no index is compared against an
	// empty one.
	Corpus []string

	// Categories is the closed category set for KindCategorical fields.
	Categories []string

	// InteractionFields names the two parent fields this KindInteraction
	// column multiplies together. Must reference fields declared earlier.
	InteractionFields [2]string

	// Comparator is required for KindCustom and ignored otherwise.
	Comparator CustomComparator
}

// Validate checks a single FieldDef's internal consistency (type-specific
// requirements named in spec.md §7 "Configuration" errors). Cross-field
// checks (duplicate names, dangling interaction parents) are performed by
// NewDataModel, which sees the whole set.
func (f FieldDef) Validate() error {
	switch f.Kind {
	case KindCategorical:
		if len(f.Categories) < 2 {
			return errs.Wrap(errs.ErrConfiguration, "field %q: Categorical requires at least two categories", f.Name)
		}
	case KindCustom:
		if f.Comparator == nil {
			return errs.Wrap(errs.ErrConfiguration, "field %q: Custom requires a comparator", f.Name)
		}
	case KindInteraction:
		if f.InteractionFields[0] == "" || f.InteractionFields[1] == "" {
			return errs.Wrap(errs.ErrConfiguration, "field %q: Interaction requires two parent fields", f.Name)
		}
	case KindString, KindShortString, KindText, KindExact, KindPrice, KindLatLong, KindSet:
		// no additional requirements
	default:
		return errs.Wrap(errs.ErrConfiguration, "field %q: unknown field kind %d", f.Name, f.Kind)
	}
	return nil
}

// usesTFIDF reports whether this kind derives a TF-IDF style document
// frequency index (String does not: per spec.md's table, ShortString and
// String both skip TF-IDF derivation; only Text does textual TF-IDF, and Set
// optionally does an IDF-weighted Jaccard).
func (k Kind) usesTFIDF() bool {
	return k == KindText
}
