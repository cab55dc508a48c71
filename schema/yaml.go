package schema

import (
	"gopkg.in/yaml.v3"

	"github.com/kittclouds/matchkit/errs"
)

// yamlFieldDef mirrors FieldDef's YAML-serializable shape: field
// definitions are "static configuration" per spec.md §3, and Comparator
// (a Go closure for KindCustom fields) cannot be expressed in a
// configuration file — callers needing Custom fields attach Comparator in
// code after loading, by field name.
type yamlFieldDef struct {
	Name              string   `yaml:"name"`
	Kind              string   `yaml:"kind"`
	HasMissing        bool     `yaml:"has_missing"`
	Corpus            []string `yaml:"corpus,omitempty"`
	Categories        []string `yaml:"categories,omitempty"`
	InteractionFields []string `yaml:"interaction_fields,omitempty"`
}

type yamlDocument struct {
	Fields []yamlFieldDef `yaml:"fields"`
}

var kindNames = map[string]Kind{
	"string":       KindString,
	"short_string": KindShortString,
	"text":         KindText,
	"exact":        KindExact,
	"price":        KindPrice,
	"lat_long":     KindLatLong,
	"set":          KindSet,
	"categorical":  KindCategorical,
	"custom":       KindCustom,
	"interaction":  KindInteraction,
}

// LoadFieldDefsYAML parses a YAML document of the form:
//
//	fields:
//	  - name: company_name
//	    kind: string
//	    has_missing: true
//	  - name: category
//	    kind: categorical
//	    categories: [retail, wholesale, manufacturing]
//
// into []FieldDef. KindCustom fields are parsed with a nil Comparator; the
// caller must attach one before passing the result to NewDataModel, which
// will otherwise reject it per FieldDef.Validate.
func LoadFieldDefsYAML(data []byte) ([]FieldDef, error) {
	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errs.Wrap(errs.ErrConfiguration, "parsing field definitions: %v", err)
	}

	out := make([]FieldDef, 0, len(doc.Fields))
	for _, yf := range doc.Fields {
		kind, ok := kindNames[yf.Kind]
		if !ok {
			return nil, errs.Wrap(errs.ErrConfiguration, "field %q: unknown kind %q", yf.Name, yf.Kind)
		}

		fd := FieldDef{
			Name:       yf.Name,
			Kind:       kind,
			HasMissing: yf.HasMissing,
			Corpus:     yf.Corpus,
			Categories: yf.Categories,
		}
		if len(yf.InteractionFields) == 2 {
			fd.InteractionFields = [2]string{yf.InteractionFields[0], yf.InteractionFields[1]}
		} else if len(yf.InteractionFields) != 0 {
			return nil, errs.Wrap(errs.ErrConfiguration, "field %q: interaction_fields must have exactly two entries", yf.Name)
		}
		out = append(out, fd)
	}
	return out, nil
}
