// Package artifact persists and restores a trained matching configuration:
// the classifier weights, the data model, and the learned predicate
// selection, as the versioned binary settings blob of spec.md §6. Grounded
// on pkg/vector.Store's Save/Load shape — encode onto a hackpadfs.FS via
// hackpadfs.WriteFullFile/ReadFile — adapted from a single gob-encoded HNSW
// index to kelindar/binary's reflection-free struct codec (a transitive
// dependency of the teacher's own HNSW stack, promoted here to a direct,
// exercised one), with a magic string and format version carried inside the
// encoded envelope.
package artifact

import (
	"fmt"

	"github.com/hack-pad/hackpadfs"
	"github.com/kelindar/binary"

	"github.com/kittclouds/matchkit/classifier"
	"github.com/kittclouds/matchkit/errs"
	"github.com/kittclouds/matchkit/schema"
)

// formatVersion is bumped whenever the envelope's encoded shape changes in
// a way that breaks decoding older files.
const formatVersion = 1

// magic identifies a matchkit settings blob, per spec.md §6's "versioned
// header (magic, version, feature_count)".
const magic = "MKSB"

// fieldRecord mirrors schema.FieldDef minus its Comparator func, which no
// struct codec can encode. KindCustom fields round-trip their shape but
// lose the comparator closure: the caller must re-attach Comparator after
// Load, keyed by field name, before building a schema.DataModel from the
// result.
type fieldRecord struct {
	Name              string
	Kind              schema.Kind
	HasMissing        bool
	Corpus            []string
	Categories        []string
	InteractionFields [2]string
}

// envelope is the binary-serialized shape written to disk. Its fields are
// exported only so kelindar/binary's reflection-based codec can see them;
// callers interact through Settings.
type envelope struct {
	Magic        string
	Version      int
	FeatureCount int
	Fields       []fieldRecord
	Weights      []float64
	Bias         float64
	Predicates   [][]string // one []string per selected compound: its term descriptions
}

// Settings is the trained, ready-to-score configuration: the data model
// (field declarations), the trained classifier, and the descriptions of the
// selected blocking predicates (descriptive only — predicates themselves
// are reconstructed by the caller from these descriptions plus the same
// predicate-construction code used at training time).
type Settings struct {
	Fields               []schema.FieldDef
	Model                *classifier.Model
	PredicateDescriptors [][]string
}

func toFieldRecords(fields []schema.FieldDef) []fieldRecord {
	out := make([]fieldRecord, len(fields))
	for i, f := range fields {
		out[i] = fieldRecord{
			Name:              f.Name,
			Kind:              f.Kind,
			HasMissing:        f.HasMissing,
			Corpus:            f.Corpus,
			Categories:        f.Categories,
			InteractionFields: f.InteractionFields,
		}
	}
	return out
}

func fromFieldRecords(records []fieldRecord) []schema.FieldDef {
	out := make([]schema.FieldDef, len(records))
	for i, r := range records {
		out[i] = schema.FieldDef{
			Name:              r.Name,
			Kind:              r.Kind,
			HasMissing:        r.HasMissing,
			Corpus:            r.Corpus,
			Categories:        r.Categories,
			InteractionFields: r.InteractionFields,
		}
	}
	return out
}

// Save encodes s with kelindar/binary and writes it to path on fs.
func Save(fs hackpadfs.FS, path string, s Settings) error {
	if s.Model == nil {
		return errs.Wrap(errs.ErrConfiguration, "cannot save settings with a nil model")
	}

	env := envelope{
		Magic:        magic,
		Version:      formatVersion,
		FeatureCount: len(s.Model.Weights),
		Fields:       toFieldRecords(s.Fields),
		Weights:      s.Model.Weights,
		Bias:         s.Model.Bias,
		Predicates:   s.PredicateDescriptors,
	}

	data, err := binary.Marshal(env)
	if err != nil {
		return errs.Wrap(errs.ErrConfiguration, "encoding settings: %v", err)
	}

	if err := hackpadfs.WriteFullFile(fs, path, data, 0644); err != nil {
		return errs.Wrap(errs.ErrConfiguration, "writing settings file %q: %v", path, err)
	}
	return nil
}

// Load reads and decodes a Settings envelope previously written by Save.
func Load(fs hackpadfs.FS, path string) (Settings, error) {
	content, err := hackpadfs.ReadFile(fs, path)
	if err != nil {
		return Settings{}, errs.Wrap(errs.ErrConfiguration, "reading settings file %q: %v", path, err)
	}

	var env envelope
	if err := binary.Unmarshal(content, &env); err != nil {
		return Settings{}, errs.Wrap(errs.ErrConfiguration, "decoding settings file %q: %v", path, err)
	}
	if env.Magic != magic {
		return Settings{}, errs.Wrap(errs.ErrConfiguration, "not a matchkit settings file (bad magic %q)", env.Magic)
	}
	if env.Version != formatVersion {
		return Settings{}, errs.Wrap(errs.ErrConfiguration, "unsupported settings format version %d (want %d)", env.Version, formatVersion)
	}

	return Settings{
		Fields:               fromFieldRecords(env.Fields),
		Model:                &classifier.Model{Weights: env.Weights, Bias: env.Bias},
		PredicateDescriptors: env.Predicates,
	}, nil
}

// String renders a Settings summary for logging, without dumping the full
// weight vector.
func (s Settings) String() string {
	return fmt.Sprintf("Settings{fields=%d, predicates=%d}", len(s.Fields), len(s.PredicateDescriptors))
}
