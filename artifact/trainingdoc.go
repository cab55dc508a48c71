package artifact

import (
	"encoding/json"

	"github.com/kittclouds/matchkit/errs"
	"github.com/kittclouds/matchkit/record"
)

// TrainingDocument is the external training-pairs format of spec.md §6: a
// JSON document with two top-level keys, each an array of two-record
// arrays. Stdlib encoding/json is used deliberately — this is a direct,
// self-describing external interface format with no ecosystem codec gap to
// fill, matching the original's own plain json/simplejson usage.
type TrainingDocument struct {
	Match    [][2]record.Record `json:"-"`
	Distinct [][2]record.Record `json:"-"`
}

// jsonPair is the wire shape of one labelled pair in a training document:
// two field maps, where each field value is a JSON string, number,
// 2-element [lat,lon] array, array of strings (tuple), or null/absent (the
// field is omitted from the object).
type jsonPair [2]map[string]any

type jsonDocument struct {
	Match    []jsonPair `json:"match"`
	Distinct []jsonPair `json:"distinct"`
}

// ParseTrainingDocument decodes a §6 training-pairs JSON document.
func ParseTrainingDocument(data []byte) (TrainingDocument, error) {
	var doc jsonDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return TrainingDocument{}, errs.Wrap(errs.ErrTraining, "parsing training document: %v", err)
	}

	match, err := decodePairs(doc.Match)
	if err != nil {
		return TrainingDocument{}, err
	}
	distinct, err := decodePairs(doc.Distinct)
	if err != nil {
		return TrainingDocument{}, err
	}
	return TrainingDocument{Match: match, Distinct: distinct}, nil
}

func decodePairs(pairs []jsonPair) ([][2]record.Record, error) {
	out := make([][2]record.Record, len(pairs))
	for i, p := range pairs {
		a, err := decodeRecord(p[0])
		if err != nil {
			return nil, errs.Wrap(errs.ErrTraining, "pair %d, side a: %v", i, err)
		}
		b, err := decodeRecord(p[1])
		if err != nil {
			return nil, errs.Wrap(errs.ErrTraining, "pair %d, side b: %v", i, err)
		}
		out[i] = [2]record.Record{a, b}
	}
	return out, nil
}

func decodeRecord(fields map[string]any) (record.Record, error) {
	r := make(record.Record, len(fields))
	for name, raw := range fields {
		v, err := decodeValue(raw)
		if err != nil {
			return nil, errs.Wrap(errs.ErrTraining, "field %q: %v", name, err)
		}
		r[name] = v
	}
	return r, nil
}

func decodeValue(raw any) (record.Value, error) {
	switch v := raw.(type) {
	case nil:
		return record.Absent, nil
	case string:
		return record.String(v), nil
	case float64:
		return record.Number(v), nil
	case []any:
		if len(v) == 2 {
			lat, latOK := v[0].(float64)
			lon, lonOK := v[1].(float64)
			if latOK && lonOK {
				return record.Geo(lat, lon), nil
			}
		}
		parts := make([]string, len(v))
		for i, elem := range v {
			s, ok := elem.(string)
			if !ok {
				return record.Value{}, errs.Wrap(errs.ErrTraining, "tuple element %d is not a string", i)
			}
			parts[i] = s
		}
		return record.Tuple(parts...), nil
	default:
		return record.Value{}, errs.Wrap(errs.ErrTraining, "unsupported field value type %T", raw)
	}
}
