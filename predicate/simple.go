package predicate

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

type simplePredicate struct {
	name  string
	field string
	keys  func(value string) []string
}

func (p *simplePredicate) Name() string  { return p.name }
func (p *simplePredicate) Field() string { return p.field }
func (p *simplePredicate) Keys(value string, absent bool) []string {
	if absent {
		return nil
	}
	return p.keys(value)
}

// WholeField emits the entire field value, as given, as a single key.
func WholeField(field string) Predicate {
	return &simplePredicate{name: "whole_field", field: field, keys: func(v string) []string {
		if v == "" {
			return nil
		}
		return []string{v}
	}}
}

// Tokens emits one key per whitespace-separated token.
func Tokens(field string) Predicate {
	return &simplePredicate{name: "tokens", field: field, keys: func(v string) []string {
		return strings.Fields(v)
	}}
}

// NGram emits every contiguous run of n characters, for n ∈ {4,6} per
// spec.md §4.5.
func NGram(field string, n int) Predicate {
	return &simplePredicate{name: "ngram" + strconv.Itoa(n), field: field, keys: func(v string) []string {
		r := []rune(v)
		if len(r) < n {
			return nil
		}
		out := make([]string, 0, len(r)-n+1)
		for i := 0; i <= len(r)-n; i++ {
			out = append(out, string(r[i:i+n]))
		}
		return out
	}}
}

// PrefixK emits the first k characters as a single key, for k ∈ {3,5,7}.
func PrefixK(field string, k int) Predicate {
	return &simplePredicate{name: "prefix" + strconv.Itoa(k), field: field, keys: func(v string) []string {
		r := []rune(v)
		if len(r) < k {
			return nil
		}
		return []string{string(r[:k])}
	}}
}

var integerPattern = regexp.MustCompile(`\d+`)

// CommonIntegers emits every integer token appearing in the field.
func CommonIntegers(field string) Predicate {
	return &simplePredicate{name: "common_integers", field: field, keys: func(v string) []string {
		return integerPattern.FindAllString(v, -1)
	}}
}

// NearIntegers emits each integer token plus its immediate neighbours
// (n-1, n, n+1), so two records whose integer fields differ by one still
// share a block key — useful for noisy house-number or year fields.
func NearIntegers(field string) Predicate {
	return &simplePredicate{name: "near_integers", field: field, keys: func(v string) []string {
		matches := integerPattern.FindAllString(v, -1)
		out := make([]string, 0, len(matches)*3)
		for _, m := range matches {
			n, err := strconv.Atoi(m)
			if err != nil {
				continue
			}
			out = append(out, strconv.Itoa(n-1), strconv.Itoa(n), strconv.Itoa(n+1))
		}
		return out
	}}
}

// SortedAcronym emits the first letter of each token, sorted — catches
// reorderings like "International Business Machines" vs "Business Machines
// International".
func SortedAcronym(field string) Predicate {
	return &simplePredicate{name: "sorted_acronym", field: field, keys: func(v string) []string {
		toks := strings.Fields(v)
		if len(toks) == 0 {
			return nil
		}
		letters := make([]string, 0, len(toks))
		for _, t := range toks {
			if t != "" {
				letters = append(letters, t[:1])
			}
		}
		sort.Strings(letters)
		return []string{strings.Join(letters, "")}
	}}
}

var geoPointPattern = regexp.MustCompile(`\(([-\d.]+),([-\d.]+)\)`)

// GeoGridCell emits the grid cell a (lat,lon) point falls in, at the given
// cell size in degrees. Field values are expected in record.Value's
// "(lat,lon)" string rendering.
func GeoGridCell(field string, cellDegrees float64) Predicate {
	return &simplePredicate{name: "geo_grid", field: field, keys: func(v string) []string {
		m := geoPointPattern.FindStringSubmatch(v)
		if m == nil {
			return nil
		}
		lat, err1 := strconv.ParseFloat(m[1], 64)
		lon, err2 := strconv.ParseFloat(m[2], 64)
		if err1 != nil || err2 != nil || cellDegrees <= 0 {
			return nil
		}
		latCell := int(lat / cellDegrees)
		lonCell := int(lon / cellDegrees)
		return []string{strconv.Itoa(latCell) + "," + strconv.Itoa(lonCell)}
	}}
}

// FirstWord emits only the first whitespace-delimited token.
func FirstWord(field string) Predicate {
	return &simplePredicate{name: "first_word", field: field, keys: func(v string) []string {
		toks := strings.Fields(v)
		if len(toks) == 0 {
			return nil
		}
		return []string{toks[0]}
	}}
}
