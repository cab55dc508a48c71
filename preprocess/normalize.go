// Package preprocess implements the single normalisation pass applied to
// every string field at ingestion and again at every distance-kernel call on
// that field (spec.md §4.1).
package preprocess

import (
	"strings"
	"unicode"
)

// asciiFold maps common non-ASCII letters to their closest ASCII rendering.
// The table is deliberately small and closed: it covers the Latin-1
// supplement and a handful of frequently-seen punctuation look-alikes, not a
// general Unicode transliteration scheme.
var asciiFold = map[rune]string{
	'à': "a", 'á': "a", 'â': "a", 'ã': "a", 'ä': "a", 'å': "a", 'ā': "a",
	'è': "e", 'é': "e", 'ê': "e", 'ë': "e", 'ē': "e",
	'ì': "i", 'í': "i", 'î': "i", 'ï': "i", 'ī': "i",
	'ò': "o", 'ó': "o", 'ô': "o", 'õ': "o", 'ö': "o", 'ø': "o", 'ō': "o",
	'ù': "u", 'ú': "u", 'û': "u", 'ü': "u", 'ū': "u",
	'ý': "y", 'ÿ': "y",
	'ñ': "n", 'ç': "c", 'ß': "ss", 'æ': "ae", 'œ': "oe",
	'À': "a", 'Á': "a", 'Â': "a", 'Ã': "a", 'Ä': "a", 'Å': "a",
	'È': "e", 'É': "e", 'Ê': "e", 'Ë': "e",
	'Ì': "i", 'Í': "i", 'Î': "i", 'Ï': "i",
	'Ò': "o", 'Ó': "o", 'Ô': "o", 'Õ': "o", 'Ö': "o", 'Ø': "o",
	'Ù': "u", 'Ú': "u", 'Û': "u", 'Ü': "u",
	'Ñ': "n", 'Ç': "c",
	'‘': "'", '’': "'", '“': "\"", '”': "\"",
	'–': "-", '—': "-",
}

// Normalise implements the Preprocessor contract: ASCII-transliterate,
// collapse whitespace runs to single spaces, strip leading/trailing
// whitespace and every layer of matched surrounding quotes, lowercase. An
// empty result is reported via ok=false (the "absent" outcome). Normalise is
// idempotent: Normalise(Normalise(s)) == Normalise(s) for any non-absent
// result.
func Normalise(s string) (string, bool) {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if rep, ok := asciiFold[unicode.ToLower(r)]; ok {
			b.WriteString(rep)
			continue
		}
		b.WriteRune(r)
	}
	folded := b.String()

	collapsed := strings.Join(strings.Fields(folded), " ")
	trimmed := strings.TrimSpace(collapsed)
	trimmed = stripSurroundingQuotes(trimmed)
	trimmed = strings.TrimSpace(trimmed)

	lowered := strings.Map(unicode.ToLower, trimmed)
	if lowered == "" {
		return "", false
	}
	return lowered, true
}

// stripSurroundingQuotes peels matched quote layers, and the whitespace just
// inside each, until none remain, so that doubled or repeated quoting
// (`''x''`, `' 'x' '`) collapses in one Normalise call rather than needing a
// second pass to reach a fixed point.
func stripSurroundingQuotes(s string) string {
	for len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			s = strings.TrimSpace(s[1 : len(s)-1])
			continue
		}
		break
	}
	return s
}
