package recommend

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// normalize lower-cases s and strips combining marks so "Diseñador" and
// "disenador" compare equal. Transformers are stateful, so each call builds
// its own chain.
func normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.TrimSpace(cases.Lower(language.Und).String(folded))
}

// words splits s into its distinct normalized words.
func words(s string) []string {
	fields := strings.FieldsFunc(normalize(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return dedupe(fields)
}

// countKeywords returns how many keywords occur as substrings of text.
// Both sides are normalized first.
func countKeywords(text string, keywords []string) int {
	haystack := normalize(text)
	if haystack == "" {
		return 0
	}
	n := 0
	for _, kw := range keywords {
		kw = normalize(kw)
		if kw != "" && strings.Contains(haystack, kw) {
			n++
		}
	}
	return n
}

func containsAny(text string, keywords []string) bool {
	return countKeywords(text, keywords) > 0
}

func dedupe[T comparable](values []T) []T {
	seen := make(map[T]struct{}, len(values))
	out := make([]T, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
