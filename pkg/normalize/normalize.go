package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Text canonicalizes a free-text label: trims, upper-cases, collapses
// repeated interior whitespace and strips diacritical marks. All matching in
// the resolver operates on this form, never on raw text.
func Text(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}

	s = strings.Join(strings.Fields(s), " ")

	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		return s
	}
	return out
}

// Tokens splits a normalized label into matching tokens, dropping short words
// (length <= 3) that behave as stop words in Spanish result descriptions.
func Tokens(normalized string) []string {
	fields := strings.Fields(normalized)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) > 3 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// SharedTokens counts tokens present in both lists.
func SharedTokens(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(b))
	for _, t := range b {
		set[t] = struct{}{}
	}
	count := 0
	for _, t := range a {
		if _, ok := set[t]; ok {
			count++
		}
	}
	return count
}
