// Package normalize holds the pure value parsers shared by forms and APIs:
// BRL amounts, date-only values, accent folding and slugs.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold removes diacritics, "Política" becomes "Politica".
// Characters that are not combining marks (like "º") are kept.
func Fold(s string) string {
	// Transformers returned by Chain hold state, so one is built per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// FoldLower is Fold followed by strings.ToLower.
func FoldLower(s string) string {
	return strings.ToLower(Fold(s))
}

// FoldUpper is Fold followed by strings.ToUpper.
func FoldUpper(s string) string {
	return strings.ToUpper(Fold(s))
}

// Slugify turns a title into a lowercase ascii slug: "Edital Nº 01/2024" -> "edital-no-01-2024".
func Slugify(s string) string {
	folded := FoldLower(strings.TrimSpace(s))

	var b strings.Builder
	dash := false
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case r == 'º':
			b.WriteRune('o')
			dash = false
		case r == 'ª':
			b.WriteRune('a')
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteRune('-')
				dash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// CanonicalToken uppercases, folds accents and joins words with underscores:
// "Termo de Referência" -> "TERMO_DE_REFERENCIA".
func CanonicalToken(s string) string {
	folded := FoldUpper(strings.TrimSpace(s))
	fields := strings.FieldsFunc(folded, func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r))
	})
	return strings.Join(fields, "_")
}
