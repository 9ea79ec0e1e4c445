package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FoldKey reduces a form field name to the form the classifier matches on:
// lower case, accents stripped, "-", "_" and "." read as spaces, whitespace
// collapsed. "First_Name" and "first-name " both fold to "first name".
func FoldKey(s string) string {
	return fold(s, func(r rune) bool {
		return r == '-' || r == '_' || r == '.'
	})
}

// FoldValue is FoldKey for categorical values: every rune that is not a
// letter or digit separates words.
func FoldValue(s string) string {
	return fold(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func fold(s string, isSeparator func(rune) bool) string {
	// transform.Chain and cases.Caser keep state, so build them per call.
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	lower := cases.Lower(language.Und).String(stripped)

	return strings.Join(strings.FieldsFunc(lower, func(r rune) bool {
		return unicode.IsSpace(r) || isSeparator(r)
	}), " ")
}
