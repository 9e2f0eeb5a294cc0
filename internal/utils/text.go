package utils

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	combiningMarksStart = 0x0300
	combiningMarksEnd   = 0x036F
	LikeEscapeChar      = `\`
)

var likeReplacer = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func isCombiningMark(r rune) bool {
	return r >= combiningMarksStart && r <= combiningMarksEnd
}

// CleanUTF8 removes or replaces invalid UTF8 characters from a string
// Returns the cleaned string and a boolean indicating if cleaning was needed
func CleanUTF8(input string) (string, bool) {
	needsCleaning := strings.Contains(input, "\x00") || !utf8.ValidString(input)

	if !needsCleaning {
		return input, false
	}

	cleaned := strings.ToValidUTF8(input, "")
	cleaned = strings.ReplaceAll(cleaned, "\x00", "")

	return cleaned, true
}

// NormalizeSearch folds text for accent and case insensitive matching:
// canonical decomposition, combining diacritics (U+0300..U+036F) dropped,
// then lowercased. NormalizeSearch(NormalizeSearch(s)) == NormalizeSearch(s).
func NormalizeSearch(input string) string {
	cleaned, _ := CleanUTF8(input)

	t := transform.Chain(norm.NFD, runes.Remove(runes.Predicate(isCombiningMark)))
	folded, _, err := transform.String(t, cleaned)
	if err != nil {
		folded = cleaned
	}

	return strings.ToLower(folded)
}

// EscapeLike escapes LIKE metacharacters so the input matches literally when
// used with ESCAPE '\'.
func EscapeLike(input string) string {
	return likeReplacer.Replace(input)
}

// ContainsPattern builds a LIKE pattern matching input anywhere in a column.
func ContainsPattern(input string) string {
	return "%" + EscapeLike(input) + "%"
}
