package sanitizer

import (
	"regexp"
	"strings"
	"unicode"
)

var reKeepLettersDigits = regexp.MustCompile(`[^0-9\p{L}]+`)

// TrimAndNormalize collapses internal whitespace runs to single spaces and
// trims the ends. Used for human-readable free text that keeps its casing.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

func NormalizeNotes(notes string) string {
	return TrimAndNormalize(notes)
}

// NormalizeLabel lowercases and strips everything but letters and digits, so
// "Wash Stall" and "wash-stall" index identically.
func NormalizeLabel(label string) string {
	s := strings.ToLower(strings.TrimSpace(label))
	return reKeepLettersDigits.ReplaceAllString(s, "")
}

func NormalizeCity(city string) string {
	return NormalizeLabel(city)
}
