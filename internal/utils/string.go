package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// HasPrefixIgnoreCase checks if string has prefix case-insensitively
func HasPrefixIgnoreCase(s, prefix string) bool {
	return strings.HasPrefix(strings.ToLower(s), strings.ToLower(prefix))
}

// PhraseMatch reports whether query is a prefix of phrase or of any
// space-separated word inside it: "tes" matches "test" and "stream test"
// but not "hostess".
func PhraseMatch(query, phrase string) bool {
	query = strings.ToLower(query)
	phrase = strings.ToLower(phrase)
	if strings.HasPrefix(phrase, query) {
		return true
	}
	for _, part := range strings.Split(phrase, " ") {
		if strings.HasPrefix(part, query) {
			return true
		}
	}
	return false
}

// IsASCIILower reports whether s consists only of a-z letters.
func IsASCIILower(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// CapitalizeFirst upper-cases the first rune of s, leaving the rest alone.
func CapitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	if unicode.IsUpper(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
