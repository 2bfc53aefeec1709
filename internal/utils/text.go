package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Normalize lowercases text, folds ё into е and collapses whitespace.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "ё", "е")
	s = strings.ReplaceAll(s, "’", "'")
	return strings.Join(strings.Fields(s), " ")
}

// RuneLen returns the number of characters of the trimmed string.
func RuneLen(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}

// ContainsPhrase reports whether phrase occurs in text bounded by non-letters.
// Both arguments are expected to be normalized.
func ContainsPhrase(text, phrase string) bool {
	if phrase == "" {
		return false
	}
	for start := 0; start < len(text); {
		idx := strings.Index(text[start:], phrase)
		if idx < 0 {
			return false
		}
		idx += start
		end := idx + len(phrase)
		if boundaryBefore(text, idx) && boundaryAfter(text, end) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[idx:])
		start = idx + size
	}
	return false
}

// ContainsAnyPhrase reports whether any phrase occurs in text.
func ContainsAnyPhrase(text string, phrases []string) bool {
	for _, p := range phrases {
		if ContainsPhrase(text, p) {
			return true
		}
	}
	return false
}

// CountOccurrences sums the substring occurrences of every needle.
func CountOccurrences(text string, needles []string) int {
	n := 0
	for _, needle := range needles {
		if needle == "" {
			continue
		}
		n += strings.Count(text, needle)
	}
	return n
}

// CountDistinct returns how many needles occur at least once.
func CountDistinct(text string, needles []string) int {
	n := 0
	for _, needle := range needles {
		if needle != "" && strings.Contains(text, needle) {
			n++
		}
	}
	return n
}

// TrimPunctuation strips leading and trailing punctuation and spaces.
func TrimPunctuation(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSpace(r)
	})
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// HasPrefixPhrase reports whether text starts with phrase followed by a non-letter.
func HasPrefixPhrase(text, phrase string) bool {
	return phrase != "" && strings.HasPrefix(text, phrase) && boundaryAfter(text, len(phrase))
}

// HasSuffixPhrase reports whether text ends with phrase preceded by a non-letter.
func HasSuffixPhrase(text, phrase string) bool {
	return phrase != "" && strings.HasSuffix(text, phrase) && boundaryBefore(text, len(text)-len(phrase))
}
