package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English, cases.NoLower)

// acronymMaxLen is the longest all-caps word kept as an acronym in display
// names. Longer all-caps words are treated as shouting and start-cased.
const acronymMaxLen = 4

// NormalizeName folds a free-text item name into its display form: whitespace
// collapsed, last word singular, each word start-cased. Short acronyms keep their case.
func NormalizeName(raw string) string {
	words := strings.Fields(raw)
	if len(words) == 0 {
		return ""
	}
	for i, w := range words {
		if isUpper(w) && letterCount(w) > acronymMaxLen {
			words[i] = strings.ToLower(w)
		}
	}
	last := len(words) - 1
	if !isUpper(words[last]) {
		words[last] = singular(words[last])
	}
	return titleCaser.String(strings.Join(words, " "))
}

// Key returns the lookup key for an item name. Matching is case-insensitive,
// so the plural fold runs on the lowercased name.
func Key(name string) string {
	words := strings.Fields(strings.ToLower(name))
	if len(words) == 0 {
		return ""
	}
	words[len(words)-1] = singular(words[len(words)-1])
	return strings.Join(words, " ")
}

// singular applies a simple English plural fold to one word.
func singular(word string) string {
	if len(word) <= 3 {
		return word
	}
	lower := strings.ToLower(word)
	switch {
	case strings.HasSuffix(lower, "ies") && len(word) > 4:
		return word[:len(word)-3] + matchCase(word[len(word)-3], "y")
	case strings.HasSuffix(lower, "sses"),
		strings.HasSuffix(lower, "xes"),
		strings.HasSuffix(lower, "ches"),
		strings.HasSuffix(lower, "shes"),
		strings.HasSuffix(lower, "zzes"):
		return word[:len(word)-2]
	case strings.HasSuffix(lower, "ss"),
		strings.HasSuffix(lower, "us"),
		strings.HasSuffix(lower, "is"):
		return word
	case strings.HasSuffix(lower, "s"):
		return word[:len(word)-1]
	}
	return word
}

func isUpper(word string) bool {
	for _, r := range word {
		if unicode.IsLetter(r) && !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

func letterCount(word string) int {
	n := 0
	for _, r := range word {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}

func matchCase(ref byte, s string) string {
	if ref >= 'A' && ref <= 'Z' {
		return strings.ToUpper(s)
	}
	return s
}
