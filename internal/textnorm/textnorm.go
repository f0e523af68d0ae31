// Package textnorm provides the text folding shared by the analyzers and the
// correlation engine.
package textnorm

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Fold returns s in NFC form and lowercased. Composed and decomposed forms of
// accented keywords ("integração") fold to the same string.
func Fold(s string) string {
	// A Caser is stateful, so each call gets its own.
	return cases.Lower(language.Und).String(norm.NFC.String(s))
}

// FoldAll folds every entry of words.
func FoldAll(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		out = append(out, Fold(w))
	}
	return out
}

// CountPresent returns how many distinct keywords occur as a substring of
// folded. Each keyword counts at most once no matter how often it recurs.
// Keywords must already be folded.
func CountPresent(folded string, keywords []string) int {
	n := 0
	seen := make(map[string]bool, len(keywords))
	for _, kw := range keywords {
		if kw == "" || seen[kw] {
			continue
		}
		seen[kw] = true
		if strings.Contains(folded, kw) {
			n++
		}
	}
	return n
}

// ContainsAny reports whether any keyword occurs as a substring of folded.
func ContainsAny(folded string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(folded, kw) {
			return true
		}
	}
	return false
}
