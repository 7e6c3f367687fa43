package patch

import (
	"regexp"
	"strings"
)

// docstringRe matches the first triple-quoted string literal, non-greedy,
// across newlines.
var docstringRe = regexp.MustCompile(`(?s)""".*?"""|'''.*?'''`)

// FindDocstring returns the first triple-quoted literal in text, quotes
// included.
func FindDocstring(text string) (string, bool) {
	loc := docstringRe.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	return text[loc[0]:loc[1]], true
}

// Replacement returns the literal to insert for a proposed solution. When
// the solution holds a triple-quoted literal (a full rewritten block) that
// literal is used; otherwise the solution itself is taken as the literal.
func Replacement(solution string) string {
	if doc, ok := FindDocstring(solution); ok {
		return doc
	}
	return solution
}

// Occurrences counts non-overlapping occurrences of literal in content.
func Occurrences(content, literal string) int {
	if literal == "" {
		return 0
	}
	return strings.Count(content, literal)
}
