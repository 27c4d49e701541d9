package utils

import "strings"

// NormalizeSearch lowercases, trims and collapses inner whitespace so that
// name lookups behave the same regardless of how the text was typed.
func NormalizeSearch(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// SearchMatch reports whether query matches target after both are normalized.
// An empty query matches everything.
func SearchMatch(target, query string) bool {
	return strings.Contains(NormalizeSearch(target), NormalizeSearch(query))
}
