package service

import (
	"strings"
	"unicode/utf16"
)

const (
	// MaxTextLength is the longest text accepted by Classify, in UTF-16 code units.
	MaxTextLength = 50000

	snippetLength       = 1000
	crisisSnippetLength = 200
)

var (
	textFields   = []string{"body", "text", "content", "caption"}
	authorFields = []string{"authorId", "userId", "uid"}
)

// textLength counts UTF-16 code units, the unit client-side limits are
// expressed in.
func textLength(s string) int {
	n := 0
	for _, r := range s {
		n += runeUnits(r)
	}
	return n
}

// truncate cuts s to at most max UTF-16 code units without splitting a rune.
func truncate(s string, max int) string {
	n := 0
	for i, r := range s {
		n += runeUnits(r)
		if n > max {
			return s[:i]
		}
	}
	return s
}

func runeUnits(r rune) int {
	if l := utf16.RuneLen(r); l > 0 {
		return l
	}
	return 1
}

// firstString returns the first non-empty string value among keys.
func firstString(doc map[string]interface{}, keys []string) string {
	for _, k := range keys {
		if v, ok := doc[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
