package rulegen

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	leadingConnectiveRe = regexp.MustCompile(`(?i)^(however|moreover|furthermore|additionally|therefore|thus|hence)\b\s*,?\s*`)
	spaceRunRe          = regexp.MustCompile(`\s+`)
)

// SimplifyStatement strips a leading discourse connective and collapses
// whitespace so a sentence reads as a standalone statement.
func SimplifyStatement(sentence string) string {
	s := strings.TrimSpace(sentence)
	s = leadingConnectiveRe.ReplaceAllString(s, "")
	s = spaceRunRe.ReplaceAllString(s, " ")
	return capitalize(strings.TrimSpace(s))
}

// finish terminates a statement with a period unless it already ends in
// punctuation.
func finish(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	switch s[len(s)-1] {
	case '.', '!', '?':
		return s
	}
	return s + "."
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || unicode.IsUpper(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
