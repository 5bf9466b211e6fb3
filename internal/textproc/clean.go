// Package textproc cleans raw source text, segments it, and extracts the key
// terms and capitalized entities that question generation pivots on.
package textproc

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	disallowedRe  = regexp.MustCompile(`[^\w\s.,!?;:()-]`)
	sentenceEndRe = regexp.MustCompile(`[.!?]+`)
	blankLineRe   = regexp.MustCompile(`\n\s*\n`)
	wordRe        = regexp.MustCompile(`\b\w+\b`)
)

const (
	minSentenceLen      = 15
	minSentenceWords    = 4
	minLooseSentenceLen = 20
	minParagraphLen     = 50
)

// CleanText collapses runs of whitespace and strips every character outside
// word characters, whitespace, and basic punctuation.
func CleanText(text string) string {
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = disallowedRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// ExtractSentences splits text on terminal punctuation and keeps sentences
// longer than 15 characters with at least four words.
func ExtractSentences(text string) []string {
	var out []string
	for _, s := range splitSentences(text) {
		if utf8.RuneCountInString(s) > minSentenceLen && len(strings.Fields(s)) >= minSentenceWords {
			out = append(out, s)
		}
	}
	return out
}

// ExtractSentencesLoose is the length-only variant used when the strict
// split yields nothing.
func ExtractSentencesLoose(text string) []string {
	var out []string
	for _, s := range splitSentences(text) {
		if utf8.RuneCountInString(s) > minLooseSentenceLen {
			out = append(out, s)
		}
	}
	return out
}

func splitSentences(text string) []string {
	parts := sentenceEndRe.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ExtractParagraphs splits raw text on blank lines and keeps paragraphs
// longer than 50 characters. It must run on uncleaned text since CleanText
// removes the line breaks.
func ExtractParagraphs(text string) []string {
	var out []string
	for _, p := range blankLineRe.Split(text, -1) {
		p = strings.TrimSpace(p)
		if utf8.RuneCountInString(p) > minParagraphLen {
			out = append(out, p)
		}
	}
	return out
}

// Words tokenizes text into lowercase words.
func Words(text string) []string {
	matches := wordRe.FindAllString(text, -1)
	for i, m := range matches {
		matches[i] = strings.ToLower(m)
	}
	return matches
}

// TermPattern returns a case-insensitive whole-word matcher for term.
func TermPattern(term string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
}

// ContainsTerm reports whether s contains term as a whole word, ignoring case.
func ContainsTerm(s, term string) bool {
	if term == "" {
		return false
	}
	return TermPattern(term).MatchString(s)
}
