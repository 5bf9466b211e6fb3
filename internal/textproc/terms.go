package textproc

import (
	"regexp"
	"sort"
	"strings"
)

const (
	// DefaultKeyTermLimit is how many key terms callers take by default.
	DefaultKeyTermLimit = 15

	minTermLen       = 4
	minTermFrequency = 2
	maxEntities      = 10
)

var (
	alphaRe  = regexp.MustCompile(`^[a-z]+$`)
	entityRe = regexp.MustCompile(`^[A-Z][a-z]+$`)
)

var stopwords = map[string]bool{
	"about": true, "after": true, "also": true, "because": true, "been": true,
	"before": true, "being": true, "between": true, "both": true, "could": true,
	"does": true, "each": true, "from": true, "have": true, "here": true,
	"into": true, "just": true, "like": true, "many": true, "more": true,
	"most": true, "much": true, "must": true, "only": true, "other": true,
	"over": true, "same": true, "should": true, "some": true, "such": true,
	"than": true, "that": true, "their": true, "them": true, "then": true,
	"there": true, "these": true, "they": true, "this": true, "those": true,
	"very": true, "were": true, "what": true, "when": true, "where": true,
	"which": true, "while": true, "will": true, "with": true, "would": true,
	"your": true, "the": true, "and": true, "for": true, "are": true,
}

// IsStopword reports whether w (any case) is in the stopword set.
func IsStopword(w string) bool {
	return stopwords[strings.ToLower(w)]
}

// KeyTerms returns up to limit content words that occur at least twice,
// most frequent first. Ties keep first-occurrence order.
func KeyTerms(text string, limit int) []string {
	if limit <= 0 {
		limit = DefaultKeyTermLimit
	}

	freq := make(map[string]int)
	var order []string
	for _, w := range Words(text) {
		if len(w) < minTermLen || !alphaRe.MatchString(w) || stopwords[w] {
			continue
		}
		if freq[w] == 0 {
			order = append(order, w)
		}
		freq[w]++
	}

	terms := make([]string, 0, len(order))
	for _, w := range order {
		if freq[w] >= minTermFrequency {
			terms = append(terms, w)
		}
	}
	sort.SliceStable(terms, func(i, j int) bool {
		return freq[terms[i]] > freq[terms[j]]
	})

	if len(terms) > limit {
		terms = terms[:limit]
	}
	return terms
}

// NamedEntities returns up to ten capitalized words or adjacent capitalized
// pairs. Capitalized stopwords such as "The" are not treated as entities.
func NamedEntities(text string) []string {
	tokens := strings.Fields(text)
	seen := make(map[string]bool)
	var entities []string

	for i := 0; i < len(tokens) && len(entities) < maxEntities; i++ {
		tok := trimPunct(tokens[i])
		if !isEntityToken(tok) {
			continue
		}
		entity := tok
		// Only join when the first token does not end a clause.
		if i+1 < len(tokens) && tok == tokens[i] {
			if next := trimPunct(tokens[i+1]); isEntityToken(next) {
				entity = tok + " " + next
				i++
			}
		}
		if !seen[entity] {
			seen[entity] = true
			entities = append(entities, entity)
		}
	}
	return entities
}

func isEntityToken(tok string) bool {
	return entityRe.MatchString(tok) && !stopwords[strings.ToLower(tok)]
}

func trimPunct(tok string) string {
	return strings.Trim(tok, `.,!?;:()"'-`)
}
