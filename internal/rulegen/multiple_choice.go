package rulegen

import (
	"fmt"
	"strings"

	"github.com/abhisek/quizgen/internal/quiz"
)

const (
	optionsPerQuestion    = 4
	minImportantSentences = 5
)

var mcqStems = []string{
	"According to the text, what is true about %s?",
	"Which statement about %s is supported by the text?",
	"What does the text say about %s?",
	"Which of the following correctly describes %s?",
}

// distractorTemplates take the question's term first and another term or
// entity from the text second.
var distractorTemplates = []string{
	"%[1]s has no connection to %[2]s according to the text.",
	"The text states that %[2]s completely replaces %[1]s.",
	"%[1]s is described as the opposite of %[2]s.",
	"%[1]s only matters when %[2]s is absent.",
	"The text claims %[1]s and %[2]s are exactly the same thing.",
	"%[1]s is mentioned only as a minor example of %[2]s.",
}

// fillerTerms stand in for other terms when the text has too few.
var fillerTerms = []string{
	"an unrelated process",
	"a separate concept",
	"an external factor",
}

func (b *builder) multipleChoice(count int) []quiz.MultipleChoiceQuestion {
	out := []quiz.MultipleChoiceQuestion{}
	if count <= 0 {
		return out
	}

	for _, s := range b.importantSentences(max(2*count, minImportantSentences)) {
		if len(out) >= count {
			break
		}
		term, _ := b.doc.firstTerm(s)

		correct := finish(SimplifyStatement(s))
		if correct == "" {
			continue
		}

		idx := len(out)
		options := append([]string{correct}, b.distractors(term.text, correct, idx)...)
		order := perm(b.src, len(options))
		shuffled := make([]string, len(options))
		answer := 0
		for to, from := range order {
			shuffled[to] = options[from]
			if from == 0 {
				answer = to
			}
		}

		out = append(out, quiz.MultipleChoiceQuestion{
			Question:      fmt.Sprintf(mcqStems[idx%len(mcqStems)], term.text),
			Options:       shuffled,
			CorrectAnswer: answer,
		})
		b.markUsed(term.text)
	}
	return out
}

// importantSentences returns up to limit sentences that contain a key term,
// in text order.
func (b *builder) importantSentences(limit int) []string {
	var out []string
	for _, s := range b.doc.sentences {
		if len(out) == limit {
			break
		}
		if _, ok := b.doc.firstTerm(s); ok {
			out = append(out, s)
		}
	}
	return out
}

// distractors instantiates three randomly chosen templates. Results never
// repeat each other or the correct option.
func (b *builder) distractors(term, correct string, idx int) []string {
	pool := b.otherTerms(term)

	seen := map[string]bool{strings.ToLower(correct): true}
	out := make([]string, 0, optionsPerQuestion-1)
	for k, ti := range perm(b.src, len(distractorTemplates)) {
		if len(out) == optionsPerQuestion-1 {
			break
		}
		other := pool[(idx*(optionsPerQuestion-1)+k)%len(pool)]
		d := capitalize(fmt.Sprintf(distractorTemplates[ti], term, other))
		if seen[strings.ToLower(d)] {
			continue
		}
		seen[strings.ToLower(d)] = true
		out = append(out, d)
	}
	return out
}

// otherTerms lists key terms and entities other than term, falling back to
// generic fillers. It is never empty.
func (b *builder) otherTerms(term string) []string {
	var pool []string
	seen := map[string]bool{strings.ToLower(term): true}
	add := func(s string) {
		if k := strings.ToLower(s); !seen[k] {
			seen[k] = true
			pool = append(pool, s)
		}
	}
	for _, t := range b.doc.terms {
		add(t.text)
	}
	for _, e := range b.doc.entities {
		add(e)
	}
	if len(pool) == 0 {
		pool = append(pool, fillerTerms...)
	}
	return pool
}
