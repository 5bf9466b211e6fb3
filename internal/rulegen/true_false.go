package rulegen

import (
	"fmt"

	"github.com/abhisek/quizgen/internal/quiz"
)

var paddingFalseTemplates = []string{
	"%s is not mentioned in the text.",
	"The text never discusses %s.",
	"According to the text, %s plays no role in the topic.",
}

// trueFalse pairs each key-term sentence with its negation, then pads with
// templated false statements about key terms no sentence has covered yet.
// Statements are not deduplicated across pairs.
func (b *builder) trueFalse(count int) []quiz.TrueFalseQuestion {
	out := []quiz.TrueFalseQuestion{}
	if count <= 0 {
		return out
	}

	terms := b.doc.termTexts()
	covered := make(map[string]bool)

	for _, s := range b.doc.sentences {
		if len(out) >= count {
			break
		}
		term, ok := b.doc.firstTerm(s)
		if !ok {
			continue
		}
		covered[term.text] = true

		simplified := SimplifyStatement(s)
		statement := finish(simplified)
		out = append(out, quiz.TrueFalseQuestion{Statement: statement, Answer: true})
		if len(out) >= count {
			break
		}

		if negated := finish(CreateFalseStatement(simplified, terms, b.src)); negated != statement {
			out = append(out, quiz.TrueFalseQuestion{Statement: negated, Answer: false})
		}
	}

	for i, t := range terms {
		if len(out) >= count {
			break
		}
		if covered[t] {
			continue
		}
		tmpl := paddingFalseTemplates[i%len(paddingFalseTemplates)]
		out = append(out, quiz.TrueFalseQuestion{
			Statement: capitalize(fmt.Sprintf(tmpl, t)),
			Answer:    false,
		})
	}
	return out
}
