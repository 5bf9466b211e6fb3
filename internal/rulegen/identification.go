package rulegen

import (
	"fmt"

	"github.com/abhisek/quizgen/internal/quiz"
)

const identificationPrompt = "Identify the concept related to: %s"

func (b *builder) identification(count int) []quiz.IdentificationQuestion {
	out := []quiz.IdentificationQuestion{}
	for _, t := range b.doc.terms {
		if len(out) >= count {
			break
		}
		if b.isUsed(t.text) {
			continue
		}
		out = append(out, quiz.IdentificationQuestion{
			Question: fmt.Sprintf(identificationPrompt, t.text),
			Answer:   t.text,
		})
		b.markUsed(t.text)
	}
	return out
}
