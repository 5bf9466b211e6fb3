package rulegen

import (
	"regexp"
	"strings"

	"github.com/abhisek/quizgen/internal/quiz"
	"github.com/abhisek/quizgen/internal/textproc"
)

// fillInBlank blanks the first candidate term found in each sentence.
// Candidates are key terms followed by named entities.
func (b *builder) fillInBlank(count int) []quiz.FillInTheBlankQuestion {
	out := []quiz.FillInTheBlankQuestion{}
	if count <= 0 {
		return out
	}

	candidates := b.blankCandidates()
	if len(candidates) == 0 {
		return out
	}

	for _, s := range b.doc.sentences {
		if len(out) >= count {
			break
		}
		sentence := finish(SimplifyStatement(s))
		if strings.Contains(sentence, quiz.BlankMarker) {
			continue
		}
		for _, re := range candidates {
			loc := re.FindStringIndex(sentence)
			if loc == nil {
				continue
			}
			answer := sentence[loc[0]:loc[1]]
			blanked := sentence[:loc[0]] + quiz.BlankMarker + sentence[loc[1]:]
			if blanked == sentence {
				break
			}
			out = append(out, quiz.FillInTheBlankQuestion{Sentence: blanked, Answer: answer})
			b.markUsed(answer)
			break
		}
	}
	return out
}

func (b *builder) blankCandidates() []*regexp.Regexp {
	seen := make(map[string]bool)
	var out []*regexp.Regexp
	for _, t := range b.doc.terms {
		seen[t.text] = true
		out = append(out, t.pattern)
	}
	for _, e := range b.doc.entities {
		if k := strings.ToLower(e); !seen[k] {
			seen[k] = true
			out = append(out, textproc.TermPattern(e))
		}
	}
	return out
}
