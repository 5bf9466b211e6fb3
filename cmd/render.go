package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/abhisek/quizgen/internal/quiz"
	"github.com/abhisek/quizgen/internal/ui/theme"
)

// renderResult prints a result for humans. showAnswers controls whether
// answers are revealed inline.
func renderResult(w io.Writer, res quiz.Result, showAnswers bool) {
	badge := theme.BadgeAI.Render("AI")
	if res.Method != quiz.MethodAI {
		label := "RULE-BASED"
		if res.FallbackReason != "" {
			label += " (" + res.FallbackReason + ")"
		}
		badge = theme.BadgeFallback.Render(label)
	}
	fmt.Fprintf(w, "%s  %s\n", theme.Title.Render(fmt.Sprintf("Quiz: %d questions", res.Questions.Len())), badge)

	if res.Questions.Empty() {
		fmt.Fprintln(w, theme.Hint.Render("The text did not yield any usable questions. Try a longer passage."))
		return
	}

	n := 0
	next := func() int { n++; return n }
	set := res.Questions

	if len(set.MultipleChoice) > 0 {
		fmt.Fprintln(w, theme.Section.Render("Multiple choice"))
		for _, q := range set.MultipleChoice {
			fmt.Fprintf(w, "%d. %s\n", next(), theme.Body.Render(q.Question))
			for i, opt := range q.Options {
				line := fmt.Sprintf("   %c) %s", 'A'+i, opt)
				if showAnswers && i == q.CorrectAnswer {
					line = theme.Correct.Render(line)
				}
				fmt.Fprintln(w, line)
			}
		}
	}

	if len(set.TrueFalse) > 0 {
		fmt.Fprintln(w, theme.Section.Render("True or false"))
		for _, q := range set.TrueFalse {
			fmt.Fprintf(w, "%d. %s", next(), theme.Body.Render(q.Statement))
			if showAnswers {
				fmt.Fprint(w, "  ", answerBool(q.Answer))
			}
			fmt.Fprintln(w)
		}
	}

	if len(set.FillInTheBlank) > 0 {
		fmt.Fprintln(w, theme.Section.Render("Fill in the blank"))
		for _, q := range set.FillInTheBlank {
			sentence := strings.Replace(q.Sentence, quiz.BlankMarker, theme.Blank.Render(quiz.BlankMarker), 1)
			fmt.Fprintf(w, "%d. %s", next(), sentence)
			if showAnswers {
				fmt.Fprint(w, "  ", theme.Correct.Render(q.Answer))
			}
			fmt.Fprintln(w)
		}
	}

	if len(set.Identification) > 0 {
		fmt.Fprintln(w, theme.Section.Render("Identification"))
		for _, q := range set.Identification {
			fmt.Fprintf(w, "%d. %s", next(), theme.Body.Render(q.Question))
			if showAnswers {
				fmt.Fprint(w, "  ", theme.Correct.Render(q.Answer))
			}
			fmt.Fprintln(w)
		}
	}
}

func answerBool(v bool) string {
	if v {
		return theme.Correct.Render("True")
	}
	return theme.Incorrect.Render("False")
}
