package aigen

import (
	"fmt"
	"strings"

	"github.com/abhisek/quizgen/internal/quiz"
)

// DefaultExcerptLength is how many characters of source text go into the prompt.
const DefaultExcerptLength = 3000

const systemPrompt = `You are an assessment writer who turns study material into quiz questions.

Rules:
- Respond with a single JSON object and nothing else. No prose, no markdown, no code fences.
- Base every question on the provided text. Do not invent facts.
- Multiple-choice questions have exactly 4 options and exactly one correct option; correctAnswer is its zero-based index.
- Fill-in-the-blank sentences replace the answer with ` + quiz.BlankMarker + `.
- Produce exactly the number of questions requested for each type.`

// typePrompt holds how each question type is named in the prompt and which
// JSON key carries it.
var typePrompt = map[quiz.QuestionType]struct {
	key   string
	label string
}{
	quiz.TypeMultipleChoice: {"multipleChoice", "multiple-choice questions"},
	quiz.TypeTrueFalse:      {"trueFalse", "true/false statements"},
	quiz.TypeFillInBlank:    {"fillInTheBlank", "fill-in-the-blank sentences"},
	quiz.TypeIdentification: {"identification", "identification questions"},
}

var difficultyGuide = map[quiz.Difficulty]string{
	quiz.DifficultyEasy:        "Ask about facts stated directly in the text.",
	quiz.DifficultyModerate:    "Mix recall with questions that need understanding of how ideas relate.",
	quiz.DifficultyChallenging: "Favor questions that require inference and careful reading; make distractors plausible.",
}

const outputExample = `{
  "multipleChoice": [{"question": "...", "options": ["...", "...", "...", "..."], "correctAnswer": 0}],
  "trueFalse": [{"statement": "...", "answer": true}],
  "fillInTheBlank": [{"sentence": "... ` + quiz.BlankMarker + ` ...", "answer": "..."}],
  "identification": [{"question": "...", "answer": "..."}]
}`

// BuildPrompt renders the user message for one generation call. Types with
// a zero count are told to stay empty.
func BuildPrompt(text string, difficulty quiz.Difficulty, counts quiz.Counts) string {
	return buildPrompt(text, difficulty, counts, DefaultExcerptLength)
}

func buildPrompt(text string, difficulty quiz.Difficulty, counts quiz.Counts, excerptLen int) string {
	if difficulty == "" {
		difficulty = quiz.DifficultyModerate
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Difficulty: %s\n", difficulty)
	if g := difficultyGuide[difficulty]; g != "" {
		fmt.Fprintf(&b, "%s\n", g)
	}

	b.WriteString("\nQuestions to write:\n")
	for _, t := range quiz.AllTypes {
		tp := typePrompt[t]
		if n := counts.Get(t); n > 0 {
			fmt.Fprintf(&b, "- Generate exactly %d %s in %q.\n", n, tp.label, tp.key)
		} else {
			fmt.Fprintf(&b, "- %q must be an empty array.\n", tp.key)
		}
	}

	b.WriteString("\nText:\n\"\"\"\n")
	b.WriteString(excerpt(text, excerptLen))
	b.WriteString("\n\"\"\"\n")

	b.WriteString("\nReturn JSON in exactly this shape:\n")
	b.WriteString(outputExample)

	return b.String()
}

// excerpt returns the first n characters of text without splitting a rune.
func excerpt(text string, n int) string {
	text = strings.TrimSpace(text)
	if n <= 0 {
		return text
	}
	r := []rune(text)
	if len(r) <= n {
		return text
	}
	return string(r[:n])
}
