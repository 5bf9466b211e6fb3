package aigen

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/quizgen/internal/llm"
	"github.com/abhisek/quizgen/internal/quiz"
)

// ParseResponse turns raw model output into a question set. Code fences
// around the JSON are tolerated, missing arrays become empty, and each
// array is cut down to its requested count. A nil counts map skips the cut.
func ParseResponse(content []byte, counts quiz.Counts) (quiz.QuestionSet, error) {
	body := stripFences(string(content))
	if body == "" {
		return quiz.QuestionSet{}, &InvalidResponseError{Content: content, Err: errors.New("empty content")}
	}

	if err := llm.ValidateJSON(QuestionSetSchema, json.RawMessage(body)); err != nil {
		var inv *llm.ErrInvalidResponse
		if errors.As(err, &inv) {
			return quiz.QuestionSet{}, &InvalidResponseError{Content: content, Err: inv.Err}
		}
		return quiz.QuestionSet{}, &InvalidResponseError{Content: content, Err: err}
	}

	var set quiz.QuestionSet
	if err := json.Unmarshal([]byte(body), &set); err != nil {
		return quiz.QuestionSet{}, &InvalidResponseError{Content: content, Err: fmt.Errorf("decode question set: %w", err)}
	}
	set.EnsureSlices()

	if err := checkStructure(set); err != nil {
		return quiz.QuestionSet{}, &InvalidResponseError{Content: content, Err: err}
	}

	if counts != nil {
		set = truncate(set, counts)
	}
	return set, nil
}

// stripFences removes a leading ```lang line and a trailing ``` marker.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if i := strings.IndexByte(s, '\n'); i >= 0 {
			s = s[i+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// checkStructure catches what the schema cannot express.
func checkStructure(set quiz.QuestionSet) error {
	for i, q := range set.MultipleChoice {
		if len(q.Options) != 4 {
			return fmt.Errorf("multipleChoice[%d]: expected 4 options, got %d", i, len(q.Options))
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			return fmt.Errorf("multipleChoice[%d]: correctAnswer %d out of range", i, q.CorrectAnswer)
		}
		if strings.TrimSpace(q.Question) == "" || strings.TrimSpace(q.Options[q.CorrectAnswer]) == "" {
			return fmt.Errorf("multipleChoice[%d]: empty question or correct option", i)
		}
	}
	for i, q := range set.TrueFalse {
		if strings.TrimSpace(q.Statement) == "" {
			return fmt.Errorf("trueFalse[%d]: empty statement", i)
		}
	}
	for i, q := range set.FillInTheBlank {
		if strings.TrimSpace(q.Answer) == "" {
			return fmt.Errorf("fillInTheBlank[%d]: empty answer", i)
		}
		if !strings.Contains(q.Sentence, quiz.BlankMarker) {
			return fmt.Errorf("fillInTheBlank[%d]: sentence has no blank", i)
		}
	}
	for i, q := range set.Identification {
		if strings.TrimSpace(q.Question) == "" || strings.TrimSpace(q.Answer) == "" {
			return fmt.Errorf("identification[%d]: empty question or answer", i)
		}
	}
	return nil
}

func truncate(set quiz.QuestionSet, counts quiz.Counts) quiz.QuestionSet {
	set.MultipleChoice = limit(set.MultipleChoice, counts.Get(quiz.TypeMultipleChoice))
	set.TrueFalse = limit(set.TrueFalse, counts.Get(quiz.TypeTrueFalse))
	set.FillInTheBlank = limit(set.FillInTheBlank, counts.Get(quiz.TypeFillInBlank))
	set.Identification = limit(set.Identification, counts.Get(quiz.TypeIdentification))
	return set
}

func limit[T any](xs []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if len(xs) > n {
		return xs[:n]
	}
	return xs
}
