package aigen

import (
	"maps"
	"slices"

	"github.com/abhisek/quizgen/internal/llm"
	"github.com/abhisek/quizgen/internal/quiz"
)

// QuestionSetSchema describes the JSON object the model must return. Every
// array is optional (a missing array means zero questions of that kind), but
// elements inside an array must have the exact shape.
var QuestionSetSchema = &llm.Schema{
	Name:        "quiz-question-set",
	Description: "Quiz questions grouped by question type",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"multipleChoice": arrayOf(map[string]any{
				"question": nonEmptyString("The question stem"),
				"options": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string", "minLength": 1},
					"minItems":    4,
					"maxItems":    4,
					"description": "Exactly 4 answer options",
				},
				"correctAnswer": map[string]any{
					"type":        "integer",
					"minimum":     0,
					"maximum":     3,
					"description": "Zero-based index of the correct option",
				},
			}),
			"trueFalse": arrayOf(map[string]any{
				"statement": nonEmptyString("A statement about the text"),
				"answer":    map[string]any{"type": "boolean"},
			}),
			"fillInTheBlank": arrayOf(map[string]any{
				"sentence": nonEmptyString("A sentence with the answer replaced by " + quiz.BlankMarker),
				"answer":   nonEmptyString("The word or phrase that fills the blank"),
			}),
			"identification": arrayOf(map[string]any{
				"question": nonEmptyString("A description of the concept to identify"),
				"answer":   nonEmptyString("The concept name"),
			}),
		},
	},
}

// arrayOf builds an array schema whose items are closed objects requiring
// every listed property.
func arrayOf(props map[string]any) map[string]any {
	required := make([]any, 0, len(props))
	for _, name := range slices.Sorted(maps.Keys(props)) {
		required = append(required, name)
	}
	return map[string]any{
		"type": "array",
		"items": map[string]any{
			"type":                 "object",
			"properties":           props,
			"required":             required,
			"additionalProperties": false,
		},
	}
}

func nonEmptyString(desc string) map[string]any {
	return map[string]any{
		"type":        "string",
		"minLength":   1,
		"description": desc,
	}
}
