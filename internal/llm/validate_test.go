package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func mcqSchema() *Schema {
	return &Schema{
		Name:        "test-mcq",
		Description: "A single multiple-choice question",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"question": map[string]any{"type": "string", "minLength": 1},
				"options": map[string]any{
					"type":     "array",
					"items":    map[string]any{"type": "string"},
					"minItems": 4,
					"maxItems": 4,
				},
				"correctAnswer": map[string]any{"type": "integer", "minimum": 0, "maximum": 3},
				"difficulty":    map[string]any{"type": "string", "enum": []any{"easy", "moderate", "challenging"}},
			},
			"required": []any{"question", "options", "correctAnswer"},
		},
	}
}

func TestValidateJSON(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"question":"Q?","options":["a","b","c","d"],"correctAnswer":2,"difficulty":"easy"}`, false},
		{"valid without optional", `{"question":"Q?","options":["a","b","c","d"],"correctAnswer":0}`, false},
		{"missing required", `{"question":"Q?","options":["a","b","c","d"]}`, true},
		{"wrong type", `{"question":"Q?","options":["a","b","c","d"],"correctAnswer":"two"}`, true},
		{"three options", `{"question":"Q?","options":["a","b","c"],"correctAnswer":0}`, true},
		{"index out of range", `{"question":"Q?","options":["a","b","c","d"],"correctAnswer":4}`, true},
		{"invalid enum", `{"question":"Q?","options":["a","b","c","d"],"correctAnswer":1,"difficulty":"hard"}`, true},
		{"malformed JSON", `{not json}`, true},
		{"empty", ``, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJSON(mcqSchema(), json.RawMessage(tt.raw))
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("expected no error, got: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			var invErr *ErrInvalidResponse
			if !errors.As(err, &invErr) {
				t.Fatalf("expected ErrInvalidResponse, got: %T", err)
			}
			if string(invErr.Content) != tt.raw {
				t.Errorf("error should carry the raw content, got %q", invErr.Content)
			}
		})
	}
}

func TestValidateJSON_NilSchema(t *testing.T) {
	if err := ValidateJSON(nil, json.RawMessage(`not even json`)); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

func TestValidateJSON_NestedArrays(t *testing.T) {
	schema := &Schema{
		Name: "test-nested-groups",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"identification": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"question": map[string]any{"type": "string"},
							"answer":   map[string]any{"type": "string"},
						},
						"required": []string{"question", "answer"},
					},
				},
			},
		},
	}

	valid := json.RawMessage(`{"identification":[{"question":"Identify: x","answer":"x"}]}`)
	if err := ValidateJSON(schema, valid); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	missing := json.RawMessage(`{}`)
	if err := ValidateJSON(schema, missing); err != nil {
		t.Fatalf("absent optional arrays should validate, got: %v", err)
	}

	invalid := json.RawMessage(`{"identification":[{"question":"Identify: x"}]}`)
	if err := ValidateJSON(schema, invalid); err == nil {
		t.Fatal("expected error for element missing answer")
	}
}
