package llm

import (
	"math"
	"testing"
)

func TestLookupCost(t *testing.T) {
	tests := []struct {
		model string
		want  *ModelCost
	}{
		{"gpt-4o-mini", &ModelCost{0.15, 0.6}},
		{"gpt-4o-mini-2024-07-18", &ModelCost{0.15, 0.6}},
		{"gpt-4o-2024-08-06", &ModelCost{2.5, 10}},
		{"openai/gpt-4.1-mini", &ModelCost{0.4, 1.6}},
		{"gemini-2.5-flash-lite", &ModelCost{0.1, 0.4}},
		{"claude-haiku-4-5-20251001", &ModelCost{1, 5}},
		{"mock", nil},
		{"completion", nil},
	}
	for _, tt := range tests {
		got := LookupCost(tt.model)
		if (got == nil) != (tt.want == nil) {
			t.Fatalf("LookupCost(%q) = %v, want %v", tt.model, got, tt.want)
		}
		if got != nil && *got != *tt.want {
			t.Errorf("LookupCost(%q) = %+v, want %+v", tt.model, *got, *tt.want)
		}
	}
}

func TestModelCost_Cost(t *testing.T) {
	c := ModelCost{InputPerMTok: 1, OutputPerMTok: 5}
	got := c.Cost(2_000, 1_000)
	if math.Abs(got-0.007) > 1e-12 {
		t.Errorf("Cost = %v, want 0.007", got)
	}
}
