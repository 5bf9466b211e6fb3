package quiz

import (
	"fmt"
	"strings"
)

// BlankMarker replaces the answer term in a fill-in-the-blank sentence.
const BlankMarker = "_____"

// Difficulty is the instructor-selected difficulty of a generated quiz.
type Difficulty string

const (
	DifficultyEasy        Difficulty = "easy"
	DifficultyModerate    Difficulty = "moderate"
	DifficultyChallenging Difficulty = "challenging"
)

// ParseDifficulty maps a user-supplied label to a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case DifficultyEasy, DifficultyModerate, DifficultyChallenging:
		return d, nil
	case "":
		return DifficultyModerate, nil
	default:
		return "", fmt.Errorf("invalid difficulty %q: must be easy, moderate, or challenging", s)
	}
}

// QuestionType identifies one of the four question kinds.
type QuestionType string

const (
	TypeMultipleChoice QuestionType = "multiple-choice"
	TypeTrueFalse      QuestionType = "true-false"
	TypeFillInBlank    QuestionType = "fill-in-blank"
	TypeIdentification QuestionType = "identification"
)

// AllTypes lists every question type in canonical order. The order matters:
// remainder units in Distribute are handed out front to back.
var AllTypes = []QuestionType{
	TypeMultipleChoice,
	TypeTrueFalse,
	TypeFillInBlank,
	TypeIdentification,
}

// ParseQuestionType maps a user-supplied label to a QuestionType.
func ParseQuestionType(s string) (QuestionType, error) {
	t := QuestionType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllTypes {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("invalid question type %q", s)
}

// Request describes a single generation call.
type Request struct {
	Text              string         `json:"text"`
	Difficulty        Difficulty     `json:"difficulty"`
	NumberOfQuestions int            `json:"numberOfQuestions"`
	QuestionTypes     []QuestionType `json:"questionTypes,omitempty"`
}

// Normalize fills defaults and drops unknown or repeated question types while
// keeping the caller's order. A non-empty type list with no known types asks
// for nothing, so the question count drops to zero rather than spreading over
// every type.
func (r Request) Normalize() Request {
	if r.Difficulty == "" {
		r.Difficulty = DifficultyModerate
	}
	if r.NumberOfQuestions < 0 {
		r.NumberOfQuestions = 0
	}
	if len(r.QuestionTypes) == 0 {
		return r
	}
	seen := make(map[QuestionType]bool, len(r.QuestionTypes))
	types := make([]QuestionType, 0, len(r.QuestionTypes))
	for _, t := range r.QuestionTypes {
		if _, err := ParseQuestionType(string(t)); err != nil || seen[t] {
			continue
		}
		seen[t] = true
		types = append(types, t)
	}
	if len(types) == 0 {
		r.NumberOfQuestions = 0
	}
	r.QuestionTypes = types
	return r
}

// MultipleChoiceQuestion has exactly four options; CorrectAnswer indexes into them.
type MultipleChoiceQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

// TrueFalseQuestion is a statement labeled true or false.
type TrueFalseQuestion struct {
	Statement string `json:"statement"`
	Answer    bool   `json:"answer"`
}

// FillInTheBlankQuestion carries a sentence containing BlankMarker.
type FillInTheBlankQuestion struct {
	Sentence string `json:"sentence"`
	Answer   string `json:"answer"`
}

// IdentificationQuestion asks the learner to name a concept.
type IdentificationQuestion struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// QuestionSet groups generated questions by kind. Any group may be empty.
type QuestionSet struct {
	MultipleChoice []MultipleChoiceQuestion `json:"multipleChoice"`
	TrueFalse      []TrueFalseQuestion      `json:"trueFalse"`
	FillInTheBlank []FillInTheBlankQuestion `json:"fillInTheBlank"`
	Identification []IdentificationQuestion `json:"identification"`
}

// NewQuestionSet returns a set whose groups are empty, non-nil slices so it
// marshals as [] rather than null.
func NewQuestionSet() QuestionSet {
	return QuestionSet{
		MultipleChoice: []MultipleChoiceQuestion{},
		TrueFalse:      []TrueFalseQuestion{},
		FillInTheBlank: []FillInTheBlankQuestion{},
		Identification: []IdentificationQuestion{},
	}
}

// EnsureSlices replaces nil groups with empty slices.
func (s *QuestionSet) EnsureSlices() {
	if s.MultipleChoice == nil {
		s.MultipleChoice = []MultipleChoiceQuestion{}
	}
	if s.TrueFalse == nil {
		s.TrueFalse = []TrueFalseQuestion{}
	}
	if s.FillInTheBlank == nil {
		s.FillInTheBlank = []FillInTheBlankQuestion{}
	}
	if s.Identification == nil {
		s.Identification = []IdentificationQuestion{}
	}
}

// Len returns the total number of questions across all groups.
func (s QuestionSet) Len() int {
	return len(s.MultipleChoice) + len(s.TrueFalse) + len(s.FillInTheBlank) + len(s.Identification)
}

// Empty reports whether no questions were produced. Callers treat this as
// the insufficient-content signal.
func (s QuestionSet) Empty() bool {
	return s.Len() == 0
}

// Counts returns the number of questions per type.
func (s QuestionSet) Counts() Counts {
	return Counts{
		TypeMultipleChoice: len(s.MultipleChoice),
		TypeTrueFalse:      len(s.TrueFalse),
		TypeFillInBlank:    len(s.FillInTheBlank),
		TypeIdentification: len(s.Identification),
	}
}

// Method names the pipeline that produced a result.
type Method string

const (
	MethodAI        Method = "ai"
	MethodRuleBased Method = "rule-based"
)

// Result is what the engine hands back to callers.
type Result struct {
	Questions QuestionSet `json:"questions"`
	Method    Method      `json:"method"`

	// FallbackReason explains why the rule-based path ran. Empty for AI results.
	FallbackReason string `json:"fallbackReason,omitempty"`
}
