package quizgen

import (
	"context"
	"errors"

	"github.com/abhisek/quizgen/internal/aigen"
	"github.com/abhisek/quizgen/internal/llm"
	"github.com/abhisek/quizgen/internal/quiz"
)

// Reason says why the AI path did not produce the result.
type Reason string

const (
	ReasonService         Reason = "service"
	ReasonInvalidResponse Reason = "invalid-response"
	ReasonTimeout         Reason = "timeout"
	ReasonUnavailable     Reason = "unavailable"
)

var errNoClient = errors.New("no AI client configured")

// Outcome is the result of one AI attempt: either a question set or a
// failure with its reason.
type Outcome struct {
	Set    quiz.QuestionSet
	Err    error
	Reason Reason
}

// OK reports whether the attempt succeeded.
func (o Outcome) OK() bool {
	return o.Err == nil
}

func success(set quiz.QuestionSet) Outcome {
	set.EnsureSlices()
	return Outcome{Set: set}
}

func failure(reason Reason, err error) Outcome {
	return Outcome{Err: err, Reason: reason}
}

// reasonFor maps an AI-path error to its fallback reason. Timeouts are
// checked first because they arrive wrapped in a ServiceError.
func reasonFor(err error) Reason {
	var (
		te  *llm.ErrTimeout
		inv *aigen.InvalidResponseError
	)
	switch {
	case errors.As(err, &te), errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	case errors.As(err, &inv):
		return ReasonInvalidResponse
	default:
		return ReasonService
	}
}
