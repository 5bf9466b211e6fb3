package quizgen

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/quizgen/internal/aigen"
	"github.com/abhisek/quizgen/internal/llm"
	"github.com/abhisek/quizgen/internal/logger"
	"github.com/abhisek/quizgen/internal/quiz"
	"github.com/abhisek/quizgen/internal/rulegen"
)

const sourceText = "Photosynthesis converts sunlight into chemical energy inside plant cells. " +
	"Chlorophyll absorbs sunlight so photosynthesis can begin in the leaves. " +
	"Photosynthesis releases oxygen while chlorophyll captures energy from light. " +
	"The energy stored by photosynthesis is used by plants to grow. " +
	"Chlorophyll is a green pigment that makes photosynthesis possible."

const aiReply = `{
  "multipleChoice": [{"question": "What absorbs sunlight?", "options": ["Chlorophyll", "Roots", "Bark", "Soil"], "correctAnswer": 0}],
  "trueFalse": [{"statement": "Photosynthesis releases oxygen.", "answer": true}]
}`

func scenarioA() quiz.Request {
	return quiz.Request{
		Text:              sourceText,
		Difficulty:        quiz.DifficultyModerate,
		NumberOfQuestions: 8,
		QuestionTypes:     []quiz.QuestionType{quiz.TypeMultipleChoice, quiz.TypeTrueFalse},
	}
}

func newService(t *testing.T, resp llm.MockResponse, opts ...Option) (*Service, *llm.MockProvider) {
	t.Helper()
	mock := llm.NewMockProvider(resp)
	client := aigen.New(mock, aigen.DefaultConfig())
	return New(client, rulegen.New(rulegen.WithSeed(7)), opts...), mock
}

func TestGenerate_AISuccess(t *testing.T) {
	svc, mock := newService(t, llm.MockResponse{Content: json.RawMessage(aiReply)})

	res := svc.Generate(context.Background(), quiz.Request{
		Text:              sourceText,
		NumberOfQuestions: 2,
		QuestionTypes:     []quiz.QuestionType{quiz.TypeMultipleChoice, quiz.TypeTrueFalse},
	})

	assert.Equal(t, quiz.MethodAI, res.Method)
	assert.Empty(t, res.FallbackReason)
	assert.Equal(t, 2, res.Questions.Len())
	assert.NotNil(t, res.Questions.Identification)
	assert.Equal(t, 1, mock.CallCount())
}

// A network failure falls back to exactly what the rule-based generator
// produces for the same request.
func TestGenerate_ScenarioC_NetworkErrorFallsBack(t *testing.T) {
	svc, mock := newService(t, llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("dial tcp: connection refused")}})

	res := svc.Generate(context.Background(), scenarioA())

	require.Equal(t, quiz.MethodRuleBased, res.Method)
	assert.Equal(t, string(ReasonService), res.FallbackReason)
	assert.Equal(t, 1, mock.CallCount(), "the AI path is not retried")

	want := rulegen.New(rulegen.WithSeed(7)).Generate(scenarioA())
	assert.Equal(t, want, res.Questions)
	assert.Len(t, res.Questions.MultipleChoice, 4)
	assert.Len(t, res.Questions.TrueFalse, 4)
	assert.Empty(t, res.Questions.FillInTheBlank)
	assert.Empty(t, res.Questions.Identification)
}

func TestGenerate_ScenarioB_FallbackCounts(t *testing.T) {
	svc, _ := newService(t, llm.MockResponse{Err: &llm.ErrRateLimit{}})

	req := scenarioA()
	req.QuestionTypes = nil
	req.NumberOfQuestions = 10
	res := svc.Generate(context.Background(), req)

	require.Equal(t, quiz.MethodRuleBased, res.Method)
	assert.Equal(t, rulegen.New(rulegen.WithSeed(7)).Generate(req), res.Questions)
	assert.Equal(t, quiz.Counts{
		quiz.TypeMultipleChoice: 3,
		quiz.TypeTrueFalse:      3,
		quiz.TypeFillInBlank:    2,
		quiz.TypeIdentification: 2,
	}, res.Questions.Counts())
}

func TestGenerate_InvalidResponseFallsBack(t *testing.T) {
	svc, _ := newService(t, llm.MockResponse{Content: json.RawMessage(`{"multipleChoice":[{"question":"Q","options":["a"],"correctAnswer":0}]}`)})

	res := svc.Generate(context.Background(), scenarioA())
	assert.Equal(t, quiz.MethodRuleBased, res.Method)
	assert.Equal(t, string(ReasonInvalidResponse), res.FallbackReason)
}

func TestGenerate_TimeoutFallsBack(t *testing.T) {
	svc, _ := newService(t,
		llm.MockResponse{Content: json.RawMessage(aiReply), Delay: time.Minute},
		WithTimeout(20*time.Millisecond),
	)

	start := time.Now()
	res := svc.Generate(context.Background(), scenarioA())

	assert.True(t, time.Since(start) < 10*time.Second, "fallback should not wait for the slow reply")
	assert.Equal(t, quiz.MethodRuleBased, res.Method)
	assert.Equal(t, string(ReasonTimeout), res.FallbackReason)
}

func TestGenerate_NoClient(t *testing.T) {
	svc := New(nil, nil)
	assert.False(t, svc.HasAI())

	res := svc.Generate(context.Background(), scenarioA())
	assert.Equal(t, quiz.MethodRuleBased, res.Method)
	assert.Equal(t, string(ReasonUnavailable), res.FallbackReason)
	assert.Len(t, res.Questions.MultipleChoice, 4)
}

func TestGenerate_DegenerateInput(t *testing.T) {
	svc := New(nil, rulegen.New(rulegen.WithSeed(1)))
	res := svc.Generate(context.Background(), quiz.Request{Text: "Hi.", NumberOfQuestions: 10})

	assert.Equal(t, quiz.MethodRuleBased, res.Method)
	assert.True(t, res.Questions.Empty())
	assert.NotNil(t, res.Questions.MultipleChoice)
}

func TestGenerate_LogsFallback(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := &logger.Logger{SugaredLogger: zap.New(core).Sugar()}

	svc, _ := newService(t, llm.MockResponse{Err: &llm.ErrProviderUnavailable{}}, WithLogger(log))
	ctx := llm.WithRequestID(context.Background(), "req-7")
	svc.Generate(ctx, scenarioA())

	entries := logs.FilterMessage("ai generation failed, falling back to rule-based generator").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-7", fields["request_id"])
	assert.Equal(t, "service", fields["reason"])
}

func TestGenerate_AssignsRequestID(t *testing.T) {
	var seen string
	client := generatorFunc(func(ctx context.Context, req quiz.Request) (quiz.QuestionSet, error) {
		seen = llm.RequestIDFrom(ctx)
		return quiz.NewQuestionSet(), nil
	})

	New(client, nil).Generate(context.Background(), scenarioA())
	assert.Len(t, seen, 36)
}

func TestAttempt_Reasons(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Reason
	}{
		{"service", &aigen.ServiceError{Err: errors.New("502")}, ReasonService},
		{"invalid", &aigen.InvalidResponseError{Err: errors.New("bad json")}, ReasonInvalidResponse},
		{"timeout", &aigen.ServiceError{Err: &llm.ErrTimeout{After: time.Second, Err: context.DeadlineExceeded}}, ReasonTimeout},
		{"bare deadline", context.DeadlineExceeded, ReasonTimeout},
		{"unclassified", errors.New("boom"), ReasonService},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := generatorFunc(func(context.Context, quiz.Request) (quiz.QuestionSet, error) {
				return quiz.QuestionSet{}, tt.err
			})
			out := New(client, nil).Attempt(context.Background(), scenarioA())
			assert.False(t, out.OK())
			assert.Equal(t, tt.want, out.Reason)
			assert.ErrorIs(t, out.Err, tt.err)
		})
	}
}

func TestAttempt_SuccessDefaultsGroups(t *testing.T) {
	client := generatorFunc(func(context.Context, quiz.Request) (quiz.QuestionSet, error) {
		return quiz.QuestionSet{TrueFalse: []quiz.TrueFalseQuestion{{Statement: "S.", Answer: true}}}, nil
	})
	out := New(client, nil).Attempt(context.Background(), scenarioA())
	require.True(t, out.OK())
	assert.NotNil(t, out.Set.MultipleChoice)
	assert.Len(t, out.Set.TrueFalse, 1)
}

type generatorFunc func(ctx context.Context, req quiz.Request) (quiz.QuestionSet, error)

func (f generatorFunc) Generate(ctx context.Context, req quiz.Request) (quiz.QuestionSet, error) {
	return f(ctx, req)
}

func spanAttrs(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestGenerate_RecordsSpans(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))

	ok, _ := newService(t, llm.MockResponse{Content: json.RawMessage(aiReply)}, WithTracerProvider(tp))
	ok.Generate(llm.WithRequestID(context.Background(), "req-ai"), quiz.Request{
		Text:              sourceText,
		NumberOfQuestions: 2,
		QuestionTypes:     []quiz.QuestionType{quiz.TypeMultipleChoice, quiz.TypeTrueFalse},
	})

	failing, _ := newService(t, llm.MockResponse{Err: &llm.ErrRateLimit{}}, WithTracerProvider(tp))
	res := failing.Generate(llm.WithRequestID(context.Background(), "req-fallback"), scenarioA())

	spans := rec.Ended()
	require.Len(t, spans, 2)

	ai := spanAttrs(spans[0])
	assert.Equal(t, "quizgen.Generate", spans[0].Name())
	assert.Equal(t, "req-ai", ai["quizgen.request_id"].AsString())
	assert.Equal(t, string(quiz.MethodAI), ai["quizgen.method"].AsString())
	assert.Equal(t, int64(2), ai["quizgen.requested"].AsInt64())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)

	fb := spanAttrs(spans[1])
	assert.Equal(t, "req-fallback", fb["quizgen.request_id"].AsString())
	assert.Equal(t, string(quiz.MethodRuleBased), fb["quizgen.method"].AsString())
	assert.Equal(t, string(ReasonService), fb["quizgen.fallback_reason"].AsString())
	assert.Equal(t, int64(res.Questions.Len()), fb["quizgen.generated"].AsInt64())
	assert.Equal(t, codes.Error, spans[1].Status().Code)
}
