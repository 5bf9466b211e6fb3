// Package quizgen turns a generation request into a quiz, trying the AI
// client first and falling back to the rule-based generator on any failure.
package quizgen

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/abhisek/quizgen/internal/aigen"
	"github.com/abhisek/quizgen/internal/llm"
	"github.com/abhisek/quizgen/internal/logger"
	"github.com/abhisek/quizgen/internal/quiz"
	"github.com/abhisek/quizgen/internal/rulegen"
)

// DefaultTimeout bounds the AI call when no timeout option is given.
const DefaultTimeout = 30 * time.Second

const tracerName = "github.com/abhisek/quizgen/internal/quizgen"

// Service orchestrates quiz generation. It is safe for concurrent use.
type Service struct {
	client  aigen.Generator
	rules   *rulegen.Generator
	timeout time.Duration
	log     *logger.Logger
	tracer  trace.Tracer
}

// Option configures a Service.
type Option func(*Service)

// WithTimeout bounds each AI attempt. Zero or negative disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// WithLogger sets the logger used for fallback warnings.
func WithLogger(log *logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithTracerProvider sets where generation spans are recorded. The global
// provider is used otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Service) {
		if tp != nil {
			s.tracer = tp.Tracer(tracerName)
		}
	}
}

// New creates a Service. A nil client means every request goes straight to
// the rule-based generator; a nil rules generator gets the default one.
func New(client aigen.Generator, rules *rulegen.Generator, opts ...Option) *Service {
	if rules == nil {
		rules = rulegen.New()
	}
	s := &Service{
		client:  client,
		rules:   rules,
		timeout: DefaultTimeout,
		log:     logger.Nop(),
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HasAI reports whether an AI client is configured.
func (s *Service) HasAI() bool {
	return s.client != nil
}

// Generate always returns a result. AI failures of any kind are logged and
// answered by the rule-based generator with the same request.
func (s *Service) Generate(ctx context.Context, req quiz.Request) quiz.Result {
	req = req.Normalize()

	requestID := llm.RequestIDFrom(ctx)
	if requestID == "" {
		requestID = uuid.New().String()
		ctx = llm.WithRequestID(ctx, requestID)
	}

	ctx, span := s.tracer.Start(ctx, "quizgen.Generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("quizgen.request_id", requestID),
		attribute.String("quizgen.difficulty", string(req.Difficulty)),
		attribute.Int("quizgen.requested", req.NumberOfQuestions),
	)

	out := s.Attempt(ctx, req)
	if out.OK() {
		span.SetAttributes(attribute.String("quizgen.method", string(quiz.MethodAI)))
		return quiz.Result{Questions: out.Set, Method: quiz.MethodAI}
	}

	kv := []interface{}{"request_id", requestID, "reason", string(out.Reason), "error", out.Err}
	if out.Reason == ReasonUnavailable {
		s.log.Debug("no ai client, using rule-based generator", kv...)
	} else {
		s.log.Warn("ai generation failed, falling back to rule-based generator", kv...)
		span.RecordError(out.Err)
		span.SetStatus(codes.Error, string(out.Reason))
	}

	set := s.rules.Generate(req)
	span.SetAttributes(
		attribute.String("quizgen.method", string(quiz.MethodRuleBased)),
		attribute.String("quizgen.fallback_reason", string(out.Reason)),
		attribute.Int("quizgen.generated", set.Len()),
	)
	return quiz.Result{
		Questions:      set,
		Method:         quiz.MethodRuleBased,
		FallbackReason: string(out.Reason),
	}
}

// Attempt runs only the AI path and reports what happened. It never falls
// back and never retries.
func (s *Service) Attempt(ctx context.Context, req quiz.Request) Outcome {
	if s.client == nil {
		return failure(ReasonUnavailable, errNoClient)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	set, err := s.client.Generate(ctx, req)
	if err != nil {
		return failure(reasonFor(err), err)
	}
	return success(set)
}
