package aigen

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/quizgen/internal/llm"
	"github.com/abhisek/quizgen/internal/quiz"
)

// Generator produces a question set with a language model.
type Generator interface {
	Generate(ctx context.Context, req quiz.Request) (quiz.QuestionSet, error)
}

// Config controls the behavior of the Client.
type Config struct {
	// MaxTokens is the token budget for the model response.
	MaxTokens int

	// Temperature controls output randomness (0.0-1.0).
	Temperature float64

	// ExcerptLength caps how many characters of source text are sent.
	ExcerptLength int

	// Structured passes QuestionSetSchema to the provider so it can use its
	// native structured output. The reply is validated either way.
	Structured bool
}

// DefaultConfig returns recommended defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:     4096,
		Temperature:   0.7,
		ExcerptLength: DefaultExcerptLength,
	}
}

// Client implements Generator on top of an llm.Provider.
type Client struct {
	provider llm.Provider
	config   Config
}

// New creates a Client. Zero config fields fall back to DefaultConfig.
func New(provider llm.Provider, cfg Config) *Client {
	def := DefaultConfig()
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = def.MaxTokens
	}
	if cfg.ExcerptLength <= 0 {
		cfg.ExcerptLength = def.ExcerptLength
	}
	return &Client{provider: provider, config: cfg}
}

// ModelID reports the model behind the client.
func (c *Client) ModelID() string {
	return c.provider.ModelID()
}

// Generate asks the model for the distributed counts of req and parses the
// reply. Failures are *ServiceError or *InvalidResponseError.
func (c *Client) Generate(ctx context.Context, req quiz.Request) (quiz.QuestionSet, error) {
	ctx = llm.WithPurpose(ctx, "quiz-gen")

	req = req.Normalize()
	counts := quiz.Distribute(req.NumberOfQuestions, req.QuestionTypes)

	llmReq := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildPrompt(req.Text, req.Difficulty, counts, c.config.ExcerptLength)},
		},
		MaxTokens:   c.config.MaxTokens,
		Temperature: c.config.Temperature,
	}
	if c.config.Structured {
		llmReq.Schema = QuestionSetSchema
	}

	resp, err := c.provider.Generate(ctx, llmReq)
	if err != nil {
		return quiz.QuestionSet{}, classify(err)
	}

	set, err := ParseResponse(resp.Content, counts)
	if err != nil {
		return quiz.QuestionSet{}, err
	}
	return set, nil
}

// classify sorts provider errors into the two failure kinds callers see.
func classify(err error) error {
	var inv *llm.ErrInvalidResponse
	if errors.As(err, &inv) {
		return &InvalidResponseError{Content: inv.Content, Err: err}
	}
	return &ServiceError{Err: fmt.Errorf("LLM generation failed: %w", err)}
}
