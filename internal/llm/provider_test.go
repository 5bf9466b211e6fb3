package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestMockProvider_ReturnsCannedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Content: json.RawMessage(`{"b":2}`)},
	)

	resp1, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "first"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp1.Content) != `{"a":1}` {
		t.Fatalf("expected {\"a\":1}, got %s", resp1.Content)
	}
	if resp1.Usage.InputTokens != 10 {
		t.Fatalf("expected 10 input tokens, got %d", resp1.Usage.InputTokens)
	}

	resp2, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "second"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp2.Content) != `{"b":2}` {
		t.Fatalf("expected {\"b\":2}, got %s", resp2.Content)
	}
	if mock.LastRequest().Messages[0].Content != "second" {
		t.Fatalf("LastRequest returned %+v", mock.LastRequest())
	}
}

func TestMockProvider_EmptyQueueReturnsError(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T", err)
	}
}

func TestMockProvider_DelayHonorsContext(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`), Delay: time.Minute})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	_, err := mock.Generate(ctx, Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
}

func TestMockProvider_AddResponse(t *testing.T) {
	mock := NewMockProvider()
	mock.AddResponse(MockResponse{Err: &ErrRateLimit{}})

	_, err := mock.Generate(context.Background(), Request{})
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got: %T", err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
}

func TestContextValues(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != "unknown" {
		t.Fatalf("expected 'unknown', got %q", p)
	}
	if id := RequestIDFrom(ctx); id != "" {
		t.Fatalf("expected empty request id, got %q", id)
	}

	ctx = WithRequestID(WithPurpose(ctx, "quiz-gen"), "req-42")
	if p := PurposeFrom(ctx); p != "quiz-gen" {
		t.Fatalf("expected 'quiz-gen', got %q", p)
	}
	if id := RequestIDFrom(ctx); id != "req-42" {
		t.Fatalf("expected 'req-42', got %q", id)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"anthropic without key", Config{Provider: "anthropic"}, true},
		{"anthropic with key", Config{Provider: "anthropic", Anthropic: AnthropicConfig{APIKey: "sk-test"}}, false},
		{"openai without key", Config{Provider: "openai"}, true},
		{"gemini with key", Config{Provider: "gemini", Gemini: GeminiConfig{APIKey: "g"}}, false},
		{"openrouter without key", Config{Provider: "openrouter"}, true},
		{"completion without url", Config{Provider: "completion"}, true},
		{"completion with url", Config{Provider: "completion", Completion: CompletionConfig{URL: "http://x"}}, false},
		{"mock needs no key", Config{Provider: "mock"}, false},
		{"unknown provider", Config{Provider: "unknown"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ApplyEnv(t *testing.T) {
	env := map[string]string{
		"QUIZGEN_LLM_PROVIDER":    "completion",
		"QUIZGEN_COMPLETION_URL":  "http://llm.internal/complete",
		"QUIZGEN_ANTHROPIC_MODEL": "claude-sonnet",
		"QUIZGEN_LLM_TIMEOUT":     "45s",
	}
	cfg := DefaultConfig()
	cfg.ApplyEnv(func(k string) string { return env[k] })

	if cfg.Provider != "completion" || cfg.Completion.URL != "http://llm.internal/complete" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Anthropic.Model != "claude-sonnet" {
		t.Errorf("anthropic model = %q", cfg.Anthropic.Model)
	}
	if cfg.OpenAI.Model != "gpt-4o-mini" {
		t.Errorf("unset values keep defaults, got %q", cfg.OpenAI.Model)
	}
	if cfg.Timeout != 45*time.Second {
		t.Errorf("timeout = %s", cfg.Timeout)
	}
}

func TestConfig_SetModel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SetModel("openrouter", "meta-llama/llama-3-8b", "https://router.example/v1")
	cfg.SetModel("gemini", "", "")

	if cfg.OpenRouter.Model != "meta-llama/llama-3-8b" || cfg.OpenRouter.BaseURL != "https://router.example/v1" {
		t.Errorf("unexpected openrouter config %+v", cfg.OpenRouter)
	}
	if cfg.Gemini.Model != "gemini-flash" {
		t.Errorf("empty override changed gemini model to %q", cfg.Gemini.Model)
	}
}

func TestNewProvider(t *testing.T) {
	ctx := context.Background()

	p, err := NewProvider(ctx, Config{Provider: "mock"}, nil, nil)
	if err != nil || p.ModelID() != "mock" {
		t.Fatalf("mock provider: %v, %v", p, err)
	}

	p, err = NewProvider(ctx, Config{Provider: "completion", Completion: CompletionConfig{URL: "http://x", Model: "m"}, Timeout: time.Second}, nil, nil)
	if err != nil {
		t.Fatalf("completion provider: %v", err)
	}
	if _, ok := p.(*TimeoutProvider); !ok {
		t.Errorf("expected timeout decorator outermost, got %T", p)
	}
	if p.ModelID() != "m" {
		t.Errorf("ModelID = %q", p.ModelID())
	}

	if _, err := NewProvider(ctx, Config{Provider: "anthropic"}, nil, nil); err == nil {
		t.Error("expected error for anthropic without key")
	}
	if _, err := NewProvider(ctx, Config{Provider: "carrier-pigeon"}, nil, nil); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestResolve(t *testing.T) {
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
	ctx := context.Background()

	p, err := Resolve(ctx, DefaultConfig(), false, nil, nil)
	if err != nil || p != nil {
		t.Fatalf("expected no provider and no error, got %v, %v", p, err)
	}

	if _, err := Resolve(ctx, DefaultConfig(), true, nil, nil); err == nil {
		t.Fatal("explicit provider without key should fail")
	}

	t.Setenv("OPENAI_API_KEY", "sk-test")
	cfg := DefaultConfig()
	cfg.Timeout = 5 * time.Second
	p, err = Resolve(ctx, cfg, false, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tp, ok := p.(*TimeoutProvider)
	if !ok || tp.timeout != 5*time.Second {
		t.Fatalf("expected discovered provider with configured timeout, got %T", p)
	}
	if p.ModelID() != "gpt-4o-mini" {
		t.Errorf("ModelID = %q", p.ModelID())
	}
}
