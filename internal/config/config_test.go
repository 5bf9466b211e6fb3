package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestParse_OverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
llm:
  provider: openai
  model: gpt-4.1-mini
generation:
  timeout: 12s
  max_tokens: 2048
server:
  addr: ":9000"
  allowed_origins: ["https://quiz.example.edu"]
`))
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, 12*time.Second, cfg.Generation.Timeout)
	assert.Equal(t, 2048, cfg.Generation.MaxTokens)
	assert.Equal(t, 3000, cfg.Generation.ExcerptLength, "unset keys keep defaults")
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, []string{"https://quiz.example.edu"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 100, cfg.Server.MinTextLength)
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_RejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("generation:\n  retries: 3\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retries")
}

func TestParse_RejectsMultipleDocuments(t *testing.T) {
	for _, doc := range []string{
		"log:\n  mode: prod\n---\nlog:\n  mode: dev\n",
		"log:\n  mode: prod\n---\nanything: goes\n",
	} {
		_, err := Parse([]byte(doc))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "multiple YAML documents")
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(envMap(map[string]string{
		"QUIZGEN_TIMEOUT":         "5s",
		"QUIZGEN_MAX_TOKENS":      "1000",
		"QUIZGEN_ALLOWED_ORIGINS": "https://a.example, https://b.example,",
		"QUIZGEN_LOG_MODE":        "prod",
		"QUIZGEN_DB":              "/tmp/q.db",
	}))
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.Generation.Timeout)
	assert.Equal(t, 1000, cfg.Generation.MaxTokens)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "prod", cfg.Log.Mode)
	assert.Equal(t, "/tmp/q.db", cfg.Store.Path)
}

func TestStructuredOutput(t *testing.T) {
	assert.True(t, Default().Generation.Structured)

	cfg, err := Parse([]byte("generation:\n  structured: false\n"))
	require.NoError(t, err)
	assert.False(t, cfg.Generation.Structured)

	require.NoError(t, cfg.ApplyEnv(envMap(map[string]string{"QUIZGEN_STRUCTURED": "true"})))
	assert.True(t, cfg.Generation.Structured)
}

func TestApplyEnv_Trace(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(envMap(map[string]string{
		"QUIZGEN_TRACE_EXPORTER":      " OTLP ",
		"OTEL_EXPORTER_OTLP_ENDPOINT": "collector:4318",
		"OTEL_EXPORTER_OTLP_INSECURE": "true",
		"QUIZGEN_TRACE_SAMPLE_RATIO":  "0.25",
	})))
	assert.Equal(t, TraceConfig{Exporter: "otlp", Endpoint: "collector:4318", Insecure: true, SampleRatio: 0.25}, cfg.Trace)
	assert.NoError(t, cfg.Validate())
}

func TestApplyEnv_BadValues(t *testing.T) {
	cfg := Default()
	assert.Error(t, cfg.ApplyEnv(envMap(map[string]string{"QUIZGEN_STRUCTURED": "sometimes"})))
	assert.Error(t, cfg.ApplyEnv(envMap(map[string]string{"QUIZGEN_TIMEOUT": "soon"})))
	assert.Error(t, cfg.ApplyEnv(envMap(map[string]string{"QUIZGEN_MAX_TOKENS": "many"})))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero timeout", func(c *Config) { c.Generation.Timeout = 0 }},
		{"zero max tokens", func(c *Config) { c.Generation.MaxTokens = 0 }},
		{"temperature too high", func(c *Config) { c.Generation.Temperature = 1.5 }},
		{"zero excerpt", func(c *Config) { c.Generation.ExcerptLength = 0 }},
		{"zero key terms", func(c *Config) { c.Generation.KeyTermLimit = 0 }},
		{"negative min length", func(c *Config) { c.Server.MinTextLength = -1 }},
		{"unknown exporter", func(c *Config) { c.Trace.Exporter = "jaeger" }},
		{"otlp without endpoint", func(c *Config) { c.Trace.Exporter = "otlp" }},
		{"sample ratio above one", func(c *Config) { c.Trace.SampleRatio = 2 }},
	}
	require.NoError(t, Default().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quizgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  mode: quiet\n"), 0o644))
	t.Setenv("QUIZGEN_LOG_MODE", "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "quiet", cfg.Log.Mode)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLLMProviderConfig_Precedence(t *testing.T) {
	cfg := Default()
	cfg.LLM = LLMConfig{Provider: "openai", Model: "gpt-4.1-mini", BaseURL: "http://localhost:1234/v1"}
	cfg.Generation.Timeout = 9 * time.Second

	got := cfg.LLMProviderConfig(envMap(map[string]string{
		"QUIZGEN_OPENAI_API_KEY": "sk-test",
		"QUIZGEN_OPENAI_MODEL":   "gpt-4o",
	}))

	assert.Equal(t, "openai", got.Provider)
	assert.Equal(t, "gpt-4o", got.OpenAI.Model, "env wins over file")
	assert.Equal(t, "http://localhost:1234/v1", got.OpenAI.BaseURL)
	assert.Equal(t, "sk-test", got.OpenAI.APIKey)
	assert.Equal(t, 9*time.Second, got.Timeout)
	assert.NoError(t, got.Validate())
}
