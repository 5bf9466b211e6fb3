// Package config loads quizgen settings from defaults, an optional YAML file,
// and QUIZGEN_* environment variables, in that order of precedence.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/quizgen/internal/llm"
)

// Config is the full application configuration.
type Config struct {
	LLM        LLMConfig        `yaml:"llm"`
	Generation GenerationConfig `yaml:"generation"`
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	Store      StoreConfig      `yaml:"store"`
	Trace      TraceConfig      `yaml:"trace"`
}

// LLMConfig selects the provider. API keys are only read from the
// environment.
type LLMConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
}

type GenerationConfig struct {
	Timeout       time.Duration `yaml:"timeout"`
	MaxTokens     int           `yaml:"max_tokens"`
	Temperature   float64       `yaml:"temperature"`
	ExcerptLength int           `yaml:"excerpt_length"`
	KeyTermLimit  int           `yaml:"key_term_limit"`

	// Structured sends the question-set JSON schema to providers with native
	// structured output. Turn it off for completion services that wrap their
	// JSON in prose or code fences.
	Structured bool `yaml:"structured"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	MinTextLength  int      `yaml:"min_text_length"`
}

type LogConfig struct {
	Mode string `yaml:"mode"`
}

type StoreConfig struct {
	// Path of the LLM event log. Empty resolves to the XDG data dir.
	Path     string `yaml:"path"`
	Disabled bool   `yaml:"disabled"`
}

// TraceConfig selects where OpenTelemetry spans go.
type TraceConfig struct {
	// Exporter is "none", "stdout", or "otlp".
	Exporter    string  `yaml:"exporter"`
	Endpoint    string  `yaml:"endpoint"`
	Insecure    bool    `yaml:"insecure"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Generation: GenerationConfig{
			Timeout:       30 * time.Second,
			MaxTokens:     4096,
			Temperature:   0.7,
			ExcerptLength: 3000,
			KeyTermLimit:  15,
			Structured:    true,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
			MinTextLength:  100,
		},
		Log:   LogConfig{Mode: "dev"},
		Trace: TraceConfig{Exporter: "none", SampleRatio: 1},
	}
}

// Load returns the defaults overlaid with the YAML file at path (if any)
// and then with environment variables.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if cfg, err = Parse(data); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Parse decodes a single YAML document over the defaults. Unknown keys are
// rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	var extra yaml.Node
	if err := decoder.Decode(&extra); err != io.EOF {
		return Config{}, fmt.Errorf("parse config: multiple YAML documents are not supported")
	}
	return cfg, nil
}

// ApplyEnv overlays QUIZGEN_* variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("QUIZGEN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("QUIZGEN_TIMEOUT: %w", err)
		}
		c.Generation.Timeout = d
	}
	if v := getenv("QUIZGEN_MAX_TOKENS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("QUIZGEN_MAX_TOKENS: %w", err)
		}
		c.Generation.MaxTokens = n
	}
	if v := getenv("QUIZGEN_STRUCTURED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("QUIZGEN_STRUCTURED: %w", err)
		}
		c.Generation.Structured = b
	}
	if v := getenv("QUIZGEN_MIN_TEXT_LENGTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("QUIZGEN_MIN_TEXT_LENGTH: %w", err)
		}
		c.Server.MinTextLength = n
	}
	if v := getenv("QUIZGEN_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := getenv("QUIZGEN_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.Server.AllowedOrigins = origins
	}
	if v := getenv("QUIZGEN_LOG_MODE"); v != "" {
		c.Log.Mode = v
	}
	if v := getenv("QUIZGEN_DB"); v != "" {
		c.Store.Path = v
	}
	if v := getenv("QUIZGEN_TRACE_EXPORTER"); v != "" {
		c.Trace.Exporter = strings.ToLower(strings.TrimSpace(v))
	}
	if v := getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		c.Trace.Endpoint = v
	}
	if v := getenv("OTEL_EXPORTER_OTLP_INSECURE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("OTEL_EXPORTER_OTLP_INSECURE: %w", err)
		}
		c.Trace.Insecure = b
	}
	if v := getenv("QUIZGEN_TRACE_SAMPLE_RATIO"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("QUIZGEN_TRACE_SAMPLE_RATIO: %w", err)
		}
		c.Trace.SampleRatio = f
	}
	return nil
}

// Validate rejects values the generator cannot run with.
func (c Config) Validate() error {
	if c.Generation.Timeout <= 0 {
		return fmt.Errorf("generation.timeout must be positive, got %s", c.Generation.Timeout)
	}
	if c.Generation.MaxTokens <= 0 {
		return fmt.Errorf("generation.max_tokens must be positive, got %d", c.Generation.MaxTokens)
	}
	if c.Generation.Temperature < 0 || c.Generation.Temperature > 1 {
		return fmt.Errorf("generation.temperature must be within [0, 1], got %v", c.Generation.Temperature)
	}
	if c.Generation.ExcerptLength <= 0 {
		return fmt.Errorf("generation.excerpt_length must be positive, got %d", c.Generation.ExcerptLength)
	}
	if c.Generation.KeyTermLimit <= 0 {
		return fmt.Errorf("generation.key_term_limit must be positive, got %d", c.Generation.KeyTermLimit)
	}
	if c.Server.MinTextLength < 0 {
		return fmt.Errorf("server.min_text_length must not be negative")
	}
	switch c.Trace.Exporter {
	case "", "none", "stdout":
	case "otlp":
		if c.Trace.Endpoint == "" {
			return fmt.Errorf("trace.endpoint is required for the otlp exporter")
		}
	default:
		return fmt.Errorf("trace.exporter must be none, stdout, or otlp, got %q", c.Trace.Exporter)
	}
	if c.Trace.SampleRatio < 0 || c.Trace.SampleRatio > 1 {
		return fmt.Errorf("trace.sample_ratio must be within [0, 1], got %v", c.Trace.SampleRatio)
	}
	return nil
}

// LLMProviderConfig builds the provider configuration: llm defaults, then
// the file's llm section, then QUIZGEN_* provider variables.
func (c Config) LLMProviderConfig(getenv func(string) string) llm.Config {
	cfg := llm.DefaultConfig()
	if c.LLM.Provider != "" {
		cfg.Provider = c.LLM.Provider
	}
	if c.LLM.Model != "" || c.LLM.BaseURL != "" {
		cfg.SetModel(cfg.Provider, c.LLM.Model, c.LLM.BaseURL)
	}
	cfg.Timeout = c.Generation.Timeout
	cfg.ApplyEnv(getenv)
	return cfg
}
