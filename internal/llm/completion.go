package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"
)

// maxCompletionBody caps how much of a reply is read.
const maxCompletionBody = 8 << 20

// CompletionProvider talks to a plain HTTP completion service. It posts the
// conversation as role-tagged messages and reads the reply's output.content
// string. A non-empty error field in the reply wins over any content.
type CompletionProvider struct {
	url    string
	apiKey string
	model  string
	client *http.Client
}

// NewCompletionProvider creates a provider for the service at cfg.URL.
func NewCompletionProvider(cfg CompletionConfig) (*CompletionProvider, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("completion service URL is required")
	}
	return &CompletionProvider{
		url:    cfg.URL,
		apiKey: cfg.APIKey,
		model:  cfg.Model,
		client: &http.Client{},
	}, nil
}

type completionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string              `json:"model,omitempty"`
	Messages    []completionMessage `json:"messages"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
	Temperature float64             `json:"temperature,omitempty"`
}

func (p *CompletionProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	body := completionRequest{
		Model:       p.model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	if req.System != "" {
		body.Messages = append(body.Messages, completionMessage{Role: "system", Content: req.System})
	}
	for _, m := range req.Messages {
		body.Messages = append(body.Messages, completionMessage{Role: string(m.Role), Content: m.Content})
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal completion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build completion request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if p.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &ErrProviderUnavailable{Err: err}
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, maxCompletionBody))
	if err != nil {
		return nil, &ErrProviderUnavailable{Err: fmt.Errorf("read completion reply: %w", err)}
	}

	switch {
	case httpResp.StatusCode == http.StatusTooManyRequests:
		return nil, &ErrRateLimit{
			RetryAfter: parseRetryAfter(httpResp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("completion service: %s", httpResp.Status),
		}
	case httpResp.StatusCode < 200 || httpResp.StatusCode > 299:
		msg := httpResp.Status
		if e := replyError(raw); e != "" {
			msg += ": " + e
		}
		return nil, &ErrProviderUnavailable{Err: errors.New("completion service: " + msg)}
	}

	if !gjson.ValidBytes(raw) {
		return nil, &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("completion reply is not JSON")}
	}
	if e := replyError(raw); e != "" {
		return nil, &ErrProviderUnavailable{Err: errors.New("completion service: " + e)}
	}

	out := gjson.GetBytes(raw, "output.content")
	if !out.Exists() {
		return nil, &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("completion reply has no output.content")}
	}
	if out.Type != gjson.String {
		return nil, &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("output.content is %s, not a string", out.Type)}
	}
	content := json.RawMessage(out.Str)

	if gjson.GetBytes(raw, "output.finish_reason").Str == "length" {
		return nil, &ErrMaxTokensExceeded{Content: content}
	}

	if err := ValidateJSON(req.Schema, content); err != nil {
		return nil, err
	}

	usage := Usage{
		InputTokens:  int(gjson.GetBytes(raw, "usage.input_tokens").Int()),
		OutputTokens: int(gjson.GetBytes(raw, "usage.output_tokens").Int()),
	}
	usage.TotalTokens = usage.InputTokens + usage.OutputTokens

	model := gjson.GetBytes(raw, "model").Str
	if model == "" {
		model = p.ModelID()
	}

	return &Response{
		Content:    content,
		Usage:      usage,
		Model:      model,
		StopReason: "end",
	}, nil
}

func (p *CompletionProvider) ModelID() string {
	if p.model != "" {
		return p.model
	}
	return "completion"
}

// replyError extracts the error field, which services send either as a
// string or as an object with a message.
func replyError(raw []byte) string {
	e := gjson.GetBytes(raw, "error")
	switch {
	case !e.Exists() || e.Type == gjson.Null:
		return ""
	case e.IsObject():
		if m := e.Get("message").String(); m != "" {
			return m
		}
		return e.Raw
	case e.Type == gjson.False:
		return ""
	default:
		return e.String()
	}
}
