// Package openrouter implements llm.Client against an OpenAI-compatible
// chat completions API such as OpenRouter.
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/akajrolkar2644/Assessment/pkg/httpclient"
	"github.com/akajrolkar2644/Assessment/pkg/tracing"
	"github.com/akajrolkar2644/Assessment/services/feedback/internal/llm"
)

const (
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	DefaultModel   = "meta-llama/llama-3.1-8b-instruct:free"

	providerName = "openrouter"
	maxBody      = 4 << 20
)

// Config holds the provider settings.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string    `json:"model"`
	Messages  []message `json:"messages"`
	MaxTokens int       `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

// Client calls the chat completions endpoint. Requests are never retried; a
// circuit breaker stops calls while the provider keeps failing.
type Client struct {
	http     *httpclient.Breaker
	endpoint string
	apiKey   string
	model    string
	logger   *slog.Logger
}

var _ llm.Client = (*Client)(nil)

// New creates a client from cfg, filling in the default model and base URL.
func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	hcfg := httpclient.DefaultConfig()
	if cfg.Timeout > 0 {
		hcfg.Timeout = cfg.Timeout
	}

	return &Client{
		http: httpclient.NewBreaker(
			httpclient.New(hcfg),
			httpclient.DefaultBreakerConfig(providerName),
			logger,
		),
		endpoint: strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions",
		apiKey:   cfg.APIKey,
		model:    cfg.Model,
		logger:   logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return providerName
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// Healthy reports an error while the circuit breaker is open.
func (c *Client) Healthy(ctx context.Context) error {
	return c.http.Healthy(ctx)
}

// Complete sends prompt as a single user message and returns the first
// choice with surrounding whitespace removed. Every error wraps
// llm.ErrProvider.
func (c *Client) Complete(ctx context.Context, prompt string, maxTokens int) (_ string, err error) {
	ctx, span := tracing.Tracer("llm").Start(ctx, "openrouter.Complete",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("gen_ai.system", providerName),
			attribute.String("gen_ai.request.model", c.model),
			attribute.Int("gen_ai.request.max_tokens", maxTokens),
		),
	)
	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
			tracing.RecordError(span, err)
		}
		llm.RequestDuration.WithLabelValues(providerName, outcome).Observe(time.Since(start).Seconds())
		span.End()
	}()

	out, err := c.complete(ctx, prompt, maxTokens)
	if err != nil {
		var upErr *httpclient.UpstreamError
		c.logger.WarnContext(ctx, "completion request failed",
			slog.String("model", c.model),
			slog.Bool("transient", errors.As(err, &upErr) && upErr.Retryable()),
			slog.String("error", err.Error()),
		)
		return "", fmt.Errorf("%w: %w", llm.ErrProvider, err)
	}
	return out, nil
}

func (c *Client) complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("api key not configured")
	}

	body, err := json.Marshal(chatRequest{
		Model:     c.model,
		Messages:  []message{{Role: "user", Content: prompt}},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", httpclient.ParseResponseError(resp, providerName)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("response has no choices")
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("empty completion")
	}
	return content, nil
}
