package mock

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// MockClient is a language model that answers locally with canned text. It
// is used when no provider API key is configured.
type MockClient struct {
	logger *slog.Logger
}

// NewMockClient creates a new mock client.
func NewMockClient(logger *slog.Logger) *MockClient {
	return &MockClient{logger: logger}
}

// Name returns the name of this client.
func (c *MockClient) Name() string {
	return "mock"
}

// Complete picks a canned answer from the instruction at the start of the
// prompt. It never fails unless ctx is done.
func (c *MockClient) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var out string
	switch {
	case strings.HasPrefix(prompt, "Summarize"):
		out = "The customer shared feedback about their experience."
	case strings.HasPrefix(prompt, "Based on"):
		out = "- Review the feedback with the team\n- Follow up with the customer\n- Track the issue until resolved"
	default:
		out = "Thank you for taking the time to share your feedback. We appreciate it and will use it to improve."
	}

	c.logger.DebugContext(ctx, "mock llm: completion generated",
		slog.Int("prompt_chars", len(prompt)),
		slog.Int("max_tokens", maxTokens),
		slog.String("preview", fmt.Sprintf("%.40s", out)),
	)
	return out, nil
}
