// Package llm defines the language-model capability the feedback service
// depends on and the metrics shared by its implementations.
package llm

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ErrProvider marks any failure to obtain a completion: transport errors,
// non-2xx responses, malformed or empty answers.
var ErrProvider = errors.New("language model provider error")

// Client produces a text completion for a prompt.
type Client interface {
	Name() string
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// RequestDuration observes completion latency by provider and outcome
// ("ok" or "error").
var RequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "llm_request_duration_seconds",
		Help:    "Duration of language model completion requests in seconds",
		Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 20, 30},
	},
	[]string{"provider", "outcome"},
)
