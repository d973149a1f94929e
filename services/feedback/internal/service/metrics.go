package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	aiFallbackTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedback_ai_fallback_total",
			Help: "Total number of AI outputs replaced by the fallback text",
		},
		[]string{"kind"},
	)

	submissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedback_submissions_total",
			Help: "Total number of review submissions by final state",
		},
		[]string{"state"},
	)
)
