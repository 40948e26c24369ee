package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SuggestionsGeneratedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "suggestions_generated_total",
			Help: "Total number of suggestions generated per category",
		},
		[]string{"category"},
	)

	HealthScoresComputedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "health_scores_computed_total",
			Help: "Total number of daily health scores computed per tier",
		},
		[]string{"tier"},
	)
)
