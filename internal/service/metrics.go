package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	aiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lifelens_ai_requests_total",
			Help: "Total number of requests to the text generation provider.",
		},
		[]string{"provider", "model", "status"},
	)
	aiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lifelens_ai_request_duration_seconds",
			Help:    "Histogram of text generation request durations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider", "model"},
	)
	aiPromptTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lifelens_ai_prompt_tokens",
			Help:    "Histogram of prompt token counts.",
			Buckets: prometheus.LinearBuckets(50, 50, 10),
		},
		[]string{"provider", "model"},
	)
	aiCompletionTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lifelens_ai_completion_tokens",
			Help:    "Histogram of completion token counts.",
			Buckets: prometheus.LinearBuckets(250, 250, 12),
		},
		[]string{"provider", "model"},
	)
	reportsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lifelens_reports_generated_total",
			Help: "Reports produced, by kind and content source.",
		},
		[]string{"kind", "source"},
	)
	reportFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lifelens_report_fallbacks_total",
			Help: "Reports that used fallback content, by failure reason.",
		},
		[]string{"kind", "reason"},
	)
)

func observeAIRequest(provider, modelName, status string, duration time.Duration, usage UsageInfo) {
	aiRequestsTotal.WithLabelValues(provider, modelName, status).Inc()
	if status != "success" {
		return
	}
	aiRequestDuration.WithLabelValues(provider, modelName).Observe(duration.Seconds())
	if usage.TotalTokens > 0 {
		aiPromptTokens.WithLabelValues(provider, modelName).Observe(float64(usage.PromptTokens))
		aiCompletionTokens.WithLabelValues(provider, modelName).Observe(float64(usage.CompletionTokens))
	}
}

func reportKind(premium bool) string {
	if premium {
		return "premium"
	}
	return "free"
}
