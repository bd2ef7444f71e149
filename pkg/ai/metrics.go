package ai

import (
	"math"
	"sync"
)

// MetricsRecorder accumulates token usage and timing across requests.
// Backends embed it to satisfy the metrics half of GraphAIClient.
type MetricsRecorder struct {
	metricsLock sync.Mutex
	metrics     ModelMetrics
}

// ResetMetrics clears all accumulated token and timing metrics to zero.
func (r *MetricsRecorder) ResetMetrics() {
	r.metricsLock.Lock()
	r.metrics = ModelMetrics{}
	r.metricsLock.Unlock()
}

// GetMetrics returns the accumulated token usage and timing metrics since the last reset.
func (r *MetricsRecorder) GetMetrics() ModelMetrics {
	r.metricsLock.Lock()
	defer r.metricsLock.Unlock()
	return r.metrics
}

// Record adds one request's usage to the running totals.
func (r *MetricsRecorder) Record(m ModelMetrics) {
	r.metricsLock.Lock()
	defer r.metricsLock.Unlock()

	r.metrics.Requests++
	r.metrics.InputTokens += m.InputTokens
	r.metrics.OutputTokens += m.OutputTokens
	r.metrics.TotalTokens += m.TotalTokens
	r.metrics.DurationMs += m.DurationMs

	if r.metrics.DurationMs > 0 {
		tokensPerSecond := (float64(r.metrics.TotalTokens) * 1000.0) / float64(r.metrics.DurationMs)
		r.metrics.TokenPerSecond = float32(math.Round(tokensPerSecond*100) / 100)
	}
}
