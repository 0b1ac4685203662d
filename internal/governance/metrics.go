package governance

import "github.com/prometheus/client_golang/prometheus"

// Metrics are the tool-execution collectors.
type Metrics struct {
	Executions *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
	APICalls   prometheus.Counter
	LLMTokens  prometheus.Counter
}

// NewMetrics creates the collectors and registers them on reg when reg is
// non-nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Executions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trendops_executions_total",
			Help: "Tool executions by tool and status",
		}, []string{"tool", "status"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "trendops_execution_duration_seconds",
			Help:    "Tool execution latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"tool"}),
		APICalls: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trendops_api_calls_total",
			Help: "External API calls made",
		}),
		LLMTokens: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trendops_llm_tokens_total",
			Help: "Estimated LLM tokens consumed",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Executions, m.Duration, m.APICalls, m.LLMTokens)
	}
	return m
}

func (m *Metrics) observe(rec Record) {
	if m == nil {
		return
	}
	m.Executions.WithLabelValues(rec.Tool, string(rec.Status)).Inc()
	m.Duration.WithLabelValues(rec.Tool).Observe(rec.Duration.Seconds())
	if rec.APICalls > 0 {
		m.APICalls.Add(float64(rec.APICalls))
	}
	if rec.EstimatedTokens > 0 {
		m.LLMTokens.Add(float64(rec.EstimatedTokens))
	}
}
