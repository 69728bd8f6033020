package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "quizforge"

// Metrics groups the counters recorded by the generation core.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	modelAttempts      *prometheus.CounterVec
	batches            *prometheus.CounterVec
	generations        *prometheus.CounterVec
	parseRepairs       prometheus.Counter
	generationDuration prometheus.Histogram
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		modelAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_attempts_total",
			Help:      "Upstream calls per model and outcome.",
		}, []string{"model", "outcome"}),
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Generation batches by outcome.",
		}, []string{"outcome"}),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Generation runs by outcome (success, error, cancelled, invalid).",
		}, []string{"outcome"}),
		parseRepairs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parse_repairs_total",
			Help:      "Upstream payloads accepted only after the closing-bracket repair.",
		}),
		generationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Wall time of successful generation runs.",
			Buckets:   []float64{1, 2.5, 5, 10, 20, 40, 80, 160},
		}),
	}
	reg.MustRegister(m.modelAttempts, m.batches, m.generations, m.parseRepairs, m.generationDuration)
	return m
}

func (m *Metrics) ModelAttempt(model, outcome string) {
	if m == nil {
		return
	}
	m.modelAttempts.WithLabelValues(model, outcome).Inc()
}

func (m *Metrics) Batch(outcome string) {
	if m == nil {
		return
	}
	m.batches.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Generation(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.generations.WithLabelValues(outcome).Inc()
	if outcome == OutcomeSuccess {
		m.generationDuration.Observe(elapsed.Seconds())
	}
}

func (m *Metrics) ParseRepair() {
	if m == nil {
		return
	}
	m.parseRepairs.Inc()
}

const (
	OutcomeSuccess   = "success"
	OutcomeError     = "error"
	OutcomeCancelled = "cancelled"
	OutcomeInvalid   = "invalid"
)
