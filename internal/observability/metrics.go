package observability

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the assistant.
type Metrics struct {
	Turns           *prometheus.CounterVec
	DelegateErrors  *prometheus.CounterVec
	ExtractionSkips *prometheus.CounterVec
	InventoryAnswer *prometheus.CounterVec
	TurnLatency     *prometheus.HistogramVec

	registry *prometheus.Registry
}

// NewMetrics registers the instruments on a fresh registry
func NewMetrics(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Turns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Handled utterances by intent.",
		}, []string{"intent"}),
		DelegateErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "delegate_errors_total",
			Help:      "Failed text-generation calls by stage.",
		}, []string{"stage"}),
		ExtractionSkips: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "preference_extraction_skips_total",
			Help:      "Chat turns whose preference extraction was skipped, by reason.",
		}, []string{"reason"}),
		InventoryAnswer: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inventory_answers_total",
			Help:      "Inventory answers by outcome.",
		}, []string{"outcome"}),
		TurnLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "turn_latency_ms",
			Help:      "Time to answer one utterance in milliseconds.",
			Buckets:   []float64{1, 5, 25, 100, 500, 1000, 2500, 5000, 15000, 60000},
		}, []string{"intent"}),
	}
}

// WatchSessions exposes the live session count, read at scrape time
func (m *Metrics) WatchSessions(namespace string, count func(ctx context.Context) (int, error)) {
	promauto.With(m.registry).NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "Number of live sessions.",
	}, func() float64 {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		n, err := count(ctx)
		if err != nil {
			return -1
		}
		return float64(n)
	})
}

func (m *Metrics) ObserveTurn(intent string, d time.Duration) {
	m.Turns.WithLabelValues(intent).Inc()
	m.TurnLatency.WithLabelValues(intent).Observe(float64(d.Milliseconds()))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
