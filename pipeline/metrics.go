package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records pipeline outcomes. A nil *Metrics is valid and records nothing.
type Metrics struct {
	searches  *prometheus.CounterVec
	documents *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		searches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lingotutor_search_requests_total",
				Help: "Total search endpoint requests",
			},
			[]string{"status"},
		),
		documents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lingotutor_fetched_documents_total",
				Help: "Total result pages fetched, by outcome",
			},
			[]string{"outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lingotutor_pipeline_duration_seconds",
				Help:    "Time to turn a query into a summary",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
			},
			[]string{"result"},
		),
	}

	for _, c := range []prometheus.Collector{m.searches, m.documents, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observeSearch(err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.searches.WithLabelValues(status).Inc()
}

func (m *Metrics) observeDocument(failed bool) {
	if m == nil {
		return
	}
	outcome := "ok"
	if failed {
		outcome = "error"
	}
	m.documents.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeRun(result string, seconds float64) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(result).Observe(seconds)
}
