package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ojasva22/frontend-deployment/internal/photos"
)

// Metrics agrupa os coletores expostos em /metrics.
type Metrics struct {
	Registry *prometheus.Registry
	uploads  *prometheus.CounterVec
	searches *prometheus.CounterVec
	duration *prometheus.HistogramVec
	results  prometheus.Histogram
}

// NewMetrics registra coletores num registry próprio.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	factory := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		uploads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "galeria_uploads_total",
			Help: "Submissões de upload por desfecho",
		}, []string{"outcome"}),
		searches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "galeria_searches_total",
			Help: "Submissões de busca por desfecho",
		}, []string{"outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "galeria_submission_duration_seconds",
			Help:    "Duração das submissões, incluindo a chamada remota",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}, []string{"kind"}),
		results: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "galeria_search_results",
			Help:    "Quantidade de resultados por busca bem-sucedida",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}
}

func (m *Metrics) observeUpload(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(outcome).Inc()
	m.duration.WithLabelValues("upload").Observe(seconds)
}

func (m *Metrics) observeSearch(out photos.SearchOutcome, seconds float64) {
	if m == nil {
		return
	}
	m.searches.WithLabelValues(string(out.State)).Inc()
	m.duration.WithLabelValues("search").Observe(seconds)
	if out.State == photos.StateSucceeded {
		m.results.Observe(float64(len(out.Results)))
	}
}
