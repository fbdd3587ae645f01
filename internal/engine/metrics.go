package engine

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	diagnosesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plantdoc_diagnoses_total",
		Help: "Total diagnosis cycles, labeled by plant detection method.",
	}, []string{"method"})

	diagnoseDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "plantdoc_diagnose_duration_seconds",
		Help:    "Duration of a full diagnosis cycle in seconds.",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	})
)

func observeDiagnosis(method string, d time.Duration) {
	diagnosesTotal.WithLabelValues(method).Inc()
	diagnoseDuration.Observe(d.Seconds())
}
