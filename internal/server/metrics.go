package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// requestsTotal counts HTTP requests by endpoint and status code.
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "plotsense",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by endpoint and status code",
	}, []string{"endpoint", "code"})

	// analysisSeconds measures analysis latency by mode (single, pair).
	analysisSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "plotsense",
		Subsystem: "analysis",
		Name:      "duration_seconds",
		Help:      "Time spent analyzing one request",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}, []string{"mode"})

	// analysisErrorsTotal counts failed analyses by error kind.
	analysisErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "plotsense",
		Subsystem: "analysis",
		Name:      "errors_total",
		Help:      "Failed analyses by error kind",
	}, []string{"kind"})

	panicsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "plotsense",
		Subsystem: "http",
		Name:      "panics_total",
		Help:      "Handler panics recovered",
	})
)
