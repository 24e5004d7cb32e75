package rest

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsConfig configures the Metrics middleware.
type MetricsConfig struct {
	Registerer prometheus.Registerer // default: prometheus.DefaultRegisterer
	Namespace  string                // default: "rest"
	Subsystem  string                // default: "client"
	Buckets    []float64             // default: prometheus.DefBuckets
}

// Metrics returns middleware that records in-flight requests, a request
// counter and a latency histogram, labelled by status code and method.
// It fails if the collectors cannot be registered.
func Metrics(cfg MetricsConfig) (Middleware, error) {
	if cfg.Registerer == nil {
		cfg.Registerer = prometheus.DefaultRegisterer
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "rest"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "client"
	}
	if len(cfg.Buckets) == 0 {
		cfg.Buckets = prometheus.DefBuckets
	}

	inFlight := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      "in_flight_requests",
		Help:      "Outbound requests currently waiting for a response.",
	})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      "requests_total",
		Help:      "Outbound requests by status code and method.",
	}, []string{"code", "method"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      "request_duration_seconds",
		Help:      "Outbound request latency.",
		Buckets:   cfg.Buckets,
	}, []string{"code", "method"})

	for _, c := range []prometheus.Collector{inFlight, requests, duration} {
		if err := cfg.Registerer.Register(c); err != nil {
			return nil, errors.Wrap(err, "rest: register metrics")
		}
	}

	return func(next http.RoundTripper) http.RoundTripper {
		return promhttp.InstrumentRoundTripperInFlight(inFlight,
			promhttp.InstrumentRoundTripperCounter(requests,
				promhttp.InstrumentRoundTripperDuration(duration, next),
			),
		)
	}, nil
}
