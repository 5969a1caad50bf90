// Package telemetry exposes Prometheus metrics for the CKD prediction server:
// HTTP server metrics collected by an Echo middleware, prediction outcomes
// reported by the scoring service, and the model load state.
package telemetry

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// TelemetryConfig holds all configuration for the telemetry provider.
type TelemetryConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	MetricsEnabled *bool // nil = use default (true)
	// ProcessMetrics adds Go runtime and process collectors to the registry.
	ProcessMetrics bool
}

// metricsOn returns whether metrics are enabled (defaults to true).
func (c *TelemetryConfig) metricsOn() bool {
	if c.MetricsEnabled == nil {
		return true
	}
	return *c.MetricsEnabled
}

func (c *TelemetryConfig) applyDefaults() {
	if c.ServiceName == "" {
		c.ServiceName = "ckd-server"
	}
	if c.ServiceVersion == "" {
		c.ServiceVersion = "0.0.0"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
}

// BoolPtr is a helper to create a *bool for TelemetryConfig fields.
func BoolPtr(b bool) *bool {
	return &b
}

var (
	durationBuckets    = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	predictionBuckets  = []float64{.0001, .0005, .001, .005, .01, .05, .1}
	probabilityBuckets = prometheus.LinearBuckets(0.1, 0.1, 10)
)

// TelemetryProvider owns a private Prometheus registry and the collectors
// registered on it.
type TelemetryProvider struct {
	cfg      TelemetryConfig
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	activeRequests  prometheus.Gauge

	predictions        *prometheus.CounterVec
	predictionDuration prometheus.Histogram
	probability        prometheus.Histogram
	modelLoaded        prometheus.Gauge
}

// NewTelemetryProvider creates the provider and registers its collectors.
func NewTelemetryProvider(cfg TelemetryConfig) *TelemetryProvider {
	cfg.applyDefaults()

	constLabels := prometheus.Labels{
		"service": cfg.ServiceName,
		"version": cfg.ServiceVersion,
		"env":     cfg.Environment,
	}

	tp := &TelemetryProvider{
		cfg:      cfg,
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_server_requests_total",
			Help:        "HTTP requests by method, route and status code.",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_server_request_duration_seconds",
			Help:        "HTTP request latency by method and route.",
			ConstLabels: constLabels,
			Buckets:     durationBuckets,
		}, []string{"method", "route"}),
		activeRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "http_server_active_requests",
			Help:        "Requests currently being served.",
			ConstLabels: constLabels,
		}),
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "ckd_predictions_total",
			Help:        "Prediction attempts by outcome.",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
		predictionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "ckd_prediction_duration_seconds",
			Help:        "Time spent inside the classifier.",
			ConstLabels: constLabels,
			Buckets:     predictionBuckets,
		}),
		probability: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "ckd_prediction_probability",
			Help:        "Distribution of predicted CKD probabilities.",
			ConstLabels: constLabels,
			Buckets:     probabilityBuckets,
		}),
		modelLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "ckd_model_loaded",
			Help:        "1 when the classifier artifact is loaded, 0 otherwise.",
			ConstLabels: constLabels,
		}),
	}

	tp.registry.MustRegister(
		tp.requests, tp.requestDuration, tp.activeRequests,
		tp.predictions, tp.predictionDuration, tp.probability, tp.modelLoaded,
	)
	if cfg.ProcessMetrics {
		tp.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return tp
}

// Enabled reports whether metrics are collected and served.
func (tp *TelemetryProvider) Enabled() bool { return tp.cfg.metricsOn() }

// SetModelLoaded records whether the classifier is available.
func (tp *TelemetryProvider) SetModelLoaded(loaded bool) {
	if loaded {
		tp.modelLoaded.Set(1)
		return
	}
	tp.modelLoaded.Set(0)
}

// ObservePrediction counts one prediction attempt.
func (tp *TelemetryProvider) ObservePrediction(outcome string, elapsed time.Duration) {
	if !tp.cfg.metricsOn() {
		return
	}
	tp.predictions.WithLabelValues(outcome).Inc()
	if elapsed > 0 {
		tp.predictionDuration.Observe(elapsed.Seconds())
	}
}

// ObserveProbability records a successful prediction's probability.
func (tp *TelemetryProvider) ObserveProbability(p float64) {
	if !tp.cfg.metricsOn() {
		return
	}
	tp.probability.Observe(p)
}

// MetricsMiddleware returns an Echo middleware that records HTTP server metrics.
func (tp *TelemetryProvider) MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !tp.cfg.metricsOn() {
				return next(c)
			}

			tp.activeRequests.Inc()
			start := time.Now()

			err := next(c)
			tp.activeRequests.Dec()

			// Route pattern keeps label cardinality bounded.
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			status := strconv.Itoa(ResponseStatus(c, err))

			tp.requests.WithLabelValues(method, route, status).Inc()
			tp.requestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// ResponseStatus is the status the client will see for a handler result. An
// error not yet written by Echo's error handler is mapped the way that handler
// would map it.
func ResponseStatus(c echo.Context, err error) int {
	if err == nil || c.Response().Committed {
		if c.Response().Status == 0 {
			return http.StatusOK
		}
		return c.Response().Status
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}

// PrometheusHandler returns an Echo handler that serves the registry in the
// Prometheus exposition format at /metrics.
func (tp *TelemetryProvider) PrometheusHandler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(tp.registry, promhttp.HandlerOpts{}))
}
