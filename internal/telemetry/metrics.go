package telemetry

import (
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	meterName = "github.com/wolfeidau/ecotrack"
)

// Metrics holds all the OpenTelemetry metric instruments
type Metrics struct {
	// API client metrics
	APIRequestsTotal      metric.Int64Counter
	APIRequestErrorsTotal metric.Int64Counter
	APIRequestDuration    metric.Float64Histogram
	APICacheHitsTotal     metric.Int64Counter

	// Session metrics
	SessionTransitionsTotal metric.Int64Counter

	// Calculator metrics
	CommuteComputationsTotal metric.Int64Counter
}

var (
	once    sync.Once
	metrics *Metrics
)

// GetMetrics returns the singleton Metrics instance, initializing it if necessary.
// Instruments bind to the global meter provider, which is a no-op until
// Init installs an exporting one.
func GetMetrics() *Metrics {
	once.Do(func() {
		metrics = initMetrics()
	})
	return metrics
}

// initMetrics creates and registers all metric instruments
func initMetrics() *Metrics {
	meter := otel.GetMeterProvider().Meter(meterName)

	m := &Metrics{}

	m.APIRequestsTotal, _ = meter.Int64Counter(
		"ecotrack.api.requests.total",
		metric.WithDescription("Total number of API requests sent"),
		metric.WithUnit("{request}"),
	)

	m.APIRequestErrorsTotal, _ = meter.Int64Counter(
		"ecotrack.api.requests.errors.total",
		metric.WithDescription("Total number of API requests that failed or returned a non-2xx status"),
		metric.WithUnit("{error}"),
	)

	m.APIRequestDuration, _ = meter.Float64Histogram(
		"ecotrack.api.requests.duration",
		metric.WithDescription("Duration of API requests"),
		metric.WithUnit("ms"),
	)

	m.APICacheHitsTotal, _ = meter.Int64Counter(
		"ecotrack.api.cache.hits.total",
		metric.WithDescription("Total number of API responses served from the HTTP cache"),
		metric.WithUnit("{response}"),
	)

	m.SessionTransitionsTotal, _ = meter.Int64Counter(
		"ecotrack.session.transitions.total",
		metric.WithDescription("Total number of session state changes by action"),
		metric.WithUnit("{transition}"),
	)

	m.CommuteComputationsTotal, _ = meter.Int64Counter(
		"ecotrack.commute.computations.total",
		metric.WithDescription("Total number of commute distance computations"),
		metric.WithUnit("{computation}"),
	)

	return m
}
