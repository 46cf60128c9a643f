package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestInit_Disabled(t *testing.T) {
	shutdown, err := Init(context.Background(), "ecotrack-cli", "test", false)
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestGetMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(mp)
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m := GetMetrics()
	require.NotNil(t, m)
	require.Same(t, m, GetMetrics())

	ctx := context.Background()
	m.SessionTransitionsTotal.Add(ctx, 2)
	m.APIRequestDuration.Record(ctx, 12.5)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	names := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, metric := range sm.Metrics {
			names[metric.Name] = true
		}
	}
	require.True(t, names["ecotrack.session.transitions.total"])
	require.True(t, names["ecotrack.api.requests.duration"])
}
