package telemetry

import (
	"context"
	"ctchen222/tictactoe/internal/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestInitOtel_Disabled(t *testing.T) {
	shutdown, err := InitOtel(context.Background(), config.Otel{Enabled: false})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestNewMetrics_Records(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.Moves.Add(ctx, 1, otelmetric.WithAttributes(attribute.Bool("move.valid", true)))
	m.Moves.Add(ctx, 1, otelmetric.WithAttributes(attribute.Bool("move.valid", false)))
	m.Rounds.Add(ctx, 1)
	m.ComputerThink.Record(ctx, 1.5)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	names := map[string]metricdata.Aggregation{}
	for _, metric := range rm.ScopeMetrics[0].Metrics {
		names[metric.Name] = metric.Data
	}
	require.Contains(t, names, "tictactoe.moves")
	require.Contains(t, names, "tictactoe.rounds")
	require.Contains(t, names, "tictactoe.computer.think")

	moves, ok := names["tictactoe.moves"].(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Len(t, moves.DataPoints, 2)
}

func TestNoopMetrics(t *testing.T) {
	m := NoopMetrics()
	require.NotNil(t, m)
	m.Moves.Add(context.Background(), 1)
}
