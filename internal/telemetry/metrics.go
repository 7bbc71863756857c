package telemetry

import (
	"fmt"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Metrics holds the game instruments.
type Metrics struct {
	Moves         metric.Int64Counter
	Rounds        metric.Int64Counter
	ComputerThink metric.Float64Histogram
}

// NewMetrics creates the instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	moves, err := meter.Int64Counter("tictactoe.moves",
		metric.WithDescription("Moves submitted, by validity and mark"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create moves counter: %w", err)
	}

	rounds, err := meter.Int64Counter("tictactoe.rounds",
		metric.WithDescription("Finished rounds, by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rounds counter: %w", err)
	}

	think, err := meter.Float64Histogram("tictactoe.computer.think",
		metric.WithDescription("Time spent choosing a computer move"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create think histogram: %w", err)
	}

	return &Metrics{Moves: moves, Rounds: rounds, ComputerThink: think}, nil
}

// NoopMetrics returns instruments that record nothing.
func NoopMetrics() *Metrics {
	m, _ := NewMetrics(noop.NewMeterProvider().Meter("noop"))
	return m
}
