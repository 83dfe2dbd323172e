package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OriginationMetrics instruments the decision flow.
type OriginationMetrics struct {
	decisions metric.Int64Counter
	anomalies metric.Int64Counter
	letters   metric.Int64Counter
	latency   metric.Float64Histogram
}

// NewOriginationMetrics registers the instruments on the given meter.
func NewOriginationMetrics(meter metric.Meter) (*OriginationMetrics, error) {
	decisions, err := meter.Int64Counter("origination_decisions_total",
		metric.WithDescription("Underwriting decisions by outcome"))
	if err != nil {
		return nil, err
	}
	anomalies, err := meter.Int64Counter("origination_anomalies_total",
		metric.WithDescription("Income anomalies detected by type"))
	if err != nil {
		return nil, err
	}
	letters, err := meter.Int64Counter("origination_sanction_letters_total",
		metric.WithDescription("Sanction letters issued"))
	if err != nil {
		return nil, err
	}
	latency, err := meter.Float64Histogram("origination_decision_seconds",
		metric.WithDescription("End to end underwriting latency"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}
	return &OriginationMetrics{
		decisions: decisions,
		anomalies: anomalies,
		letters:   letters,
		latency:   latency,
	}, nil
}

// RecordDecision counts one decision and its latency.
func (m *OriginationMetrics) RecordDecision(ctx context.Context, decision string, seconds float64) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("decision", decision))
	m.decisions.Add(ctx, 1, attrs)
	m.latency.Record(ctx, seconds, attrs)
}

// RecordAnomaly counts one detector finding.
func (m *OriginationMetrics) RecordAnomaly(ctx context.Context, anomalyType string) {
	if m == nil {
		return
	}
	m.anomalies.Add(ctx, 1, metric.WithAttributes(attribute.String("type", anomalyType)))
}

// RecordLetterIssued counts one issued sanction letter.
func (m *OriginationMetrics) RecordLetterIssued(ctx context.Context) {
	if m == nil {
		return
	}
	m.letters.Add(ctx, 1)
}
