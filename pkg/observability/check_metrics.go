package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricUnitsTotal    = "epcheck.units.total"
	metricFindingsTotal = "epcheck.findings.total"
	metricUnitDuration  = "epcheck.unit.duration.seconds"
	metricPanicsTotal   = "epcheck.rule.panics.total"

	attrRule = "rule"
)

// Unit statuses.
const (
	UnitAnalyzed = "analyzed"
	UnitSkipped  = "skipped"
	UnitFailed   = "failed"
)

// CheckMetrics holds the instruments of the analysis engine.
type CheckMetrics struct {
	unitsTotal    metric.Int64Counter
	findingsTotal metric.Int64Counter
	unitDuration  metric.Float64Histogram
	panicsTotal   metric.Int64Counter
}

// UnitStats is what one analyzed compilation unit contributes.
type UnitStats struct {
	// Findings counts findings by rule name.
	Findings map[string]int
	Status   string
	Duration time.Duration
}

// NewCheckMetrics creates the engine instruments from the given meter.
func NewCheckMetrics(mt metric.Meter) (*CheckMetrics, error) {
	units, err := mt.Int64Counter(metricUnitsTotal,
		metric.WithDescription("Compilation units processed, by status"),
		metric.WithUnit("{unit}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricUnitsTotal, err)
	}

	findings, err := mt.Int64Counter(metricFindingsTotal,
		metric.WithDescription("Findings reported, by rule"),
		metric.WithUnit("{finding}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFindingsTotal, err)
	}

	duration, err := mt.Float64Histogram(metricUnitDuration,
		metric.WithDescription("Parse and analysis time per unit in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricUnitDuration, err)
	}

	panics, err := mt.Int64Counter(metricPanicsTotal,
		metric.WithDescription("Rule checks that panicked and were recovered"),
		metric.WithUnit("{panic}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricPanicsTotal, err)
	}

	return &CheckMetrics{
		unitsTotal:    units,
		findingsTotal: findings,
		unitDuration:  duration,
		panicsTotal:   panics,
	}, nil
}

// RecordUnit records one processed unit. Safe to call on a nil receiver.
func (cm *CheckMetrics) RecordUnit(ctx context.Context, stats UnitStats) {
	if cm == nil {
		return
	}

	cm.unitsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrStatus, stats.Status)))

	if stats.Status != UnitSkipped {
		cm.unitDuration.Record(ctx, stats.Duration.Seconds())
	}

	for rule, count := range stats.Findings {
		cm.findingsTotal.Add(ctx, int64(count), metric.WithAttributes(attribute.String(attrRule, rule)))
	}
}

// RecordPanic counts a recovered rule panic. Safe to call on a nil receiver.
func (cm *CheckMetrics) RecordPanic(ctx context.Context, rule string) {
	if cm == nil {
		return
	}

	cm.panicsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrRule, rule)))
}
