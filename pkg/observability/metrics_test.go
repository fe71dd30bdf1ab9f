package observability_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Consensys/errorprone-checks/pkg/observability"
)

func newManualMeter(t *testing.T) (*sdkmetric.MeterProvider, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()

	return sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)), reader
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics

	require.NoError(t, reader.Collect(context.Background(), &rm))

	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for idx := range rm.ScopeMetrics {
		for midx := range rm.ScopeMetrics[idx].Metrics {
			if rm.ScopeMetrics[idx].Metrics[midx].Name == name {
				return &rm.ScopeMetrics[idx].Metrics[midx]
			}
		}
	}

	return nil
}

// sumByAttr totals an Int64 sum metric's data points by one attribute value.
func sumByAttr(t *testing.T, m *metricdata.Metrics, key string) map[string]int64 {
	t.Helper()

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "%s is not an int64 sum", m.Name)

	out := make(map[string]int64)

	for _, dp := range sum.DataPoints {
		value, _ := dp.Attributes.Value(attribute.Key(key))
		out[value.AsString()] += dp.Value
	}

	return out
}

func TestREDMetrics_RecordRequest(t *testing.T) {
	t.Parallel()

	mp, reader := newManualMeter(t)

	red, err := observability.NewREDMetrics(mp.Meter("test"))
	require.NoError(t, err)

	red.RecordRequest(context.Background(), "epcheck_analyze", observability.StatusOK, 100*time.Millisecond)
	red.RecordRequest(context.Background(), "epcheck_analyze", observability.StatusError, time.Second)

	rm := collectMetrics(t, reader)

	total := findMetric(rm, "epcheck.requests.total")
	require.NotNil(t, total)
	assert.Equal(t, map[string]int64{"ok": 1, "error": 1}, sumByAttr(t, total, "status"))

	require.NotNil(t, findMetric(rm, "epcheck.request.duration.seconds"))

	errs := findMetric(rm, "epcheck.errors.total")
	require.NotNil(t, errs)
	assert.Equal(t, map[string]int64{"epcheck_analyze": 1}, sumByAttr(t, errs, "op"))
}

func TestREDMetrics_TrackInflight(t *testing.T) {
	t.Parallel()

	mp, reader := newManualMeter(t)

	red, err := observability.NewREDMetrics(mp.Meter("test"))
	require.NoError(t, err)

	done := red.TrackInflight(context.Background(), "didOpen")

	inflight := findMetric(collectMetrics(t, reader), "epcheck.inflight.requests")
	require.NotNil(t, inflight)
	assert.Equal(t, map[string]int64{"didOpen": 1}, sumByAttr(t, inflight, "op"))

	done()

	inflight = findMetric(collectMetrics(t, reader), "epcheck.inflight.requests")
	require.NotNil(t, inflight)
	assert.Equal(t, map[string]int64{"didOpen": 0}, sumByAttr(t, inflight, "op"))
}

func TestCheckMetrics_RecordUnit(t *testing.T) {
	t.Parallel()

	mp, reader := newManualMeter(t)

	metrics, err := observability.NewCheckMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordUnit(ctx, observability.UnitStats{
		Status:   observability.UnitAnalyzed,
		Duration: 20 * time.Millisecond,
		Findings: map[string]int{"JavaCase": 2, "UseFastutil": 1},
	})
	metrics.RecordUnit(ctx, observability.UnitStats{Status: observability.UnitSkipped})
	metrics.RecordPanic(ctx, "JavaCase")

	rm := collectMetrics(t, reader)

	units := findMetric(rm, "epcheck.units.total")
	require.NotNil(t, units)
	assert.Equal(t, map[string]int64{"analyzed": 1, "skipped": 1}, sumByAttr(t, units, "status"))

	findings := findMetric(rm, "epcheck.findings.total")
	require.NotNil(t, findings)
	assert.Equal(t, map[string]int64{"JavaCase": 2, "UseFastutil": 1}, sumByAttr(t, findings, "rule"))

	duration := findMetric(rm, "epcheck.unit.duration.seconds")
	require.NotNil(t, duration)

	hist, ok := duration.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(1), hist.DataPoints[0].Count)

	panics := findMetric(rm, "epcheck.rule.panics.total")
	require.NotNil(t, panics)
	assert.Equal(t, map[string]int64{"JavaCase": 1}, sumByAttr(t, panics, "rule"))
}

func TestCheckMetrics_NilReceiver(t *testing.T) {
	t.Parallel()

	var metrics *observability.CheckMetrics

	assert.NotPanics(t, func() {
		metrics.RecordUnit(context.Background(), observability.UnitStats{Status: observability.UnitFailed})
		metrics.RecordPanic(context.Background(), "JavaCase")
	})
}
