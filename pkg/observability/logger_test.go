package observability_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/Consensys/errorprone-checks/pkg/observability"
)

func decodeRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var record map[string]any

	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	return record
}

func TestTracingHandler_InjectsTraceContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	inner := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(observability.NewTracingHandler(inner, "test-svc", "ci", observability.ModeCLI))

	traceID, err := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	require.NoError(t, err)

	spanID, err := trace.SpanIDFromHex("0102030405060708")
	require.NoError(t, err)

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	logger.InfoContext(ctx, "test message")

	record := decodeRecord(t, &buf)
	assert.Equal(t, "0102030405060708090a0b0c0d0e0f10", record["trace_id"])
	assert.Equal(t, "0102030405060708", record["span_id"])
	assert.Equal(t, "test-svc", record["service"])
	assert.Equal(t, "ci", record["env"])
	assert.Equal(t, "cli", record["mode"])
}

func TestTracingHandler_NoTraceContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	inner := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(observability.NewTracingHandler(inner, "epcheck", "", observability.ModeLSP))

	logger.InfoContext(context.Background(), "no span")

	record := decodeRecord(t, &buf)

	_, hasTraceID := record["trace_id"]
	assert.False(t, hasTraceID)

	_, hasEnv := record["env"]
	assert.False(t, hasEnv)

	assert.Equal(t, "epcheck", record["service"])
	assert.Equal(t, "lsp", record["mode"])
}

func TestTracingHandler_InjectsUnit(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	inner := slog.NewJSONHandler(&buf, nil)
	logger := slog.New(observability.NewTracingHandler(inner, "epcheck", "", observability.ModeCLI))

	ctx := observability.ContextWithUnit(context.Background(), "src/A.java")
	logger.WarnContext(ctx, "skipped")

	record := decodeRecord(t, &buf)
	assert.Equal(t, "src/A.java", record["unit"])

	unit, ok := observability.UnitFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "src/A.java", unit)

	_, ok = observability.UnitFromContext(context.Background())
	assert.False(t, ok)
}

func TestTracingHandler_WithGroup(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	inner := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(observability.NewTracingHandler(inner, "epcheck", "", observability.ModeCLI))

	logger.WithGroup("engine").InfoContext(context.Background(), "unit done", slog.String("rule", "JavaCase"))

	record := decodeRecord(t, &buf)
	assert.Equal(t, "epcheck", record["service"])

	engine, ok := record["engine"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "JavaCase", engine["rule"])
}

func TestTracingHandler_RespectsLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	inner := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})
	logger := slog.New(observability.NewTracingHandler(inner, "epcheck", "", observability.ModeCLI))

	logger.With(slog.String("op", "check")).InfoContext(context.Background(), "hidden")
	assert.Empty(t, buf.String())

	logger.With(slog.String("op", "check")).WarnContext(context.Background(), "shown")
	assert.Equal(t, "check", decodeRecord(t, &buf)["op"])
}
