package observability_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Consensys/errorprone-checks/pkg/observability"
)

func newRecordingTracer(t *testing.T) (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	t.Cleanup(func() { require.NoError(t, tp.Shutdown(context.Background())) })

	return tp, recorder
}

func TestHTTPMiddleware_RecordsServerSpan(t *testing.T) {
	t.Parallel()

	tp, recorder := newRecordingTracer(t)

	handler := observability.HTTPMiddleware(tp.Tracer("test"), http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		_, _ = rw.Write([]byte("ok"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))

	assert.Equal(t, http.StatusOK, rec.Code)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /metrics", spans[0].Name())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
}

func TestHTTPMiddleware_MarksServerErrors(t *testing.T) {
	t.Parallel()

	tp, recorder := newRecordingTracer(t)

	handler := observability.HTTPMiddleware(tp.Tracer("test"), http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		rw.WriteHeader(http.StatusServiceUnavailable)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}

func TestMetricsServer_ServesUntilCancelled(t *testing.T) {
	t.Parallel()

	tp, _ := newRecordingTracer(t)

	metrics := http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		_, _ = rw.Write([]byte("epcheck_units_total 1\n"))
	})

	server, err := observability.NewMetricsServer("127.0.0.1:0", metrics, tp.Tracer("test"), discardLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- server.Serve(ctx) }()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, "http://"+server.Addr()+"/metrics", http.NoBody)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	assert.NoError(t, <-done)
}
