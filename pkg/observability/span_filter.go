package observability

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/embedded"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
)

// Span names shared by the engine and the servers.
const (
	SpanRun     = "epcheck.run"
	SpanUnit    = "epcheck.unit"
	SpanLSPLint = "epcheck.lsp.lint"
	SpanMCPTool = "epcheck.mcp.tool"
)

// filteringTracerProvider replaces the named spans with no-op spans so that
// per-unit spans of large runs stay out of the exporter.
type filteringTracerProvider struct {
	embedded.TracerProvider

	delegate trace.TracerProvider
	noop     trace.TracerProvider
	suppress map[string]bool
}

// NewFilteringTracerProvider wraps delegate, dropping spans named in suppressed.
func NewFilteringTracerProvider(delegate trace.TracerProvider, suppressed ...string) trace.TracerProvider {
	names := make(map[string]bool, len(suppressed))
	for _, name := range suppressed {
		names[name] = true
	}

	return &filteringTracerProvider{
		delegate: delegate,
		noop:     nooptrace.NewTracerProvider(),
		suppress: names,
	}
}

// Tracer returns a tracer whose suppressed spans are no-ops.
func (f *filteringTracerProvider) Tracer(name string, opts ...trace.TracerOption) trace.Tracer {
	actual := f.delegate.Tracer(name, opts...)
	if len(f.suppress) == 0 {
		return actual
	}

	return &filteringTracer{
		delegate: actual,
		noop:     f.noop.Tracer(name, opts...),
		suppress: f.suppress,
	}
}

type filteringTracer struct {
	embedded.Tracer

	delegate trace.Tracer
	noop     trace.Tracer
	suppress map[string]bool
}

// Start creates a span, returning a noop span for suppressed names.
func (f *filteringTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if f.suppress[name] {
		return f.noop.Start(ctx, name, opts...)
	}

	return f.delegate.Start(ctx, name, opts...)
}
