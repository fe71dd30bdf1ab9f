package observability

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// exportedPrefixes are the attribute namespaces that may leave the process.
var exportedPrefixes = []string{
	"epcheck.",
	"error.",
	"http.",
	"mcp.",
	"lsp.",
	"rule.",
	"unit.",
	"run.",
}

// privateKeys never leave the process even inside an exported namespace:
// source text can be proprietary.
var privateKeys = map[attribute.Key]struct{}{
	"unit.source":  {},
	"request.body": {},
}

// keyPolicy decides which attribute keys are exported. Each dropped key is
// logged once.
type keyPolicy struct {
	logger  *slog.Logger
	dropped sync.Map
}

func (p *keyPolicy) exported(key attribute.Key) bool {
	if _, private := privateKeys[key]; !private {
		if key == "error" {
			return true
		}

		for _, prefix := range exportedPrefixes {
			if strings.HasPrefix(string(key), prefix) {
				return true
			}
		}
	}

	if _, seen := p.dropped.LoadOrStore(key, struct{}{}); !seen && p.logger != nil {
		p.logger.Warn("span attribute dropped", "key", string(key))
	}

	return false
}

// attributeFilter is a SpanProcessor that removes non-exported attributes
// before the delegate sees the span.
type attributeFilter struct {
	delegate sdktrace.SpanProcessor
	policy   *keyPolicy
}

// NewAttributeFilter wraps delegate so that ended spans only carry
// attributes in the exported namespaces. A nil logger drops silently.
func NewAttributeFilter(delegate sdktrace.SpanProcessor, logger *slog.Logger) sdktrace.SpanProcessor {
	return &attributeFilter{delegate: delegate, policy: &keyPolicy{logger: logger}}
}

func (f *attributeFilter) OnStart(parent context.Context, span sdktrace.ReadWriteSpan) {
	f.delegate.OnStart(parent, span)
}

func (f *attributeFilter) OnEnd(span sdktrace.ReadOnlySpan) {
	f.delegate.OnEnd(&filteredSpan{ReadOnlySpan: span, policy: f.policy})
}

func (f *attributeFilter) Shutdown(ctx context.Context) error {
	if err := f.delegate.Shutdown(ctx); err != nil {
		return fmt.Errorf("attribute filter shutdown: %w", err)
	}

	return nil
}

func (f *attributeFilter) ForceFlush(ctx context.Context) error {
	if err := f.delegate.ForceFlush(ctx); err != nil {
		return fmt.Errorf("attribute filter flush: %w", err)
	}

	return nil
}

type filteredSpan struct {
	sdktrace.ReadOnlySpan

	policy *keyPolicy
}

func (s *filteredSpan) Attributes() []attribute.KeyValue {
	all := s.ReadOnlySpan.Attributes()
	kept := make([]attribute.KeyValue, 0, len(all))

	for _, kv := range all {
		if s.policy.exported(kv.Key) {
			kept = append(kept, kv)
		}
	}

	return kept
}
