// Package lsp serves epcheck findings to editors over the Language Server
// Protocol: diagnostics on open, change and save, quick fixes as code
// actions and rule summaries on hover.
package lsp

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"time"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Consensys/errorprone-checks/pkg/engine"
	"github.com/Consensys/errorprone-checks/pkg/observability"
	"github.com/Consensys/errorprone-checks/pkg/version"
)

const (
	serverName = "epcheck"
	// diagnosticSource tags every published diagnostic.
	diagnosticSource = "epcheck"

	methodPublishDiagnostics = "textDocument/publishDiagnostics"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(srv *Server) {
		srv.logger = logger
	}
}

// WithTracer sets the tracer for lint spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(srv *Server) {
		srv.tracer = tracer
	}
}

// WithMetrics records one request per lint.
func WithMetrics(metrics *observability.REDMetrics) Option {
	return func(srv *Server) {
		srv.metrics = metrics
	}
}

// Server implements the epcheck language server.
type Server struct {
	store   *DocumentStore
	engine  *engine.Engine
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *observability.REDMetrics
	rules   map[string]string
	handler protocol.Handler
}

// NewServer creates a language server that lints with eng.
func NewServer(eng *engine.Engine, opts ...Option) *Server {
	srv := &Server{
		store:  NewDocumentStore(),
		engine: eng,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracer: nooptrace.NewTracerProvider().Tracer("epcheck"),
		rules:  make(map[string]string),
	}

	for _, opt := range opts {
		opt(srv)
	}

	for _, rule := range eng.Rules() {
		srv.rules[rule.Name] = rule.Summary
	}

	srv.handler = protocol.Handler{
		Initialize:             srv.initialize,
		Initialized:            srv.initialized,
		Shutdown:               srv.shutdown,
		SetTrace:               srv.setTrace,
		TextDocumentDidOpen:    srv.didOpen,
		TextDocumentDidChange:  srv.didChange,
		TextDocumentDidSave:    srv.didSave,
		TextDocumentDidClose:   srv.didClose,
		TextDocumentCodeAction: srv.codeAction,
		TextDocumentHover:      srv.hover,
	}

	return srv
}

// Handler exposes the protocol handler, mainly for tests.
func (srv *Server) Handler() *protocol.Handler {
	return &srv.handler
}

// Store exposes the open documents.
func (srv *Server) Store() *DocumentStore {
	return srv.store
}

// Run serves the protocol on stdio until the client exits.
func (srv *Server) Run() error {
	lspServer := server.NewServer(&srv.handler, serverName, false)

	srv.logger.Info("lsp server starting", "rules", len(srv.rules))

	return lspServer.RunStdio()
}

func (srv *Server) initialize(_ *glsp.Context, _ *protocol.InitializeParams) (any, error) {
	capabilities := srv.handler.CreateServerCapabilities()

	// Whole-document sync keeps byte spans and editor text in step.
	syncOpts, ok := capabilities.TextDocumentSync.(*protocol.TextDocumentSyncOptions)
	if !ok {
		openClose := true
		syncOpts = &protocol.TextDocumentSyncOptions{OpenClose: &openClose}
		capabilities.TextDocumentSync = syncOpts
	}

	full := protocol.TextDocumentSyncKindFull
	syncOpts.Change = &full

	ver := version.Version

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &ver,
		},
	}, nil
}

func (srv *Server) initialized(_ *glsp.Context, _ *protocol.InitializedParams) error {
	return nil
}

func (srv *Server) shutdown(_ *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)

	return nil
}

func (srv *Server) setTrace(_ *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)

	return nil
}

func (srv *Server) didOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI

	srv.store.Set(uri, params.TextDocument.Text, int32(params.TextDocument.Version))
	srv.publishDiagnostics(ctx, uri)

	return nil
}

func (srv *Server) didChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI

	doc, ok := srv.store.Get(uri)
	if !ok {
		return nil
	}

	text := doc.Text
	for _, change := range params.ContentChanges {
		text = applyChange(text, change)
	}

	srv.store.Set(uri, text, int32(params.TextDocument.Version))
	srv.publishDiagnostics(ctx, uri)

	return nil
}

// applyChange folds one content change into text. Unknown change shapes
// leave text unchanged.
func applyChange(text string, change any) string {
	switch typed := change.(type) {
	case protocol.TextDocumentContentChangeEventWhole:
		return typed.Text
	case *protocol.TextDocumentContentChangeEventWhole:
		return typed.Text
	case protocol.TextDocumentContentChangeEvent:
		return applyRangeChange(text, typed)
	case *protocol.TextDocumentContentChangeEvent:
		return applyRangeChange(text, *typed)
	case map[string]any:
		if replaced, ok := typed["text"].(string); ok {
			return replaced
		}
	}

	return text
}

func applyRangeChange(text string, change protocol.TextDocumentContentChangeEvent) string {
	if change.Range == nil {
		return change.Text
	}

	start := offsetAt(text, change.Range.Start)
	end := max(offsetAt(text, change.Range.End), start)

	return text[:start] + change.Text + text[end:]
}

func (srv *Server) didSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	uri := params.TextDocument.URI

	if params.Text != nil {
		doc, _ := srv.store.Get(uri)
		srv.store.Set(uri, *params.Text, doc.Version)
	}

	if _, ok := srv.store.Get(uri); ok {
		srv.publishDiagnostics(ctx, uri)
	}

	return nil
}

func (srv *Server) didClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI
	srv.store.Delete(uri)

	ctx.Notify(methodPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})

	return nil
}

// publishDiagnostics lints the stored text of uri and sends the result.
func (srv *Server) publishDiagnostics(ctx *glsp.Context, uri string) {
	doc, ok := srv.store.Get(uri)
	if !ok {
		return
	}

	ctx.Notify(methodPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: srv.lint(context.Background(), uri, doc.Text),
	})
}

func (srv *Server) lint(ctx context.Context, uri, text string) []protocol.Diagnostic {
	ctx, span := srv.tracer.Start(ctx, observability.SpanLSPLint, trace.WithAttributes(
		attribute.String("lsp.uri", uri),
	))
	defer span.End()

	done := srv.metrics.TrackInflight(ctx, "lsp.lint")
	defer done()

	start := time.Now()
	res := srv.engine.CheckSource(ctx, pathOf(uri), []byte(text))

	status := observability.StatusOK
	if res.Err != nil {
		status = observability.StatusError

		srv.logger.WarnContext(ctx, "lint failed", "uri", uri, "error", res.Err)
	}

	srv.metrics.RecordRequest(ctx, "lsp.lint", status, time.Since(start))
	srv.store.SetFindings(uri, text, res.Findings)

	span.SetAttributes(attribute.Int("lsp.diagnostics", len(res.Findings)))

	return Diagnostics(text, res.Findings)
}

// pathOf turns a file URI into the path used in rule messages and logs.
func pathOf(uri string) string {
	parsed, err := url.Parse(uri)
	if err != nil || parsed.Scheme != "file" || parsed.Path == "" {
		return uri
	}

	return parsed.Path
}
