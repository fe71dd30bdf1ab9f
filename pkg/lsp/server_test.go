package lsp_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/Consensys/errorprone-checks/pkg/checks"
	"github.com/Consensys/errorprone-checks/pkg/engine"
	"github.com/Consensys/errorprone-checks/pkg/javasrc"
	"github.com/Consensys/errorprone-checks/pkg/lsp"
	"github.com/Consensys/errorprone-checks/pkg/tables"
)

const (
	testURI = "file:///work/A.java"
	badCase = "class A {\n  void Do_Work() {}\n}\n"
	clean   = "class A {\n  void doWork() {}\n}\n"
)

type recorder struct {
	published []*protocol.PublishDiagnosticsParams
	mu        sync.Mutex
}

func (rec *recorder) context() *glsp.Context {
	return &glsp.Context{
		Notify: func(method string, params any) {
			if method != "textDocument/publishDiagnostics" {
				return
			}

			rec.mu.Lock()
			defer rec.mu.Unlock()

			rec.published = append(rec.published, params.(*protocol.PublishDiagnosticsParams))
		},
	}
}

func (rec *recorder) last(t *testing.T) *protocol.PublishDiagnosticsParams {
	t.Helper()

	rec.mu.Lock()
	defer rec.mu.Unlock()

	require.NotEmpty(t, rec.published)

	return rec.published[len(rec.published)-1]
}

func newServer() *lsp.Server {
	tabs := tables.Default()
	parser := javasrc.NewParser(javasrc.WithHierarchy(tabs.Hierarchy()))

	return lsp.NewServer(engine.New(parser, checks.All(tabs)))
}

func open(t *testing.T, srv *lsp.Server, rec *recorder, text string) {
	t.Helper()

	err := srv.Handler().TextDocumentDidOpen(rec.context(), &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: testURI, LanguageID: "java", Version: 1, Text: text},
	})
	require.NoError(t, err)
}

func TestInitializeAdvertisesFullSync(t *testing.T) {
	t.Parallel()

	result, err := newServer().Handler().Initialize(&glsp.Context{}, &protocol.InitializeParams{})
	require.NoError(t, err)

	init, ok := result.(protocol.InitializeResult)
	require.True(t, ok)
	require.NotNil(t, init.ServerInfo)
	assert.Equal(t, "epcheck", init.ServerInfo.Name)

	syncOpts, ok := init.Capabilities.TextDocumentSync.(*protocol.TextDocumentSyncOptions)
	require.True(t, ok)
	require.NotNil(t, syncOpts.Change)
	assert.Equal(t, protocol.TextDocumentSyncKindFull, *syncOpts.Change)
	assert.NotNil(t, init.Capabilities.CodeActionProvider)
	assert.NotNil(t, init.Capabilities.HoverProvider)
}

func TestDidOpenPublishesDiagnostics(t *testing.T) {
	t.Parallel()

	srv := newServer()
	rec := &recorder{}

	open(t, srv, rec, badCase)

	params := rec.last(t)
	assert.Equal(t, testURI, params.URI)
	require.Len(t, params.Diagnostics, 1)

	diag := params.Diagnostics[0]
	assert.Equal(t, checks.NameJavaCase, diag.Code.Value)
	require.NotNil(t, diag.Source)
	assert.Equal(t, "epcheck", *diag.Source)
	require.NotNil(t, diag.Severity)
	assert.Equal(t, protocol.DiagnosticSeverityInformation, *diag.Severity)
	assert.Equal(t, protocol.Position{Line: 1, Character: 7}, diag.Range.Start)
	assert.Equal(t, protocol.Position{Line: 1, Character: 14}, diag.Range.End)

	doc, ok := srv.Store().Get(testURI)
	require.True(t, ok)
	assert.Len(t, doc.Findings, 1)
}

func TestDidChangeRelints(t *testing.T) {
	t.Parallel()

	srv := newServer()
	rec := &recorder{}

	open(t, srv, rec, badCase)

	err := srv.Handler().TextDocumentDidChange(rec.context(), &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: testURI},
			Version:                2,
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: clean}},
	})
	require.NoError(t, err)

	assert.Empty(t, rec.last(t).Diagnostics)

	doc, ok := srv.Store().Get(testURI)
	require.True(t, ok)
	assert.Equal(t, int32(2), doc.Version)
}

func TestDidChangeAppliesRangeEdits(t *testing.T) {
	t.Parallel()

	srv := newServer()
	rec := &recorder{}

	open(t, srv, rec, badCase)

	// Replace "Do_Work" with "doWork".
	editRange := protocol.Range{
		Start: protocol.Position{Line: 1, Character: 7},
		End:   protocol.Position{Line: 1, Character: 14},
	}

	err := srv.Handler().TextDocumentDidChange(rec.context(), &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: testURI},
			Version:                2,
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEvent{Range: &editRange, Text: "doWork"}},
	})
	require.NoError(t, err)

	doc, ok := srv.Store().Get(testURI)
	require.True(t, ok)
	assert.Equal(t, clean, doc.Text)
	assert.Empty(t, rec.last(t).Diagnostics)
}

func TestDidCloseClearsDiagnostics(t *testing.T) {
	t.Parallel()

	srv := newServer()
	rec := &recorder{}

	open(t, srv, rec, badCase)

	err := srv.Handler().TextDocumentDidClose(rec.context(), &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
	})
	require.NoError(t, err)

	assert.Empty(t, rec.last(t).Diagnostics)
	assert.Equal(t, 0, srv.Store().Len())
}

func TestCodeActionOffersQuickFix(t *testing.T) {
	t.Parallel()

	srv := newServer()
	rec := &recorder{}

	open(t, srv, rec, badCase)

	result, err := srv.Handler().TextDocumentCodeAction(rec.context(), &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
		Range: protocol.Range{
			Start: protocol.Position{Line: 1, Character: 9},
			End:   protocol.Position{Line: 1, Character: 9},
		},
	})
	require.NoError(t, err)

	actions, ok := result.([]protocol.CodeAction)
	require.True(t, ok)
	require.Len(t, actions, 1)

	action := actions[0]
	require.NotNil(t, action.Kind)
	assert.Equal(t, protocol.CodeActionKindQuickFix, *action.Kind)
	require.NotNil(t, action.Edit)

	edits := action.Edit.Changes[testURI]
	require.Len(t, edits, 1)
	assert.Equal(t, "doWork", edits[0].NewText)
	assert.Equal(t, protocol.Position{Line: 1, Character: 7}, edits[0].Range.Start)
}

func TestCodeActionOutsideFindingIsEmpty(t *testing.T) {
	t.Parallel()

	srv := newServer()
	rec := &recorder{}

	open(t, srv, rec, badCase)

	result, err := srv.Handler().TextDocumentCodeAction(rec.context(), &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
		Range:        protocol.Range{Start: protocol.Position{Line: 2}, End: protocol.Position{Line: 2}},
	})
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestHoverShowsRule(t *testing.T) {
	t.Parallel()

	srv := newServer()
	rec := &recorder{}

	open(t, srv, rec, badCase)

	hover, err := srv.Handler().TextDocumentHover(rec.context(), &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
			Position:     protocol.Position{Line: 1, Character: 8},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, hover)

	content, ok := hover.Contents.(protocol.MarkupContent)
	require.True(t, ok)
	assert.Contains(t, content.Value, checks.NameJavaCase)

	none, err := srv.Handler().TextDocumentHover(rec.context(), &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
			Position:     protocol.Position{Line: 0, Character: 0},
		},
	})
	require.NoError(t, err)
	assert.Nil(t, none)
}
