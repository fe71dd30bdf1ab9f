package lsp

import (
	"fmt"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/Consensys/errorprone-checks/pkg/analysis"
	"github.com/Consensys/errorprone-checks/pkg/fixer"
)

const kindSourceFixAll = protocol.CodeActionKind("source.fixAll")

// Diagnostics converts findings over text into LSP diagnostics.
func Diagnostics(text string, findings []analysis.Finding) []protocol.Diagnostic {
	out := make([]protocol.Diagnostic, 0, len(findings))

	for _, finding := range findings {
		out = append(out, diagnosticOf(text, finding))
	}

	return out
}

func diagnosticOf(text string, finding analysis.Finding) protocol.Diagnostic {
	severity := severityOf(finding.Severity)
	source := diagnosticSource

	return protocol.Diagnostic{
		Range:    rangeOf(text, finding.Span.Start, finding.Span.End),
		Severity: &severity,
		Code:     &protocol.IntegerOrString{Value: finding.Rule},
		Source:   &source,
		Message:  finding.Message,
	}
}

func severityOf(sev analysis.Severity) protocol.DiagnosticSeverity {
	switch sev {
	case analysis.Error:
		return protocol.DiagnosticSeverityError
	case analysis.Warning:
		return protocol.DiagnosticSeverityWarning
	default:
		return protocol.DiagnosticSeverityInformation
	}
}

// CodeActions returns one quick fix per fixable finding overlapping
// requested, plus a fix-all action when more than one fix applies.
func CodeActions(uri, text string, findings []analysis.Finding, requested protocol.Range) []protocol.CodeAction {
	var actions []protocol.CodeAction

	for _, finding := range findings {
		if finding.Fix == nil {
			continue
		}

		if !overlaps(requested, rangeOf(text, finding.Span.Start, finding.Span.End)) {
			continue
		}

		kind := protocol.CodeActionKindQuickFix
		preferred := true

		actions = append(actions, protocol.CodeAction{
			Title:       fixTitle(finding),
			Kind:        &kind,
			Diagnostics: []protocol.Diagnostic{diagnosticOf(text, finding)},
			IsPreferred: &preferred,
			Edit:        editOf(uri, text, []analysis.Finding{finding}),
		})
	}

	if all, ok := fixAll(uri, text, findings); ok {
		actions = append(actions, all)
	}

	return actions
}

func fixTitle(finding analysis.Finding) string {
	if finding.Fix.Replacement == "" {
		return fmt.Sprintf("%s: remove", finding.Rule)
	}

	return fmt.Sprintf("%s: replace with %q", finding.Rule, finding.Fix.Replacement)
}

// fixAll bundles every non-overlapping fix of the document.
func fixAll(uri, text string, findings []analysis.Finding) (protocol.CodeAction, bool) {
	res, err := fixer.Apply([]byte(text), findings)
	if err != nil || len(res.Applied) < 2 {
		return protocol.CodeAction{}, false
	}

	kind := kindSourceFixAll

	return protocol.CodeAction{
		Title: fmt.Sprintf("Apply all %d epcheck fixes", len(res.Applied)),
		Kind:  &kind,
		Edit:  editOf(uri, text, res.Applied),
	}, true
}

func editOf(uri, text string, findings []analysis.Finding) *protocol.WorkspaceEdit {
	edits := make([]protocol.TextEdit, 0, len(findings))

	for _, finding := range findings {
		for _, edit := range finding.Fix.Edits() {
			edits = append(edits, protocol.TextEdit{
				Range:   rangeOf(text, edit.Span.Start, edit.Span.End),
				NewText: edit.Replacement,
			})
		}
	}

	return &protocol.WorkspaceEdit{
		Changes: map[protocol.DocumentUri][]protocol.TextEdit{uri: edits},
	}
}

func (srv *Server) codeAction(_ *glsp.Context, params *protocol.CodeActionParams) (any, error) {
	doc, ok := srv.store.Get(params.TextDocument.URI)
	if !ok {
		return nil, nil //nolint:nilnil // LSP expects null when the document is unknown.
	}

	return CodeActions(params.TextDocument.URI, doc.Text, doc.Findings, params.Range), nil
}

func (srv *Server) hover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc, ok := srv.store.Get(params.TextDocument.URI)
	if !ok {
		return nil, nil //nolint:nilnil // LSP expects null hover when no document found.
	}

	at := protocol.Range{Start: params.Position, End: params.Position}

	for _, finding := range doc.Findings {
		findingRange := rangeOf(doc.Text, finding.Span.Start, finding.Span.End)
		if !overlaps(at, findingRange) {
			continue
		}

		return &protocol.Hover{
			Contents: protocol.MarkupContent{
				Kind:  protocol.MarkupKindMarkdown,
				Value: fmt.Sprintf("**%s** (%s)\n\n%s", finding.Rule, finding.Severity, srv.rules[finding.Rule]),
			},
			Range: &findingRange,
		}, nil
	}

	return nil, nil //nolint:nilnil // LSP expects null hover when no finding is under the cursor.
}
