package report

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/Consensys/errorprone-checks/pkg/analysis"
	"github.com/Consensys/errorprone-checks/pkg/engine"
)

// Document is the JSON report.
type Document struct {
	Units   []Unit  `json:"units"`
	Summary Summary `json:"summary"`
	// ElapsedMS is the run time in milliseconds, omitted when unknown.
	ElapsedMS int64 `json:"elapsed_ms,omitempty"`
}

// Unit is one compilation unit of the JSON report.
type Unit struct {
	Path         string             `json:"path"`
	Error        string             `json:"error,omitempty"`
	Skipped      string             `json:"skipped,omitempty"`
	Findings     []analysis.Finding `json:"findings"`
	SyntaxErrors int                `json:"syntax_errors,omitempty"`
}

// NewDocument builds the JSON report of results.
func NewDocument(results []engine.FileResult, opts Options) Document {
	doc := Document{
		Units:     make([]Unit, 0, len(results)),
		Summary:   Summarize(results),
		ElapsedMS: opts.Elapsed.Milliseconds(),
	}

	for _, res := range results {
		unit := Unit{
			Path:         res.Path,
			Skipped:      res.Skipped,
			Findings:     res.Findings,
			SyntaxErrors: res.SyntaxErrors,
		}

		if unit.Findings == nil {
			unit.Findings = []analysis.Finding{}
		}

		if res.Err != nil {
			unit.Error = res.Err.Error()
		}

		doc.Units = append(doc.Units, unit)
	}

	return doc
}

func writeJSON(writer io.Writer, results []engine.FileResult, opts Options) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(NewDocument(results, opts)); err != nil {
		return fmt.Errorf("write json: %w", err)
	}

	return nil
}
