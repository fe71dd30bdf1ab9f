package report_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Consensys/errorprone-checks/pkg/analysis"
	"github.com/Consensys/errorprone-checks/pkg/engine"
	"github.com/Consensys/errorprone-checks/pkg/node"
	"github.com/Consensys/errorprone-checks/pkg/report"
)

func sampleResults() []engine.FileResult {
	return []engine.FileResult{
		{
			Path:   "src/A.java",
			Source: []byte(strings.Repeat("x", 1500)),
			Findings: []analysis.Finding{
				{
					Rule:     "JavaCase",
					Message:  "Method names should be lowerCamelCase. Did you mean 'doWork'?",
					Severity: analysis.Warning,
					Span:     node.Span{Start: 12, End: 19, Line: 2, Col: 8},
					Fix:      &analysis.Fix{Span: node.Span{Start: 12, End: 19}, Replacement: "doWork"},
				},
				{
					Rule:     "UseFastutil",
					Message:  "Consider IntArrayList.",
					Severity: analysis.Suggestion,
					Span:     node.Span{Start: 40, End: 57, Line: 3, Col: 20},
				},
			},
		},
		{Path: "src/B.java", Source: []byte(strings.Repeat("y", 500))},
		{Path: "src/C.java", Err: errors.New("read src/C.java: permission denied")},
		{Path: "src/D.java", Skipped: "file exceeds max file size: 2.0 MiB > 1.0 MiB"},
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"text", "TABLE", "json"} {
		_, err := report.ParseFormat(name)
		assert.NoError(t, err, name)
	}

	_, err := report.ParseFormat("sarif")
	require.ErrorIs(t, err, report.ErrUnknownFormat)
	assert.Contains(t, err.Error(), "text, table, json")
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	sum := report.Summarize(sampleResults())

	assert.Equal(t, 4, sum.Units)
	assert.Equal(t, 1, sum.Affected)
	assert.Equal(t, 1, sum.Failed)
	assert.Equal(t, 1, sum.Skipped)
	assert.Equal(t, 2, sum.Findings)
	assert.Equal(t, int64(2000), sum.Bytes)
	assert.Equal(t, 2, sum.Lines)
	assert.Equal(t, map[string]int{"JavaCase": 1, "UseFastutil": 1}, sum.ByRule)
	assert.Equal(t, map[string]int{"warning": 1, "suggestion": 1}, sum.BySeverity)

	assert.Equal(t, "2 findings in 1 of 4 units (2.0 kB) in 1.5s, 1 failed, 1 skipped", sum.Line(1500*time.Millisecond))
	assert.Equal(t, "0 findings in 0 of 1 unit (0 B)", report.Summarize([]engine.FileResult{{Path: "A.java"}}).Line(0))
}

func TestWriteText(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, report.Write(&buf, report.FormatText, sampleResults(), report.Options{NoColor: true}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)

	assert.Equal(t, "src/A.java:2:8: warning: Method names should be lowerCamelCase. Did you mean 'doWork'? [JavaCase]", lines[0])
	assert.Equal(t, "src/A.java:3:20: suggestion: Consider IntArrayList. [UseFastutil]", lines[1])
	assert.Equal(t, "src/C.java: error: read src/C.java: permission denied", lines[2])
	assert.Equal(t, "src/D.java: skipped: file exceeds max file size: 2.0 MiB > 1.0 MiB", lines[3])
	assert.True(t, strings.HasPrefix(lines[4], "2 findings in 1 of 4 units"))
}

func TestWriteTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, report.Write(&buf, report.FormatTable, sampleResults(), report.Options{}))

	out := buf.String()
	assert.Contains(t, out, "SEVERITY")
	assert.Contains(t, out, "Consider IntArrayList.")
	assert.Contains(t, out, "permission denied")
	assert.Contains(t, out, "JavaCase")
	assert.Equal(t, 2, strings.Count(out, "┌"), "findings and totals tables")
}

func TestWriteTableWithoutFindings(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, report.Write(&buf, report.FormatTable, []engine.FileResult{{Path: "A.java"}}, report.Options{}))
	assert.Equal(t, 1, strings.Count(buf.String(), "┌"))
}

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, report.Write(&buf, report.FormatJSON, sampleResults(), report.Options{Elapsed: 2 * time.Second}))

	var doc struct {
		Units []struct {
			Path     string `json:"path"`
			Error    string `json:"error"`
			Skipped  string `json:"skipped"`
			Findings []struct {
				Fix *struct {
					Replacement string `json:"replacement"`
				} `json:"fix"`
				Rule     string `json:"rule"`
				Severity string `json:"severity"`
				Span     struct {
					Line int `json:"line"`
				} `json:"span"`
			} `json:"findings"`
		} `json:"units"`
		Summary struct {
			Findings int `json:"findings"`
		} `json:"summary"`
		ElapsedMS int64 `json:"elapsed_ms"`
	}

	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Units, 4)

	first := doc.Units[0]
	require.Len(t, first.Findings, 2)
	assert.Equal(t, "JavaCase", first.Findings[0].Rule)
	assert.Equal(t, "warning", first.Findings[0].Severity)
	assert.Equal(t, 2, first.Findings[0].Span.Line)
	require.NotNil(t, first.Findings[0].Fix)
	assert.Equal(t, "doWork", first.Findings[0].Fix.Replacement)
	assert.Nil(t, first.Findings[1].Fix)

	assert.NotNil(t, doc.Units[1].Findings)
	assert.Equal(t, "read src/C.java: permission denied", doc.Units[2].Error)
	assert.NotEmpty(t, doc.Units[3].Skipped)
	assert.Equal(t, 2, doc.Summary.Findings)
	assert.Equal(t, int64(2000), doc.ElapsedMS)
}

func TestWriteUnknownFormat(t *testing.T) {
	t.Parallel()

	err := report.Write(&bytes.Buffer{}, report.Format("xml"), nil, report.Options{})
	assert.ErrorIs(t, err, report.ErrUnknownFormat)
}
