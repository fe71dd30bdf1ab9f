package report

import (
	"fmt"
	"io"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Consensys/errorprone-checks/pkg/engine"
)

// writeTable renders a findings table followed by per-rule totals.
func writeTable(writer io.Writer, results []engine.FileResult, opts Options) error {
	findings := table.NewWriter()
	findings.SetOutputMirror(writer)
	findings.SetStyle(table.StyleLight)
	findings.Style().Options.SeparateRows = false
	findings.AppendHeader(table.Row{"File", "Line", "Col", "Severity", "Rule", "Message"})

	for _, res := range results {
		if line, ok := unitProblem(res); ok {
			findings.AppendRow(table.Row{res.Path, "", "", "", "", line})
		}

		for _, finding := range res.Findings {
			findings.AppendRow(table.Row{
				res.Path, finding.Span.Line, finding.Span.Col,
				finding.Severity.String(), finding.Rule, finding.Message,
			})
		}
	}

	sum := Summarize(results)
	findings.AppendFooter(table.Row{"", "", "", "", "", sum.Line(opts.Elapsed)})
	findings.Render()

	if len(sum.ByRule) == 0 {
		return nil
	}

	totals := table.NewWriter()
	totals.SetOutputMirror(writer)
	totals.SetStyle(table.StyleLight)
	totals.AppendHeader(table.Row{"Rule", "Findings"})

	rules := make([]string, 0, len(sum.ByRule))
	for rule := range sum.ByRule {
		rules = append(rules, rule)
	}

	slices.Sort(rules)

	for _, rule := range rules {
		totals.AppendRow(table.Row{rule, humanize.Comma(int64(sum.ByRule[rule]))})
	}

	for _, sev := range severityOrder {
		if count := sum.BySeverity[sev.String()]; count > 0 {
			totals.AppendFooter(table.Row{sev.String(), humanize.Comma(int64(count))})
		}
	}

	if _, err := fmt.Fprintln(writer); err != nil {
		return fmt.Errorf("write table: %w", err)
	}

	totals.Render()

	return nil
}
