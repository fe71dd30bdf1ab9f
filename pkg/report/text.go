package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/Consensys/errorprone-checks/pkg/analysis"
	"github.com/Consensys/errorprone-checks/pkg/engine"
)

type palette struct {
	severity map[analysis.Severity]*color.Color
	location *color.Color
	rule     *color.Color
	problem  *color.Color
}

func newPalette(noColor bool) palette {
	pal := palette{
		severity: map[analysis.Severity]*color.Color{
			analysis.Error:      color.New(color.FgRed, color.Bold),
			analysis.Warning:    color.New(color.FgYellow),
			analysis.Suggestion: color.New(color.FgCyan),
		},
		location: color.New(color.Bold),
		rule:     color.New(color.Faint),
		problem:  color.New(color.FgMagenta),
	}

	if noColor {
		for _, c := range pal.severity {
			c.DisableColor()
		}

		pal.location.DisableColor()
		pal.rule.DisableColor()
		pal.problem.DisableColor()
	}

	return pal
}

// writeText prints one line per finding in compiler style,
// "path:line:col: severity: message [Rule]", then the summary.
func writeText(writer io.Writer, results []engine.FileResult, opts Options) error {
	pal := newPalette(opts.NoColor)

	for _, res := range results {
		if line, ok := unitProblem(res); ok {
			if _, err := fmt.Fprintf(writer, "%s: %s\n", pal.location.Sprint(res.Path), pal.problem.Sprint(line)); err != nil {
				return fmt.Errorf("write text: %w", err)
			}
		}

		for _, finding := range res.Findings {
			_, err := fmt.Fprintf(writer, "%s: %s: %s %s\n",
				pal.location.Sprintf("%s:%d:%d", res.Path, finding.Span.Line, finding.Span.Col),
				pal.severity[finding.Severity].Sprint(finding.Severity),
				finding.Message,
				pal.rule.Sprintf("[%s]", finding.Rule),
			)
			if err != nil {
				return fmt.Errorf("write text: %w", err)
			}
		}
	}

	if _, err := fmt.Fprintln(writer, Summarize(results).Line(opts.Elapsed)); err != nil {
		return fmt.Errorf("write text: %w", err)
	}

	return nil
}

// unitProblem describes a unit that failed or was skipped.
func unitProblem(res engine.FileResult) (string, bool) {
	switch {
	case res.Err != nil:
		return "error: " + res.Err.Error(), true
	case res.Skipped != "":
		return "skipped: " + res.Skipped, true
	default:
		return "", false
	}
}
