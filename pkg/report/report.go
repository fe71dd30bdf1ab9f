// Package report renders engine results as text, a table or JSON.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Consensys/errorprone-checks/pkg/analysis"
	"github.com/Consensys/errorprone-checks/pkg/engine"
	"github.com/Consensys/errorprone-checks/pkg/safeconv"
	"github.com/Consensys/errorprone-checks/pkg/textutil"
)

// Format selects a renderer.
type Format string

// Supported formats.
const (
	FormatText  Format = "text"
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// Formats lists the supported formats in help order.
var Formats = []Format{FormatText, FormatTable, FormatJSON}

// ErrUnknownFormat is returned by ParseFormat for unsupported names.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat maps a flag value to a Format.
func ParseFormat(name string) (Format, error) {
	for _, format := range Formats {
		if strings.EqualFold(string(format), name) {
			return format, nil
		}
	}

	return "", fmt.Errorf("%w: %q (want one of %s)", ErrUnknownFormat, name, formatList())
}

func formatList() string {
	names := make([]string, len(Formats))
	for idx, format := range Formats {
		names[idx] = string(format)
	}

	return strings.Join(names, ", ")
}

// Options tune rendering.
type Options struct {
	// Elapsed is the wall time of the run, shown in the summary when set.
	Elapsed time.Duration
	// NoColor disables ANSI colors in text output.
	NoColor bool
}

// Write renders results in format to writer.
func Write(writer io.Writer, format Format, results []engine.FileResult, opts Options) error {
	switch format {
	case FormatText:
		return writeText(writer, results, opts)
	case FormatTable:
		return writeTable(writer, results, opts)
	case FormatJSON:
		return writeJSON(writer, results, opts)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Summary aggregates a run.
type Summary struct {
	BySeverity map[string]int `json:"by_severity"`
	ByRule     map[string]int `json:"by_rule"`
	Units      int            `json:"units"`
	Affected   int            `json:"affected_units"`
	Failed     int            `json:"failed_units"`
	Skipped    int            `json:"skipped_units"`
	Findings   int            `json:"findings"`
	Lines      int            `json:"lines"`
	Bytes      int64          `json:"bytes"`
}

// Summarize counts findings and unit outcomes.
func Summarize(results []engine.FileResult) Summary {
	sum := Summary{
		BySeverity: make(map[string]int),
		ByRule:     make(map[string]int),
		Units:      len(results),
	}

	for _, res := range results {
		sum.Bytes += int64(len(res.Source))
		sum.Lines += textutil.CountLines(res.Source)

		switch {
		case res.Err != nil:
			sum.Failed++
		case res.Skipped != "":
			sum.Skipped++
		}

		if len(res.Findings) > 0 {
			sum.Affected++
		}

		for _, finding := range res.Findings {
			sum.Findings++
			sum.ByRule[finding.Rule]++
			sum.BySeverity[finding.Severity.String()]++
		}
	}

	return sum
}

// Line renders the one-line summary, e.g.
// "3 findings in 2 of 1,204 units (48 kB) in 1.2s".
func (sum Summary) Line(elapsed time.Duration) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s %s in %s of %s %s (%s)",
		humanize.Comma(int64(sum.Findings)), plural(sum.Findings, "finding", "findings"),
		humanize.Comma(int64(sum.Affected)), humanize.Comma(int64(sum.Units)),
		plural(sum.Units, "unit", "units"), humanize.Bytes(safeconv.Uint64(sum.Bytes)))

	if elapsed > 0 {
		fmt.Fprintf(&sb, " in %s", elapsed.Round(time.Millisecond))
	}

	if sum.Failed > 0 {
		fmt.Fprintf(&sb, ", %s failed", humanize.Comma(int64(sum.Failed)))
	}

	if sum.Skipped > 0 {
		fmt.Fprintf(&sb, ", %s skipped", humanize.Comma(int64(sum.Skipped)))
	}

	return sb.String()
}

func plural(count int, one, many string) string {
	if count == 1 {
		return one
	}

	return many
}

// severityOrder lists severities from most to least important.
var severityOrder = []analysis.Severity{analysis.Error, analysis.Warning, analysis.Suggestion}
