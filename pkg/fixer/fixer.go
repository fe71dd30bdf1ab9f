// Package fixer applies the textual fixes carried by findings to a source
// buffer and renders the result as a line diff.
package fixer

import (
	"cmp"
	"errors"
	"slices"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/Consensys/errorprone-checks/pkg/analysis"
	"github.com/Consensys/errorprone-checks/pkg/node"
)

// ErrNoFixes is returned when none of the findings carried an applicable fix.
var ErrNoFixes = errors.New("no applicable fixes found")

// Skip reasons.
const (
	ReasonOverlap    = "overlaps a previously applied fix"
	ReasonOutOfRange = "fix span out of range"
	ReasonNoop       = "replacement equals existing text"
)

// Skipped is a fix that was not applied.
type Skipped struct {
	Reason  string
	Finding analysis.Finding
}

// Result is the outcome of Apply.
type Result struct {
	Output  []byte
	Applied []analysis.Finding
	Skipped []Skipped
}

// Apply replaces the fix spans of findings in src. Fixes are taken in the
// order of their primary span; a fix any of whose edits overlaps an edit
// already taken is skipped as a whole. src is not modified.
func Apply(src []byte, findings []analysis.Finding) (*Result, error) {
	result := &Result{}

	candidates := make([]analysis.Finding, 0, len(findings))

	for _, finding := range findings {
		if finding.Fix == nil {
			continue
		}

		candidates = append(candidates, finding)
	}

	slices.SortStableFunc(candidates, func(left, right analysis.Finding) int {
		return cmp.Or(
			cmp.Compare(left.Fix.Span.Start, right.Fix.Span.Start),
			cmp.Compare(left.Fix.Span.End, right.Fix.Span.End),
			cmp.Compare(left.Rule, right.Rule),
		)
	})

	var taken []analysis.Edit

	for _, finding := range candidates {
		edits, reason := admit(src, taken, finding.Fix.Edits())
		if reason != "" {
			result.Skipped = append(result.Skipped, Skipped{Finding: finding, Reason: reason})

			continue
		}

		taken = append(taken, edits...)
		result.Applied = append(result.Applied, finding)
	}

	result.Output = splice(src, taken)

	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}

	return result, nil
}

// admit checks the edits of one fix against src and the edits already
// taken. It returns the edits that change text, or the reason to skip.
func admit(src []byte, taken, edits []analysis.Edit) ([]analysis.Edit, string) {
	changed := make([]analysis.Edit, 0, len(edits))
	spans := make([]node.Span, 0, len(taken)+len(edits))

	for _, edit := range taken {
		spans = append(spans, edit.Span)
	}

	for _, edit := range edits {
		span := edit.Span

		switch {
		case span.Start < 0 || span.End > len(src) || span.Start > span.End:
			return nil, ReasonOutOfRange
		case conflicts(spans, span):
			return nil, ReasonOverlap
		}

		spans = append(spans, span)

		if string(src[span.Start:span.End]) != edit.Replacement {
			changed = append(changed, edit)
		}
	}

	if len(changed) == 0 {
		return nil, ReasonNoop
	}

	return changed, ""
}

// splice writes src with edits applied. The edits must not overlap.
func splice(src []byte, edits []analysis.Edit) []byte {
	slices.SortStableFunc(edits, func(left, right analysis.Edit) int {
		return cmp.Or(
			cmp.Compare(left.Span.Start, right.Span.Start),
			cmp.Compare(left.Span.End, right.Span.End),
		)
	})

	var (
		out    strings.Builder
		cursor int
	)

	for _, edit := range edits {
		out.Write(src[cursor:edit.Span.Start])
		out.WriteString(edit.Replacement)
		cursor = edit.Span.End
	}

	out.Write(src[cursor:])

	return []byte(out.String())
}

// conflicts treats spans as half-open intervals. Two insertions at the same
// offset never conflict; an insertion conflicts with a span containing it.
func conflicts(taken []node.Span, span node.Span) bool {
	for _, prev := range taken {
		switch {
		case prev.Start == prev.End && span.Start == span.End:
			continue
		case prev.Start == prev.End:
			if span.Start <= prev.Start && prev.Start < span.End {
				return true
			}
		case span.Start == span.End:
			if prev.Start <= span.Start && span.Start < prev.End {
				return true
			}
		case prev.Start < span.End && span.Start < prev.End:
			return true
		}
	}

	return false
}

// Diff renders a line diff of before and after. Unchanged lines are
// prefixed with a space, removed ones with "-", added ones with "+".
func Diff(before, after string) string {
	dmp := diffmatchpatch.New()
	src, dst, lines := dmp.DiffLinesToRunes(before, after)
	diffs := dmp.DiffMainRunes(src, dst, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	var sb strings.Builder

	for _, diff := range diffs {
		prefix := " "

		switch diff.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		case diffmatchpatch.DiffEqual:
		}

		for line := range strings.SplitSeq(strings.TrimSuffix(diff.Text, "\n"), "\n") {
			sb.WriteString(prefix)
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}

	return sb.String()
}
