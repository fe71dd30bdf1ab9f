// Package testjava runs rules over Java fixtures kept as txtar archives.
//
// Every file ending in .java is parsed and analyzed on its own. A comment
// of the form
//
//	// want "substring" "another"
//
// expects one finding per quoted string on that line, each message
// containing its substring. A member named X.java.fixed holds the source
// of X.java after all fixes are applied.
package testjava

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/Consensys/errorprone-checks/pkg/analysis"
	"github.com/Consensys/errorprone-checks/pkg/fixer"
	"github.com/Consensys/errorprone-checks/pkg/javasrc"
	"github.com/Consensys/errorprone-checks/pkg/tables"
)

const fixedSuffix = ".fixed"

var (
	wantPattern   = regexp.MustCompile(`//\s*want\s+(.*)$`)
	quotedPattern = regexp.MustCompile(`"(?:[^"\\]|\\.)*"`)
)

// expectation is one wanted finding.
type expectation struct {
	substring string
	line      int
	matched   bool
}

// Run checks the fixtures of the archive at path against rules and returns
// the findings per file name.
func Run(t *testing.T, path string, rules ...*analysis.Rule) map[string][]analysis.Finding {
	t.Helper()

	archive, err := txtar.ParseFile(path)
	require.NoError(t, err)

	return RunArchive(t, archive, rules...)
}

// RunSource checks a single inline compilation unit.
func RunSource(t *testing.T, src string, rules ...*analysis.Rule) []analysis.Finding {
	t.Helper()

	archive := &txtar.Archive{Files: []txtar.File{{Name: "Inline.java", Data: []byte(src)}}}

	return RunArchive(t, archive, rules...)["Inline.java"]
}

// RunArchive is Run over a parsed archive.
func RunArchive(t *testing.T, archive *txtar.Archive, rules ...*analysis.Rule) map[string][]analysis.Finding {
	t.Helper()

	fixed := make(map[string]string)

	for _, file := range archive.Files {
		if name, ok := strings.CutSuffix(file.Name, fixedSuffix); ok {
			fixed[name] = string(file.Data)
		}
	}

	parser := javasrc.NewParser(javasrc.WithHierarchy(tables.Default().Hierarchy()))
	runner := analysis.NewRunner(rules, analysis.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		analysis.WithPanicHook(func(rule string, err error) {
			t.Errorf("rule %s panicked: %v", rule, err)
		}))

	out := make(map[string][]analysis.Finding)

	for _, file := range archive.Files {
		if !strings.HasSuffix(file.Name, ".java") {
			continue
		}

		unit, err := parser.Parse(context.Background(), file.Name, file.Data)
		require.NoError(t, err, file.Name)
		assert.Zero(t, unit.SyntaxErrors, "%s: fixture does not parse cleanly", file.Name)

		findings := runner.Run(unit.Root, unit)
		out[file.Name] = findings

		check(t, file.Name, parseExpectations(t, file.Name, file.Data), findings)

		if want, ok := fixed[file.Name]; ok {
			result, err := fixer.Apply(file.Data, findings)
			require.NoError(t, err, "%s: no fixes applied", file.Name)
			assert.Equal(t, want, string(result.Output), "%s: fixed source\n%s", file.Name,
				fixer.Diff(want, string(result.Output)))
		}
	}

	return out
}

func parseExpectations(t *testing.T, name string, data []byte) []*expectation {
	t.Helper()

	var out []*expectation

	for idx, line := range strings.Split(string(data), "\n") {
		match := wantPattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}

		quoted := quotedPattern.FindAllString(match[1], -1)
		require.NotEmpty(t, quoted, "%s:%d: want without quoted message", name, idx+1)

		for _, text := range quoted {
			substring, err := strconv.Unquote(text)
			require.NoError(t, err, "%s:%d", name, idx+1)

			out = append(out, &expectation{substring: substring, line: idx + 1})
		}
	}

	return out
}

func check(t *testing.T, name string, wants []*expectation, findings []analysis.Finding) {
	t.Helper()

	for _, finding := range findings {
		if !claim(wants, finding) {
			t.Errorf("%s:%d: unexpected finding %s: %s", name, finding.Span.Line, finding.Rule, finding.Message)
		}
	}

	for _, want := range wants {
		if !want.matched {
			t.Errorf("%s:%d: missing finding containing %q", name, want.line, want.substring)
		}
	}
}

func claim(wants []*expectation, finding analysis.Finding) bool {
	for _, want := range wants {
		if want.matched || want.line != finding.Span.Line {
			continue
		}

		if strings.Contains(finding.Message, want.substring) {
			want.matched = true

			return true
		}
	}

	return false
}

// Describe renders findings one per line for failure messages.
func Describe(findings []analysis.Finding) string {
	var sb strings.Builder

	for _, finding := range findings {
		fmt.Fprintf(&sb, "%d:%d %s %s\n", finding.Span.Line, finding.Span.Col, finding.Rule, finding.Message)
	}

	return sb.String()
}
