package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Consensys/errorprone-checks/pkg/analysis"
	"github.com/Consensys/errorprone-checks/pkg/engine"
	"github.com/Consensys/errorprone-checks/pkg/fixer"
	"github.com/Consensys/errorprone-checks/pkg/observability"
	"github.com/Consensys/errorprone-checks/pkg/report"
)

// ExitFindings is the exit code when findings reach the fail-on severity.
const ExitFindings = 1

// CheckCommand holds the flags of the check command.
type CheckCommand struct {
	output  io.Writer
	errOut  io.Writer
	format  string
	failOn  string
	rules   []string
	disable []string
	workers int
	fix     bool
	diff    bool
	noColor bool
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	cc := &CheckCommand{}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Check Java sources against the rules",
		Long: `Check parses every Java compilation unit under the given paths (default: .)
and reports rule findings. Vendored and hidden directories are skipped.

With --fix the suggested replacements are written back to the files; with
--diff they are printed as a diff instead. The exit code is 1 when a finding
at or above --fail-on is reported.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          cc.run,
	}

	flags := cmd.Flags()
	flags.StringVarP(&cc.format, "format", "f", string(report.FormatText), "output format: "+formatNames())
	flags.StringVar(&cc.failOn, "fail-on", "", "lowest severity that fails the run (default from config: warning)")
	flags.StringSliceVarP(&cc.rules, "rules", "r", nil, "rules to run, by name or glob (default: all)")
	flags.StringSliceVarP(&cc.disable, "disable", "d", nil, "rules to skip, by name or glob")
	flags.IntVarP(&cc.workers, "workers", "w", 0, "units analyzed in parallel (default from config: GOMAXPROCS)")
	flags.BoolVar(&cc.fix, "fix", false, "apply suggested fixes in place")
	flags.BoolVar(&cc.diff, "diff", false, "print suggested fixes as a diff")
	flags.BoolVar(&cc.noColor, "no-color", false, "disable colored output")

	return cmd
}

func (cc *CheckCommand) run(cmd *cobra.Command, args []string) error {
	cc.output = cmd.OutOrStdout()
	cc.errOut = cmd.ErrOrStderr()

	format, err := report.ParseFormat(cc.format)
	if err != nil {
		return err
	}

	env, err := newEnv(cmd, observability.ModeCLI)
	if err != nil {
		return err
	}
	defer env.close()

	threshold, err := cc.threshold(env)
	if err != nil {
		return err
	}

	rules, err := cc.selectRules(env)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("workers") {
		env.cfg.Analysis.Workers = cc.workers
	}

	eng, err := env.engine(rules)
	if err != nil {
		return err
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	start := time.Now()

	results, err := eng.Check(cmd.Context(), paths)
	if err != nil {
		return err
	}

	if err := report.Write(cc.output, format, results, report.Options{
		Elapsed: time.Since(start),
		NoColor: cc.noColor,
	}); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if cc.fix || cc.diff {
		if err := cc.applyFixes(results); err != nil {
			return err
		}
	}

	if sev, ok := engine.MaxSeverity(results); ok && sev >= threshold {
		return &ExitError{Code: ExitFindings}
	}

	return nil
}

func (cc *CheckCommand) threshold(env *env) (analysis.Severity, error) {
	if cc.failOn != "" {
		env.cfg.Analysis.FailOn = cc.failOn
	}

	return env.cfg.FailOnSeverity()
}

// selectRules gives --rules precedence over the configured set and unions
// the disabled lists.
func (cc *CheckCommand) selectRules(env *env) ([]*analysis.Rule, error) {
	enabled := env.cfg.Rules.Enabled
	if len(cc.rules) > 0 {
		enabled = cc.rules
	}

	disabled := append(append([]string{}, env.cfg.Rules.Disabled...), cc.disable...)

	rules, err := env.registry.Select(enabled, disabled)
	if err != nil {
		return nil, fmt.Errorf("select rules: %w", err)
	}

	if len(rules) == 0 {
		return nil, ErrNoRules
	}

	return rules, nil
}

// ErrNoRules is returned when the selection leaves nothing to run.
var ErrNoRules = errors.New("no rules selected")

func (cc *CheckCommand) applyFixes(results []engine.FileResult) error {
	var fixedUnits, fixedFindings int

	for _, res := range results {
		if res.Err != nil || res.Skipped != "" || len(res.Findings) == 0 {
			continue
		}

		fixed, err := fixer.Apply(res.Source, res.Findings)
		if errors.Is(err, fixer.ErrNoFixes) {
			continue
		}

		if err != nil {
			return fmt.Errorf("fix %s: %w", res.Path, err)
		}

		if cc.diff {
			fmt.Fprintf(cc.output, "--- %s\n+++ %s\n%s", res.Path, res.Path, fixer.Diff(string(res.Source), string(fixed.Output)))
		}

		if cc.fix {
			if err := writeInPlace(res.Path, fixed.Output); err != nil {
				return err
			}
		}

		fixedUnits++
		fixedFindings += len(fixed.Applied)

		for _, skipped := range fixed.Skipped {
			fmt.Fprintf(cc.errOut, "%s:%d:%d: fix not applied: %s [%s]\n", res.Path,
				skipped.Finding.Span.Line, skipped.Finding.Span.Col, skipped.Reason, skipped.Finding.Rule)
		}
	}

	if cc.fix {
		fmt.Fprintf(cc.errOut, "fixed %d %s in %d %s\n", fixedFindings, plural(fixedFindings, "finding"),
			fixedUnits, plural(fixedUnits, "file"))
	}

	return nil
}

func writeInPlace(path string, content []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	if err := os.WriteFile(path, content, info.Mode().Perm()); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}

func plural(count int, noun string) string {
	if count == 1 {
		return noun
	}

	return noun + "s"
}

// formatNames lists the formats for help text.
func formatNames() string {
	names := make([]string, len(report.Formats))
	for idx, format := range report.Formats {
		names[idx] = string(format)
	}

	return strings.Join(names, ", ")
}
