package analysis

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/Consensys/errorprone-checks/pkg/node"
)

// Rule is a named check registered for a set of node kinds.
type Rule struct {
	// Check inspects one node of a registered kind and optionally reports it.
	Check    func(n *node.Node, ctx *Context) (Finding, bool)
	Name     string
	Summary  string
	Kinds    []node.Kind
	Severity Severity
}

// ErrRulePanic wraps a panic recovered from a rule's Check.
var ErrRulePanic = errors.New("rule panicked")

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the logger used for recovered rule panics.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(runner *Runner) {
		runner.logger = logger
	}
}

// WithPanicHook registers a callback for recovered rule panics.
func WithPanicHook(hook func(rule string, err error)) RunnerOption {
	return func(runner *Runner) {
		runner.onPanic = hook
	}
}

// Runner dispatches rules over compilation units. It holds no per-unit state
// and may be shared by concurrent callers.
type Runner struct {
	logger   *slog.Logger
	onPanic  func(rule string, err error)
	rules    []*Rule
	dispatch [node.NumKinds][]*Rule
}

// NewRunner indexes rules by the node kinds they register for.
func NewRunner(rules []*Rule, opts ...RunnerOption) *Runner {
	runner := &Runner{rules: rules, logger: slog.Default()}

	for _, opt := range opts {
		opt(runner)
	}

	for _, rule := range rules {
		for _, kind := range rule.Kinds {
			if kind < node.NumKinds {
				runner.dispatch[kind] = append(runner.dispatch[kind], rule)
			}
		}
	}

	return runner
}

// Rules returns the registered rules in registration order.
func (runner *Runner) Rules() []*Rule {
	return runner.rules
}

// Run walks root once and returns the findings sorted by position.
func (runner *Runner) Run(root *node.Node, host Host) []Finding {
	var findings []Finding

	node.Walk(root, func(path node.Path) bool {
		current := path.Leaf()

		for _, rule := range runner.dispatch[current.Kind] {
			if finding, ok := runner.check(rule, current, NewContext(host, path)); ok {
				findings = append(findings, finding)
			}
		}

		return true
	})

	SortFindings(findings)

	return findings
}

func (runner *Runner) check(rule *Rule, current *node.Node, ctx *Context) (finding Finding, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			err := fmt.Errorf("%w: %s: %v", ErrRulePanic, rule.Name, rec)
			runner.logger.Warn("rule check recovered",
				"rule", rule.Name, "kind", current.Kind.String(),
				"line", current.Span.Line, "error", err)

			if runner.onPanic != nil {
				runner.onPanic(rule.Name, err)
			}

			finding, ok = Finding{}, false
		}
	}()

	finding, ok = rule.Check(current, ctx)
	if !ok {
		return Finding{}, false
	}

	finding.Rule = rule.Name
	finding.Severity = rule.Severity

	if finding.Node == nil {
		finding.Node = current
	}

	if finding.Span.IsZero() {
		finding.Span = finding.Node.Span
	}

	return finding, true
}

// SortFindings orders findings by span start, span end, then rule name.
func SortFindings(findings []Finding) {
	slices.SortStableFunc(findings, func(left, right Finding) int {
		return cmp.Or(
			cmp.Compare(left.Span.Start, right.Span.Start),
			cmp.Compare(left.Span.End, right.Span.End),
			cmp.Compare(left.Rule, right.Rule),
		)
	})
}
