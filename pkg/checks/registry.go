package checks

import (
	"errors"
	"fmt"
	pathpkg "path"
	"strings"

	"github.com/Consensys/errorprone-checks/pkg/analysis"
	"github.com/Consensys/errorprone-checks/pkg/levenshtein"
)

// Registry errors.
var (
	ErrUnknownRule   = errors.New("unknown rule")
	ErrDuplicateRule = errors.New("duplicate rule")
	ErrInvalidGlob   = errors.New("invalid rule glob")
)

// Registry indexes rules by name with deterministic ordering.
type Registry struct {
	index   map[string]*analysis.Rule
	ordered []*analysis.Rule
}

// NewRegistry builds a registry, rejecting duplicate names.
func NewRegistry(rules []*analysis.Rule) (*Registry, error) {
	reg := &Registry{
		ordered: make([]*analysis.Rule, 0, len(rules)),
		index:   make(map[string]*analysis.Rule, len(rules)),
	}

	for _, rule := range rules {
		if _, exists := reg.index[rule.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRule, rule.Name)
		}

		reg.index[rule.Name] = rule
		reg.ordered = append(reg.ordered, rule)
	}

	return reg, nil
}

// All returns the registered rules in registration order.
func (reg *Registry) All() []*analysis.Rule {
	out := make([]*analysis.Rule, len(reg.ordered))
	copy(out, reg.ordered)

	return out
}

// Rule returns the rule registered under name.
func (reg *Registry) Rule(name string) (*analysis.Rule, bool) {
	rule, ok := reg.index[name]

	return rule, ok
}

// Names returns the registered names in order.
func (reg *Registry) Names() []string {
	names := make([]string, 0, len(reg.ordered))
	for _, rule := range reg.ordered {
		names = append(names, rule.Name)
	}

	return names
}

// Select returns the rules matching enabled (every rule when empty) minus
// those matching disabled. Patterns are exact names or path.Match globs.
func (reg *Registry) Select(enabled, disabled []string) ([]*analysis.Rule, error) {
	keep := reg.Names()

	if len(enabled) > 0 {
		expanded, err := reg.expand(enabled)
		if err != nil {
			return nil, err
		}

		keep = expanded
	}

	drop, err := reg.expand(disabled)
	if err != nil {
		return nil, err
	}

	dropped := make(map[string]struct{}, len(drop))
	for _, name := range drop {
		dropped[name] = struct{}{}
	}

	out := make([]*analysis.Rule, 0, len(keep))

	for _, name := range keep {
		if _, skip := dropped[name]; !skip {
			out = append(out, reg.index[name])
		}
	}

	return out, nil
}

func (reg *Registry) expand(patterns []string) ([]string, error) {
	selected := make([]string, 0, len(reg.ordered))
	seen := make(map[string]struct{}, len(reg.ordered))

	for _, raw := range patterns {
		pattern := strings.TrimSpace(raw)

		names, err := reg.resolve(pattern)
		if err != nil {
			return nil, err
		}

		for _, name := range names {
			if _, dup := seen[name]; dup {
				continue
			}

			seen[name] = struct{}{}
			selected = append(selected, name)
		}
	}

	return selected, nil
}

func (reg *Registry) resolve(pattern string) ([]string, error) {
	if pattern == "" {
		return nil, fmt.Errorf("%w: empty name", ErrUnknownRule)
	}

	if !strings.ContainsAny(pattern, "*?[") {
		if _, ok := reg.index[pattern]; !ok {
			return nil, reg.unknown(pattern)
		}

		return []string{pattern}, nil
	}

	var matched []string

	for _, rule := range reg.ordered {
		ok, err := pathpkg.Match(pattern, rule.Name)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrInvalidGlob, pattern, err)
		}

		if ok {
			matched = append(matched, rule.Name)
		}
	}

	if len(matched) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRule, pattern)
	}

	return matched, nil
}

// unknown builds the error for an unregistered name, with a hint when a
// registered name is a near miss.
func (reg *Registry) unknown(name string) error {
	lctx := &levenshtein.Context{}

	if hint, ok := lctx.Closest(name, reg.Names()); ok {
		return fmt.Errorf("%w: %s (did you mean %s?)", ErrUnknownRule, name, hint)
	}

	return fmt.Errorf("%w: %s", ErrUnknownRule, name)
}
