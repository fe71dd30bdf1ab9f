package checks

import (
	"strconv"
	"strings"

	"github.com/Consensys/errorprone-checks/pkg/analysis"
	"github.com/Consensys/errorprone-checks/pkg/node"
)

const (
	experimentalPrefix     = "--X"
	besuCommandClass       = "BesuCommand"
	experimentalOptMessage = "Experimental options must be hidden and not present in the BesuCommand class."
)

// ExperimentalCliOptionMustBeCorrectlyDisplayed reports picocli options
// named --X... that are visible in the help output or declared directly on
// BesuCommand.
func ExperimentalCliOptionMustBeCorrectlyDisplayed() *analysis.Rule {
	return &analysis.Rule{
		Name:     NameExperimentalCliOptionDisplayed,
		Summary:  experimentalOptMessage,
		Severity: analysis.Warning,
		Kinds:    []node.Kind{node.Variable},
		Check: func(decl *node.Node, ctx *analysis.Context) (analysis.Finding, bool) {
			option, ok := decl.Annotation("Option")
			if !ok || !isExperimental(option) {
				return analysis.Finding{}, false
			}

			if isHidden(option) && !inBesuCommand(ctx) {
				return analysis.Finding{}, false
			}

			finding := analysis.NewFinding(decl, experimentalOptMessage)
			if !decl.NameSpan.IsZero() {
				finding.Span = decl.NameSpan
			}

			return finding, true
		},
	}
}

func isExperimental(option *node.Node) bool {
	for _, name := range stringValues(option.Element("names")) {
		if strings.HasPrefix(name, experimentalPrefix) {
			return true
		}
	}

	return false
}

func isHidden(option *node.Node) bool {
	hidden := option.Element("hidden")

	return hidden != nil && hidden.Kind == node.Literal && hidden.Token == "true"
}

func inBesuCommand(ctx *analysis.Context) bool {
	class, _, ok := ctx.Path().Enclosing(node.Class)

	return ok && class.Name == besuCommandClass
}

// stringValues flattens a string literal or an array of them; other
// element values are ignored.
func stringValues(value *node.Node) []string {
	if value == nil {
		return nil
	}

	if value.Kind == node.Other && value.Token == "{}" {
		var out []string
		for _, elem := range value.ChildrenWith(node.RoleValue) {
			out = append(out, stringValues(elem)...)
		}

		return out
	}

	if value.Kind != node.Literal {
		return nil
	}

	unquoted, err := strconv.Unquote(value.Token)
	if err != nil {
		return nil
	}

	return []string{unquoted}
}
