package checks

import (
	"github.com/Consensys/errorprone-checks/pkg/analysis"
	"github.com/Consensys/errorprone-checks/pkg/matcher"
	"github.com/Consensys/errorprone-checks/pkg/node"
)

const referenceComparisonMessage = "Reference comparison should be value comparison"

var (
	equalOrNotEqual = matcher.OpIs(node.OpEq, node.OpNe)

	// exemptOperand matches operands whose identity comparison is intended:
	// null, this, enums and classes. Primitive operands unbox the other side.
	exemptOperand = matcher.AnyOf(
		matcher.IsPrimitive(),
		matcher.IsNullLiteral(),
		matcher.IsThis(),
		matcher.IsEnum(),
		matcher.IsSubtypeOf("java.lang.Class"),
	)
)

// ReferenceComparison reports == and != between two objects.
func ReferenceComparison() *analysis.Rule {
	return &analysis.Rule{
		Name:     NameReferenceComparison,
		Summary:  referenceComparisonMessage,
		Severity: analysis.Suggestion,
		Kinds:    []node.Kind{node.Binary},
		Check: func(bin *node.Node, ctx *analysis.Context) (analysis.Finding, bool) {
			if !equalOrNotEqual(bin, ctx) {
				return analysis.Finding{}, false
			}

			left, right := bin.Left(), bin.Right()
			if ctx.TypeOf(left) == nil || ctx.TypeOf(right) == nil {
				return analysis.Finding{}, false
			}

			if exemptOperand(left, ctx) || exemptOperand(right, ctx) {
				return analysis.Finding{}, false
			}

			return analysis.NewFinding(bin, referenceComparisonMessage), true
		},
	}
}
