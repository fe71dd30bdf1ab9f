package checks

import (
	"github.com/Consensys/errorprone-checks/pkg/analysis"
	"github.com/Consensys/errorprone-checks/pkg/matcher"
	"github.com/Consensys/errorprone-checks/pkg/node"
	"github.com/Consensys/errorprone-checks/pkg/tables"
)

// ReturnsPrivateMutable reports public methods that hand out a private
// instance field of a mutable type, letting callers modify internal state.
func ReturnsPrivateMutable(tabs *tables.Tables) *analysis.Rule {
	if tabs == nil {
		tabs = tables.Empty()
	}

	mutable := matcher.SameType(tabs.MutableTypes()...)

	privateMutableField := matcher.AllOf(
		matcher.KindIs(node.Identifier, node.FieldAccess),
		matcher.HasModifier(node.Private),
		matcher.OfType(mutable),
		matcher.IsInstanceField(),
	)

	publicMethodReturnsMutable := matcher.AllOf(
		matcher.HasVisibility(node.VisPublic),
		matcher.MethodReturns(mutable),
	)

	return &analysis.Rule{
		Name:     NameReturnsPrivateMutable,
		Summary:  "Public method returns private field that can be modified.",
		Severity: analysis.Suggestion,
		Kinds:    []node.Kind{node.Return},
		Check: func(ret *node.Node, ctx *analysis.Context) (analysis.Finding, bool) {
			if !privateMutableField(ret.Expr(), ctx) {
				return analysis.Finding{}, false
			}

			// Only a return directly in the method body; nested blocks and
			// lambdas belong to other scopes.
			path := ctx.Path()
			if path.Len() < 3 {
				return analysis.Finding{}, false
			}

			body := path.ParentPath()
			if body.Leaf().Kind != node.Block {
				return analysis.Finding{}, false
			}

			methodPath := body.ParentPath()
			method := methodPath.Leaf()

			if method.Kind != node.Method || !publicMethodReturnsMutable(method, ctx.WithPath(methodPath)) {
				return analysis.Finding{}, false
			}

			return analysis.Newf(ret, "Public method (%s) returns mutable (%s) private field.",
				method.Name, returnTypeText(method)), true
		},
	}
}

func returnTypeText(method *node.Node) string {
	if ref := method.ReturnType(); ref != nil && ref.Token != "" {
		return ref.Token
	}

	return method.Type.String()
}
