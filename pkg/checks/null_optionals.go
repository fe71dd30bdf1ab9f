package checks

import (
	"slices"

	"github.com/Consensys/errorprone-checks/pkg/analysis"
	"github.com/Consensys/errorprone-checks/pkg/jtype"
	"github.com/Consensys/errorprone-checks/pkg/node"
)

const (
	optionalName         = "java.util.Optional"
	nullableName         = "Nullable"
	nullOptionalsMessage = "Do not return null optionals."
)

// DoNotReturnNullOptionals reports returns of a possibly-null value from a
// method or lambda typed to return an Optional. Nullness trusts @Nullable:
// parameters, fields and method results are nullable only when annotated.
func DoNotReturnNullOptionals() *analysis.Rule {
	return &analysis.Rule{
		Name:     NameDoNotReturnNullOptionals,
		Summary:  nullOptionalsMessage,
		Severity: analysis.Suggestion,
		Kinds:    []node.Kind{node.Return},
		Check: func(ret *node.Node, ctx *analysis.Context) (analysis.Finding, bool) {
			expr := ret.Expr()
			if expr == nil {
				return analysis.Finding{}, false
			}

			fn, _, ok := ctx.Path().Enclosing(node.Method, node.Lambda, node.Constructor)
			if !ok || !isOptional(enclosingReturnType(fn, ctx)) {
				return analysis.Finding{}, false
			}

			if !mayBeNull(expr, fn, ctx) {
				return analysis.Finding{}, false
			}

			return analysis.NewFinding(ret, nullOptionalsMessage), true
		},
	}
}

func enclosingReturnType(fn *node.Node, ctx *analysis.Context) *jtype.Descriptor {
	switch fn.Kind {
	case node.Method:
		if desc := ctx.TypeOf(fn.ReturnType()); desc != nil {
			return desc
		}

		return ctx.TypeOf(fn)
	case node.Lambda:
		return ctx.FunctionalReturn(fn)
	default:
		return nil
	}
}

func isOptional(desc *jtype.Descriptor) bool {
	return desc.IsReference() && desc.Name == optionalName
}

// mayBeNull is a syntactic nullness check of expr evaluated inside fn.
func mayBeNull(expr, fn *node.Node, ctx *analysis.Context) bool {
	if expr == nil {
		return false
	}

	switch expr.Kind {
	case node.NullLiteral:
		return true
	case node.Parenthesized, node.Cast:
		return mayBeNull(expr.Expr(), fn, ctx)
	case node.Conditional:
		return mayBeNull(expr.Child(node.RoleThen), fn, ctx) || mayBeNull(expr.Child(node.RoleElse), fn, ctx)
	case node.Assignment:
		return mayBeNull(expr.RHS(), fn, ctx)
	case node.MethodCall:
		sig, ok := ctx.Signature(expr)

		return ok && slices.ContainsFunc(sig.Annotations, func(name string) bool {
			return jtype.SimpleName(name) == nullableName
		})
	case node.Identifier, node.FieldAccess:
		sym, ok := ctx.Symbol(expr)
		if !ok || !sym.Nullable {
			return false
		}

		if sym.HasAnnotation(nullableName) || sym.Modifiers.Has(node.Final) {
			return true
		}

		// A local initialized with null stays null until assigned.
		return sym.Kind == analysis.SymLocal && !assignedIn(fn, sym.Name)
	default:
		return false
	}
}

func assignedIn(fn *node.Node, name string) bool {
	assignments := fn.Find(func(n *node.Node) bool {
		if n.Kind != node.Assignment {
			return false
		}

		lhs := n.LHS()

		return lhs != nil && lhs.Kind == node.Identifier && lhs.Name == name
	})

	return len(assignments) > 0
}
