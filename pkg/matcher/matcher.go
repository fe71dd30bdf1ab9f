// Package matcher provides composable predicates over syntax nodes and their
// traversal context. Every primitive returns false when the type, symbol or
// signature information it needs is absent.
package matcher

import (
	"slices"
	"strings"

	"github.com/Consensys/errorprone-checks/pkg/analysis"
	"github.com/Consensys/errorprone-checks/pkg/jtype"
	"github.com/Consensys/errorprone-checks/pkg/node"
)

// Matcher is a pure predicate over a node in context.
type Matcher func(n *node.Node, ctx *analysis.Context) bool

// Op selects how Compose joins matchers.
type Op uint8

// Composition operators.
const (
	And Op = iota
	Or
)

// Compose joins matchers with op.
func Compose(op Op, matchers ...Matcher) Matcher {
	if op == Or {
		return AnyOf(matchers...)
	}

	return AllOf(matchers...)
}

// AllOf matches when every matcher does, stopping at the first miss.
// An empty AllOf always matches.
func AllOf(matchers ...Matcher) Matcher {
	matchers = slices.Clone(matchers)

	return func(n *node.Node, ctx *analysis.Context) bool {
		for _, m := range matchers {
			if !m(n, ctx) {
				return false
			}
		}

		return true
	}
}

// AnyOf matches when some matcher does, stopping at the first hit.
// An empty AnyOf never matches.
func AnyOf(matchers ...Matcher) Matcher {
	matchers = slices.Clone(matchers)

	return func(n *node.Node, ctx *analysis.Context) bool {
		for _, m := range matchers {
			if m(n, ctx) {
				return true
			}
		}

		return false
	}
}

// Not inverts m.
func Not(m Matcher) Matcher {
	return func(n *node.Node, ctx *analysis.Context) bool {
		return !m(n, ctx)
	}
}

// Anything always matches.
func Anything() Matcher {
	return func(*node.Node, *analysis.Context) bool { return true }
}

// Nothing never matches.
func Nothing() Matcher {
	return func(*node.Node, *analysis.Context) bool { return false }
}

// KindIs matches nodes of any of the given kinds.
func KindIs(kinds ...node.Kind) Matcher {
	return func(n *node.Node, _ *analysis.Context) bool {
		return n != nil && slices.Contains(kinds, n.Kind)
	}
}

// OpIs matches Binary, Unary and compound nodes carrying one of ops.
func OpIs(ops ...node.Op) Matcher {
	return func(n *node.Node, _ *analysis.Context) bool {
		return n != nil && n.Op != node.OpNone && slices.Contains(ops, n.Op)
	}
}

// NamedAnyOf matches nodes whose Name is one of names.
func NamedAnyOf(names ...string) Matcher {
	return func(n *node.Node, _ *analysis.Context) bool {
		return n != nil && slices.Contains(names, n.Name)
	}
}

// IsNullLiteral matches the null literal.
func IsNullLiteral() Matcher {
	return KindIs(node.NullLiteral)
}

// IsThis matches the this expression.
func IsThis() Matcher {
	return KindIs(node.This)
}

// IsSubtypeOf matches nodes whose type is a nominal subtype of name.
func IsSubtypeOf(name string) Matcher {
	return OfType(Subtype(name))
}

// IsSameType matches nodes whose erased type is exactly name.
func IsSameType(name string) Matcher {
	return OfType(SameType(name))
}

// IsPrimitive matches nodes of primitive type.
func IsPrimitive() Matcher {
	return OfType(PrimitiveType())
}

// IsEnum matches references to enum constants or values of enum type.
func IsEnum() Matcher {
	return func(n *node.Node, ctx *analysis.Context) bool {
		if sym, ok := ctx.Symbol(n); ok && sym.Enum {
			return true
		}

		desc := ctx.TypeOf(n)

		return desc.IsReference() && desc.Name != jtype.EnumName && ctx.IsSubtypeOf(desc, jtype.EnumName)
	}
}

func isDeclaration(kind node.Kind) bool {
	return kind.IsTypeDecl() || kind == node.Method || kind == node.Constructor || kind == node.Variable
}

func modifiersOf(n *node.Node, ctx *analysis.Context) (node.Modifiers, bool) {
	if n == nil {
		return 0, false
	}

	if isDeclaration(n.Kind) {
		return n.Modifiers, true
	}

	sym, ok := ctx.Symbol(n)
	if !ok {
		return 0, false
	}

	return sym.Modifiers, true
}

// HasModifier matches declarations, or references to declarations, that
// carry every bit of mods.
func HasModifier(mods node.Modifiers) Matcher {
	return func(n *node.Node, ctx *analysis.Context) bool {
		have, ok := modifiersOf(n, ctx)

		return ok && have.Has(mods)
	}
}

// HasVisibility matches declarations, or references to them, with access level vis.
func HasVisibility(vis node.Visibility) Matcher {
	return func(n *node.Node, ctx *analysis.Context) bool {
		have, ok := modifiersOf(n, ctx)

		return ok && have.Visibility() == vis
	}
}

// HasAnnotation matches declarations carrying an annotation whose name contains substr.
func HasAnnotation(substr string) Matcher {
	return func(n *node.Node, _ *analysis.Context) bool {
		return slices.ContainsFunc(n.Annotations(), func(ann *node.Node) bool {
			return strings.Contains(ann.Name, substr)
		})
	}
}

// SymbolMatches applies pred to the symbol n refers to.
func SymbolMatches(pred func(analysis.Symbol) bool) Matcher {
	return func(n *node.Node, ctx *analysis.Context) bool {
		sym, ok := ctx.Symbol(n)

		return ok && pred(sym)
	}
}

// IsInstanceField matches references to non-static fields.
func IsInstanceField() Matcher {
	return SymbolMatches(analysis.Symbol.IsInstanceField)
}

// ParentIs matches nodes whose parent on the context path satisfies m.
// The context must be positioned at n.
func ParentIs(m Matcher) Matcher {
	return func(n *node.Node, ctx *analysis.Context) bool {
		path := ctx.Path()
		if path.Leaf() != n || path.Len() < 2 {
			return false
		}

		parentPath := path.ParentPath()

		return m(parentPath.Leaf(), ctx.WithPath(parentPath))
	}
}

// EnclosingKind matches nodes whose nearest ancestor among the function and
// type-declaration kinds is one of kinds. The context must be positioned at n.
func EnclosingKind(kinds ...node.Kind) Matcher {
	return func(n *node.Node, ctx *analysis.Context) bool {
		path := ctx.Path()
		if path.Leaf() != n {
			return false
		}

		scope, _, ok := path.Enclosing(node.Class, node.Interface, node.Enum,
			node.Method, node.Constructor, node.Lambda)

		return ok && slices.Contains(kinds, scope.Kind)
	}
}

// MethodReturns matches Method declarations whose declared return type satisfies tm.
func MethodReturns(tm TypeMatcher) Matcher {
	return func(n *node.Node, ctx *analysis.Context) bool {
		if n == nil || n.Kind != node.Method {
			return false
		}

		desc := ctx.TypeOf(n.ReturnType())
		if desc == nil {
			desc = ctx.TypeOf(n)
		}

		return desc != nil && tm(desc, ctx)
	}
}
