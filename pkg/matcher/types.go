package matcher

import (
	"slices"

	"github.com/Consensys/errorprone-checks/pkg/analysis"
	"github.com/Consensys/errorprone-checks/pkg/jtype"
	"github.com/Consensys/errorprone-checks/pkg/node"
)

// TypeMatcher is a predicate over a resolved type.
type TypeMatcher func(t *jtype.Descriptor, ctx *analysis.Context) bool

// OfType lifts tm to nodes; nodes without a resolved type never match.
func OfType(tm TypeMatcher) Matcher {
	return func(n *node.Node, ctx *analysis.Context) bool {
		desc := ctx.TypeOf(n)

		return desc != nil && tm(desc, ctx)
	}
}

// SameType matches types whose erasure is exactly one of names.
func SameType(names ...string) TypeMatcher {
	return func(t *jtype.Descriptor, _ *analysis.Context) bool {
		if !t.IsReference() {
			if t.IsPrimitive() {
				return slices.Contains(names, t.Kind.String())
			}

			return false
		}

		return slices.Contains(names, t.Name)
	}
}

// Subtype matches types that are nominal subtypes of any of names.
func Subtype(names ...string) TypeMatcher {
	return func(t *jtype.Descriptor, ctx *analysis.Context) bool {
		if !t.IsReference() {
			return false
		}

		for _, name := range names {
			if ctx.IsSubtypeOf(t, name) {
				return true
			}
		}

		return false
	}
}

// PrimitiveType matches the eight primitive types.
func PrimitiveType() TypeMatcher {
	return func(t *jtype.Descriptor, _ *analysis.Context) bool {
		return t.IsPrimitive()
	}
}

// SameDescriptor compares erased descriptors, recursing into array elements.
func SameDescriptor(left, right *jtype.Descriptor) bool {
	if !left.IsResolved() || !right.IsResolved() {
		return false
	}

	switch {
	case left.Kind == jtype.Array && right.Kind == jtype.Array:
		return SameDescriptor(left.Elem, right.Elem)
	case left.Kind == jtype.TypeVar || right.Kind == jtype.TypeVar:
		return left.Erasure().Equal(right.Erasure())
	case left.Kind != right.Kind:
		return false
	case left.Kind == jtype.Reference:
		return left.Name == right.Name
	default:
		return true
	}
}
