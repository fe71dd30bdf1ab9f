package javasrc

import (
	"strings"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/Consensys/errorprone-checks/pkg/jtype"
	"github.com/Consensys/errorprone-checks/pkg/node"
)

const javaLang = "java.lang."

// typeExpr is a type as written in source, before name resolution.
type typeExpr struct {
	// name is the dotted name, a primitive keyword, "var" or "?".
	name string
	args []*typeExpr
	// bound is the bound of a wildcard.
	bound    *typeExpr
	dims     int
	diamond  bool
	wildcard bool
}

// typeRef lowers a type node to a TypeRef carrying the written text. Type
// arguments become TypeRef children with RoleTypeArgument.
func (low *lowerer) typeRef(n sitter.Node, extraDims int) *node.Node {
	if n.IsNull() {
		return nil
	}

	expr, argRefs := low.typeNode(n)
	expr.dims += extraDims

	ref := node.NewBuilder(node.TypeRef).
		WithToken(low.text(n) + strings.Repeat("[]", extraDims)).
		WithSpan(low.span(n)).
		AddAll(node.RoleTypeArgument, argRefs...).
		Build()
	low.typeExprs[ref] = expr

	return ref
}

func (low *lowerer) typeNode(n sitter.Node) (*typeExpr, []*node.Node) {
	switch n.Type() {
	case "generic_type":
		var (
			base    *typeExpr
			argRefs []*node.Node
			sawArgs bool
		)

		for _, child := range namedChildren(n) {
			if child.Type() != "type_arguments" {
				base, _ = low.typeNode(child)

				continue
			}

			sawArgs = true

			for _, arg := range namedChildren(child) {
				if strings.HasSuffix(arg.Type(), "annotation") {
					continue
				}

				argRefs = append(argRefs, low.typeRef(arg, 0))
			}
		}

		if base == nil {
			base = &typeExpr{name: low.text(n)}
		}

		for _, ref := range argRefs {
			base.args = append(base.args, low.typeExprs[ref])
		}

		base.diamond = sawArgs && len(argRefs) == 0

		return base, argRefs
	case "array_type":
		elem, argRefs := low.typeNode(n.ChildByFieldName("element"))
		elem.dims += dims(low.text(n.ChildByFieldName("dimensions")))

		return elem, argRefs
	case "scoped_type_identifier":
		var parts []string

		for _, child := range namedChildren(n) {
			switch child.Type() {
			case tsTypeIdentifier, tsIdentifier:
				parts = append(parts, low.text(child))
			case "scoped_type_identifier", "generic_type":
				inner, _ := low.typeNode(child)
				parts = append(parts, inner.name)
			}
		}

		return &typeExpr{name: strings.Join(parts, ".")}, nil
	case "wildcard":
		expr := &typeExpr{name: "?", wildcard: true}

		var argRefs []*node.Node

		for _, child := range namedChildren(n) {
			if isType(child.Type()) {
				expr.bound, argRefs = low.typeNode(child)
			}
		}

		return expr, argRefs
	case "annotated_type":
		for _, child := range namedChildren(n) {
			if isType(child.Type()) && child.Type() != "annotated_type" {
				return low.typeNode(child)
			}
		}

		return &typeExpr{name: low.text(n)}, nil
	default:
		return &typeExpr{name: low.text(n)}, nil
	}
}

// typeScope resolves simple names during binding.
type typeScope interface {
	// typeVar reports whether name is a type variable in scope.
	typeVar(name string) bool
	// className resolves a simple or partially qualified class name declared
	// in or imported by the unit.
	className(name string) (string, bool)
}

// resolveType turns a written type into a descriptor. It returns nil for
// `var`, whose type comes from the initializer.
func resolveType(expr *typeExpr, scope typeScope) *jtype.Descriptor {
	if expr == nil {
		return nil
	}

	var base *jtype.Descriptor

	switch {
	case expr.wildcard:
		if expr.bound == nil {
			return jtype.Ref(jtype.ObjectName)
		}

		return resolveType(expr.bound, scope)
	case expr.name == "var" && expr.dims == 0:
		return nil
	default:
		if prim, ok := jtype.Keyword(expr.name); ok {
			base = prim
		} else if scope.typeVar(expr.name) {
			base = jtype.TypeVariable(expr.name)
		} else {
			args := make([]*jtype.Descriptor, 0, len(expr.args))
			for _, arg := range expr.args {
				args = append(args, orObject(resolveType(arg, scope)))
			}

			base = jtype.Ref(qualify(expr.name, scope), args...)
		}
	}

	for range expr.dims {
		base = jtype.ArrayOf(base)
	}

	return base
}

// qualify resolves the first segment of a dotted name and appends the rest.
func qualify(name string, scope typeScope) string {
	if qualified, ok := scope.className(name); ok {
		return qualified
	}

	head, rest, dotted := strings.Cut(name, ".")
	if dotted {
		if qualified, ok := scope.className(head); ok {
			return qualified + "." + rest
		}

		return name
	}

	return name
}

func orObject(desc *jtype.Descriptor) *jtype.Descriptor {
	if desc == nil || !desc.IsResolved() {
		return jtype.Ref(jtype.ObjectName)
	}

	return desc
}
