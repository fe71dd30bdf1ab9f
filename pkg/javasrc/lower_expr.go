package javasrc

import (
	"strings"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/Consensys/errorprone-checks/pkg/jtype"
	"github.com/Consensys/errorprone-checks/pkg/node"
)

// Tokens of node.Other statements the binder gives scoping meaning to.
const (
	tokenForEach = "foreach"
	tokenCatch   = "catch"
)

// lowerChild lowers a child of a statement-level construct, dispatching on whether
// it declares, states or computes something.
func (low *lowerer) lowerChild(n sitter.Node) []*node.Node {
	switch typ := n.Type(); {
	case isTypeDeclaration(typ):
		return []*node.Node{low.typeDeclaration(n, false)}
	case isStatement(typ):
		return low.statement(n)
	case isType(typ):
		return []*node.Node{low.typeRef(n, 0)}
	default:
		return []*node.Node{low.expression(n)}
	}
}

func isStatement(typ string) bool {
	switch typ {
	case tsBlock, "local_variable_declaration", "expression_statement", "return_statement",
		"if_statement", "while_statement", "do_statement", "for_statement",
		"enhanced_for_statement", "try_statement", "try_with_resources_statement",
		"catch_clause", "finally_clause", "throw_statement", "synchronized_statement",
		"labeled_statement", "break_statement", "continue_statement", "yield_statement",
		"assert_statement", "switch_block", "switch_block_statement_group", "switch_rule",
		"switch_label", "explicit_constructor_invocation", "constructor_body",
		"local_class_declaration", "resource_specification", "resource":
		return true
	default:
		return false
	}
}

func isType(typ string) bool {
	switch typ {
	case tsTypeIdentifier, "scoped_type_identifier", "generic_type", "array_type",
		"integral_type", "floating_point_type", "boolean_type", "void_type", "annotated_type":
		return true
	default:
		return false
	}
}

func (low *lowerer) block(n sitter.Node) *node.Node {
	if n.IsNull() {
		return nil
	}

	builder := node.NewBuilder(node.Block).WithSpan(low.span(n))
	for _, child := range namedChildren(n) {
		builder.AddAll(node.RoleStatement, low.statement(child)...)
	}

	return builder.Build()
}

// statement lowers one statement; a local declaration with several
// declarators yields several Variables.
func (low *lowerer) statement(n sitter.Node) []*node.Node {
	switch n.Type() {
	case tsBlock, "constructor_body":
		return []*node.Node{low.block(n)}
	case "local_variable_declaration":
		mods, _ := low.modifiers(n)

		return low.declarators(n, mods)
	case "expression_statement":
		expr := namedChildren(n)
		if len(expr) == 0 {
			return []*node.Node{low.generic(n)}
		}

		return []*node.Node{node.NewBuilder(node.ExpressionStatement).
			WithSpan(low.span(n)).
			Add(node.RoleExpr, low.expression(expr[0])).
			Build()}
	case "return_statement":
		builder := node.NewBuilder(node.Return).WithSpan(low.span(n))
		if expr := namedChildren(n); len(expr) > 0 {
			builder.Add(node.RoleExpr, low.expression(expr[0]))
		}

		return []*node.Node{builder.Build()}
	case "if_statement":
		return []*node.Node{node.NewBuilder(node.Other).WithToken("if").WithSpan(low.span(n)).
			Add(node.RoleCondition, low.expression(n.ChildByFieldName("condition"))).
			AddAll(node.RoleThen, low.statement(n.ChildByFieldName("consequence"))...).
			AddAll(node.RoleElse, low.optionalStatement(n.ChildByFieldName("alternative"))...).
			Build()}
	case "enhanced_for_statement":
		return []*node.Node{low.enhancedFor(n)}
	case "catch_clause":
		return []*node.Node{low.catchClause(n)}
	case "explicit_constructor_invocation":
		return []*node.Node{low.explicitConstructorCall(n)}
	case "resource":
		return []*node.Node{low.resource(n)}
	default:
		if isTypeDeclaration(n.Type()) {
			return []*node.Node{low.typeDeclaration(n, false)}
		}

		return []*node.Node{low.generic(n)}
	}
}

func (low *lowerer) optionalStatement(n sitter.Node) []*node.Node {
	if n.IsNull() {
		return nil
	}

	return low.statement(n)
}

func (low *lowerer) enhancedFor(n sitter.Node) *node.Node {
	mods, annotations := low.modifiers(n)
	name := n.ChildByFieldName("name")

	loopVar := node.NewBuilder(node.Variable).
		WithName(low.text(name)).
		WithNameSpan(low.span(name)).
		WithModifiers(mods).
		WithSpan(low.span(name)).
		AddAll(node.RoleAnnotation, annotations...).
		Add(node.RoleDeclType, low.typeRef(n.ChildByFieldName("type"), dims(low.text(n.ChildByFieldName("dimensions"))))).
		Build()

	return node.NewBuilder(node.Other).WithToken(tokenForEach).WithSpan(low.span(n)).
		Add(node.RoleParameter, loopVar).
		Add(node.RoleExpr, low.expression(n.ChildByFieldName("value"))).
		AddAll(node.RoleBody, low.statement(n.ChildByFieldName("body"))...).
		Build()
}

func (low *lowerer) catchClause(n sitter.Node) *node.Node {
	builder := node.NewBuilder(node.Other).WithToken(tokenCatch).WithSpan(low.span(n))

	if param := childOfType(n, "catch_formal_parameter"); !param.IsNull() {
		mods, annotations := low.modifiers(param)
		name := param.ChildByFieldName("name")
		catchType := childOfType(param, "catch_type")

		var declType *node.Node
		if types := namedChildren(catchType); len(types) == 1 {
			declType = low.typeRef(types[0], 0)
		}

		builder.Add(node.RoleParameter, node.NewBuilder(node.Variable).
			WithName(low.text(name)).
			WithNameSpan(low.span(name)).
			WithModifiers(mods).
			WithSpan(low.span(param)).
			AddAll(node.RoleAnnotation, annotations...).
			Add(node.RoleDeclType, declType).
			Build())
	}

	return builder.Add(node.RoleBody, low.block(n.ChildByFieldName("body"))).Build()
}

// explicitConstructorCall lowers this(...) and super(...) to a MethodCall
// named after the keyword.
func (low *lowerer) explicitConstructorCall(n sitter.Node) *node.Node {
	keyword := n.ChildByFieldName("constructor")

	return node.NewBuilder(node.ExpressionStatement).WithSpan(low.span(n)).
		Add(node.RoleExpr, node.NewBuilder(node.MethodCall).
			WithName(low.text(keyword)).
			WithNameSpan(low.span(keyword)).
			WithSpan(low.span(n)).
			AddAll(node.RoleArgument, low.arguments(n.ChildByFieldName("arguments"))...).
			Build()).
		Build()
}

func (low *lowerer) resource(n sitter.Node) *node.Node {
	name := n.ChildByFieldName("name")
	if name.IsNull() {
		return low.generic(n)
	}

	mods, annotations := low.modifiers(n)

	return node.NewBuilder(node.Variable).
		WithName(low.text(name)).
		WithNameSpan(low.span(name)).
		WithModifiers(mods|node.Final).
		WithSpan(low.span(n)).
		AddAll(node.RoleAnnotation, annotations...).
		Add(node.RoleDeclType, low.typeRef(n.ChildByFieldName("type"), 0)).
		Add(node.RoleInit, low.initializer(n.ChildByFieldName("value"))).
		Build()
}

func (low *lowerer) arguments(n sitter.Node) []*node.Node {
	children := namedChildren(n)
	out := make([]*node.Node, 0, len(children))

	for _, arg := range children {
		out = append(out, low.expression(arg))
	}

	return out
}

//nolint:gocyclo,cyclop,funlen // one case per expression form of the grammar
func (low *lowerer) expression(n sitter.Node) *node.Node {
	if n.IsNull() {
		return nil
	}

	span := low.span(n)

	switch n.Type() {
	case "assignment_expression":
		op := n.ChildByFieldName("operator").Type()
		kind := node.Assignment

		if op != "=" {
			kind = node.CompoundAssignment
		}

		return node.NewBuilder(kind).WithOp(node.CompoundOp(op)).WithSpan(span).
			Add(node.RoleTarget, low.expression(n.ChildByFieldName("left"))).
			Add(node.RoleValue, low.expression(n.ChildByFieldName("right"))).
			Build()
	case "binary_expression":
		return node.NewBuilder(node.Binary).
			WithOp(node.BinaryOp(n.ChildByFieldName("operator").Type())).
			WithSpan(span).
			Add(node.RoleLeft, low.expression(n.ChildByFieldName("left"))).
			Add(node.RoleRight, low.expression(n.ChildByFieldName("right"))).
			Build()
	case "unary_expression":
		return node.NewBuilder(node.Unary).
			WithOp(node.UnaryOp(n.ChildByFieldName("operator").Type())).
			WithSpan(span).
			Add(node.RoleOperand, low.expression(n.ChildByFieldName("operand"))).
			Build()
	case "update_expression":
		return low.update(n)
	case "ternary_expression":
		return node.NewBuilder(node.Conditional).WithSpan(span).
			Add(node.RoleCondition, low.expression(n.ChildByFieldName("condition"))).
			Add(node.RoleThen, low.expression(n.ChildByFieldName("consequence"))).
			Add(node.RoleElse, low.expression(n.ChildByFieldName("alternative"))).
			Build()
	case "parenthesized_expression":
		builder := node.NewBuilder(node.Parenthesized).WithSpan(span)
		if inner := namedChildren(n); len(inner) > 0 {
			builder.Add(node.RoleExpr, low.expression(inner[0]))
		}

		return builder.Build()
	case "cast_expression":
		return node.NewBuilder(node.Cast).WithSpan(span).
			Add(node.RoleDeclType, low.typeRef(n.ChildByFieldName("type"), 0)).
			Add(node.RoleExpr, low.expression(n.ChildByFieldName("value"))).
			Build()
	case "instanceof_expression":
		return low.instanceOf(n)
	case "method_invocation":
		return low.methodInvocation(n)
	case "object_creation_expression":
		return low.objectCreation(n)
	case "field_access":
		return low.fieldAccess(n)
	case tsIdentifier:
		return node.NewBuilder(node.Identifier).WithName(low.text(n)).WithSpan(span).WithNameSpan(span).Build()
	case "this":
		return node.NewBuilder(node.This).WithToken("this").WithSpan(span).Build()
	case "super":
		return node.NewBuilder(node.This).WithToken("super").WithSpan(span).Build()
	case "null_literal":
		return node.NewBuilder(node.NullLiteral).WithToken("null").WithSpan(span).Build()
	case "class_literal":
		builder := node.NewBuilder(node.Literal).WithToken(low.text(n)).WithSpan(span)
		if types := namedChildren(n); len(types) > 0 {
			builder.Add(node.RoleDeclType, low.typeRef(types[0], 0))
		}

		return builder.Build()
	case "lambda_expression":
		return low.lambda(n)
	case "array_access":
		return node.NewBuilder(node.Other).WithToken("[]").WithSpan(span).
			Add(node.RoleReceiver, low.expression(n.ChildByFieldName("array"))).
			Add(node.RoleValue, low.expression(n.ChildByFieldName("index"))).
			Build()
	case "array_creation_expression":
		return low.arrayCreation(n)
	case "array_initializer":
		builder := node.NewBuilder(node.Other).WithToken("{}").WithSpan(span)
		for _, child := range namedChildren(n) {
			builder.Add(node.RoleValue, low.expression(child))
		}

		return builder.Build()
	default:
		if desc, ok := literalType(n.Type(), low.text(n)); ok {
			return node.NewBuilder(node.Literal).WithToken(low.text(n)).WithType(desc).WithSpan(span).Build()
		}

		return low.generic(n)
	}
}

// literalType types the literal node kinds of the grammar.
func literalType(typ, text string) (*jtype.Descriptor, bool) {
	switch typ {
	case "decimal_integer_literal", "hex_integer_literal", "octal_integer_literal", "binary_integer_literal":
		if strings.HasSuffix(text, "l") || strings.HasSuffix(text, "L") {
			return jtype.Primitive(jtype.Long), true
		}

		return jtype.Primitive(jtype.Int), true
	case "decimal_floating_point_literal", "hex_floating_point_literal":
		if strings.HasSuffix(text, "f") || strings.HasSuffix(text, "F") {
			return jtype.Primitive(jtype.Float), true
		}

		return jtype.Primitive(jtype.Double), true
	case "true", "false":
		return jtype.Primitive(jtype.Boolean), true
	case "character_literal":
		return jtype.Primitive(jtype.Char), true
	case "string_literal", "text_block":
		return jtype.Ref(jtype.StringName), true
	default:
		return nil, false
	}
}

func (low *lowerer) update(n sitter.Node) *node.Node {
	builder := node.NewBuilder(node.Unary).WithSpan(low.span(n))

	for idx := range n.ChildCount() {
		child := n.Child(idx)

		switch {
		case child.IsNamed():
			builder.Add(node.RoleOperand, low.expression(child))
		default:
			builder.WithOp(node.UnaryOp(child.Type()))
		}
	}

	return builder.Build()
}

func (low *lowerer) instanceOf(n sitter.Node) *node.Node {
	builder := node.NewBuilder(node.Other).WithToken("instanceof").WithSpan(low.span(n)).
		WithType(jtype.Primitive(jtype.Boolean)).
		Add(node.RoleLeft, low.expression(n.ChildByFieldName("left")))

	right := n.ChildByFieldName("right")
	ref := low.typeRef(right, 0)
	builder.Add(node.RoleRight, ref)

	if name := n.ChildByFieldName("name"); !name.IsNull() {
		builder.Add(node.RoleParameter, node.NewBuilder(node.Variable).
			WithName(low.text(name)).
			WithNameSpan(low.span(name)).
			WithSpan(low.span(name)).
			Add(node.RoleDeclType, low.typeRef(right, 0)).
			Build())
	}

	return builder.Build()
}

func (low *lowerer) methodInvocation(n sitter.Node) *node.Node {
	name := n.ChildByFieldName("name")
	builder := node.NewBuilder(node.MethodCall).
		WithName(low.text(name)).
		WithNameSpan(low.span(name)).
		WithSpan(low.span(n))

	if object := n.ChildByFieldName("object"); !object.IsNull() {
		builder.Add(node.RoleReceiver, low.expression(object))
	}

	for _, arg := range namedChildren(n.ChildByFieldName("type_arguments")) {
		builder.Add(node.RoleTypeArgument, low.typeRef(arg, 0))
	}

	return builder.AddAll(node.RoleArgument, low.arguments(n.ChildByFieldName("arguments"))...).Build()
}

func (low *lowerer) objectCreation(n sitter.Node) *node.Node {
	typeNode := n.ChildByFieldName("type")
	declType := low.typeRef(typeNode, 0)

	builder := node.NewBuilder(node.NewClass).WithSpan(low.span(n)).WithNameSpan(low.span(typeNode))
	if expr := low.typeExprs[declType]; expr != nil {
		builder.WithName(jtype.SimpleName(expr.name))
	}

	if first := namedChildren(n); len(first) > 0 && !isType(first[0].Type()) && first[0].Type() != tsArgumentList {
		builder.Add(node.RoleReceiver, low.expression(first[0]))
	}

	builder.Add(node.RoleDeclType, declType).
		AddAll(node.RoleArgument, low.arguments(n.ChildByFieldName("arguments"))...)

	if body := childOfType(n, tsClassBody); !body.IsNull() {
		builder.Add(node.RoleBody, low.anonymousClass(body))
	}

	return builder.Build()
}

func (low *lowerer) fieldAccess(n sitter.Node) *node.Node {
	field := n.ChildByFieldName("field")
	if field.Type() == "this" {
		return node.NewBuilder(node.This).WithToken(low.text(n)).WithSpan(low.span(n)).Build()
	}

	return node.NewBuilder(node.FieldAccess).
		WithName(low.text(field)).
		WithNameSpan(low.span(field)).
		WithSpan(low.span(n)).
		Add(node.RoleReceiver, low.expression(n.ChildByFieldName("object"))).
		Build()
}

func (low *lowerer) lambda(n sitter.Node) *node.Node {
	builder := node.NewBuilder(node.Lambda).WithSpan(low.span(n))

	params := n.ChildByFieldName("parameters")

	switch params.Type() {
	case tsIdentifier:
		builder.Add(node.RoleParameter, low.inferredParameter(params))
	case "inferred_parameters":
		for _, ident := range namedChildren(params) {
			builder.Add(node.RoleParameter, low.inferredParameter(ident))
		}
	case "formal_parameters":
		builder.AddAll(node.RoleParameter, low.formalParameters(params)...)
	}

	body := n.ChildByFieldName("body")
	if body.Type() == tsBlock {
		builder.Add(node.RoleBody, low.block(body))
	} else {
		builder.Add(node.RoleBody, low.expression(body))
	}

	return builder.Build()
}

func (low *lowerer) inferredParameter(ident sitter.Node) *node.Node {
	return node.NewBuilder(node.Variable).
		WithName(low.text(ident)).
		WithNameSpan(low.span(ident)).
		WithSpan(low.span(ident)).
		Build()
}

// arrayCreation lowers `new T[n][]` and `new T[]{...}`; the DeclType child
// carries every dimension.
func (low *lowerer) arrayCreation(n sitter.Node) *node.Node {
	dimensions := 0

	var sizes []*node.Node

	for _, child := range namedChildren(n) {
		switch child.Type() {
		case "dimensions_expr":
			dimensions++

			for _, size := range namedChildren(child) {
				sizes = append(sizes, low.expression(size))
			}
		case "dimensions":
			dimensions += dims(low.text(child))
		}
	}

	builder := node.NewBuilder(node.Other).WithToken("new[]").WithSpan(low.span(n)).
		Add(node.RoleDeclType, low.typeRef(n.ChildByFieldName("type"), dimensions)).
		AddAll(node.RoleValue, sizes...)

	if value := n.ChildByFieldName("value"); !value.IsNull() {
		builder.Add(node.RoleInit, low.expression(value))
	}

	return builder.Build()
}
