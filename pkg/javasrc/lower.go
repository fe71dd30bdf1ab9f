package javasrc

import (
	"errors"
	"strings"

	"fortio.org/safecast"
	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/Consensys/errorprone-checks/pkg/node"
)

// Tree-sitter node types shared by several lowering functions.
const (
	tsIdentifier      = "identifier"
	tsTypeIdentifier  = "type_identifier"
	tsModifiers       = "modifiers"
	tsVarDeclarator   = "variable_declarator"
	tsBlock           = "block"
	tsError           = "ERROR"
	tsClassBody       = "class_body"
	tsArgumentList    = "argument_list"
	tsMarkerAnno      = "marker_annotation"
	tsAnnotation      = "annotation"
	tsFormalParameter = "formal_parameter"
	tsSpreadParameter = "spread_parameter"
)

// importDecl is one import declaration.
type importDecl struct {
	path     string
	static   bool
	onDemand bool
}

// lowerer converts one tree-sitter tree to node.Node and records the side
// tables the binder needs.
type lowerer struct {
	typeExprs  map[*node.Node]*typeExpr
	typeParams map[*node.Node][]string
	varargs    map[*node.Node]bool
	// records and enumConstants mark declarations the closed node kinds
	// cannot tell apart from classes and fields.
	records       map[*node.Node]bool
	enumConstants map[*node.Node]bool
	pkg           string
	src           []byte
	imports       []importDecl
	syntaxErrors  int
}

func newLowerer(src []byte) *lowerer {
	return &lowerer{
		src:           src,
		typeExprs:     make(map[*node.Node]*typeExpr),
		typeParams:    make(map[*node.Node][]string),
		varargs:       make(map[*node.Node]bool),
		records:       make(map[*node.Node]bool),
		enumConstants: make(map[*node.Node]bool),
	}
}

func (low *lowerer) text(n sitter.Node) string {
	if n.IsNull() {
		return ""
	}

	return n.Content(low.src)
}

func (low *lowerer) span(n sitter.Node) node.Span {
	if n.IsNull() {
		return node.Span{}
	}

	start, errStart := safecast.Conv[int](n.StartByte())
	end, errEnd := safecast.Conv[int](n.EndByte())
	point := n.StartPoint()
	line, errLine := safecast.Conv[int](point.Row)
	col, errCol := safecast.Conv[int](point.Column)

	if errors.Join(errStart, errEnd, errLine, errCol) != nil {
		return node.Span{}
	}

	return node.Span{Start: start, End: end, Line: line + 1, Col: col + 1}
}

func namedChildren(n sitter.Node) []sitter.Node {
	if n.IsNull() {
		return nil
	}

	out := make([]sitter.Node, 0, n.NamedChildCount())

	for idx := range n.NamedChildCount() {
		child := n.NamedChild(idx)
		if isComment(child.Type()) {
			continue
		}

		out = append(out, child)
	}

	return out
}

func childOfType(n sitter.Node, types ...string) sitter.Node {
	for _, child := range namedChildren(n) {
		for _, typ := range types {
			if child.Type() == typ {
				return child
			}
		}
	}

	return sitter.Node{}
}

func isComment(typ string) bool {
	return typ == "line_comment" || typ == "block_comment" || typ == "comment"
}

func isTypeDeclaration(typ string) bool {
	switch typ {
	case "class_declaration", "interface_declaration", "enum_declaration",
		"record_declaration", "annotation_type_declaration":
		return true
	default:
		return false
	}
}

func (low *lowerer) compilationUnit(root sitter.Node) *node.Node {
	builder := node.NewBuilder(node.CompilationUnit).WithSpan(low.span(root))

	for _, child := range namedChildren(root) {
		switch typ := child.Type(); {
		case typ == "package_declaration":
			low.pkg = low.text(childOfType(child, tsIdentifier, "scoped_identifier"))
			builder.WithName(low.pkg)
		case typ == "import_declaration":
			low.imports = append(low.imports, low.importDeclaration(child))
		case isTypeDeclaration(typ):
			builder.Add(node.RoleMember, low.typeDeclaration(child, false))
		default:
			builder.Add(node.RoleMember, low.generic(child))
		}
	}

	return builder.Build()
}

func (low *lowerer) importDeclaration(n sitter.Node) importDecl {
	decl := importDecl{path: low.text(childOfType(n, tsIdentifier, "scoped_identifier"))}

	for idx := range n.ChildCount() {
		switch n.Child(idx).Type() {
		case "static":
			decl.static = true
		case "asterisk":
			decl.onDemand = true
		}
	}

	return decl
}

// typeDeclaration lowers classes, interfaces, enums, records and annotation
// types. Members of interfaces receive their implicit modifiers.
func (low *lowerer) typeDeclaration(n sitter.Node, inInterface bool) *node.Node {
	kind := node.Class

	switch n.Type() {
	case "interface_declaration", "annotation_type_declaration":
		kind = node.Interface
	case "enum_declaration":
		kind = node.Enum
	}

	mods, annotations := low.modifiers(n)
	if inInterface {
		mods |= node.Public | node.Static
	}

	if kind == node.Enum || n.Type() == "record_declaration" {
		mods |= node.Final
	}

	name := n.ChildByFieldName("name")
	builder := node.NewBuilder(kind).
		WithName(low.text(name)).
		WithNameSpan(low.span(name)).
		WithModifiers(mods).
		WithSpan(low.span(n)).
		AddAll(node.RoleAnnotation, annotations...)

	for _, child := range namedChildren(n) {
		switch child.Type() {
		case "superclass", "super_interfaces", "extends_interfaces":
			for _, ref := range low.typeList(child) {
				builder.Add(node.RoleSuper, ref)
			}
		}
	}

	var members []*node.Node

	if params := n.ChildByFieldName("parameters"); n.Type() == "record_declaration" && !params.IsNull() {
		for _, param := range low.formalParameters(params) {
			param.Modifiers |= node.Private | node.Final
			param.Role = node.RoleNone
			members = append(members, param)
		}
	}

	members = append(members, low.classBody(n.ChildByFieldName("body"), kind, low.text(name))...)
	builder.AddAll(node.RoleMember, members...)

	decl := builder.Build()
	low.typeParams[decl] = low.typeParameters(n.ChildByFieldName("type_parameters"))
	low.records[decl] = n.Type() == "record_declaration"

	return decl
}

func (low *lowerer) typeList(n sitter.Node) []*node.Node {
	var out []*node.Node

	for _, child := range namedChildren(n) {
		if child.Type() == "type_list" {
			out = append(out, low.typeList(child)...)

			continue
		}

		out = append(out, low.typeRef(child, 0))
	}

	return out
}

func (low *lowerer) typeParameters(n sitter.Node) []string {
	var out []string

	for _, param := range namedChildren(n) {
		if param.Type() != "type_parameter" {
			continue
		}

		if ident := childOfType(param, tsTypeIdentifier, tsIdentifier); !ident.IsNull() {
			out = append(out, low.text(ident))
		}
	}

	return out
}

func (low *lowerer) classBody(body sitter.Node, owner node.Kind, ownerName string) []*node.Node {
	var members []*node.Node

	for _, child := range namedChildren(body) {
		switch typ := child.Type(); {
		case typ == "field_declaration" || typ == "constant_declaration":
			members = append(members, low.fieldDeclaration(child, owner)...)
		case typ == "method_declaration" || typ == "annotation_type_element_declaration":
			members = append(members, low.method(child, owner))
		case typ == "constructor_declaration" || typ == "compact_constructor_declaration":
			members = append(members, low.constructor(child))
		case isTypeDeclaration(typ):
			members = append(members, low.typeDeclaration(child, owner == node.Interface))
		case typ == "enum_constant":
			members = append(members, low.enumConstant(child, ownerName))
		case typ == "enum_body_declarations":
			members = append(members, low.classBody(child, owner, ownerName)...)
		case typ == tsBlock:
			members = append(members, low.block(child))
		case typ == "static_initializer":
			members = append(members, low.block(childOfType(child, tsBlock)))
		default:
			members = append(members, low.generic(child))
		}
	}

	return members
}

// modifiers returns the modifier bits and lowered annotations of a declaration.
func (low *lowerer) modifiers(decl sitter.Node) (node.Modifiers, []*node.Node) {
	mods := childOfType(decl, tsModifiers)
	if mods.IsNull() {
		return 0, nil
	}

	var (
		bits        node.Modifiers
		annotations []*node.Node
	)

	for idx := range mods.ChildCount() {
		child := mods.Child(idx)

		switch typ := child.Type(); typ {
		case tsAnnotation, tsMarkerAnno:
			annotations = append(annotations, low.annotation(child))
		default:
			if bit, ok := node.ModifierFor(typ); ok {
				bits |= bit
			}
		}
	}

	return bits, annotations
}

func (low *lowerer) annotation(n sitter.Node) *node.Node {
	builder := node.NewBuilder(node.Annotation).
		WithName(low.text(n.ChildByFieldName("name"))).
		WithNameSpan(low.span(n.ChildByFieldName("name"))).
		WithSpan(low.span(n))

	for _, arg := range namedChildren(n.ChildByFieldName("arguments")) {
		if arg.Type() != "element_value_pair" {
			builder.Add(node.RoleArgument, low.elementValue(arg))

			continue
		}

		key := arg.ChildByFieldName("key")
		pair := node.NewBuilder(node.Assignment).WithSpan(low.span(arg)).
			Add(node.RoleTarget, node.NewBuilder(node.Identifier).WithName(low.text(key)).WithSpan(low.span(key)).Build()).
			Add(node.RoleValue, low.elementValue(arg.ChildByFieldName("value"))).
			Build()
		builder.Add(node.RoleArgument, pair)
	}

	return builder.Build()
}

func (low *lowerer) elementValue(n sitter.Node) *node.Node {
	switch n.Type() {
	case "element_value_array_initializer":
		builder := node.NewBuilder(node.Other).WithToken("{}").WithSpan(low.span(n))
		for _, child := range namedChildren(n) {
			builder.Add(node.RoleValue, low.elementValue(child))
		}

		return builder.Build()
	case tsAnnotation, tsMarkerAnno:
		return low.annotation(n)
	default:
		return low.expression(n)
	}
}

// fieldDeclaration lowers every declarator of a field or local variable
// declaration to its own Variable.
func (low *lowerer) fieldDeclaration(n sitter.Node, owner node.Kind) []*node.Node {
	mods, _ := low.modifiers(n)
	if owner == node.Interface {
		mods |= node.Public | node.Static | node.Final
	}

	return low.declarators(n, mods)
}

func (low *lowerer) declarators(n sitter.Node, mods node.Modifiers) []*node.Node {
	typeNode := n.ChildByFieldName("type")

	var declarators []sitter.Node

	for _, child := range namedChildren(n) {
		if child.Type() == tsVarDeclarator {
			declarators = append(declarators, child)
		}
	}

	out := make([]*node.Node, 0, len(declarators))

	for _, decl := range declarators {
		_, annotations := low.modifiers(n)
		name := decl.ChildByFieldName("name")

		span := low.span(n)
		if len(declarators) > 1 {
			span = low.span(decl)
		}

		builder := node.NewBuilder(node.Variable).
			WithName(low.text(name)).
			WithNameSpan(low.span(name)).
			WithModifiers(mods).
			WithSpan(span).
			AddAll(node.RoleAnnotation, annotations...).
			Add(node.RoleDeclType, low.typeRef(typeNode, dims(low.text(decl.ChildByFieldName("dimensions"))))).
			Add(node.RoleInit, low.initializer(decl.ChildByFieldName("value")))
		out = append(out, builder.Build())
	}

	return out
}

func (low *lowerer) initializer(value sitter.Node) *node.Node {
	if value.IsNull() {
		return nil
	}

	return low.expression(value)
}

func dims(text string) int {
	return strings.Count(text, "[")
}

func (low *lowerer) method(n sitter.Node, owner node.Kind) *node.Node {
	mods, annotations := low.modifiers(n)
	body := n.ChildByFieldName("body")

	if owner == node.Interface && !mods.Has(node.Private) {
		mods |= node.Public
		if body.IsNull() && !mods.Has(node.Static) {
			mods |= node.Abstract
		}
	}

	name := n.ChildByFieldName("name")
	builder := node.NewBuilder(node.Method).
		WithName(low.text(name)).
		WithNameSpan(low.span(name)).
		WithModifiers(mods).
		WithSpan(low.span(n)).
		AddAll(node.RoleAnnotation, annotations...).
		Add(node.RoleReturnType, low.typeRef(n.ChildByFieldName("type"), dims(low.text(n.ChildByFieldName("dimensions"))))).
		AddAll(node.RoleParameter, low.formalParameters(n.ChildByFieldName("parameters"))...)

	if !body.IsNull() {
		builder.Add(node.RoleBody, low.block(body))
	}

	decl := builder.Build()
	low.typeParams[decl] = low.typeParameters(n.ChildByFieldName("type_parameters"))

	return decl
}

func (low *lowerer) constructor(n sitter.Node) *node.Node {
	mods, annotations := low.modifiers(n)
	name := n.ChildByFieldName("name")

	builder := node.NewBuilder(node.Constructor).
		WithName(low.text(name)).
		WithNameSpan(low.span(name)).
		WithModifiers(mods).
		WithSpan(low.span(n)).
		AddAll(node.RoleAnnotation, annotations...).
		AddAll(node.RoleParameter, low.formalParameters(n.ChildByFieldName("parameters"))...).
		Add(node.RoleBody, low.block(n.ChildByFieldName("body")))

	decl := builder.Build()
	low.typeParams[decl] = low.typeParameters(n.ChildByFieldName("type_parameters"))

	return decl
}

func (low *lowerer) formalParameters(n sitter.Node) []*node.Node {
	var out []*node.Node

	for _, child := range namedChildren(n) {
		switch child.Type() {
		case tsFormalParameter:
			out = append(out, low.formalParameter(child))
		case tsSpreadParameter:
			out = append(out, low.spreadParameter(child))
		}
	}

	return out
}

func (low *lowerer) formalParameter(n sitter.Node) *node.Node {
	mods, annotations := low.modifiers(n)
	name := n.ChildByFieldName("name")

	return node.NewBuilder(node.Variable).
		WithName(low.text(name)).
		WithNameSpan(low.span(name)).
		WithModifiers(mods).
		WithSpan(low.span(n)).
		AddAll(node.RoleAnnotation, annotations...).
		Add(node.RoleDeclType, low.typeRef(n.ChildByFieldName("type"), dims(low.text(n.ChildByFieldName("dimensions"))))).
		Build()
}

// spreadParameter lowers `T... name` to a Variable of array type.
func (low *lowerer) spreadParameter(n sitter.Node) *node.Node {
	mods, annotations := low.modifiers(n)

	var typeNode, declarator sitter.Node

	for _, child := range namedChildren(n) {
		switch typ := child.Type(); {
		case typ == tsModifiers:
		case typ == tsVarDeclarator:
			declarator = child
		case typeNode.IsNull() && !strings.HasSuffix(typ, "annotation"):
			typeNode = child
		}
	}

	name := declarator.ChildByFieldName("name")
	param := node.NewBuilder(node.Variable).
		WithName(low.text(name)).
		WithNameSpan(low.span(name)).
		WithModifiers(mods).
		WithSpan(low.span(n)).
		AddAll(node.RoleAnnotation, annotations...).
		Add(node.RoleDeclType, low.typeRef(typeNode, 1)).
		Build()
	low.varargs[param] = true

	return param
}

// enumConstant lowers an enum constant to a public static final Variable.
// Arguments and a constant body become an anonymous NewClass initializer.
func (low *lowerer) enumConstant(n sitter.Node, enumName string) *node.Node {
	_, annotations := low.modifiers(n)
	name := n.ChildByFieldName("name")

	builder := node.NewBuilder(node.Variable).
		WithName(low.text(name)).
		WithNameSpan(low.span(name)).
		WithModifiers(node.Public | node.Static | node.Final).
		WithSpan(low.span(n)).
		AddAll(node.RoleAnnotation, annotations...)

	declType := node.NewBuilder(node.TypeRef).WithToken(enumName).Build()
	low.typeExprs[declType] = &typeExpr{name: enumName}
	builder.Add(node.RoleDeclType, declType)

	args, body := n.ChildByFieldName("arguments"), n.ChildByFieldName("body")
	if !args.IsNull() || !body.IsNull() {
		ctorType := node.NewBuilder(node.TypeRef).WithToken(enumName).Build()
		low.typeExprs[ctorType] = &typeExpr{name: enumName}

		creation := node.NewBuilder(node.NewClass).
			WithName(enumName).
			WithSpan(low.span(n)).
			Add(node.RoleDeclType, ctorType).
			AddAll(node.RoleArgument, low.arguments(args)...)

		if !body.IsNull() {
			creation.Add(node.RoleBody, low.anonymousClass(body))
		}

		builder.Add(node.RoleInit, creation.Build())
	}

	constant := builder.Build()
	low.enumConstants[constant] = true

	return constant
}

func (low *lowerer) anonymousClass(body sitter.Node) *node.Node {
	return node.NewBuilder(node.Class).
		WithSpan(low.span(body)).
		AddAll(node.RoleMember, low.classBody(body, node.Class, "")...).
		Build()
}

// generic lowers constructs the rules never inspect to node.Other, keeping
// lowered children so that nested expressions are still visited.
func (low *lowerer) generic(n sitter.Node) *node.Node {
	if n.Type() == tsError {
		low.syntaxErrors++
	}

	builder := node.NewBuilder(node.Other).WithToken(n.Type()).WithSpan(low.span(n))

	for _, child := range namedChildren(n) {
		builder.AddAll(node.RoleNone, low.lowerChild(child)...)
	}

	return builder.Build()
}
