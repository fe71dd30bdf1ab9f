package node

import (
	"github.com/Consensys/errorprone-checks/pkg/jtype"
)

// Allocation constants.
const (
	initialChildCap = 4
)

// Builder provides a fluent interface for building Node instances.
type Builder struct {
	node *Node
}

// NewBuilder starts a node of the given kind.
func NewBuilder(kind Kind) *Builder {
	return &Builder{node: &Node{Kind: kind, Children: make([]*Node, 0, initialChildCap)}}
}

// WithName sets the node name.
func (builder *Builder) WithName(name string) *Builder {
	builder.node.Name = name

	return builder
}

// WithToken sets the node token.
func (builder *Builder) WithToken(token string) *Builder {
	builder.node.Token = token

	return builder
}

// WithType binds a semantic type.
func (builder *Builder) WithType(desc *jtype.Descriptor) *Builder {
	builder.node.Type = desc

	return builder
}

// WithOp sets the operator.
func (builder *Builder) WithOp(op Op) *Builder {
	builder.node.Op = op

	return builder
}

// WithModifiers sets the modifier bits.
func (builder *Builder) WithModifiers(mods Modifiers) *Builder {
	builder.node.Modifiers = mods

	return builder
}

// WithSpan sets the node span.
func (builder *Builder) WithSpan(span Span) *Builder {
	builder.node.Span = span

	return builder
}

// WithNameSpan sets the span of the declared or called name.
func (builder *Builder) WithNameSpan(span Span) *Builder {
	builder.node.NameSpan = span

	return builder
}

// Add appends child under role. Nil children are ignored.
func (builder *Builder) Add(role Role, child *Node) *Builder {
	if child == nil {
		return builder
	}

	child.Role = role
	builder.node.Children = append(builder.node.Children, child)

	return builder
}

// AddAll appends every child under role.
func (builder *Builder) AddAll(role Role, children ...*Node) *Builder {
	for _, child := range children {
		builder.Add(role, child)
	}

	return builder
}

// Build returns the finished node. The builder must not be reused.
func (builder *Builder) Build() *Node {
	return builder.node
}

// Ident builds an Identifier reference.
func Ident(name string, desc *jtype.Descriptor) *Node {
	return NewBuilder(Identifier).WithName(name).WithType(desc).Build()
}

// Lit builds a Literal with its source token.
func Lit(token string, desc *jtype.Descriptor) *Node {
	return NewBuilder(Literal).WithToken(token).WithType(desc).Build()
}

// Null builds a null literal.
func Null() *Node {
	return NewBuilder(NullLiteral).WithToken("null").Build()
}

// TypeRefOf builds a TypeRef written as token and resolved to desc.
func TypeRefOf(token string, desc *jtype.Descriptor) *Node {
	return NewBuilder(TypeRef).WithToken(token).WithType(desc).Build()
}

// BinaryOf builds a Binary expression.
func BinaryOf(op Op, left, right *Node, desc *jtype.Descriptor) *Node {
	return NewBuilder(Binary).WithOp(op).WithType(desc).
		Add(RoleLeft, left).
		Add(RoleRight, right).
		Build()
}

// AssignOf builds an Assignment typed as its target.
func AssignOf(lhs, rhs *Node) *Node {
	return NewBuilder(Assignment).WithType(lhs.Type).
		Add(RoleTarget, lhs).
		Add(RoleValue, rhs).
		Build()
}

// VarOf builds a Variable declaration with an optional initializer.
func VarOf(name string, declType, init *Node) *Node {
	builder := NewBuilder(Variable).WithName(name).Add(RoleDeclType, declType).Add(RoleInit, init)
	if declType != nil {
		builder.WithType(declType.Type)
	}

	return builder.Build()
}

// CallOf builds a MethodCall with an optional receiver.
func CallOf(name string, receiver *Node, desc *jtype.Descriptor, args ...*Node) *Node {
	return NewBuilder(MethodCall).WithName(name).WithType(desc).
		Add(RoleReceiver, receiver).
		AddAll(RoleArgument, args...).
		Build()
}

// ReturnOf builds a Return statement.
func ReturnOf(expr *Node) *Node {
	return NewBuilder(Return).Add(RoleExpr, expr).Build()
}

// CastOf builds a Cast to declType.
func CastOf(declType, expr *Node) *Node {
	return NewBuilder(Cast).WithType(declType.Type).
		Add(RoleDeclType, declType).
		Add(RoleExpr, expr).
		Build()
}

// ParenOf wraps expr in parentheses.
func ParenOf(expr *Node) *Node {
	return NewBuilder(Parenthesized).WithType(expr.Type).Add(RoleExpr, expr).Build()
}

// BlockOf builds a Block of statements.
func BlockOf(stmts ...*Node) *Node {
	return NewBuilder(Block).AddAll(RoleStatement, stmts...).Build()
}

// StmtOf wraps expr in an ExpressionStatement.
func StmtOf(expr *Node) *Node {
	return NewBuilder(ExpressionStatement).Add(RoleExpr, expr).Build()
}
