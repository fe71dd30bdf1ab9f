// Package node provides the immutable syntax tree consumed by the analysis
// core: a closed set of node kinds, role-labelled children, explicit ancestor
// paths and pre-order traversal.
package node

import (
	"strings"

	"github.com/Consensys/errorprone-checks/pkg/jtype"
)

// Span is a half-open byte range [Start, End) with the 1-based line and
// column of Start.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
	Line  int `json:"line"`
	Col   int `json:"col"`
}

// Len returns the number of bytes covered.
func (span Span) Len() int {
	return span.End - span.Start
}

// IsZero reports whether the span was never set.
func (span Span) IsZero() bool {
	return span == Span{}
}

// Contains reports whether other lies inside span.
func (span Span) Contains(other Span) bool {
	return span.Start <= other.Start && other.End <= span.End
}

// Node is one element of a parsed compilation unit.
//
// Fields:
//
//	Type: semantic type bound by the host (nil when unresolved).
//	Name: declared or referenced simple name (declarations, identifiers, calls, annotations).
//	Token: source text for leaves, operators and type references.
//	Children: ordered children, each labelled with its Role.
//	Span: location of the whole node; NameSpan: location of the declared or called name.
//
// Nodes are built once by a host and never mutated afterwards.
type Node struct {
	Type      *jtype.Descriptor
	Name      string
	Token     string
	Children  []*Node
	Span      Span
	NameSpan  Span
	Kind      Kind
	Role      Role
	Op        Op
	Modifiers Modifiers
}

// Child returns the first child carrying role, or nil.
func (target *Node) Child(role Role) *Node {
	if target == nil {
		return nil
	}

	for _, child := range target.Children {
		if child.Role == role {
			return child
		}
	}

	return nil
}

// ChildrenWith returns every child carrying role, in order.
func (target *Node) ChildrenWith(role Role) []*Node {
	if target == nil {
		return nil
	}

	var out []*Node

	for _, child := range target.Children {
		if child.Role == role {
			out = append(out, child)
		}
	}

	return out
}

// IndexOf returns the position of child among the children sharing its role, or -1.
func (target *Node) IndexOf(child *Node) int {
	if target == nil || child == nil {
		return -1
	}

	idx := 0

	for _, candidate := range target.Children {
		if candidate == child {
			return idx
		}

		if candidate.Role == child.Role {
			idx++
		}
	}

	return -1
}

// Left is the left operand of a Binary node.
func (target *Node) Left() *Node { return target.Child(RoleLeft) }

// Right is the right operand of a Binary node.
func (target *Node) Right() *Node { return target.Child(RoleRight) }

// LHS is the assigned location of an Assignment or CompoundAssignment.
func (target *Node) LHS() *Node { return target.Child(RoleTarget) }

// RHS is the assigned value of an Assignment or CompoundAssignment.
func (target *Node) RHS() *Node { return target.Child(RoleValue) }

// Operand is the operand of a Unary node.
func (target *Node) Operand() *Node { return target.Child(RoleOperand) }

// Receiver is the qualifying expression of a call or field access.
func (target *Node) Receiver() *Node { return target.Child(RoleReceiver) }

// Args are the arguments of a MethodCall or NewClass node.
func (target *Node) Args() []*Node { return target.ChildrenWith(RoleArgument) }

// TypeArgs are the explicit type arguments of a TypeRef or call.
func (target *Node) TypeArgs() []*Node { return target.ChildrenWith(RoleTypeArgument) }

// Init is the initializer of a Variable.
func (target *Node) Init() *Node { return target.Child(RoleInit) }

// DeclType is the declared type of a Variable, Cast or NewClass.
func (target *Node) DeclType() *Node { return target.Child(RoleDeclType) }

// ReturnType is the declared result type of a Method.
func (target *Node) ReturnType() *Node { return target.Child(RoleReturnType) }

// Params are the parameters of a Method, Constructor or Lambda.
func (target *Node) Params() []*Node { return target.ChildrenWith(RoleParameter) }

// Body is the body of a function, type declaration or anonymous class.
func (target *Node) Body() *Node { return target.Child(RoleBody) }

// Expr is the wrapped expression of Return, ExpressionStatement, Parenthesized and Cast.
func (target *Node) Expr() *Node { return target.Child(RoleExpr) }

// Members are the declarations inside a type declaration.
func (target *Node) Members() []*Node { return target.ChildrenWith(RoleMember) }

// Annotations are the annotations attached to a declaration.
func (target *Node) Annotations() []*Node { return target.ChildrenWith(RoleAnnotation) }

// HasModifier reports whether the declaration carries every bit in mods.
func (target *Node) HasModifier(mods Modifiers) bool {
	return target != nil && target.Modifiers.Has(mods)
}

// Annotation returns the first annotation whose name, or the last segment of
// it, equals name.
func (target *Node) Annotation(name string) (*Node, bool) {
	for _, ann := range target.Annotations() {
		if ann.Name == name || lastSegment(ann.Name) == name {
			return ann, true
		}
	}

	return nil, false
}

// Element returns the value bound to key in an Annotation node. A lone
// unnamed argument is bound to "value".
func (target *Node) Element(key string) *Node {
	if target == nil || target.Kind != Annotation {
		return nil
	}

	for _, arg := range target.Args() {
		if arg.Kind == Assignment {
			if lhs := arg.LHS(); lhs != nil && lhs.Name == key {
				return arg.RHS()
			}

			continue
		}

		if key == "value" {
			return arg
		}
	}

	return nil
}

// Find returns every node in the subtree, target included, that satisfies pred.
func (target *Node) Find(pred func(*Node) bool) []*Node {
	var out []*Node

	Walk(target, func(path Path) bool {
		if pred(path.Leaf()) {
			out = append(out, path.Leaf())
		}

		return true
	})

	return out
}

// String renders a compact S-expression of the subtree for debugging and golden tests.
func (target *Node) String() string {
	var sb strings.Builder

	target.dump(&sb, 0)

	return sb.String()
}

func (target *Node) dump(sb *strings.Builder, depth int) {
	if target == nil {
		return
	}

	sb.WriteString(strings.Repeat("  ", depth))

	if target.Role != RoleNone {
		sb.WriteString(target.Role.String())
		sb.WriteString(": ")
	}

	sb.WriteString(target.Kind.String())

	if target.Name != "" {
		sb.WriteString(" name=")
		sb.WriteString(target.Name)
	}

	if target.Op != OpNone {
		sb.WriteString(" op=")
		sb.WriteString(target.Op.String())
	}

	if target.Kind == Literal || target.Kind == TypeRef {
		sb.WriteString(" token=")
		sb.WriteString(target.Token)
	}

	if target.Type.IsResolved() {
		sb.WriteString(" type=")
		sb.WriteString(target.Type.String())
	}

	sb.WriteByte('\n')

	for _, child := range target.Children {
		child.dump(sb, depth+1)
	}
}

func lastSegment(name string) string {
	if idx := strings.LastIndexByte(name, '.'); idx >= 0 {
		return name[idx+1:]
	}

	return name
}
