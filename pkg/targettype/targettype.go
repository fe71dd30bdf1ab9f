// Package targettype resolves the type an expression is expected to conform
// to by walking its enclosing syntax backwards until a context that fixes the
// type (assignment, comparison, call argument, return, cast or declaration).
package targettype

import (
	"github.com/Consensys/errorprone-checks/pkg/analysis"
	"github.com/Consensys/errorprone-checks/pkg/jtype"
	"github.com/Consensys/errorprone-checks/pkg/node"
)

// Step names the context that ended the walk.
type Step uint8

// Steps.
const (
	StepUnknown Step = iota
	StepAssignment
	StepComparison
	StepCallArgument
	StepReturn
	StepCast
	StepDeclaration
)

var stepNames = [...]string{
	StepUnknown:      "unknown",
	StepAssignment:   "assignment",
	StepComparison:   "comparison",
	StepCallArgument: "call-argument",
	StepReturn:       "return",
	StepCast:         "cast",
	StepDeclaration:  "declaration",
}

func (step Step) String() string {
	if int(step) < len(stepNames) {
		return stepNames[step]
	}

	return "unknown"
}

// Result describes one resolution. Type is nil when Step is StepUnknown or
// when the deciding context has no resolved type.
type Result struct {
	Type  *jtype.Descriptor
	Step  Step
	Depth int
}

// Found reports whether a target type was determined.
func (res Result) Found() bool {
	return res.Step != StepUnknown && res.Type != nil
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMaxDepth caps how many non-terminal operators the walk may pass through.
// Zero leaves the walk bounded only by the tree.
func WithMaxDepth(depth int) Option {
	return func(resolver *Resolver) {
		resolver.maxDepth = max(depth, 0)
	}
}

// Resolver is a stateless target-type resolver.
type Resolver struct {
	maxDepth int
}

// New builds a Resolver.
func New(opts ...Option) *Resolver {
	resolver := &Resolver{}

	for _, opt := range opts {
		opt(resolver)
	}

	return resolver
}

var defaultResolver = New()

// Resolve returns the target type of the leaf of path using an unbounded walk.
func Resolve(ctx *analysis.Context, path node.Path) (*jtype.Descriptor, bool) {
	res := defaultResolver.Resolve(ctx, path)

	return res.Type, res.Found()
}

// ResolveDetailed is Resolve returning the deciding step and walk depth.
func ResolveDetailed(ctx *analysis.Context, path node.Path) Result {
	return defaultResolver.Resolve(ctx, path)
}

// Resolve walks from the leaf of path towards the root.
func (resolver *Resolver) Resolve(ctx *analysis.Context, path node.Path) Result {
	expr := path.Leaf()
	cursor := path.ParentPath()
	depth := 0

	for cursor.Len() > 0 {
		parent := cursor.Leaf()

		switch parent.Kind {
		case node.Assignment:
			if parent.RHS() != expr {
				return Result{Depth: depth}
			}

			return settle(ctx.TypeOf(parent.LHS()), StepAssignment, depth)
		case node.Binary:
			if parent.Op.IsComparison() {
				other := parent.Right()
				if other == expr {
					other = parent.Left()
				}

				return settle(ctx.TypeOf(other), StepComparison, depth)
			}

			depth++
			if resolver.maxDepth > 0 && depth > resolver.maxDepth {
				return Result{Depth: depth}
			}
		case node.Parenthesized:
			// Parentheses do not form a context of their own.
		case node.MethodCall, node.NewClass:
			return resolveArgument(ctx, parent, expr, depth)
		case node.Return:
			return resolveReturn(ctx, cursor, depth)
		case node.Cast:
			return settle(ctx.TypeOf(parent), StepCast, depth)
		case node.Variable:
			if parent.Init() != expr {
				return Result{Depth: depth}
			}

			return settle(ctx.TypeOf(parent), StepDeclaration, depth)
		case node.Other, node.CompilationUnit, node.Class, node.Interface, node.Enum,
			node.Method, node.Constructor, node.Lambda, node.Block, node.ExpressionStatement,
			node.CompoundAssignment, node.Unary, node.Conditional, node.FieldAccess,
			node.Identifier, node.Literal, node.NullLiteral, node.This, node.TypeRef,
			node.Annotation, node.NumKinds:
			return Result{Depth: depth}
		}

		expr = parent
		cursor = cursor.ParentPath()
	}

	return Result{Depth: depth}
}

func settle(desc *jtype.Descriptor, step Step, depth int) Result {
	if desc == nil {
		return Result{Depth: depth}
	}

	return Result{Type: desc, Step: step, Depth: depth}
}

// resolveArgument handles expr used as an argument of call; a receiver or
// any other child position is not an argument context.
func resolveArgument(ctx *analysis.Context, call, expr *node.Node, depth int) Result {
	if expr.Role != node.RoleArgument {
		return Result{Depth: depth}
	}

	sig, ok := ctx.Signature(call)
	if !ok {
		return Result{Depth: depth}
	}

	return settle(sig.ParamAt(call.IndexOf(expr)), StepCallArgument, depth)
}

// resolveReturn uses the nearest enclosing named method or lambda.
func resolveReturn(ctx *analysis.Context, returnPath node.Path, depth int) Result {
	fn, _, ok := returnPath.Enclosing(node.Method, node.Constructor, node.Lambda)
	if !ok {
		return Result{Depth: depth}
	}

	switch fn.Kind {
	case node.Lambda:
		return settle(ctx.FunctionalReturn(fn), StepReturn, depth)
	case node.Method:
		desc := ctx.TypeOf(fn.ReturnType())
		if desc == nil {
			desc = ctx.TypeOf(fn)
		}

		return settle(desc, StepReturn, depth)
	default:
		return Result{Depth: depth}
	}
}
