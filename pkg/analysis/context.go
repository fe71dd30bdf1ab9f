package analysis

import (
	"github.com/Consensys/errorprone-checks/pkg/jtype"
	"github.com/Consensys/errorprone-checks/pkg/node"
)

// Context is the read-only traversal state handed to matchers and resolvers.
type Context struct {
	host Host
	path node.Path
}

// NewContext binds a host and the path to the node under inspection.
func NewContext(host Host, path node.Path) *Context {
	return &Context{host: host, path: path}
}

// Path returns the ancestor chain ending at the current node.
func (ctx *Context) Path() node.Path {
	return ctx.path
}

// Node returns the current node.
func (ctx *Context) Node() *node.Node {
	return ctx.path.Leaf()
}

// Parent returns the current node's parent.
func (ctx *Context) Parent() *node.Node {
	return ctx.path.Parent()
}

// Host returns the host collaborator, which may be nil.
func (ctx *Context) Host() Host {
	return ctx.host
}

// WithPath returns a context positioned at another path of the same unit.
func (ctx *Context) WithPath(path node.Path) *Context {
	return &Context{host: ctx.host, path: path}
}

// TypeOf returns the resolved type of n, or nil when it is unknown.
func (ctx *Context) TypeOf(n *node.Node) *jtype.Descriptor {
	if n == nil {
		return nil
	}

	if ctx.host == nil {
		if n.Type.IsResolved() {
			return n.Type
		}

		return nil
	}

	desc := ctx.host.TypeOf(n)
	if !desc.IsResolved() {
		return nil
	}

	return desc
}

// IsSubtypeOf reports whether t is nominally a subtype of qualifiedName.
func (ctx *Context) IsSubtypeOf(t *jtype.Descriptor, qualifiedName string) bool {
	if ctx.host == nil || !t.IsResolved() {
		return false
	}

	return ctx.host.IsSubtypeOf(t, qualifiedName)
}

// Signature returns the resolved callee of call.
func (ctx *Context) Signature(call *node.Node) (Signature, bool) {
	if ctx.host == nil || call == nil || !call.Kind.IsCall() {
		return Signature{}, false
	}

	return ctx.host.Signature(call)
}

// Symbol returns the declaration n refers to.
func (ctx *Context) Symbol(n *node.Node) (Symbol, bool) {
	if ctx.host == nil || n == nil {
		return Symbol{}, false
	}

	return ctx.host.Symbol(n)
}

// FunctionalReturn returns the functional-interface result type of lambda.
func (ctx *Context) FunctionalReturn(lambda *node.Node) *jtype.Descriptor {
	if ctx.host == nil || lambda == nil || lambda.Kind != node.Lambda {
		return nil
	}

	desc := ctx.host.FunctionalReturn(lambda)
	if !desc.IsResolved() {
		return nil
	}

	return desc
}
