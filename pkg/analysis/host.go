// Package analysis provides the contract between a host compiler and the
// rules: the host queries, the traversal context, findings with optional
// fixes, and the runner that dispatches rules over a compilation unit.
package analysis

import (
	"slices"

	"github.com/Consensys/errorprone-checks/pkg/jtype"
	"github.com/Consensys/errorprone-checks/pkg/node"
)

// Host answers semantic questions about a parsed compilation unit. Every
// method is total: absent information is reported as nil or false.
type Host interface {
	// TypeOf returns the semantic type bound to n.
	TypeOf(n *node.Node) *jtype.Descriptor
	// IsSubtypeOf reports nominal subtyping of t against a qualified type name.
	IsSubtypeOf(t *jtype.Descriptor, qualifiedName string) bool
	// Signature returns the resolved callee of a MethodCall or NewClass.
	Signature(call *node.Node) (Signature, bool)
	// Symbol returns the declaration an Identifier, FieldAccess or declaration node refers to.
	Symbol(n *node.Node) (Symbol, bool)
	// FunctionalReturn returns the result type of the functional interface a Lambda implements.
	FunctionalReturn(lambda *node.Node) *jtype.Descriptor
}

// Signature is a resolved method or constructor.
type Signature struct {
	Return *jtype.Descriptor
	// Decl is the declaring Method or Constructor when it is in the same unit.
	Decl        *node.Node
	Owner       string
	Name        string
	Params      []*jtype.Descriptor
	Annotations []string
	Static      bool
	Constructor bool
	Varargs     bool
}

// ParamAt returns the declared parameter type for argument position idx,
// expanding a trailing varargs array. It returns nil past the last parameter.
func (sig Signature) ParamAt(idx int) *jtype.Descriptor {
	if idx < 0 {
		return nil
	}

	if idx < len(sig.Params) {
		last := len(sig.Params) - 1
		if sig.Varargs && idx == last && sig.Params[last].Kind == jtype.Array {
			return sig.Params[last].Elem
		}

		return sig.Params[idx]
	}

	if sig.Varargs && len(sig.Params) > 0 {
		if last := sig.Params[len(sig.Params)-1]; last.Kind == jtype.Array {
			return last.Elem
		}
	}

	return nil
}

// SymbolKind classifies a declaration.
type SymbolKind uint8

// Symbol kinds.
const (
	SymUnknown SymbolKind = iota
	SymField
	SymLocal
	SymParam
	SymMethod
	SymClass
	SymEnumConstant
)

// Symbol describes a declaration.
type Symbol struct {
	Type *jtype.Descriptor
	// Decl is the declaring node when it is in the same unit.
	Decl        *node.Node
	Owner       string
	Name        string
	Annotations []string
	Kind        SymbolKind
	Modifiers   node.Modifiers
	// Enum marks enum constants and enum types.
	Enum bool
	// Nullable marks declarations annotated @Nullable or initialized with null.
	Nullable bool
}

// IsInstanceField reports whether the symbol is a non-static field.
func (sym Symbol) IsInstanceField() bool {
	return sym.Kind == SymField && !sym.Modifiers.Has(node.Static)
}

// HasAnnotation reports whether an annotation with the given simple name is present.
func (sym Symbol) HasAnnotation(simple string) bool {
	return slices.ContainsFunc(sym.Annotations, func(name string) bool {
		return jtype.SimpleName(name) == simple
	})
}

// StaticHost is an in-memory Host over a tree whose nodes already carry
// their types. It suits hosts that bind everything up front, and tests.
type StaticHost struct {
	// Supertypes maps a qualified name to its direct supertypes.
	Supertypes  map[string][]string
	Signatures  map[*node.Node]Signature
	Symbols     map[*node.Node]Symbol
	Functionals map[*node.Node]*jtype.Descriptor
}

// NewStaticHost returns an empty StaticHost.
func NewStaticHost() *StaticHost {
	return &StaticHost{
		Supertypes:  make(map[string][]string),
		Signatures:  make(map[*node.Node]Signature),
		Symbols:     make(map[*node.Node]Symbol),
		Functionals: make(map[*node.Node]*jtype.Descriptor),
	}
}

// TypeOf implements Host.
func (host *StaticHost) TypeOf(n *node.Node) *jtype.Descriptor {
	if n == nil || !n.Type.IsResolved() {
		return nil
	}

	return n.Type
}

// IsSubtypeOf implements Host with a breadth-first search over Supertypes.
func (host *StaticHost) IsSubtypeOf(t *jtype.Descriptor, qualifiedName string) bool {
	if !t.IsReference() {
		return false
	}

	return SubtypeSearch(t.Name, qualifiedName, func(name string) []string {
		return host.Supertypes[name]
	})
}

// Signature implements Host.
func (host *StaticHost) Signature(call *node.Node) (Signature, bool) {
	sig, ok := host.Signatures[call]

	return sig, ok
}

// Symbol implements Host.
func (host *StaticHost) Symbol(n *node.Node) (Symbol, bool) {
	sym, ok := host.Symbols[n]

	return sym, ok
}

// FunctionalReturn implements Host.
func (host *StaticHost) FunctionalReturn(lambda *node.Node) *jtype.Descriptor {
	return host.Functionals[lambda]
}

// SubtypeSearch walks supers breadth-first from name and reports whether
// target is reachable. Every type is a subtype of java.lang.Object.
func SubtypeSearch(name, target string, supers func(string) []string) bool {
	if name == target || target == jtype.ObjectName {
		return true
	}

	seen := map[string]bool{name: true}
	queue := []string{name}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, parent := range supers(current) {
			if parent == target {
				return true
			}

			if !seen[parent] {
				seen[parent] = true
				queue = append(queue, parent)
			}
		}
	}

	return false
}
