package matcher

import (
	"slices"

	"github.com/Consensys/errorprone-checks/pkg/analysis"
	"github.com/Consensys/errorprone-checks/pkg/jtype"
	"github.com/Consensys/errorprone-checks/pkg/node"
)

type callKind uint8

const (
	callStatic callKind = iota
	callInstance
	callConstructor
)

type ownerMode uint8

const (
	ownerAny ownerMode = iota
	ownerExact
	ownerDescendant
)

// MethodMatcher identifies a callee by declaring type, name and parameter
// types. Each builder step returns a new value, so partial matchers can be
// shared.
type MethodMatcher struct {
	owners    []string
	names     []string
	params    []*jtype.Descriptor
	kind      callKind
	ownerMode ownerMode
	hasParams bool
}

// StaticMethod starts a matcher for static method calls.
func StaticMethod() MethodMatcher {
	return MethodMatcher{kind: callStatic}
}

// InstanceMethod starts a matcher for instance method calls.
func InstanceMethod() MethodMatcher {
	return MethodMatcher{kind: callInstance}
}

// Constructor starts a matcher for constructor invocations.
func Constructor() MethodMatcher {
	return MethodMatcher{kind: callConstructor}
}

// OnClass requires the declaring type to be exactly name.
func (mm MethodMatcher) OnClass(name string) MethodMatcher {
	mm.owners = []string{name}
	mm.ownerMode = ownerExact

	return mm
}

// ForClass is OnClass for constructors.
func (mm MethodMatcher) ForClass(name string) MethodMatcher {
	return mm.OnClass(name)
}

// OnDescendantOf requires the receiver type to be a subtype of name.
func (mm MethodMatcher) OnDescendantOf(name string) MethodMatcher {
	return mm.OnDescendantOfAny(name)
}

// OnDescendantOfAny requires the receiver type to be a subtype of one of names.
func (mm MethodMatcher) OnDescendantOfAny(names ...string) MethodMatcher {
	mm.owners = slices.Clone(names)
	mm.ownerMode = ownerDescendant

	return mm
}

// AnyClass accepts any declaring type.
func (mm MethodMatcher) AnyClass() MethodMatcher {
	mm.owners = nil
	mm.ownerMode = ownerAny

	return mm
}

// Named requires the method name to be name.
func (mm MethodMatcher) Named(name string) MethodMatcher {
	return mm.NamedAnyOf(name)
}

// NamedAnyOf requires the method name to be one of names.
func (mm MethodMatcher) NamedAnyOf(names ...string) MethodMatcher {
	mm.names = slices.Clone(names)

	return mm
}

// WithParameters requires the erased declared parameter types to equal types.
// With no arguments it requires an empty parameter list.
func (mm MethodMatcher) WithParameters(types ...*jtype.Descriptor) MethodMatcher {
	mm.params = slices.Clone(types)
	mm.hasParams = true

	return mm
}

// WithParametersOf is WithParameters over type strings parsed with jtype.Parse.
func (mm MethodMatcher) WithParametersOf(types ...string) MethodMatcher {
	descs := make([]*jtype.Descriptor, 0, len(types))
	for _, text := range types {
		descs = append(descs, jtype.Parse(text))
	}

	return mm.WithParameters(descs...)
}

// Matcher returns the predicate form of mm.
func (mm MethodMatcher) Matcher() Matcher {
	return mm.Matches
}

// Matches reports whether n is a call whose resolved signature satisfies mm.
func (mm MethodMatcher) Matches(n *node.Node, ctx *analysis.Context) bool {
	if n == nil {
		return false
	}

	switch mm.kind {
	case callConstructor:
		if n.Kind != node.NewClass {
			return false
		}
	default:
		if n.Kind != node.MethodCall {
			return false
		}
	}

	sig, ok := ctx.Signature(n)
	if !ok {
		return false
	}

	if !mm.kindMatches(sig) {
		return false
	}

	if len(mm.names) > 0 && !slices.Contains(mm.names, sig.Name) {
		return false
	}

	if !mm.ownerMatches(n, sig, ctx) {
		return false
	}

	return !mm.hasParams || paramsEqual(sig.Params, mm.params)
}

func (mm MethodMatcher) kindMatches(sig analysis.Signature) bool {
	switch mm.kind {
	case callStatic:
		return sig.Static && !sig.Constructor
	case callInstance:
		return !sig.Static && !sig.Constructor
	default:
		return sig.Constructor
	}
}

func (mm MethodMatcher) ownerMatches(call *node.Node, sig analysis.Signature, ctx *analysis.Context) bool {
	switch mm.ownerMode {
	case ownerExact:
		return slices.Contains(mm.owners, sig.Owner)
	case ownerDescendant:
		recv := receiverType(call, sig, ctx)
		if recv == nil {
			return false
		}

		for _, owner := range mm.owners {
			if ctx.IsSubtypeOf(recv, owner) {
				return true
			}
		}

		return false
	default:
		return true
	}
}

// receiverType is the static type of the explicit receiver, falling back to
// the declaring type for unqualified calls.
func receiverType(call *node.Node, sig analysis.Signature, ctx *analysis.Context) *jtype.Descriptor {
	if recv := call.Receiver(); recv != nil {
		return ctx.TypeOf(recv)
	}

	if sig.Owner == "" {
		return nil
	}

	return jtype.Ref(sig.Owner)
}

func paramsEqual(have, want []*jtype.Descriptor) bool {
	if len(have) != len(want) {
		return false
	}

	for idx := range have {
		if !SameDescriptor(have[idx], want[idx]) {
			return false
		}
	}

	return true
}
