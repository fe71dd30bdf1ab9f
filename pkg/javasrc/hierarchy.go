package javasrc

import (
	"github.com/Consensys/errorprone-checks/pkg/analysis"
	"github.com/Consensys/errorprone-checks/pkg/jtype"
	"github.com/Consensys/errorprone-checks/pkg/node"
)

// typeSystem answers class, member and subtype queries over the classes of
// one unit, the built-in library and configured extra supertype edges.
type typeSystem struct {
	local map[string]*classInfo
	lib   *library
	extra map[string][]string
}

func newTypeSystem(lib *library, extra map[string][]string) *typeSystem {
	return &typeSystem{
		local: make(map[string]*classInfo),
		lib:   lib,
		extra: extra,
	}
}

func (ts *typeSystem) class(name string) (*classInfo, bool) {
	if cls, ok := ts.local[name]; ok {
		return cls, true
	}

	return ts.lib.class(name)
}

func (ts *typeSystem) known(name string) bool {
	_, ok := ts.class(name)

	return ok || len(ts.extra[name]) > 0
}

// supertypes returns the direct supertypes of a reference type with the
// type arguments of desc substituted. Classes without a declared superclass
// extend Object.
func (ts *typeSystem) supertypes(desc *jtype.Descriptor) []*jtype.Descriptor {
	if !desc.IsReference() || desc.Name == jtype.ObjectName {
		return nil
	}

	var out []*jtype.Descriptor

	if cls, ok := ts.class(desc.Name); ok {
		bindings := bindingsOf(cls, desc)
		raw := len(desc.Args) == 0 && len(cls.typeParams) > 0

		for _, super := range cls.supers {
			if raw {
				out = append(out, super.Erasure())

				continue
			}

			out = append(out, subst(super, bindings))
		}
	}

	for _, name := range ts.extra[desc.Name] {
		out = append(out, jtype.Ref(name))
	}

	if len(out) == 0 {
		out = append(out, jtype.Ref(jtype.ObjectName))
	}

	return out
}

func (ts *typeSystem) superNames(name string) []string {
	supers := ts.supertypes(jtype.Ref(name))
	out := make([]string, 0, len(supers))

	for _, super := range supers {
		out = append(out, super.Name)
	}

	return out
}

// isSubtype reports nominal subtyping of a reference type against a
// qualified name. Arrays are subtypes of Object only.
func (ts *typeSystem) isSubtype(desc *jtype.Descriptor, target string) bool {
	switch {
	case desc == nil:
		return false
	case desc.Kind == jtype.Array || desc.Kind == jtype.TypeVar:
		return target == jtype.ObjectName
	case !desc.IsReference():
		return false
	}

	return analysis.SubtypeSearch(desc.Name, target, ts.superNames)
}

// asSuper views desc as its supertype named target, carrying substituted
// type arguments, or returns nil when target is not a supertype.
func (ts *typeSystem) asSuper(desc *jtype.Descriptor, target string) *jtype.Descriptor {
	if !desc.IsReference() {
		return nil
	}

	seen := map[string]bool{desc.Name: true}
	queue := []*jtype.Descriptor{desc}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current.Name == target {
			return current
		}

		for _, super := range ts.supertypes(current) {
			if !seen[super.Name] {
				seen[super.Name] = true
				queue = append(queue, super)
			}
		}
	}

	return nil
}

// boundMethod is a method seen through a receiver type: class type
// variables are replaced by the receiver's type arguments.
type boundMethod struct {
	decl   *method
	ret    *jtype.Descriptor
	params []*jtype.Descriptor
}

// Members of a raw receiver are erased, except static methods: their type
// variables are their own and stay open for inference.
func bindMethod(m *method, bindings map[string]*jtype.Descriptor, raw bool) boundMethod {
	out := boundMethod{decl: m, ret: subst(m.ret, bindings), params: make([]*jtype.Descriptor, len(m.params))}

	for idx, param := range m.params {
		out.params[idx] = subst(param, bindings)
	}

	if raw && !m.static {
		out.ret = out.ret.Erasure()
		for idx, param := range out.params {
			out.params[idx] = param.Erasure()
		}
	}

	return out
}

// erasedKey identifies an override-equivalent parameter list.
func (bm boundMethod) erasedKey() string {
	key := ""
	for _, param := range bm.params {
		key += param.Erasure().String() + ","
	}

	return key
}

// methods returns the methods named name that are members of desc, most
// derived first. Overridden declarations are dropped, and static interface
// methods are only members of the interface itself.
func (ts *typeSystem) methods(desc *jtype.Descriptor, name string) []boundMethod {
	if desc == nil {
		return nil
	}

	if desc.Kind == jtype.TypeVar || desc.Kind == jtype.Array {
		desc = jtype.Ref(jtype.ObjectName)
	}

	if !desc.IsReference() {
		return nil
	}

	var out []boundMethod

	seenKeys := make(map[string]bool)
	seenTypes := map[string]bool{desc.Name: true}
	queue := []*jtype.Descriptor{desc}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if cls, ok := ts.class(current.Name); ok {
			raw := len(current.Args) == 0 && len(cls.typeParams) > 0
			bindings := bindingsOf(cls, current)

			for _, m := range cls.methods[name] {
				if m.isConstructor() {
					continue
				}

				if m.static && cls.kind == node.Interface && current != desc {
					continue
				}

				bound := bindMethod(m, bindings, raw)
				if key := bound.erasedKey(); !seenKeys[key] {
					seenKeys[key] = true
					out = append(out, bound)
				}
			}
		}

		for _, super := range ts.supertypes(current) {
			if !seenTypes[super.Name] {
				seenTypes[super.Name] = true
				queue = append(queue, super)
			}
		}
	}

	return out
}

// constructors returns the constructors of the class desc names. A class
// without declared constructors has the implicit no-argument one.
func (ts *typeSystem) constructors(desc *jtype.Descriptor) []boundMethod {
	cls, ok := ts.class(desc.Name)
	if !ok {
		return nil
	}

	raw := len(desc.Args) == 0 && len(cls.typeParams) > 0
	bindings := bindingsOf(cls, desc)

	var out []boundMethod

	for _, m := range cls.methods[constructorName] {
		out = append(out, bindMethod(m, bindings, raw))
	}

	if len(out) == 0 {
		out = append(out, boundMethod{
			decl: &method{owner: cls.name, name: constructorName, ret: jtype.Primitive(jtype.Void)},
			ret:  jtype.Primitive(jtype.Void),
		})
	}

	return out
}

// field returns the field named name visible through desc and its type as
// seen through desc.
func (ts *typeSystem) field(desc *jtype.Descriptor, name string) (*field, *jtype.Descriptor, bool) {
	if !desc.IsReference() {
		return nil, nil, false
	}

	seen := map[string]bool{desc.Name: true}
	queue := []*jtype.Descriptor{desc}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if cls, ok := ts.class(current.Name); ok {
			if f, found := cls.fields[name]; found {
				return f, subst(f.typ, bindingsOf(cls, current)), true
			}
		}

		for _, super := range ts.supertypes(current) {
			if !seen[super.Name] {
				seen[super.Name] = true
				queue = append(queue, super)
			}
		}
	}

	return nil, nil, false
}

// sam returns the single abstract method of a functional interface type as
// seen through desc.
func (ts *typeSystem) sam(desc *jtype.Descriptor) (boundMethod, bool) {
	if !desc.IsReference() {
		return boundMethod{}, false
	}

	seen := map[string]bool{desc.Name: true}
	queue := []*jtype.Descriptor{desc}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if cls, ok := ts.class(current.Name); ok && cls.sam != "" {
			raw := len(current.Args) == 0 && len(cls.typeParams) > 0

			for _, m := range cls.methods[cls.sam] {
				if !m.static {
					return bindMethod(m, bindingsOf(cls, current), raw), true
				}
			}
		}

		for _, super := range ts.supertypes(current) {
			if !seen[super.Name] {
				seen[super.Name] = true
				queue = append(queue, super)
			}
		}
	}

	return boundMethod{}, false
}

// isFunctional reports whether desc is a functional interface type.
func (ts *typeSystem) isFunctional(desc *jtype.Descriptor) bool {
	_, ok := ts.sam(desc)

	return ok
}
