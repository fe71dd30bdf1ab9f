package javasrc

import (
	"regexp"
	"strings"
	"sync"

	"github.com/Consensys/errorprone-checks/pkg/jtype"
	"github.com/Consensys/errorprone-checks/pkg/node"
)

const constructorName = "<init>"

// method is a declared method or constructor of a library or unit class.
// Types mention the declaring class's type variables unsubstituted.
type method struct {
	ret         *jtype.Descriptor
	decl        *node.Node
	owner       string
	name        string
	typeParams  []string
	params      []*jtype.Descriptor
	annotations []string
	static      bool
	varargs     bool
}

func (m *method) isConstructor() bool {
	return m.name == constructorName
}

// field is a declared field or enum constant.
type field struct {
	typ         *jtype.Descriptor
	decl        *node.Node
	owner       string
	name        string
	annotations []string
	mods        node.Modifiers
	enum        bool
}

// classInfo is the member and supertype model of one class or interface.
type classInfo struct {
	methods map[string][]*method
	fields  map[string]*field
	// nested maps simple names of member types to qualified names.
	nested map[string]string
	decl   *node.Node
	name   string
	// outer is the enclosing class of a nested or anonymous class.
	outer      string
	sam        string
	typeParams []string
	supers     []*jtype.Descriptor
	kind       node.Kind
	// anonymous marks anonymous class bodies.
	anonymous bool
}

func newClassInfo(name string, kind node.Kind) *classInfo {
	return &classInfo{
		name:    name,
		kind:    kind,
		methods: make(map[string][]*method),
		fields:  make(map[string]*field),
		nested:  make(map[string]string),
	}
}

func (cls *classInfo) addMethod(m *method) {
	m.owner = cls.name
	cls.methods[m.name] = append(cls.methods[m.name], m)
}

func (cls *classInfo) addField(f *field) {
	f.owner = cls.name
	cls.fields[f.name] = f
}

// selfType is the class parameterized by its own type variables.
func (cls *classInfo) selfType() *jtype.Descriptor {
	args := make([]*jtype.Descriptor, 0, len(cls.typeParams))
	for _, param := range cls.typeParams {
		args = append(args, jtype.TypeVariable(param))
	}

	return jtype.Ref(cls.name, args...)
}

// library is a read-only set of class models.
type library struct {
	classes map[string]*classInfo
}

var builtinLibrary = sync.OnceValue(func() *library {
	lib := &library{classes: make(map[string]*classInfo)}
	lib.addJDK()
	lib.addFastutil()

	return lib
})

func (lib *library) class(name string) (*classInfo, bool) {
	cls, ok := lib.classes[name]

	return cls, ok
}

// declare registers a class from a header such as "java.util.List<E>", its
// direct supertypes and member declarations written in the signature syntax
// of parseMember.
func (lib *library) declare(kind node.Kind, header string, supers []string, members ...string) *classInfo {
	self := jtype.MustParse(header)
	cls := newClassInfo(self.Name, kind)

	for _, arg := range self.Args {
		cls.typeParams = append(cls.typeParams, arg.Name)
	}

	for _, super := range supers {
		cls.supers = append(cls.supers, jtype.MustParse(super))
	}

	for _, member := range members {
		if strings.Contains(member, "(") {
			cls.addMethod(parseMember(member))

			continue
		}

		cls.addField(parseField(member))
	}

	lib.classes[cls.name] = cls

	return cls
}

func (lib *library) iface(header string, supers []string, members ...string) *classInfo {
	return lib.declare(node.Interface, header, supers, members...)
}

func (lib *library) concrete(header string, supers []string, members ...string) *classInfo {
	return lib.declare(node.Class, header, supers, members...)
}

// functional declares an interface whose single abstract method is sam.
func (lib *library) functional(header string, supers []string, sam string, members ...string) *classInfo {
	cls := lib.declare(node.Interface, header, supers, members...)
	cls.sam = parseMember(sam).name

	cls.addMethod(parseMember(sam))

	return cls
}

var memberPattern = regexp.MustCompile(`^(static\s+)?(?:<([^>]*)>\s+)?(?:(.+?)\s+)?(<init>|[\w$]+)\((.*)\)$`)

// parseMember reads "static <T> java.util.List<T> of(T...)" and constructor
// specs such as "<init>(int)".
func parseMember(spec string) *method {
	parts := memberPattern.FindStringSubmatch(strings.TrimSpace(spec))
	if parts == nil {
		panic("javasrc: bad member spec " + spec)
	}

	m := &method{
		static: parts[1] != "",
		name:   parts[4],
		ret:    jtype.Primitive(jtype.Void),
	}

	if parts[2] != "" {
		for _, param := range strings.Split(parts[2], ",") {
			m.typeParams = append(m.typeParams, strings.TrimSpace(param))
		}
	}

	if parts[3] != "" {
		m.ret = jtype.MustParse(parts[3])
	}

	for _, param := range splitTopLevel(parts[5]) {
		if rest, ok := strings.CutSuffix(param, "..."); ok {
			m.varargs = true
			m.params = append(m.params, jtype.ArrayOf(jtype.MustParse(rest)))

			continue
		}

		m.params = append(m.params, jtype.MustParse(param))
	}

	return m
}

// parseField reads "static final double PI".
func parseField(spec string) *field {
	words := strings.Fields(spec)
	f := &field{name: words[len(words)-1]}

	idx := 0

	for ; idx < len(words)-1; idx++ {
		bit, ok := node.ModifierFor(words[idx])
		if !ok {
			break
		}

		f.mods |= bit
	}

	f.mods |= node.Public
	f.typ = jtype.MustParse(strings.Join(words[idx:len(words)-1], " "))

	return f
}

// splitTopLevel splits a parameter list at commas outside angle brackets.
func splitTopLevel(list string) []string {
	var (
		out   []string
		depth int
		start int
	)

	for idx, ch := range list {
		switch ch {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(list[start:idx]))
				start = idx + 1
			}
		}
	}

	if last := strings.TrimSpace(list[start:]); last != "" {
		out = append(out, last)
	}

	return out
}

// subst replaces type variables bound in bindings.
func subst(desc *jtype.Descriptor, bindings map[string]*jtype.Descriptor) *jtype.Descriptor {
	if desc == nil || len(bindings) == 0 {
		return desc
	}

	switch desc.Kind {
	case jtype.TypeVar:
		if bound, ok := bindings[desc.Name]; ok && bound != nil {
			return bound
		}

		return desc
	case jtype.Array:
		return jtype.ArrayOf(subst(desc.Elem, bindings))
	case jtype.Reference:
		if len(desc.Args) == 0 {
			return desc
		}

		args := make([]*jtype.Descriptor, len(desc.Args))
		for idx, arg := range desc.Args {
			args[idx] = subst(arg, bindings)
		}

		return jtype.Ref(desc.Name, args...)
	default:
		return desc
	}
}

// bindingsOf maps the type parameters of cls to the arguments of desc. Raw
// uses bind nothing.
func bindingsOf(cls *classInfo, desc *jtype.Descriptor) map[string]*jtype.Descriptor {
	if cls == nil || desc == nil || len(desc.Args) != len(cls.typeParams) {
		return nil
	}

	out := make(map[string]*jtype.Descriptor, len(cls.typeParams))
	for idx, param := range cls.typeParams {
		out[param] = desc.Args[idx]
	}

	return out
}
