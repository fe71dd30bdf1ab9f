// Package jtype provides the semantic type descriptors that a host attaches to
// syntax nodes: primitive kinds, boxed wrappers, parameterized references,
// arrays and type variables.
package jtype

import (
	"strings"
)

// Kind is the primitive/kind tag of a Descriptor.
type Kind uint8

// Kind values. None is the unresolved placeholder.
const (
	None Kind = iota
	Boolean
	Byte
	Char
	Short
	Int
	Long
	Float
	Double
	Void
	Reference
	Array
	TypeVar
)

var kindNames = [...]string{
	None:      "none",
	Boolean:   "boolean",
	Byte:      "byte",
	Char:      "char",
	Short:     "short",
	Int:       "int",
	Long:      "long",
	Float:     "float",
	Double:    "double",
	Void:      "void",
	Reference: "reference",
	Array:     "array",
	TypeVar:   "typevar",
}

// String returns the Java keyword for primitive kinds and a lowercase label otherwise.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return "none"
}

// IsPrimitive reports whether k is one of the eight primitive kinds.
func (k Kind) IsPrimitive() bool {
	return k >= Boolean && k <= Double
}

// IsNumeric reports whether k is a primitive numeric kind (char included).
func (k Kind) IsNumeric() bool {
	return k >= Byte && k <= Double
}

// Primitives lists the eight primitive kinds in declaration order.
var Primitives = []Kind{Boolean, Byte, Char, Short, Int, Long, Float, Double}

// Qualified names of the java.lang roots used across the module.
const (
	ObjectName = "java.lang.Object"
	StringName = "java.lang.String"
	EnumName   = "java.lang.Enum"
	ClassName  = "java.lang.Class"
)

var boxes = map[Kind]string{
	Boolean: "java.lang.Boolean",
	Byte:    "java.lang.Byte",
	Char:    "java.lang.Character",
	Short:   "java.lang.Short",
	Int:     "java.lang.Integer",
	Long:    "java.lang.Long",
	Float:   "java.lang.Float",
	Double:  "java.lang.Double",
}

var unboxes = func() map[string]Kind {
	out := make(map[string]Kind, len(boxes))
	for kind, name := range boxes {
		out[name] = kind
	}

	return out
}()

var keywords = map[string]Kind{
	"boolean": Boolean,
	"byte":    Byte,
	"char":    Char,
	"short":   Short,
	"int":     Int,
	"long":    Long,
	"float":   Float,
	"double":  Double,
	"void":    Void,
}

// Descriptor is an immutable semantic type.
type Descriptor struct {
	// Name is the qualified name for Reference kinds and the variable name for TypeVar.
	Name string
	// Args are the bound type arguments of a parameterized reference.
	Args []*Descriptor
	// Elem is the component type of an Array.
	Elem *Descriptor
	Kind Kind
}

var primitiveDescriptors = func() map[Kind]*Descriptor {
	out := make(map[Kind]*Descriptor, len(keywords))
	for _, kind := range keywords {
		out[kind] = &Descriptor{Kind: kind}
	}

	return out
}()

var unresolved = &Descriptor{Kind: None}

// Primitive returns the shared descriptor for a primitive kind or void.
func Primitive(kind Kind) *Descriptor {
	if desc, ok := primitiveDescriptors[kind]; ok {
		return desc
	}

	return unresolved
}

// Keyword returns the descriptor for a primitive keyword such as "int".
func Keyword(word string) (*Descriptor, bool) {
	kind, ok := keywords[word]
	if !ok {
		return nil, false
	}

	return Primitive(kind), true
}

// Ref builds a reference descriptor with optional type arguments.
func Ref(name string, args ...*Descriptor) *Descriptor {
	return &Descriptor{Kind: Reference, Name: name, Args: args}
}

// ArrayOf builds an array descriptor.
func ArrayOf(elem *Descriptor) *Descriptor {
	return &Descriptor{Kind: Array, Elem: elem}
}

// TypeVariable builds a type-variable descriptor.
func TypeVariable(name string) *Descriptor {
	return &Descriptor{Kind: TypeVar, Name: name}
}

// Unresolved returns the placeholder descriptor.
func Unresolved() *Descriptor {
	return unresolved
}

// Boxed returns the wrapper class descriptor for a primitive kind.
func Boxed(kind Kind) (*Descriptor, bool) {
	name, ok := boxes[kind]
	if !ok {
		return nil, false
	}

	return Ref(name), true
}

// BoxName returns the qualified wrapper class name for a primitive kind.
func BoxName(kind Kind) string {
	return boxes[kind]
}

// Unbox maps primitives to themselves and java.lang wrappers to their primitive.
// Every other descriptor, nil included, maps to None.
func Unbox(desc *Descriptor) Kind {
	if desc == nil {
		return None
	}

	if desc.Kind.IsPrimitive() {
		return desc.Kind
	}

	if desc.Kind == Reference {
		return unboxes[desc.Name]
	}

	return None
}

// ArgCompatible reports whether two descriptors may bind the same type argument:
// their kinds match or one of them is unresolved.
func ArgCompatible(left, right *Descriptor) bool {
	if left == nil || right == nil || left.Kind == None || right.Kind == None {
		return true
	}

	return left.Kind == right.Kind
}

// IsResolved reports whether desc carries usable information.
func (desc *Descriptor) IsResolved() bool {
	return desc != nil && desc.Kind != None
}

// IsReference reports whether desc is a class or interface type.
func (desc *Descriptor) IsReference() bool {
	return desc != nil && desc.Kind == Reference
}

// IsPrimitive reports whether desc is a primitive type.
func (desc *Descriptor) IsPrimitive() bool {
	return desc != nil && desc.Kind.IsPrimitive()
}

// Is reports whether desc is the reference type with the given qualified name,
// ignoring type arguments.
func (desc *Descriptor) Is(name string) bool {
	return desc.IsReference() && desc.Name == name
}

// Arg returns the i-th type argument or nil.
func (desc *Descriptor) Arg(idx int) *Descriptor {
	if desc == nil || idx < 0 || idx >= len(desc.Args) {
		return nil
	}

	return desc.Args[idx]
}

// Erasure drops type arguments, recursively for arrays.
func (desc *Descriptor) Erasure() *Descriptor {
	if desc == nil {
		return nil
	}

	switch desc.Kind {
	case Reference:
		if len(desc.Args) == 0 {
			return desc
		}

		return Ref(desc.Name)
	case Array:
		return ArrayOf(desc.Elem.Erasure())
	case TypeVar:
		return Ref(ObjectName)
	default:
		return desc
	}
}

// SimpleName returns the unqualified name of a reference type.
func (desc *Descriptor) SimpleName() string {
	if desc == nil {
		return ""
	}

	return SimpleName(desc.Name)
}

// SimpleName returns the last dotted segment of a qualified name.
func SimpleName(qualified string) string {
	if idx := strings.LastIndexByte(qualified, '.'); idx >= 0 {
		return qualified[idx+1:]
	}

	return qualified
}

// String renders the descriptor as Java source with qualified names.
func (desc *Descriptor) String() string {
	var sb strings.Builder

	desc.render(&sb, false)

	return sb.String()
}

// SourceName renders the descriptor with simple names, as written in source.
func (desc *Descriptor) SourceName() string {
	var sb strings.Builder

	desc.render(&sb, true)

	return sb.String()
}

func (desc *Descriptor) render(sb *strings.Builder, simple bool) {
	if desc == nil {
		sb.WriteString("none")

		return
	}

	switch desc.Kind {
	case Reference:
		if simple {
			sb.WriteString(SimpleName(desc.Name))
		} else {
			sb.WriteString(desc.Name)
		}

		if len(desc.Args) == 0 {
			return
		}

		sb.WriteByte('<')

		for idx, arg := range desc.Args {
			if idx > 0 {
				sb.WriteString(", ")
			}

			arg.render(sb, simple)
		}

		sb.WriteByte('>')
	case Array:
		desc.Elem.render(sb, simple)
		sb.WriteString("[]")
	case TypeVar:
		sb.WriteString(desc.Name)
	default:
		sb.WriteString(desc.Kind.String())
	}
}

// Equal reports structural equality including type arguments.
func (desc *Descriptor) Equal(other *Descriptor) bool {
	if desc == nil || other == nil {
		return desc == other
	}

	if desc.Kind != other.Kind || desc.Name != other.Name || len(desc.Args) != len(other.Args) {
		return false
	}

	for idx := range desc.Args {
		if !desc.Args[idx].Equal(other.Args[idx]) {
			return false
		}
	}

	if desc.Kind == Array {
		return desc.Elem.Equal(other.Elem)
	}

	return true
}
