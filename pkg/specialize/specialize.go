// Package specialize synthesizes the names of type-specialized container
// APIs (fastutil style) from the type arguments of a generic use.
package specialize

import (
	"strings"

	"github.com/Consensys/errorprone-checks/pkg/jtype"
)

// Fallback is the abbreviation of every type argument without a primitive form.
const Fallback = "Object"

var abbreviations = map[jtype.Kind]string{
	jtype.Boolean: "Boolean",
	jtype.Byte:    "Byte",
	jtype.Char:    "Char",
	jtype.Short:   "Short",
	jtype.Int:     "Int",
	jtype.Long:    "Long",
	jtype.Float:   "Float",
	jtype.Double:  "Double",
}

// Abbrev returns the specialization label of a type argument. Boxed wrappers
// use the label of their primitive; everything else, nil included, is Fallback.
func Abbrev(arg *jtype.Descriptor) string {
	if label, ok := abbreviations[jtype.Unbox(arg)]; ok {
		return label
	}

	return Fallback
}

// IsSpecializable reports whether arg has its own label.
func IsSpecializable(arg *jtype.Descriptor) bool {
	_, ok := abbreviations[jtype.Unbox(arg)]

	return ok
}

// SingleName names the specialization of a one-argument container:
// Abbrev(arg) followed by suffix.
func SingleName(arg *jtype.Descriptor, suffix string) string {
	return Abbrev(arg) + suffix
}

// PairName names the specialization of a two-argument container. When a
// suffix is requested and exactly one side keeps its generic form, that
// side's type is appended as a type parameter.
func PairName(left, right *jtype.Descriptor, suffix string) string {
	name := pairStem(left, right) + suffix
	if suffix == "" {
		return name
	}

	if generic := genericSide(left, right); generic != nil {
		return name + "<" + generic.SourceName() + ">"
	}

	return name
}

// AccessorName names a type-specific accessor method on a two-argument
// container, such as int2ObjectEntrySet. It never carries type parameters.
func AccessorName(left, right *jtype.Descriptor, suffix string) string {
	return lowerFirst(pairStem(left, right) + suffix)
}

func pairStem(left, right *jtype.Descriptor) string {
	return Abbrev(left) + "2" + Abbrev(right)
}

// genericSide returns the one argument without a label, or nil when both or
// neither have one.
func genericSide(left, right *jtype.Descriptor) *jtype.Descriptor {
	leftGeneric, rightGeneric := !IsSpecializable(left), !IsSpecializable(right)

	switch {
	case leftGeneric && !rightGeneric:
		return orObject(left)
	case rightGeneric && !leftGeneric:
		return orObject(right)
	default:
		return nil
	}
}

func orObject(desc *jtype.Descriptor) *jtype.Descriptor {
	if !desc.IsResolved() {
		return jtype.Ref(jtype.ObjectName)
	}

	return desc
}

func lowerFirst(name string) string {
	if name == "" {
		return name
	}

	return strings.ToLower(name[:1]) + name[1:]
}
