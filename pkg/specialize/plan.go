package specialize

import (
	"strings"

	"github.com/Consensys/errorprone-checks/pkg/jtype"
)

// Root is the package every fastutil type lives under.
const Root = "it.unimi.dsi.fastutil"

// PackageOf returns the fastutil package of a specialization whose first
// type argument is lead, e.g. it.unimi.dsi.fastutil.ints for Int2ObjectMap.
func PackageOf(lead *jtype.Descriptor) string {
	return Root + "." + strings.ToLower(Abbrev(lead)) + "s"
}

// Form is the syntactic shape of the generic use being replaced.
type Form uint8

// Forms.
const (
	// FormConstructor is `new ArrayList<>(...)`.
	FormConstructor Form = iota
	// FormFactory is a static factory such as `List.of(...)`.
	FormFactory
)

// Suffixes is the configured specialization of one generic class.
type Suffixes struct {
	// Declared is the interface suffix used for the declared type ("List", "Map").
	Declared string
	// Implementation is the class suffix used in the expression ("ArrayList",
	// "OpenHashMap"). Empty means no specialized class is known.
	Implementation string
	Arity          int
}

// Replacement is the text of a specialization.
type Replacement struct {
	// Name is the specialized class, with a type parameter when one side stays generic.
	Name string
	// DeclaredType replaces the declared type of the receiving variable.
	DeclaredType string
	// Expression replaces the class part of the expression: the constructed
	// type for constructors and the factory owner for static factories.
	Expression string
	// Package holds the specialized types.
	Package string
}

// Qualified prefixes text, a Name, DeclaredType or Expression, with Package.
func (repl Replacement) Qualified(text string) string {
	if text == "" || repl.Package == "" {
		return text
	}

	return repl.Package + "." + text
}

// Plan builds the replacement for a use with the bound type arguments args.
// It reports false when the arity does not match or no implementation suffix
// is configured.
func Plan(args []*jtype.Descriptor, suffixes Suffixes, form Form) (Replacement, bool) {
	if suffixes.Implementation == "" || len(args) != suffixes.Arity {
		return Replacement{}, false
	}

	switch suffixes.Arity {
	case 1:
		return Replacement{
			Name:         SingleName(args[0], suffixes.Implementation),
			DeclaredType: SingleName(args[0], suffixes.Declared),
			Expression:   expression(SingleName(args[0], suffixes.Implementation), !IsSpecializable(args[0]), form),
			Package:      PackageOf(args[0]),
		}, true
	case 2:
		stem := pairStem(args[0], args[1])
		generic := !IsSpecializable(args[0]) || !IsSpecializable(args[1])

		repl := Replacement{
			Name:       PairName(args[0], args[1], suffixes.Implementation),
			Expression: expression(stem+suffixes.Implementation, generic, form),
			Package:    PackageOf(args[0]),
		}

		if suffixes.Declared != "" {
			repl.DeclaredType = PairName(args[0], args[1], suffixes.Declared)
		}

		return repl, true
	default:
		return Replacement{}, false
	}
}

func expression(name string, generic bool, form Form) string {
	if form == FormConstructor && generic {
		return name + "<>"
	}

	return name
}
