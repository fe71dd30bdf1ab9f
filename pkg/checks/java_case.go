package checks

import (
	"slices"
	"strings"

	"github.com/Consensys/errorprone-checks/pkg/analysis"
	"github.com/Consensys/errorprone-checks/pkg/casefmt"
	"github.com/Consensys/errorprone-checks/pkg/node"
)

const javaCaseMessage = "Use the appropriate case."

// JavaCase enforces Java naming conventions: CONSTANT_CASE for static final
// fields and interface fields, lowerCamel for other variables and methods,
// UpperCamel (or an all-uppercase acronym) for types. The fix renames the
// declaration and its uses in the unit.
func JavaCase() *analysis.Rule {
	return &analysis.Rule{
		Name:     NameJavaCase,
		Summary:  javaCaseMessage,
		Severity: analysis.Suggestion,
		Kinds:    []node.Kind{node.Variable, node.Method, node.Class, node.Interface, node.Enum},
		Check: func(decl *node.Node, ctx *analysis.Context) (analysis.Finding, bool) {
			want, ok := expectedName(decl, ctx)
			if !ok || want == decl.Name {
				return analysis.Finding{}, false
			}

			finding := analysis.NewFinding(decl, didYouMean(javaCaseMessage, want))
			if !decl.NameSpan.IsZero() {
				finding.Span = decl.NameSpan
				finding = finding.WithFix(decl.NameSpan, want, renameUses(decl, ctx, want)...)
			}

			return finding, true
		},
	}
}

// renameUses returns the edits renaming every reference to decl in the
// unit: identifiers and field accesses bound to a variable, calls bound to a
// method, and for a type its own constructors. Type references are left to
// the declaration edit.
func renameUses(decl *node.Node, ctx *analysis.Context, name string) []analysis.Edit {
	var edits []analysis.Edit

	for _, use := range ctx.Path().Root().Find(func(n *node.Node) bool { return refersTo(n, decl, ctx) }) {
		if !use.NameSpan.IsZero() {
			edits = append(edits, analysis.Edit{Span: use.NameSpan, Replacement: name})
		}
	}

	return edits
}

func refersTo(n, decl *node.Node, ctx *analysis.Context) bool {
	if n == decl {
		return false
	}

	switch n.Kind {
	case node.Identifier, node.FieldAccess:
		sym, ok := ctx.Symbol(n)

		return ok && sym.Decl == decl && decl.Kind == node.Variable
	case node.MethodCall:
		sig, ok := ctx.Signature(n)

		return ok && sig.Decl == decl && decl.Kind == node.Method
	case node.Constructor:
		return decl.Kind.IsTypeDecl() && n.Name == decl.Name && slices.Contains(decl.Members(), n)
	default:
		return false
	}
}

// expectedName returns the conforming name for decl, or false when decl
// already conforms or has no name.
func expectedName(decl *node.Node, ctx *analysis.Context) (string, bool) {
	name := decl.Name
	if name == "" {
		return "", false
	}

	switch decl.Kind {
	case node.Variable:
		if isConstant(decl, ctx) {
			if casefmt.ConformsConstant(name) {
				return "", false
			}

			return casefmt.ToConstant(name), true
		}

		// Lambdas often name unused parameters _ or __.
		if casefmt.IsUnderscores(name) || casefmt.ConformsLowerCamel(name) {
			return "", false
		}

		return casefmt.ToLowerCamel(name), true
	case node.Method:
		if casefmt.ConformsLowerCamel(name) || isTestMethod(decl) {
			return "", false
		}

		return casefmt.ToLowerCamel(name), true
	default:
		if casefmt.IsAllUpper(name) || casefmt.ConformsUpperCamel(name) {
			return "", false
		}

		return casefmt.ToUpperCamel(name), true
	}
}

// isConstant reports static final variables and fields of interfaces,
// which are implicitly constant.
func isConstant(decl *node.Node, ctx *analysis.Context) bool {
	if decl.HasModifier(node.Static | node.Final) {
		return true
	}

	parent := ctx.Parent()

	return parent != nil && parent.Kind == node.Interface
}

// isTestMethod reports methods annotated with a test annotation; test names
// often mix in underscores.
func isTestMethod(decl *node.Node) bool {
	for _, ann := range decl.Annotations() {
		if strings.Contains(ann.Name, "Test") {
			return true
		}
	}

	return false
}
