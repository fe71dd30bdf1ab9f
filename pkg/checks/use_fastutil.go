package checks

import (
	"github.com/Consensys/errorprone-checks/pkg/analysis"
	"github.com/Consensys/errorprone-checks/pkg/jtype"
	"github.com/Consensys/errorprone-checks/pkg/matcher"
	"github.com/Consensys/errorprone-checks/pkg/node"
	"github.com/Consensys/errorprone-checks/pkg/specialize"
	"github.com/Consensys/errorprone-checks/pkg/tables"
)

const useFastutilMessage = "Use the fastutil equivalent for better performance."

// fastutilCandidate is a generic JDK class, or one of its static
// factories, that fastutil specializes.
type fastutilCandidate struct {
	class   string
	factory string
	arity   int
}

// fastutilCandidates lists the HashSet, HashMap, LinkedHashSet,
// LinkedHashMap, TreeSet, TreeMap, IdentityHashMap, ArrayList and Stack
// family fastutil ships type-specific versions of, plus the immutable
// factories.
var fastutilCandidates = []fastutilCandidate{
	{class: "java.util.ArrayList", arity: 1},
	{class: "java.util.HashSet", arity: 1},
	{class: "java.util.LinkedHashSet", arity: 1},
	{class: "java.util.LinkedList", arity: 1},
	{class: "java.util.Stack", arity: 1},
	{class: "java.util.TreeSet", arity: 1},
	{class: "java.util.HashMap", arity: 2},
	{class: "java.util.IdentityHashMap", arity: 2},
	{class: "java.util.LinkedHashMap", arity: 2},
	{class: "java.util.TreeMap", arity: 2},
	{class: "java.util.List", factory: "of", arity: 1},
	{class: "java.util.Set", factory: "of", arity: 1},
	{class: "java.util.Map", factory: "of", arity: 2},
	{class: "java.util.Map", factory: "ofEntries", arity: 2},
}

type fastutilUse struct {
	match matcher.Matcher
	fastutilCandidate
}

// UseFastutil reports generic collections whose element, key or value type
// is a boxed primitive. Constructors with a configured specialization get a
// fix naming the fastutil class.
func UseFastutil(tabs *tables.Tables) *analysis.Rule {
	uses := make([]fastutilUse, 0, len(fastutilCandidates))

	for _, cand := range fastutilCandidates {
		mm := matcher.Constructor().ForClass(cand.class)
		if cand.factory != "" {
			mm = matcher.StaticMethod().OnClass(cand.class).Named(cand.factory)
		}

		uses = append(uses, fastutilUse{match: mm.Matcher(), fastutilCandidate: cand})
	}

	return &analysis.Rule{
		Name:     NameUseFastutil,
		Summary:  useFastutilMessage,
		Severity: analysis.Suggestion,
		Kinds:    []node.Kind{node.NewClass, node.MethodCall},
		Check: func(n *node.Node, ctx *analysis.Context) (analysis.Finding, bool) {
			for _, use := range uses {
				if use.match(n, ctx) {
					return checkFastutilUse(n, ctx, tabs, use.fastutilCandidate)
				}
			}

			return analysis.Finding{}, false
		},
	}
}

func checkFastutilUse(
	n *node.Node, ctx *analysis.Context, tabs *tables.Tables, cand fastutilCandidate,
) (analysis.Finding, bool) {
	result := ctx.TypeOf(n)
	if result == nil || len(result.Args) != cand.arity || !anyBoxedPrimitive(result.Args) {
		return analysis.Finding{}, false
	}

	form, spec, ok := specialize.FormConstructor, tables.Specialization{}, false
	if cand.factory == "" {
		spec, ok = tabs.Constructor(cand.class)
	} else {
		form = specialize.FormFactory
		spec, ok = tabs.Factory(cand.class, cand.factory)
	}

	if !ok {
		return analysis.NewFinding(n, useFastutilMessage), true
	}

	repl, planned := specialize.Plan(result.Args, spec.Suffixes, form)
	if !planned {
		return analysis.NewFinding(n, useFastutilMessage), true
	}

	finding := analysis.Newf(n, "%s Consider %s.", useFastutilMessage, repl.Name)
	if form == specialize.FormConstructor && !n.NameSpan.IsZero() && n.Body() == nil {
		finding = finding.WithFix(n.NameSpan, repl.Qualified(repl.Expression), declaredTypeEdits(n, ctx, spec, repl)...)
	}

	return finding, true
}

// declaredTypeEdits retypes the variable initialized by n to the specialized
// interface. Only sole declarators of the generic interface that are never
// reassigned are retyped; anything else keeps its declared type.
func declaredTypeEdits(
	n *node.Node, ctx *analysis.Context, spec tables.Specialization, repl specialize.Replacement,
) []analysis.Edit {
	decl := ctx.Parent()
	if decl == nil || decl.Kind != node.Variable || decl.Init() != n || repl.DeclaredType == "" {
		return nil
	}

	declType := decl.DeclType()
	if declType == nil || declType.Span.IsZero() || !decl.Span.Contains(declType.Span) {
		return nil
	}

	typ := ctx.TypeOf(decl)
	if typ == nil || typ.Name != jdkUtil+spec.Suffixes.Declared {
		return nil
	}

	if !decl.HasModifier(node.Final) && (isField(ctx) || reassigned(decl, ctx)) {
		return nil
	}

	return []analysis.Edit{{Span: declType.Span, Replacement: repl.Qualified(repl.DeclaredType)}}
}

const jdkUtil = "java.util."

func isField(ctx *analysis.Context) bool {
	owner := ctx.Path().ParentPath().Parent()

	return owner != nil && owner.Kind.IsTypeDecl()
}

func reassigned(decl *node.Node, ctx *analysis.Context) bool {
	writes := ctx.Path().Root().Find(func(n *node.Node) bool {
		if n.Kind != node.Assignment && n.Kind != node.CompoundAssignment {
			return false
		}

		sym, ok := ctx.Symbol(n.LHS())

		return ok && sym.Decl == decl
	})

	return len(writes) > 0
}

func anyBoxedPrimitive(args []*jtype.Descriptor) bool {
	for _, arg := range args {
		if arg.IsReference() && jtype.Unbox(arg) != jtype.None {
			return true
		}
	}

	return false
}
