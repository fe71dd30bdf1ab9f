package checks

import (
	"github.com/Consensys/errorprone-checks/pkg/analysis"
	"github.com/Consensys/errorprone-checks/pkg/matcher"
	"github.com/Consensys/errorprone-checks/pkg/node"
	"github.com/Consensys/errorprone-checks/pkg/specialize"
	"github.com/Consensys/errorprone-checks/pkg/tables"
)

const (
	// fastutilFunction is implemented by every fastutil map.
	fastutilFunction       = "it.unimi.dsi.fastutil.Function"
	object2ObjectFunction  = "it.unimi.dsi.fastutil.objects.Object2ObjectFunction"
	deprecatedMessage      = "Use type-specific fastutil method instead."
	deprecatedEntryMessage = "Use type-specific fastutil entrySet method instead."
	entrySetMessage        = "Use type-specific entrySet method instead."
	entrySetSuffix         = "EntrySet"
)

var (
	fastutilEntrySet = matcher.InstanceMethod().OnDescendantOf(fastutilFunction).Named("entrySet").Matcher()

	// Object2ObjectMap.entrySet() is the type-specific accessor already.
	genericEntrySet = matcher.AllOf(
		fastutilEntrySet,
		matcher.Not(matcher.InstanceMethod().OnDescendantOf(object2ObjectFunction).Matcher()),
	)
)

// deprecatedMatcher builds one matcher over every configured deprecated method.
func deprecatedMatcher(tabs *tables.Tables) matcher.Matcher {
	entries := tabs.DeprecatedMethods()
	matchers := make([]matcher.Matcher, 0, len(entries))

	for _, entry := range entries {
		mm := matcher.InstanceMethod().OnDescendantOfAny(entry.On...).NamedAnyOf(entry.Methods...)
		if entry.Params != nil {
			mm = mm.WithParameters(entry.Params...)
		}

		matchers = append(matchers, mm.Matcher())
	}

	return matcher.AnyOf(matchers...)
}

// DoNotUseDeprecatedFastutilMethod reports calls of the boxing overloads
// fastutil deprecates, and generic entrySet() on primitive maps with a fix
// renaming it to the type-specific accessor.
func DoNotUseDeprecatedFastutilMethod(tabs *tables.Tables) *analysis.Rule {
	deprecated := deprecatedMatcher(tabs)

	return &analysis.Rule{
		Name:     NameDoNotUseDeprecatedFastutil,
		Summary:  deprecatedMessage,
		Severity: analysis.Suggestion,
		Kinds:    []node.Kind{node.MethodCall},
		Check: func(call *node.Node, ctx *analysis.Context) (analysis.Finding, bool) {
			if deprecated(call, ctx) {
				return analysis.NewFinding(call, deprecatedMessage), true
			}

			if !genericEntrySet(call, ctx) {
				return analysis.Finding{}, false
			}

			accessor, ok := entrySetAccessor(call, ctx)
			if !ok || call.NameSpan.IsZero() {
				return analysis.NewFinding(call, deprecatedEntryMessage), true
			}

			return analysis.NewFinding(call, didYouMean(deprecatedEntryMessage, accessor)).
				WithFix(call.NameSpan, accessor), true
		},
	}
}

// DoNotUseEntrySetWithFastutil reports every generic entrySet() on a
// fastutil map.
func DoNotUseEntrySetWithFastutil() *analysis.Rule {
	return &analysis.Rule{
		Name:     NameDoNotUseEntrySetWithFastutil,
		Summary:  "Do not use entrySet() with fastutil maps.",
		Severity: analysis.Warning,
		Kinds:    []node.Kind{node.MethodCall},
		Check: func(call *node.Node, ctx *analysis.Context) (analysis.Finding, bool) {
			if !fastutilEntrySet(call, ctx) {
				return analysis.Finding{}, false
			}

			if accessor, ok := entrySetAccessor(call, ctx); ok {
				return analysis.Newf(call, "%s Consider %s.", entrySetMessage, accessor), true
			}

			return analysis.NewFinding(call, entrySetMessage), true
		},
	}
}

// entrySetAccessor names the type-specific accessor from the result of
// entrySet(), a set of Map.Entry<K, V>: int2ObjectEntrySet for Integer keys
// and String values.
func entrySetAccessor(call *node.Node, ctx *analysis.Context) (string, bool) {
	result := ctx.TypeOf(call)

	entry := result.Arg(0)
	if entry == nil || len(entry.Args) != 2 {
		return "", false
	}

	return specialize.AccessorName(entry.Args[0], entry.Args[1], entrySetSuffix), true
}
