package checks

import (
	"github.com/Consensys/errorprone-checks/pkg/analysis"
	"github.com/Consensys/errorprone-checks/pkg/jtype"
	"github.com/Consensys/errorprone-checks/pkg/matcher"
	"github.com/Consensys/errorprone-checks/pkg/node"
	"github.com/Consensys/errorprone-checks/pkg/targettype"
)

// confusedMathCall matches the java.lang.Math functions overloaded for
// several numeric kinds, where the chosen overload may not be the one the
// result is used as.
var confusedMathCall = matcher.StaticMethod().
	OnClass("java.lang.Math").
	NamedAnyOf("min", "max", "addExact", "subtractExact", "multiplyExact", "floorDiv", "floorMod").
	Matcher()

// MathTargetType reports Math calls whose result is used as a primitive kind
// none of the arguments has, e.g. `long a = Math.min(0, 1);`.
func MathTargetType(opts ...targettype.Option) *analysis.Rule {
	resolver := targettype.New(opts...)

	return &analysis.Rule{
		Name:     NameMathTargetType,
		Summary:  "Neither of the Math function arguments are the same as the target type.",
		Severity: analysis.Warning,
		Kinds:    []node.Kind{node.MethodCall},
		Check: func(call *node.Node, ctx *analysis.Context) (analysis.Finding, bool) {
			if !confusedMathCall(call, ctx) {
				return analysis.Finding{}, false
			}

			res := resolver.Resolve(ctx, ctx.Path())
			if !res.Found() || !res.Type.IsPrimitive() {
				return analysis.Finding{}, false
			}

			if anyArgumentIs(call, ctx, res.Type.Kind) {
				return analysis.Finding{}, false
			}

			return analysis.Newf(call,
				"Neither of the function arguments are %s types but the result is treated as such.",
				res.Type.Kind), true
		},
	}
}

// anyArgumentIs reports whether an argument has kind. An argument of unknown
// type counts as a match so that missing information never reports.
func anyArgumentIs(call *node.Node, ctx *analysis.Context, kind jtype.Kind) bool {
	for _, arg := range call.Args() {
		desc := ctx.TypeOf(arg)
		if desc == nil || desc.Kind == kind {
			return true
		}
	}

	return false
}
