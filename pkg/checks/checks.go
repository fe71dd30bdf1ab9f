// Package checks provides the rules shipped with epcheck. Each rule is a
// pure analysis.Rule; the ones driven by data read it from tables.Tables.
package checks

import (
	"fmt"

	"github.com/Consensys/errorprone-checks/pkg/analysis"
	"github.com/Consensys/errorprone-checks/pkg/tables"
	"github.com/Consensys/errorprone-checks/pkg/targettype"
)

// Rule names.
const (
	NameMathTargetType                 = "MathTargetType"
	NameUseFastutil                    = "UseFastutil"
	NameDoNotUseDeprecatedFastutil     = "DoNotUseDeprecatedFastutilMethod"
	NameDoNotUseEntrySetWithFastutil   = "DoNotUseEntrySetWithFastutil"
	NameJavaCase                       = "JavaCase"
	NameReferenceComparison            = "ReferenceComparison"
	NameReturnsPrivateMutable          = "ReturnsPrivateMutable"
	NameDoNotReturnNullOptionals       = "DoNotReturnNullOptionals"
	NameExperimentalCliOptionDisplayed = "ExperimentalCliOptionMustBeCorrectlyDisplayed"
)

// All returns every rule in a stable order. A nil tabs behaves like
// tables.Empty(); opts configure the target-type walk of MathTargetType.
func All(tabs *tables.Tables, opts ...targettype.Option) []*analysis.Rule {
	if tabs == nil {
		tabs = tables.Empty()
	}

	return []*analysis.Rule{
		MathTargetType(opts...),
		UseFastutil(tabs),
		DoNotUseDeprecatedFastutilMethod(tabs),
		DoNotUseEntrySetWithFastutil(),
		JavaCase(),
		ReferenceComparison(),
		ReturnsPrivateMutable(tabs),
		DoNotReturnNullOptionals(),
		ExperimentalCliOptionMustBeCorrectlyDisplayed(),
	}
}

// didYouMean appends the replacement of a fix to a rule message.
func didYouMean(message, replacement string) string {
	return fmt.Sprintf("%s Did you mean '%s'?", message, replacement)
}
