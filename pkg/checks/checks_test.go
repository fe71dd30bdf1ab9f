package checks_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Consensys/errorprone-checks/internal/testjava"
	"github.com/Consensys/errorprone-checks/pkg/analysis"
	"github.com/Consensys/errorprone-checks/pkg/checks"
	"github.com/Consensys/errorprone-checks/pkg/tables"
)

func fixture(name string) string {
	return filepath.Join("testdata", name+".txtar")
}

func TestRuleFixtures(t *testing.T) {
	t.Parallel()

	tabs := tables.Default()

	tests := []struct {
		fixture string
		rule    *analysis.Rule
	}{
		{"math_target_type", checks.MathTargetType()},
		{"use_fastutil", checks.UseFastutil(tabs)},
		{"deprecated_fastutil", checks.DoNotUseDeprecatedFastutilMethod(tabs)},
		{"entry_set", checks.DoNotUseEntrySetWithFastutil()},
		{"java_case", checks.JavaCase()},
		{"reference_comparison", checks.ReferenceComparison()},
		{"returns_private_mutable", checks.ReturnsPrivateMutable(tabs)},
		{"null_optionals", checks.DoNotReturnNullOptionals()},
		{"experimental_option", checks.ExperimentalCliOptionMustBeCorrectlyDisplayed()},
	}

	for _, tt := range tests {
		t.Run(tt.rule.Name, func(t *testing.T) {
			t.Parallel()

			testjava.Run(t, fixture(tt.fixture), tt.rule)
		})
	}
}

func TestAllIsStable(t *testing.T) {
	t.Parallel()

	rules := checks.All(tables.Default())
	require.Len(t, rules, 9)

	names := make([]string, 0, len(rules))
	for _, rule := range rules {
		names = append(names, rule.Name)
		assert.NotEmpty(t, rule.Summary, rule.Name)
		assert.NotEmpty(t, rule.Kinds, rule.Name)
		assert.NotNil(t, rule.Check, rule.Name)
	}

	assert.Equal(t, []string{
		checks.NameMathTargetType,
		checks.NameUseFastutil,
		checks.NameDoNotUseDeprecatedFastutil,
		checks.NameDoNotUseEntrySetWithFastutil,
		checks.NameJavaCase,
		checks.NameReferenceComparison,
		checks.NameReturnsPrivateMutable,
		checks.NameDoNotReturnNullOptionals,
		checks.NameExperimentalCliOptionDisplayed,
	}, names)
}

func TestAllWithoutTables(t *testing.T) {
	t.Parallel()

	findings := testjava.RunSource(t, `import java.util.*;

class Holder {
  private List<String> names = new ArrayList<>();

  public List<String> names() {
    return names;
  }

  List<Integer> ids = new ArrayList<>(); // want "Use the fastutil equivalent for better performance."
}
`, checks.All(nil)...)

	require.Len(t, findings, 1)
	assert.Equal(t, checks.NameUseFastutil, findings[0].Rule)
	assert.Nil(t, findings[0].Fix)
}

func TestMathTargetTypeReportsCallSpan(t *testing.T) {
	t.Parallel()

	findings := testjava.RunSource(t, `class A {
  long f() {
    long a = Math.max(1, 2); // want "long types"
    return a;
  }
}
`, checks.MathTargetType())

	require.Len(t, findings, 1)
	assert.Equal(t, analysis.Warning, findings[0].Severity)
	assert.Equal(t, 3, findings[0].Span.Line)
	assert.Equal(t, 14, findings[0].Span.Col)
}

func TestJavaCaseReportsNameSpan(t *testing.T) {
	t.Parallel()

	findings := testjava.RunSource(t, `class A {
  int Bad_name; // want "Did you mean 'badName'?"
}
`, checks.JavaCase())

	require.Len(t, findings, 1)
	assert.Equal(t, 7, findings[0].Span.Col)
	require.NotNil(t, findings[0].Fix)
	assert.Equal(t, "badName", findings[0].Fix.Replacement)
}
