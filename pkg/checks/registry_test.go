package checks_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Consensys/errorprone-checks/pkg/analysis"
	"github.com/Consensys/errorprone-checks/pkg/checks"
	"github.com/Consensys/errorprone-checks/pkg/tables"
)

func newRegistry(t *testing.T) *checks.Registry {
	t.Helper()

	reg, err := checks.NewRegistry(checks.All(tables.Default()))
	require.NoError(t, err)

	return reg
}

func ruleNames(rules []*analysis.Rule) []string {
	out := make([]string, 0, len(rules))
	for _, rule := range rules {
		out = append(out, rule.Name)
	}

	return out
}

func TestRegistry_AllStableOrder(t *testing.T) {
	t.Parallel()

	reg := newRegistry(t)

	assert.Equal(t, ruleNames(checks.All(nil)), reg.Names())
	assert.Equal(t, reg.Names(), ruleNames(reg.All()))

	rule, ok := reg.Rule(checks.NameJavaCase)
	require.True(t, ok)
	assert.Equal(t, checks.NameJavaCase, rule.Name)

	_, ok = reg.Rule("Nope")
	assert.False(t, ok)
}

func TestRegistry_RejectsDuplicates(t *testing.T) {
	t.Parallel()

	_, err := checks.NewRegistry([]*analysis.Rule{checks.JavaCase(), checks.JavaCase()})
	require.ErrorIs(t, err, checks.ErrDuplicateRule)
}

func TestRegistry_SelectDefaultsToEverything(t *testing.T) {
	t.Parallel()

	reg := newRegistry(t)

	rules, err := reg.Select(nil, nil)
	require.NoError(t, err)
	assert.Len(t, rules, len(reg.Names()))
}

func TestRegistry_SelectGlobs(t *testing.T) {
	t.Parallel()

	reg := newRegistry(t)

	rules, err := reg.Select([]string{"DoNotUse*", "JavaCase"}, []string{"DoNotUseEntrySet*"})
	require.NoError(t, err)
	assert.Equal(t, []string{checks.NameDoNotUseDeprecatedFastutil, checks.NameJavaCase}, ruleNames(rules))
}

func TestRegistry_SelectDisableOnly(t *testing.T) {
	t.Parallel()

	reg := newRegistry(t)

	rules, err := reg.Select(nil, []string{" JavaCase ", "*Fastutil*"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		checks.NameMathTargetType,
		checks.NameReferenceComparison,
		checks.NameReturnsPrivateMutable,
		checks.NameDoNotReturnNullOptionals,
		checks.NameExperimentalCliOptionDisplayed,
	}, ruleNames(rules))
}

func TestRegistry_SelectErrors(t *testing.T) {
	t.Parallel()

	reg := newRegistry(t)

	_, err := reg.Select([]string{"Unknown"}, nil)
	require.ErrorIs(t, err, checks.ErrUnknownRule)

	_, err = reg.Select([]string{"Zzz*"}, nil)
	require.ErrorIs(t, err, checks.ErrUnknownRule)

	_, err = reg.Select(nil, []string{"["})
	require.ErrorIs(t, err, checks.ErrInvalidGlob)

	_, err = reg.Select([]string{""}, nil)
	require.ErrorIs(t, err, checks.ErrUnknownRule)
}

func TestRegistry_UnknownRuleSuggestsNearMiss(t *testing.T) {
	t.Parallel()

	reg := newRegistry(t)

	_, err := reg.Select([]string{"javacase"}, nil)
	require.ErrorIs(t, err, checks.ErrUnknownRule)
	assert.Contains(t, err.Error(), "did you mean JavaCase?")

	_, err = reg.Select([]string{"Completely_Unrelated_Name"}, nil)
	require.ErrorIs(t, err, checks.ErrUnknownRule)
	assert.NotContains(t, err.Error(), "did you mean")
}
