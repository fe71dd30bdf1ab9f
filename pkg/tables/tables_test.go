package tables_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Consensys/errorprone-checks/pkg/jtype"
	"github.com/Consensys/errorprone-checks/pkg/tables"
)

func TestDefaultExpandsFamilies(t *testing.T) {
	t.Parallel()

	defaults := tables.Default()
	require.Len(t, defaults.Families(), 8)

	var setEntries []tables.DeprecatedMethod

	for _, method := range defaults.DeprecatedMethods() {
		if method.Group == "set" {
			setEntries = append(setEntries, method)
		}
	}

	require.Len(t, setEntries, 8)

	var intSet *tables.DeprecatedMethod

	for idx := range setEntries {
		if setEntries[idx].On[0] == "it.unimi.dsi.fastutil.ints.IntList" {
			intSet = &setEntries[idx]
		}
	}

	require.NotNil(t, intSet)
	require.Len(t, intSet.Params, 2)
	assert.Equal(t, jtype.Int, intSet.Params[0].Kind)
	assert.Equal(t, "java.lang.Integer", intSet.Params[1].Name)
}

func TestDefaultParamlessEntriesAcceptAnyOverload(t *testing.T) {
	t.Parallel()

	for _, method := range tables.Default().DeprecatedMethods() {
		if method.Methods[0] == "get" || method.Methods[0] == "stream" {
			assert.Nil(t, method.Params, method.On[0])
		}
	}
}

func TestDefaultToArrayUsesPrimitiveArrays(t *testing.T) {
	t.Parallel()

	for _, method := range tables.Default().DeprecatedMethods() {
		if method.Group != "to_array" {
			continue
		}

		require.Len(t, method.Params, 1)
		assert.Equal(t, jtype.Array, method.Params[0].Kind)
		assert.True(t, method.Params[0].Elem.IsPrimitive())
		assert.True(t, strings.HasPrefix(method.Methods[0], "to"))
	}
}

func TestDefaultSpecializations(t *testing.T) {
	t.Parallel()

	defaults := tables.Default()

	spec, ok := defaults.Constructor("java.util.HashMap")
	require.True(t, ok)
	assert.Equal(t, "OpenHashMap", spec.Suffixes.Implementation)
	assert.Equal(t, 2, spec.Suffixes.Arity)

	spec, ok = defaults.Constructor("java.util.IdentityHashMap")
	require.True(t, ok)
	assert.Empty(t, spec.Suffixes.Implementation)

	spec, ok = defaults.Factory("java.util.List", "of")
	require.True(t, ok)
	assert.Equal(t, "List", spec.Suffixes.Implementation)

	_, ok = defaults.Constructor("java.util.List")
	assert.False(t, ok, "interfaces have no constructor entry")

	assert.Contains(t, defaults.MutableTypes(), "java.util.Map")
	assert.Len(t, defaults.Specializations(), 14)
}

func TestLoadCustomDocument(t *testing.T) {
	t.Parallel()

	doc := `
deprecated_methods:
  - on: [com.example.Legacy]
    methods: [old]
    params: []
mutable_types: [com.example.Bag]
hierarchy:
  com.example.Bag: [java.util.Collection]
`

	loaded, err := tables.Load(strings.NewReader(doc))
	require.NoError(t, err)

	methods := loaded.DeprecatedMethods()
	require.Len(t, methods, 1)
	assert.NotNil(t, methods[0].Params)
	assert.Empty(t, methods[0].Params)
	assert.Equal(t, []string{"java.util.Collection"}, loaded.Supertypes("com.example.Bag"))
	assert.Empty(t, loaded.Families())
}

func TestLoadRejectsSchemaViolations(t *testing.T) {
	t.Parallel()

	_, err := tables.Load(strings.NewReader("specializations:\n  - {class: java.util.ArrayList, arity: 3}\n"))
	require.ErrorIs(t, err, tables.ErrInvalidTables)

	_, err = tables.Load(strings.NewReader("unknown_section: []\n"))
	require.ErrorIs(t, err, tables.ErrInvalidTables)
}

func TestLoadRejectsBadTypes(t *testing.T) {
	t.Parallel()

	_, err := tables.Load(strings.NewReader("deprecated_methods:\n  - {on: [a.B], methods: [m], params: [\"java.util.List<\"]}\n"))
	require.ErrorIs(t, err, tables.ErrInvalidTables)
}

func TestLoadMalformedYAML(t *testing.T) {
	t.Parallel()

	_, err := tables.Load(strings.NewReader("families: [\n"))
	require.ErrorIs(t, err, tables.ErrDecode)
}

func TestEmptyDocument(t *testing.T) {
	t.Parallel()

	loaded, err := tables.Load(strings.NewReader("  \n"))
	require.NoError(t, err)
	assert.Empty(t, loaded.DeprecatedMethods())
	assert.Empty(t, tables.Empty().MutableTypes())

	_, ok := tables.Empty().Constructor("java.util.ArrayList")
	assert.False(t, ok)
}
