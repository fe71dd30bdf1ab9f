package specialize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Consensys/errorprone-checks/pkg/jtype"
	"github.com/Consensys/errorprone-checks/pkg/specialize"
)

var (
	boxedInt = jtype.Ref("java.lang.Integer")
	str      = jtype.Ref(jtype.StringName)
)

func TestAbbrev(t *testing.T) {
	t.Parallel()

	tests := []struct {
		arg  *jtype.Descriptor
		want string
	}{
		{jtype.Primitive(jtype.Int), "Int"},
		{boxedInt, "Int"},
		{jtype.Ref("java.lang.Character"), "Char"},
		{jtype.Ref("java.lang.Boolean"), "Boolean"},
		{str, "Object"},
		{jtype.TypeVariable("T"), "Object"},
		{nil, "Object"},
		{jtype.Unresolved(), "Object"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, specialize.Abbrev(tt.arg), tt.arg.String())
	}
}

func TestSingleName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "IntArrayList", specialize.SingleName(boxedInt, "ArrayList"))
	assert.Equal(t, "DoubleOpenHashSet", specialize.SingleName(jtype.Ref("java.lang.Double"), "OpenHashSet"))
}

func TestPairName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Int2ObjectOpenHashMap<String>", specialize.PairName(boxedInt, str, "OpenHashMap"))
	assert.Equal(t, "Object2IntMap<String>", specialize.PairName(str, boxedInt, "Map"))
	assert.Equal(t, "Int2LongRBTreeMap", specialize.PairName(boxedInt, jtype.Ref("java.lang.Long"), "RBTreeMap"))
	assert.Equal(t, "Int2Object", specialize.PairName(boxedInt, str, ""))
}

func TestPairNameWithTwoReferences(t *testing.T) {
	t.Parallel()

	name := specialize.PairName(str, jtype.Ref("java.util.List", str), "OpenHashMap")
	assert.Equal(t, "Object2ObjectOpenHashMap", name)
}

func TestPairNameIsDeterministic(t *testing.T) {
	t.Parallel()

	first := specialize.PairName(jtype.Primitive(jtype.Short), str, "Map")
	second := specialize.PairName(jtype.Ref("java.lang.Short"), jtype.Ref(jtype.StringName), "Map")
	assert.Equal(t, first, second)
}

func TestAccessorName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "int2ObjectEntrySet", specialize.AccessorName(boxedInt, str, "EntrySet"))
	assert.Equal(t, "object2ObjectEntrySet", specialize.AccessorName(str, str, "EntrySet"))
	assert.Equal(t, "long2DoubleEntrySet",
		specialize.AccessorName(jtype.Primitive(jtype.Long), jtype.Primitive(jtype.Double), "EntrySet"))
}

func TestPlanSingle(t *testing.T) {
	t.Parallel()

	suffixes := specialize.Suffixes{Declared: "List", Implementation: "ArrayList", Arity: 1}

	repl, ok := specialize.Plan([]*jtype.Descriptor{boxedInt}, suffixes, specialize.FormConstructor)
	require.True(t, ok)
	assert.Equal(t, "IntArrayList", repl.Name)
	assert.Equal(t, "IntList", repl.DeclaredType)
	assert.Equal(t, "IntArrayList", repl.Expression)
	assert.Equal(t, "it.unimi.dsi.fastutil.ints.IntArrayList", repl.Qualified(repl.Expression))

	_, ok = specialize.Plan([]*jtype.Descriptor{boxedInt, str}, suffixes, specialize.FormConstructor)
	assert.False(t, ok, "arity mismatch")
}

func TestPlanPair(t *testing.T) {
	t.Parallel()

	suffixes := specialize.Suffixes{Declared: "Map", Implementation: "OpenHashMap", Arity: 2}

	repl, ok := specialize.Plan([]*jtype.Descriptor{boxedInt, str}, suffixes, specialize.FormConstructor)
	require.True(t, ok)
	assert.Equal(t, "Int2ObjectOpenHashMap<String>", repl.Name)
	assert.Equal(t, "Int2ObjectMap<String>", repl.DeclaredType)
	assert.Equal(t, "Int2ObjectOpenHashMap<>", repl.Expression)
	assert.Equal(t, "it.unimi.dsi.fastutil.ints.Int2ObjectMap<String>", repl.Qualified(repl.DeclaredType))

	factory := specialize.Suffixes{Declared: "Map", Implementation: "Map", Arity: 2}

	repl, ok = specialize.Plan([]*jtype.Descriptor{str, boxedInt}, factory, specialize.FormFactory)
	require.True(t, ok)
	assert.Equal(t, "Object2IntMap", repl.Expression)
	assert.Equal(t, "it.unimi.dsi.fastutil.objects", repl.Package)
}

func TestPlanWithoutImplementation(t *testing.T) {
	t.Parallel()

	_, ok := specialize.Plan([]*jtype.Descriptor{boxedInt, str}, specialize.Suffixes{Arity: 2}, specialize.FormConstructor)
	assert.False(t, ok)
}
