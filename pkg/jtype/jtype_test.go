package jtype_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Consensys/errorprone-checks/pkg/jtype"
)

func TestUnbox(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		desc *jtype.Descriptor
		want jtype.Kind
	}{
		{"primitive", jtype.Primitive(jtype.Long), jtype.Long},
		{"integer wrapper", jtype.Ref("java.lang.Integer"), jtype.Int},
		{"character wrapper", jtype.Ref("java.lang.Character"), jtype.Char},
		{"string", jtype.Ref(jtype.StringName), jtype.None},
		{"array", jtype.ArrayOf(jtype.Primitive(jtype.Int)), jtype.None},
		{"type variable", jtype.TypeVariable("T"), jtype.None},
		{"nil", nil, jtype.None},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, jtype.Unbox(tt.desc))
		})
	}
}

func TestArgCompatible(t *testing.T) {
	t.Parallel()

	intDesc := jtype.Primitive(jtype.Int)
	longDesc := jtype.Primitive(jtype.Long)

	assert.True(t, jtype.ArgCompatible(intDesc, intDesc))
	assert.False(t, jtype.ArgCompatible(intDesc, longDesc))
	assert.True(t, jtype.ArgCompatible(intDesc, jtype.Unresolved()))
	assert.True(t, jtype.ArgCompatible(jtype.Unresolved(), jtype.Ref(jtype.StringName)))
	assert.True(t, jtype.ArgCompatible(jtype.Ref("a.B"), jtype.Ref("c.D")))
}

func TestDescriptorRendering(t *testing.T) {
	t.Parallel()

	desc := jtype.Ref("java.util.Map",
		jtype.Ref("java.lang.Integer"),
		jtype.Ref("java.util.List", jtype.Ref(jtype.StringName)))

	assert.Equal(t, "java.util.Map<java.lang.Integer, java.util.List<java.lang.String>>", desc.String())
	assert.Equal(t, "Map<Integer, List<String>>", desc.SourceName())
	assert.Equal(t, "java.util.Map", desc.Erasure().String())
	assert.Equal(t, "int[]", jtype.ArrayOf(jtype.Primitive(jtype.Int)).String())
	assert.Equal(t, "long", jtype.Primitive(jtype.Long).String())
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want string
		kind jtype.Kind
	}{
		{"int", "int", jtype.Int},
		{"boolean[]", "boolean[]", jtype.Array},
		{"java.lang.Integer", "java.lang.Integer", jtype.Reference},
		{"java.util.Map<K, java.lang.String>", "java.util.Map<K, java.lang.String>", jtype.Reference},
		{"java.util.List<? extends java.lang.Number>", "java.util.List<java.lang.Number>", jtype.Reference},
		{"T", "T", jtype.TypeVar},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()

			got := jtype.Parse(tt.text)
			require.True(t, got.IsResolved())
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"", "java.util.List<", "int[", "a b"} {
		assert.False(t, jtype.Parse(text).IsResolved(), text)
	}
}

func TestEqual(t *testing.T) {
	t.Parallel()

	left := jtype.Parse("java.util.List<java.lang.Integer>")
	right := jtype.Ref("java.util.List", jtype.Ref("java.lang.Integer"))

	assert.True(t, left.Equal(right))
	assert.False(t, left.Equal(jtype.Ref("java.util.List")))
	assert.True(t, left.Is("java.util.List"))
	assert.Equal(t, "java.lang.Integer", left.Arg(0).Name)
	assert.Nil(t, left.Arg(1))
}
