package matcher_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Consensys/errorprone-checks/pkg/analysis"
	"github.com/Consensys/errorprone-checks/pkg/jtype"
	"github.com/Consensys/errorprone-checks/pkg/matcher"
	"github.com/Consensys/errorprone-checks/pkg/node"
)

const intList = "it.unimi.dsi.fastutil.ints.IntList"

func fastutilHost() *analysis.StaticHost {
	host := analysis.NewStaticHost()
	host.Supertypes[intList] = []string{"it.unimi.dsi.fastutil.ints.IntCollection", "java.util.List"}
	host.Supertypes["it.unimi.dsi.fastutil.ints.IntCollection"] = []string{"it.unimi.dsi.fastutil.ints.IntIterable"}

	return host
}

func TestStaticMethodMatcher(t *testing.T) {
	t.Parallel()

	intType := jtype.Primitive(jtype.Int)
	call := node.CallOf("min", node.Ident("Math", nil), intType, node.Lit("0", intType), node.Lit("1", intType))
	host := analysis.NewStaticHost()
	host.Signatures[call] = analysis.Signature{
		Owner: "java.lang.Math", Name: "min", Static: true,
		Params: []*jtype.Descriptor{intType, intType}, Return: intType,
	}
	ctx := analysis.NewContext(host, node.NewPath(call))

	minMax := matcher.StaticMethod().OnClass("java.lang.Math").NamedAnyOf("min", "max")

	assert.True(t, minMax.Matches(call, ctx))
	assert.True(t, minMax.WithParametersOf("int", "int").Matches(call, ctx))
	assert.False(t, minMax.WithParametersOf("long", "long").Matches(call, ctx))
	assert.False(t, matcher.StaticMethod().OnClass("java.lang.StrictMath").Matches(call, ctx))
	assert.False(t, matcher.InstanceMethod().AnyClass().Named("min").Matches(call, ctx))
	assert.False(t, minMax.Matches(node.CallOf("min", nil, nil), ctx))
}

func TestInstanceMethodOnDescendant(t *testing.T) {
	t.Parallel()

	recv := node.Ident("ints", jtype.Ref(intList))
	boxed := node.CallOf("valueOf", node.Ident("Integer", nil), jtype.Ref("java.lang.Integer"))
	call := node.CallOf("contains", recv, jtype.Primitive(jtype.Boolean), boxed)

	host := fastutilHost()
	host.Signatures[call] = analysis.Signature{
		Owner: "it.unimi.dsi.fastutil.ints.IntCollection", Name: "contains",
		Params: []*jtype.Descriptor{jtype.TypeVariable("E")},
	}
	ctx := analysis.NewContext(host, node.NewPath(call))

	deprecated := matcher.InstanceMethod().
		OnDescendantOfAny("it.unimi.dsi.fastutil.ints.IntIterable", "it.unimi.dsi.fastutil.longs.LongIterable").
		NamedAnyOf("contains", "indexOf").
		WithParametersOf("java.lang.Object")

	assert.True(t, deprecated.Matches(call, ctx))
	assert.False(t, deprecated.WithParametersOf("int").Matches(call, ctx))
	assert.False(t, deprecated.OnDescendantOf("it.unimi.dsi.fastutil.Function").Matches(call, ctx))
	assert.False(t, matcher.Not(deprecated.Matcher())(call, ctx))
}

func TestConstructorMatcher(t *testing.T) {
	t.Parallel()

	listType := jtype.Ref("java.util.ArrayList", jtype.Ref("java.lang.Integer"))
	ctor := node.NewBuilder(node.NewClass).WithName("ArrayList").WithType(listType).Build()
	host := analysis.NewStaticHost()
	host.Signatures[ctor] = analysis.Signature{Owner: "java.util.ArrayList", Name: "<init>", Constructor: true}
	ctx := analysis.NewContext(host, node.NewPath(ctor))

	assert.True(t, matcher.Constructor().ForClass("java.util.ArrayList").Matches(ctor, ctx))
	assert.False(t, matcher.Constructor().ForClass("java.util.HashSet").Matches(ctor, ctx))
	assert.False(t, matcher.StaticMethod().AnyClass().Matches(ctor, ctx))
	assert.True(t, matcher.Constructor().ForClass("java.util.ArrayList").WithParameters().Matches(ctor, ctx))
}

func TestMethodMatcherBuildersDoNotAlias(t *testing.T) {
	t.Parallel()

	base := matcher.InstanceMethod().AnyClass()
	getter := base.Named("get")
	setter := base.Named("set")

	call := node.CallOf("get", nil, nil)
	host := analysis.NewStaticHost()
	host.Signatures[call] = analysis.Signature{Owner: "p.Box", Name: "get"}
	ctx := analysis.NewContext(host, node.NewPath(call))

	assert.True(t, getter.Matches(call, ctx))
	assert.False(t, setter.Matches(call, ctx))
	assert.True(t, base.Matches(call, ctx))
}
