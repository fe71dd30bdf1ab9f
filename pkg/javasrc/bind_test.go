package javasrc_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Consensys/errorprone-checks/pkg/analysis"
	"github.com/Consensys/errorprone-checks/pkg/javasrc"
	"github.com/Consensys/errorprone-checks/pkg/jtype"
	"github.com/Consensys/errorprone-checks/pkg/node"
)

func signatureOf(t *testing.T, unit *javasrc.Unit, call *node.Node) analysis.Signature {
	t.Helper()

	sig, ok := unit.Signature(call)
	require.True(t, ok, "no signature for %s", call.Name)

	return sig
}

func paramNames(sig analysis.Signature) []string {
	out := make([]string, 0, len(sig.Params))
	for _, param := range sig.Params {
		out = append(out, param.Erasure().String())
	}

	return out
}

func TestBindMathOverloads(t *testing.T) {
	t.Parallel()

	unit := parse(t, `class A {
  void run(int i, long l, double d) {
    long a = Math.max(i, 2);
    long b = Math.max(i, l);
    double c = Math.min(d, i);
  }
}`)

	calls := findAll(unit, node.MethodCall, "")
	require.Len(t, calls, 3)

	assert.Equal(t, []string{"int", "int"}, paramNames(signatureOf(t, unit, calls[0])))
	assert.Equal(t, []string{"long", "long"}, paramNames(signatureOf(t, unit, calls[1])))
	assert.Equal(t, []string{"double", "double"}, paramNames(signatureOf(t, unit, calls[2])))

	sig := signatureOf(t, unit, calls[0])
	assert.Equal(t, "java.lang.Math", sig.Owner)
	assert.True(t, sig.Static)
	assert.Equal(t, jtype.Int, unit.TypeOf(calls[0]).Kind)
}

func TestBindLocalsAndFields(t *testing.T) {
	t.Parallel()

	unit := parse(t, `import java.util.List;

class A {
  private List<String> names;

  int size() {
    var copy = names;
    return copy.size();
  }
}`)

	copyDecl := findOne(t, unit, node.Variable, "copy")
	assert.Equal(t, "java.util.List<java.lang.String>", copyDecl.Type.String())

	ident := findAll(unit, node.Identifier, "names")
	require.Len(t, ident, 1)

	sym, ok := unit.Symbol(ident[0])
	require.True(t, ok)
	assert.Equal(t, analysis.SymField, sym.Kind)
	assert.Equal(t, "A", sym.Owner)
	assert.True(t, sym.Modifiers.Has(node.Private))

	size := findOne(t, unit, node.MethodCall, "size")
	assert.Equal(t, "java.util.Collection", signatureOf(t, unit, size).Owner)
}

func TestBindInfersDiamondFromTarget(t *testing.T) {
	t.Parallel()

	unit := parse(t, `import java.util.*;

class A {
  Map<Integer, String> byId = new HashMap<>();
}`)

	creation := findOne(t, unit, node.NewClass, "HashMap")
	assert.Equal(t, "java.util.HashMap<java.lang.Integer, java.lang.String>", creation.Type.String())

	sig := signatureOf(t, unit, creation)
	assert.True(t, sig.Constructor)
	assert.Equal(t, "java.util.HashMap", sig.Owner)
}

func TestBindInfersGenericFactories(t *testing.T) {
	t.Parallel()

	unit := parse(t, `import java.util.List;
import java.util.Set;

class A {
  void run() {
    List<Long> ids = List.of(1L, 2L);
    Set<Integer> empty = Set.of();
  }
}`)

	of := findAll(unit, node.MethodCall, "of")
	require.Len(t, of, 2)

	assert.Equal(t, "java.util.List<java.lang.Long>", unit.TypeOf(of[0]).String())
	assert.Equal(t, "java.util.Set<java.lang.Integer>", unit.TypeOf(of[1]).String())
}

func TestBindLambdaTargets(t *testing.T) {
	t.Parallel()

	unit := parse(t, `import java.util.function.Function;

class A {
  Function<Integer, Long> widen = x -> Math.max(x, 1L);
}`)

	lambda := findAll(unit, node.Lambda, "")
	require.Len(t, lambda, 1)
	assert.Equal(t, "java.lang.Long", unit.FunctionalReturn(lambda[0]).String())

	param := lambda[0].Params()[0]
	assert.Equal(t, "java.lang.Integer", param.Type.String())

	max := findOne(t, unit, node.MethodCall, "max")
	assert.Equal(t, []string{"long", "long"}, paramNames(signatureOf(t, unit, max)))
}

func TestBindFastutilOverloads(t *testing.T) {
	t.Parallel()

	unit := parse(t, `import it.unimi.dsi.fastutil.ints.*;

class A {
  static final IntList LIST = new IntArrayList();
  static final IntSet SET = new IntOpenHashSet();

  void run() {
    LIST.add(Integer.valueOf(1));
    LIST.add(1);
    SET.remove(2);
    LIST.sort(null);
  }
}`)

	adds := findAll(unit, node.MethodCall, "add")
	require.Len(t, adds, 2)
	assert.Equal(t, []string{"java.lang.Integer"}, paramNames(signatureOf(t, unit, adds[0])))
	assert.Equal(t, []string{"int"}, paramNames(signatureOf(t, unit, adds[1])))

	remove := findOne(t, unit, node.MethodCall, "remove")
	assert.Equal(t, []string{"int"}, paramNames(signatureOf(t, unit, remove)))

	assert.True(t, unit.IsSubtypeOf(jtype.Ref("it.unimi.dsi.fastutil.ints.IntArrayList"), "java.util.List"))
	assert.True(t, unit.IsSubtypeOf(jtype.Ref("it.unimi.dsi.fastutil.ints.IntList"), "it.unimi.dsi.fastutil.ints.IntIterable"))
	assert.False(t, unit.IsSubtypeOf(jtype.Ref("it.unimi.dsi.fastutil.ints.IntList"), "java.util.Set"))

	sort := signatureOf(t, unit, findOne(t, unit, node.MethodCall, "sort"))
	assert.Equal(t, []string{"it.unimi.dsi.fastutil.ints.IntComparator"}, paramNames(sort))
}

func TestBindEnumConstants(t *testing.T) {
	t.Parallel()

	unit := parse(t, `class A {
  enum Color { RED, GREEN }

  boolean red(Color color) {
    return color == Color.RED;
  }
}`)

	access := findOne(t, unit, node.FieldAccess, "RED")
	sym, ok := unit.Symbol(access)
	require.True(t, ok)
	assert.Equal(t, analysis.SymEnumConstant, sym.Kind)
	assert.True(t, unit.IsSubtypeOf(unit.TypeOf(access), jtype.EnumName))

	param := findAll(unit, node.Identifier, "color")
	require.Len(t, param, 1)

	paramSym, ok := unit.Symbol(param[0])
	require.True(t, ok)
	assert.Equal(t, analysis.SymParam, paramSym.Kind)
}

func TestBindUnitMethodsAndAnnotations(t *testing.T) {
	t.Parallel()

	unit := parse(t, `import java.util.Optional;

class A {
  @Deprecated
  Optional<String> find(String key) { return Optional.empty(); }

  void run() {
    find("x");
  }
}`)

	call := findOne(t, unit, node.MethodCall, "find")
	sig := signatureOf(t, unit, call)
	assert.Equal(t, "A", sig.Owner)
	assert.Equal(t, []string{"java.lang.String"}, paramNames(sig))
	assert.Equal(t, []string{"java.lang.Deprecated"}, sig.Annotations)
	assert.Equal(t, "java.util.Optional<java.lang.String>", sig.Return.String())

	empty := findOne(t, unit, node.MethodCall, "empty")
	assert.Equal(t, "java.util.Optional<java.lang.String>", unit.TypeOf(empty).String())
}

func TestBindWithExtraHierarchy(t *testing.T) {
	t.Parallel()

	parser := javasrc.NewParser(javasrc.WithHierarchy(map[string][]string{
		"org.example.Money": {"java.lang.Comparable"},
	}))

	unit, err := parser.ParseString(context.Background(), "A.java", "class A {}")
	require.NoError(t, err)

	assert.True(t, unit.IsSubtypeOf(jtype.Ref("org.example.Money"), "java.lang.Comparable"))
	assert.True(t, unit.IsSubtypeOf(jtype.Ref("org.example.Money"), jtype.ObjectName))
}

func TestBindRawReceiverKeepsStaticGenerics(t *testing.T) {
	t.Parallel()

	unit := parse(t, `import java.util.List;
import java.util.Optional;

class A {
  void run(List items) {
    Object first = items.get(0);
    Optional<String> name = Optional.of("x");
    List<Long> ids = List.of(1L);
  }
}`)

	get := findOne(t, unit, node.MethodCall, "get")
	assert.Equal(t, jtype.ObjectName, unit.TypeOf(get).String())

	factories := findAll(unit, node.MethodCall, "of")
	require.Len(t, factories, 2)
	assert.Equal(t, "java.util.Optional<java.lang.String>", unit.TypeOf(factories[0]).String())
	assert.Equal(t, "java.util.List<java.lang.Long>", unit.TypeOf(factories[1]).String())
	assert.Equal(t, []string{"java.lang.Long[]"}, paramNames(signatureOf(t, unit, factories[1])))
}
