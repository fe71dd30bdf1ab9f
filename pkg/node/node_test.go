package node_test

import (
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Consensys/errorprone-checks/pkg/jtype"
	"github.com/Consensys/errorprone-checks/pkg/node"
)

func makeTestTree() (*node.Node, *node.Node, *node.Node) {
	// long r = (a + 1) * 2;
	intType := jtype.Primitive(jtype.Int)
	ident := node.Ident("a", intType)
	sum := node.BinaryOf(node.OpAdd, ident, node.Lit("1", intType), intType)
	product := node.BinaryOf(node.OpMul, node.ParenOf(sum), node.Lit("2", intType), intType)
	decl := node.VarOf("r", node.TypeRefOf("long", jtype.Primitive(jtype.Long)), product)
	root := node.NewBuilder(node.CompilationUnit).Add(node.RoleMember, decl).Build()

	return root, decl, ident
}

func TestRoleAccessors(t *testing.T) {
	t.Parallel()

	_, decl, ident := makeTestTree()

	require.NotNil(t, decl.Init())
	assert.Equal(t, node.Binary, decl.Init().Kind)
	assert.Equal(t, "long", decl.DeclType().Token)
	assert.Equal(t, jtype.Long, decl.Type.Kind)

	sum := decl.Init().Left().Expr()
	assert.Same(t, ident, sum.Left())
	assert.Equal(t, "1", sum.Right().Token)
	assert.Nil(t, sum.Body())
}

func TestIndexOfCountsSameRole(t *testing.T) {
	t.Parallel()

	recv := node.Ident("list", nil)
	first := node.Lit("1", nil)
	second := node.Lit("2", nil)
	call := node.CallOf("add", recv, nil, first, second)

	assert.Equal(t, 0, call.IndexOf(recv))
	assert.Equal(t, 0, call.IndexOf(first))
	assert.Equal(t, 1, call.IndexOf(second))
	assert.Equal(t, -1, call.IndexOf(node.Lit("3", nil)))
}

func TestWalkPreOrder(t *testing.T) {
	t.Parallel()

	root, _, _ := makeTestTree()

	var kinds []string

	node.Walk(root, func(path node.Path) bool {
		kinds = append(kinds, path.Leaf().Kind.String())

		return true
	})

	assert.Equal(t, []string{
		"CompilationUnit", "Variable", "TypeRef", "Binary", "Parenthesized",
		"Binary", "Identifier", "Literal", "Literal",
	}, kinds)
}

func TestWalkSkipsChildren(t *testing.T) {
	t.Parallel()

	root, _, _ := makeTestTree()
	count := 0

	node.Walk(root, func(path node.Path) bool {
		count++

		return path.Leaf().Kind != node.Variable
	})

	assert.Equal(t, 2, count)
}

func TestPathAncestors(t *testing.T) {
	t.Parallel()

	root, decl, ident := makeTestTree()

	path, ok := node.PathTo(root, ident)
	require.True(t, ok)
	assert.Same(t, ident, path.Leaf())
	assert.Equal(t, node.Binary, path.Parent().Kind)
	assert.Same(t, root, path.Root())

	ancestors := slices.Collect(path.Ancestors())
	require.Len(t, ancestors, 5)
	assert.Same(t, decl, ancestors[3])
	assert.Same(t, root, ancestors[4])

	enclosing, encPath, found := path.Enclosing(node.Variable)
	require.True(t, found)
	assert.Same(t, decl, enclosing)
	assert.Same(t, decl, encPath.Leaf())

	_, _, found = path.Enclosing(node.Method)
	assert.False(t, found)
}

func TestPathPushDoesNotAlias(t *testing.T) {
	t.Parallel()

	base := node.NewPath(node.Ident("a", nil))
	left := base.Push(node.Ident("b", nil))
	right := base.Push(node.Ident("c", nil))

	assert.Equal(t, 1, base.Len())
	assert.Equal(t, "b", left.Leaf().Name)
	assert.Equal(t, "c", right.Leaf().Name)
	assert.Equal(t, "a", right.ParentPath().Leaf().Name)
}

func TestAnnotationElements(t *testing.T) {
	t.Parallel()

	hidden := node.AssignOf(node.Ident("hidden", nil), node.Lit("true", nil))
	ann := node.NewBuilder(node.Annotation).WithName("CommandLine.Option").
		Add(node.RoleArgument, hidden).
		Build()
	field := node.NewBuilder(node.Variable).WithName("flag").
		WithModifiers(node.Private|node.Final).
		Add(node.RoleAnnotation, ann).
		Build()

	got, ok := field.Annotation("Option")
	require.True(t, ok)
	assert.Equal(t, "true", got.Element("hidden").Token)
	assert.Nil(t, got.Element("names"))
	assert.True(t, field.HasModifier(node.Private))
	assert.False(t, field.HasModifier(node.Private|node.Static))
	assert.Equal(t, node.VisPrivate, field.Modifiers.Visibility())
}

func TestOperators(t *testing.T) {
	t.Parallel()

	assert.Equal(t, node.OpGe, node.BinaryOp(">="))
	assert.True(t, node.OpGe.IsComparison())
	assert.False(t, node.OpAdd.IsComparison())
	assert.Equal(t, node.OpShl, node.CompoundOp("<<="))
	assert.Equal(t, node.OpNone, node.CompoundOp("="))
	assert.Equal(t, node.OpInc, node.UnaryOp("++"))
}

func TestKindString(t *testing.T) {
	t.Parallel()

	for kind := range node.NumKinds {
		assert.NotEmpty(t, kind.String())
	}

	assert.Equal(t, "MethodCall", node.MethodCall.String())
}

func TestDump(t *testing.T) {
	t.Parallel()

	root, _, _ := makeTestTree()

	var sb strings.Builder

	require.NoError(t, node.Dump(&sb, root))

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	require.Greater(t, len(lines), 2)
	assert.Equal(t, "CompilationUnit", lines[0])
	assert.Equal(t, `  member: Variable name="r" <long>`, lines[1])
	assert.Contains(t, sb.String(), "op=*")
	assert.Contains(t, sb.String(), `name="a" <int>`)

	require.NoError(t, node.Dump(&sb, nil))
}
