package javasrc_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Consensys/errorprone-checks/pkg/javasrc"
	"github.com/Consensys/errorprone-checks/pkg/node"
)

func parse(t *testing.T, src string) *javasrc.Unit {
	t.Helper()

	unit, err := javasrc.NewParser().ParseString(context.Background(), "Sample.java", src)
	require.NoError(t, err)
	require.NotNil(t, unit)

	return unit
}

func findAll(unit *javasrc.Unit, kind node.Kind, name string) []*node.Node {
	return unit.Root.Find(func(n *node.Node) bool {
		return n.Kind == kind && (name == "" || n.Name == name)
	})
}

func findOne(t *testing.T, unit *javasrc.Unit, kind node.Kind, name string) *node.Node {
	t.Helper()

	found := findAll(unit, kind, name)
	require.Len(t, found, 1, "%s %q", kind, name)

	return found[0]
}

func TestParseLowersDeclarations(t *testing.T) {
	t.Parallel()

	unit := parse(t, `package com.example;

public class Sample {
  private static final int LIMIT = 3;

  public long twice(int value) {
    return value * 2L;
  }
}
`)

	assert.Equal(t, "com.example", unit.Package)
	assert.Zero(t, unit.SyntaxErrors)
	assert.Equal(t, node.CompilationUnit, unit.Root.Kind)

	class := findOne(t, unit, node.Class, "Sample")
	assert.True(t, class.HasModifier(node.Public))

	field := findOne(t, unit, node.Variable, "LIMIT")
	assert.True(t, field.HasModifier(node.Private|node.Static|node.Final))
	assert.Equal(t, "int", field.Type.String())

	method := findOne(t, unit, node.Method, "twice")
	require.Len(t, method.Params(), 1)
	assert.Equal(t, "value", method.Params()[0].Name)
	assert.Equal(t, "long", method.Type.String())
	assert.Equal(t, "twice", unit.Text(method.NameSpan))
}

func TestParseToleratesSyntaxErrors(t *testing.T) {
	t.Parallel()

	unit := parse(t, `class Broken { void run( { int x = ; } }`)

	assert.Equal(t, node.CompilationUnit, unit.Root.Kind)
	assert.GreaterOrEqual(t, unit.SyntaxErrors, 0)
}

func TestParseSpansAreOneBasedLines(t *testing.T) {
	t.Parallel()

	unit := parse(t, "class A {\n  int first;\n  int second;\n}\n")

	second := findOne(t, unit, node.Variable, "second")
	assert.Equal(t, 3, second.Span.Line)
	assert.Equal(t, "second", unit.Text(second.NameSpan))
}

func TestParserIsSafeForConcurrentUse(t *testing.T) {
	t.Parallel()

	parser := javasrc.NewParser()

	var wg sync.WaitGroup

	errs := make([]error, 8)

	for idx := range errs {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, errs[idx] = parser.ParseString(context.Background(), "A.java", "class A { int x = 1 + 2; }")
		}()
	}

	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
}
