package analysis_test

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Consensys/errorprone-checks/pkg/analysis"
	"github.com/Consensys/errorprone-checks/pkg/jtype"
	"github.com/Consensys/errorprone-checks/pkg/node"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func literalUnit() *node.Node {
	first := node.NewBuilder(node.Literal).WithToken("1").WithSpan(node.Span{Start: 10, End: 11, Line: 2, Col: 3}).Build()
	second := node.NewBuilder(node.Literal).WithToken("2").WithSpan(node.Span{Start: 4, End: 5, Line: 1, Col: 5}).Build()

	return node.NewBuilder(node.CompilationUnit).
		Add(node.RoleMember, node.StmtOf(first)).
		Add(node.RoleMember, node.StmtOf(second)).
		Build()
}

func TestRunnerDispatchesByKind(t *testing.T) {
	t.Parallel()

	rule := &analysis.Rule{
		Name:     "Literals",
		Severity: analysis.Warning,
		Kinds:    []node.Kind{node.Literal},
		Check: func(n *node.Node, _ *analysis.Context) (analysis.Finding, bool) {
			return analysis.Newf(n, "literal %s", n.Token), true
		},
	}

	findings := analysis.NewRunner([]*analysis.Rule{rule}, analysis.WithLogger(quietLogger())).
		Run(literalUnit(), analysis.NewStaticHost())

	require.Len(t, findings, 2)
	assert.Equal(t, "literal 2", findings[0].Message)
	assert.Equal(t, "literal 1", findings[1].Message)
	assert.Equal(t, "Literals", findings[0].Rule)
	assert.Equal(t, analysis.Warning, findings[0].Severity)
	assert.Equal(t, 1, findings[0].Span.Line)
}

func TestRunnerRecoversPanics(t *testing.T) {
	t.Parallel()

	var (
		mu     sync.Mutex
		panics []error
	)

	boom := &analysis.Rule{
		Name:  "Boom",
		Kinds: []node.Kind{node.Literal},
		Check: func(*node.Node, *analysis.Context) (analysis.Finding, bool) {
			panic("broken rule")
		},
	}
	fine := &analysis.Rule{
		Name:  "Fine",
		Kinds: []node.Kind{node.ExpressionStatement},
		Check: func(n *node.Node, _ *analysis.Context) (analysis.Finding, bool) {
			return analysis.NewFinding(n, "statement"), true
		},
	}

	runner := analysis.NewRunner([]*analysis.Rule{boom, fine},
		analysis.WithLogger(quietLogger()),
		analysis.WithPanicHook(func(_ string, err error) {
			mu.Lock()
			defer mu.Unlock()

			panics = append(panics, err)
		}))

	findings := runner.Run(literalUnit(), nil)

	assert.Len(t, findings, 2)
	require.Len(t, panics, 2)
	assert.True(t, errors.Is(panics[0], analysis.ErrRulePanic))
	assert.Contains(t, panics[0].Error(), "Boom")
}

func TestFindingWithFix(t *testing.T) {
	t.Parallel()

	n := node.NewBuilder(node.Identifier).WithName("bad_name").WithSpan(node.Span{Start: 3, End: 11}).Build()
	finding := analysis.NewFinding(n, "rename").WithFix(n.Span, "badName")

	require.NotNil(t, finding.Fix)
	assert.Equal(t, "badName", finding.Fix.Replacement)
	assert.Equal(t, 3, finding.Span.Start)
	assert.Len(t, finding.Fix.Edits(), 1)
}

func TestFixEditsListsPrimaryFirst(t *testing.T) {
	t.Parallel()

	use := analysis.Edit{Span: node.Span{Start: 20, End: 28}, Replacement: "badName"}
	finding := analysis.Finding{}.WithFix(node.Span{Start: 3, End: 11}, "badName", use)

	edits := finding.Fix.Edits()
	require.Len(t, edits, 2)
	assert.Equal(t, 3, edits[0].Span.Start)
	assert.Equal(t, use, edits[1])

	var none *analysis.Fix
	assert.Empty(t, none.Edits())
}

func TestParseSeverity(t *testing.T) {
	t.Parallel()

	sev, err := analysis.ParseSeverity("Warning")
	require.NoError(t, err)
	assert.Equal(t, analysis.Warning, sev)

	_, err = analysis.ParseSeverity("fatal")
	require.ErrorIs(t, err, analysis.ErrUnknownSeverity)

	text, err := analysis.Error.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "error", string(text))
}

func TestStaticHostSubtyping(t *testing.T) {
	t.Parallel()

	host := analysis.NewStaticHost()
	host.Supertypes["a.IntList"] = []string{"a.IntCollection", "java.util.List"}
	host.Supertypes["a.IntCollection"] = []string{"a.IntIterable"}

	intList := jtype.Ref("a.IntList")

	assert.True(t, host.IsSubtypeOf(intList, "a.IntIterable"))
	assert.True(t, host.IsSubtypeOf(intList, "java.util.List"))
	assert.True(t, host.IsSubtypeOf(intList, jtype.ObjectName))
	assert.False(t, host.IsSubtypeOf(intList, "a.LongIterable"))
	assert.False(t, host.IsSubtypeOf(jtype.Primitive(jtype.Int), "a.IntIterable"))
}

func TestSignatureParamAt(t *testing.T) {
	t.Parallel()

	intType := jtype.Primitive(jtype.Int)
	sig := analysis.Signature{
		Params:  []*jtype.Descriptor{intType, jtype.ArrayOf(jtype.Ref(jtype.StringName))},
		Varargs: true,
	}

	assert.Same(t, intType, sig.ParamAt(0))
	assert.Equal(t, jtype.StringName, sig.ParamAt(1).Name)
	assert.Equal(t, jtype.StringName, sig.ParamAt(4).Name)
	assert.Nil(t, sig.ParamAt(-1))

	fixed := analysis.Signature{Params: []*jtype.Descriptor{intType}}
	assert.Nil(t, fixed.ParamAt(1))
}

func TestContextWithoutHost(t *testing.T) {
	t.Parallel()

	typed := node.Ident("x", jtype.Primitive(jtype.Long))
	ctx := analysis.NewContext(nil, node.NewPath(typed))

	assert.Equal(t, jtype.Long, ctx.TypeOf(typed).Kind)
	assert.Nil(t, ctx.TypeOf(node.Ident("y", nil)))
	assert.False(t, ctx.IsSubtypeOf(typed.Type, jtype.ObjectName))

	_, ok := ctx.Signature(node.CallOf("f", nil, nil))
	assert.False(t, ok)
	assert.Nil(t, ctx.FunctionalReturn(typed))
}
