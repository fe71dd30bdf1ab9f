package engine_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Consensys/errorprone-checks/pkg/analysis"
	"github.com/Consensys/errorprone-checks/pkg/checks"
	"github.com/Consensys/errorprone-checks/pkg/engine"
	"github.com/Consensys/errorprone-checks/pkg/javasrc"
	"github.com/Consensys/errorprone-checks/pkg/node"
	"github.com/Consensys/errorprone-checks/pkg/observability"
	"github.com/Consensys/errorprone-checks/pkg/tables"
)

const badCase = "class A {\n  void Do_Work() {}\n}\n"

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()

	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}

	return root
}

func newEngine(opts ...engine.Option) *engine.Engine {
	tabs := tables.Default()
	parser := javasrc.NewParser(javasrc.WithHierarchy(tabs.Hierarchy()))

	return engine.New(parser, checks.All(tabs), opts...)
}

func TestCheckAnalyzesEveryUnitInPathOrder(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"src/b/B.java": "class B {}\n",
		"src/a/A.java": badCase,
		"src/c/C.java": "class C {\n  int Max_size;\n}\n",
		"README.md":    "# not java\n",
	})

	results, err := newEngine(engine.WithWorkers(2)).Check(context.Background(), []string{root})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.True(t, strings.HasSuffix(results[0].Path, filepath.Join("a", "A.java")))
	assert.True(t, strings.HasSuffix(results[1].Path, filepath.Join("b", "B.java")))
	assert.True(t, strings.HasSuffix(results[2].Path, filepath.Join("c", "C.java")))

	require.Len(t, results[0].Findings, 1)
	assert.Equal(t, checks.NameJavaCase, results[0].Findings[0].Rule)
	assert.Empty(t, results[1].Findings)
	require.Len(t, results[2].Findings, 1)

	assert.Equal(t, 2, engine.CountFindings(results))

	sev, ok := engine.MaxSeverity(results)
	require.True(t, ok)
	assert.Equal(t, results[0].Findings[0].Severity, sev)
}

func TestCheckSkipsLargeFiles(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"Big.java": "class Big {\n" + strings.Repeat("  int field;\n", 100) + "}\n",
	})

	results, err := newEngine(engine.WithMaxFileSize(64)).Check(context.Background(), []string{root})
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Contains(t, results[0].Skipped, engine.ErrTooLarge.Error())
	assert.Empty(t, results[0].Findings)
	assert.NoError(t, results[0].Err)
}

func TestCheckSkipsBinaryFiles(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{"Blob.java": "class\x00Blob {}\n"})

	results, err := newEngine().Check(context.Background(), []string{root})
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, engine.ErrBinary.Error(), results[0].Skipped)
	assert.Empty(t, results[0].Findings)
}

func TestCheckHonoursCancellation(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{"A.java": badCase})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newEngine().Check(ctx, []string{root})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCheckReportsDiscoveryErrors(t *testing.T) {
	t.Parallel()

	_, err := newEngine().Check(context.Background(), []string{filepath.Join(t.TempDir(), "missing")})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = newEngine().Check(context.Background(), nil)
	assert.ErrorIs(t, err, engine.ErrNoPaths)
}

func TestCheckSourceRecordsMetrics(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	metrics, err := observability.NewCheckMetrics(provider.Meter("test"))
	require.NoError(t, err)

	res := newEngine(engine.WithMetrics(metrics)).CheckSource(context.Background(), "A.java", []byte(badCase))
	require.NoError(t, res.Err)
	require.Len(t, res.Findings, 1)
	assert.Equal(t, []byte(badCase), res.Source)

	var rm metricdata.ResourceMetrics

	require.NoError(t, reader.Collect(context.Background(), &rm))

	names := make([]string, 0)
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			names = append(names, m.Name)
		}
	}

	assert.Contains(t, names, "epcheck.units.total")
	assert.Contains(t, names, "epcheck.findings.total")
}

func TestRulePanicsAreContained(t *testing.T) {
	t.Parallel()

	boom := &analysis.Rule{
		Name:  "Boom",
		Kinds: []node.Kind{node.Class},
		Check: func(*node.Node, *analysis.Context) (analysis.Finding, bool) {
			panic("boom")
		},
	}

	parser := javasrc.NewParser()
	eng := engine.New(parser, []*analysis.Rule{boom, checks.JavaCase()})

	res := eng.CheckSource(context.Background(), "A.java", []byte(badCase))
	require.NoError(t, res.Err)
	require.Len(t, res.Findings, 1)
	assert.Equal(t, checks.NameJavaCase, res.Findings[0].Rule)
	assert.Len(t, eng.Rules(), 2)
}
