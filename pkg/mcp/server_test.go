package mcp_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Consensys/errorprone-checks/pkg/checks"
	"github.com/Consensys/errorprone-checks/pkg/javasrc"
	"github.com/Consensys/errorprone-checks/pkg/mcp"
	"github.com/Consensys/errorprone-checks/pkg/observability"
	"github.com/Consensys/errorprone-checks/pkg/tables"
)

const badCase = "class A {\n  void Do_Work() {}\n}\n"

func newDeps(t *testing.T) mcp.ServerDeps {
	t.Helper()

	tabs := tables.Default()

	reg, err := checks.NewRegistry(checks.All(tabs))
	require.NoError(t, err)

	return mcp.ServerDeps{
		Parser:   javasrc.NewParser(javasrc.WithHierarchy(tabs.Hierarchy())),
		Registry: reg,
	}
}

// connect runs srv on an in-memory transport and returns a client session.
func connect(t *testing.T, srv *mcp.Server) *mcpsdk.ClientSession {
	t.Helper()

	clientTransport, serverTransport := mcpsdk.NewInMemoryTransports()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)

	serverDone := make(chan error, 1)

	go func() {
		serverDone <- srv.RunWithTransport(ctx, serverTransport)
	}()

	client := mcpsdk.NewClient(&mcpsdk.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = session.Close()

		cancel()
		<-serverDone
	})

	return session
}

func callText(t *testing.T, session *mcpsdk.ClientSession, name string, args map[string]any) (string, bool) {
	t.Helper()

	result, err := session.CallTool(context.Background(), &mcpsdk.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)

	text, ok := result.Content[0].(*mcpsdk.TextContent)
	require.True(t, ok)

	return text.Text, result.IsError
}

func TestServerListsTools(t *testing.T) {
	t.Parallel()

	srv := mcp.NewServer(newDeps(t))
	assert.Equal(t, []string{mcp.ToolNameAnalyze, mcp.ToolNameRules}, srv.ListToolNames())

	session := connect(t, srv)

	toolsResult, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	toolNames := make([]string, 0, len(toolsResult.Tools))
	for _, tool := range toolsResult.Tools {
		toolNames = append(toolNames, tool.Name)
		assert.NotNil(t, tool.InputSchema, "tool %s missing input schema", tool.Name)
	}

	assert.ElementsMatch(t, []string{"epcheck_analyze", "epcheck_rules"}, toolNames)
}

func TestAnalyzeReportsFindings(t *testing.T) {
	t.Parallel()

	session := connect(t, mcp.NewServer(newDeps(t)))

	text, isErr := callText(t, session, mcp.ToolNameAnalyze, map[string]any{"code": badCase})
	require.False(t, isErr, text)

	var out mcp.AnalyzeResult

	require.NoError(t, json.Unmarshal([]byte(text), &out))
	assert.Equal(t, "Snippet.java", out.Unit.Path)
	require.Len(t, out.Unit.Findings, 1)
	assert.Equal(t, checks.NameJavaCase, out.Unit.Findings[0].Rule)
	assert.Empty(t, out.Fixed)
	assert.Positive(t, out.Rules)
}

func TestAnalyzeAppliesFixes(t *testing.T) {
	t.Parallel()

	session := connect(t, mcp.NewServer(newDeps(t)))

	text, isErr := callText(t, session, mcp.ToolNameAnalyze, map[string]any{
		"code":     badCase,
		"filename": "A.java",
		"rules":    []string{checks.NameJavaCase},
		"fix":      true,
	})
	require.False(t, isErr, text)

	var out mcp.AnalyzeResult

	require.NoError(t, json.Unmarshal([]byte(text), &out))
	assert.Equal(t, 1, out.Rules)
	assert.Equal(t, 1, out.Applied)
	assert.Equal(t, "class A {\n  void doWork() {}\n}\n", out.Fixed)
	assert.NotEmpty(t, out.Diff)
}

func TestAnalyzeRejectsBadInput(t *testing.T) {
	t.Parallel()

	session := connect(t, mcp.NewServer(newDeps(t)))

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"empty code", map[string]any{"code": "  "}, mcp.ErrEmptyCode.Error()},
		{"not java", map[string]any{"code": badCase, "filename": "a.py"}, mcp.ErrNotJava.Error()},
		{"unknown rule", map[string]any{"code": badCase, "rules": []string{"NoSuchRule"}}, "NoSuchRule"},
		{"too large", map[string]any{"code": strings.Repeat("x", mcp.MaxCodeInputBytes+1)}, mcp.ErrCodeTooLarge.Error()},
	}

	for _, tt := range tests {
		text, isErr := callText(t, session, mcp.ToolNameAnalyze, tt.args)
		assert.True(t, isErr, tt.name)
		assert.Contains(t, text, tt.want, tt.name)
	}
}

func TestRulesListsAndFilters(t *testing.T) {
	t.Parallel()

	session := connect(t, mcp.NewServer(newDeps(t)))

	text, isErr := callText(t, session, mcp.ToolNameRules, map[string]any{})
	require.False(t, isErr, text)

	var all []mcp.RuleInfo

	require.NoError(t, json.Unmarshal([]byte(text), &all))
	assert.Len(t, all, len(checks.All(tables.Default())))

	text, isErr = callText(t, session, mcp.ToolNameRules, map[string]any{"filter": checks.NameJavaCase})
	require.False(t, isErr, text)

	var one []mcp.RuleInfo

	require.NoError(t, json.Unmarshal([]byte(text), &one))
	require.Len(t, one, 1)
	assert.Equal(t, checks.NameJavaCase, one[0].Name)
	assert.NotEmpty(t, one[0].Summary)
}

func TestToolCallsRecordMetrics(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	red, err := observability.NewREDMetrics(provider.Meter("test"))
	require.NoError(t, err)

	deps := newDeps(t)
	deps.Metrics = red

	session := connect(t, mcp.NewServer(deps))

	_, isErr := callText(t, session, mcp.ToolNameRules, map[string]any{})
	require.False(t, isErr)

	var rm metricdata.ResourceMetrics

	require.NoError(t, reader.Collect(context.Background(), &rm))

	found := false

	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name == "epcheck.requests.total" {
				found = true
			}
		}
	}

	assert.True(t, found)
}
