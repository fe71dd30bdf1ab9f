package mcp

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool name constants.
const (
	ToolNameAnalyze = "epcheck_analyze"
	ToolNameRules   = "epcheck_rules"
)

// Input size limits.
const (
	// MaxCodeInputBytes is the maximum allowed size for inline code input (1 MB).
	MaxCodeInputBytes = 1 << 20
)

// defaultFilename names inline sources that come without one.
const defaultFilename = "Snippet.java"

// Sentinel errors for tool input validation.
var (
	// ErrEmptyCode indicates the code parameter is empty.
	ErrEmptyCode = errors.New("code parameter is required and must not be empty")
	// ErrCodeTooLarge indicates the code input exceeds the size limit.
	ErrCodeTooLarge = errors.New("code input exceeds maximum size")
	// ErrNotJava indicates a filename that does not name a Java source.
	ErrNotJava = errors.New("filename must end in .java")
)

// Input types (auto-generate JSON schemas via struct tags).

// AnalyzeInput is the input schema for the epcheck_analyze tool.
type AnalyzeInput struct {
	Code     string   `json:"code"               jsonschema:"Java source code of one compilation unit"`
	Filename string   `json:"filename,omitempty" jsonschema:"file name used in findings (default: Snippet.java)"`
	Rules    []string `json:"rules,omitempty"    jsonschema:"optional rule names or globs to run (default: all)"`
	Disable  []string `json:"disable,omitempty"  jsonschema:"optional rule names or globs to skip"`
	Fix      bool     `json:"fix,omitempty"      jsonschema:"also return the source with all non-overlapping fixes applied"`
}

// RulesInput is the input schema for the epcheck_rules tool.
type RulesInput struct {
	Filter string `json:"filter,omitempty" jsonschema:"optional rule name or glob (e.g. *Optional*)"`
}

// Output type (used as structured output for generic AddTool).

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

// Result helpers.

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}
