package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Consensys/errorprone-checks/pkg/engine"
	"github.com/Consensys/errorprone-checks/pkg/fixer"
	"github.com/Consensys/errorprone-checks/pkg/report"
)

// AnalyzeResult is the payload of the epcheck_analyze tool.
type AnalyzeResult struct {
	Unit report.Unit `json:"unit"`
	// Fixed is the source with fixes applied, set when fixing was requested
	// and at least one fix applied.
	Fixed   string `json:"fixed,omitempty"`
	Diff    string `json:"diff,omitempty"`
	Applied int    `json:"applied_fixes,omitempty"`
	Rules   int    `json:"rules"`
}

// handleAnalyze processes epcheck_analyze tool calls.
func (s *Server) handleAnalyze(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	input AnalyzeInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	filename, err := validateAnalyzeInput(input)
	if err != nil {
		return errorResult(err)
	}

	eng, err := s.engineFor(input.Rules, input.Disable)
	if err != nil {
		return errorResult(fmt.Errorf("select rules: %w", err))
	}

	res := eng.CheckSource(ctx, filename, []byte(input.Code))
	if res.Err != nil {
		return errorResult(fmt.Errorf("check code: %w", res.Err))
	}

	doc := report.NewDocument([]engine.FileResult{res}, report.Options{})
	out := AnalyzeResult{Unit: doc.Units[0], Rules: len(eng.Rules())}

	if input.Fix {
		fixed, fixErr := fixer.Apply(res.Source, res.Findings)

		switch {
		case errors.Is(fixErr, fixer.ErrNoFixes):
		case fixErr != nil:
			return errorResult(fmt.Errorf("apply fixes: %w", fixErr))
		default:
			out.Fixed = string(fixed.Output)
			out.Diff = fixer.Diff(input.Code, out.Fixed)
			out.Applied = len(fixed.Applied)
		}
	}

	return jsonResult(out)
}

// engineFor reuses the all-rules engine unless the call narrows the set.
func (s *Server) engineFor(enabled, disabled []string) (*engine.Engine, error) {
	if len(enabled) == 0 && len(disabled) == 0 {
		return s.fallback, nil
	}

	rules, err := s.deps.Registry.Select(enabled, disabled)
	if err != nil {
		return nil, err
	}

	return engine.New(s.deps.Parser, rules, s.deps.EngineOptions...), nil
}

// validateAnalyzeInput checks the code constraints and resolves the filename.
func validateAnalyzeInput(input AnalyzeInput) (string, error) {
	if strings.TrimSpace(input.Code) == "" {
		return "", ErrEmptyCode
	}

	if len(input.Code) > MaxCodeInputBytes {
		return "", fmt.Errorf("%w: %d bytes (max %d)", ErrCodeTooLarge, len(input.Code), MaxCodeInputBytes)
	}

	filename := input.Filename
	if filename == "" {
		return defaultFilename, nil
	}

	if !engine.IsJava(filename) {
		return "", fmt.Errorf("%w: %q", ErrNotJava, filename)
	}

	return filename, nil
}
