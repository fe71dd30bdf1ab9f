package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// RuleInfo describes one rule in the epcheck_rules payload.
type RuleInfo struct {
	Name     string `json:"name"`
	Severity string `json:"severity"`
	Summary  string `json:"summary"`
}

// handleRules processes epcheck_rules tool calls.
func (s *Server) handleRules(
	_ context.Context,
	_ *mcpsdk.CallToolRequest,
	input RulesInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	var enabled []string
	if input.Filter != "" {
		enabled = []string{input.Filter}
	}

	rules, err := s.deps.Registry.Select(enabled, nil)
	if err != nil {
		return errorResult(fmt.Errorf("select rules: %w", err))
	}

	infos := make([]RuleInfo, 0, len(rules))
	for _, rule := range rules {
		infos = append(infos, RuleInfo{
			Name:     rule.Name,
			Severity: rule.Severity.String(),
			Summary:  rule.Summary,
		})
	}

	return jsonResult(infos)
}
