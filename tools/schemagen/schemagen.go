// Package main generates JSON schemas for the epcheck machine-readable outputs.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/Consensys/errorprone-checks/pkg/mcp"
	"github.com/Consensys/errorprone-checks/pkg/report"
)

var outputDir string

func main() {
	flag.StringVar(&outputDir, "o", "docs/schemas", "Output directory for schemas")
	flag.Parse()

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	schemas := map[string]*report.Schema{
		"report": report.DocumentSchema(),
		"mcp_analyze": report.SchemaFor(mcp.AnalyzeResult{}, "epcheck_analyze result",
			"Payload of the epcheck_analyze MCP tool"),
		"mcp_rules": report.SchemaFor([]mcp.RuleInfo{}, "epcheck_rules result",
			"Payload of the epcheck_rules MCP tool"),
	}

	for name, schema := range schemas {
		if err := writeSchema(name, schema); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing schema for %s: %v\n", name, err)
			os.Exit(1)
		}

		fmt.Printf("Generated schema for %s\n", name)
	}

	fmt.Println("All schemas generated successfully")
}

func writeSchema(name string, schema *report.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	path := filepath.Join(outputDir, name+".json")

	return os.WriteFile(path, data, 0o644) //nolint:gosec // schemas are public docs
}
