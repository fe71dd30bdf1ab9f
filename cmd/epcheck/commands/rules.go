package commands

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Consensys/errorprone-checks/pkg/observability"
)

type ruleRow struct {
	Name     string `json:"name"`
	Severity string `json:"severity"`
	Summary  string `json:"summary"`
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:           "rules [name or glob...]",
		Short:         "List the available rules",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd, observability.ModeCLI)
			if err != nil {
				return err
			}
			defer env.close()

			rules, err := env.registry.Select(args, nil)
			if err != nil {
				return fmt.Errorf("select rules: %w", err)
			}

			rows := make([]ruleRow, 0, len(rules))
			for _, rule := range rules {
				rows = append(rows, ruleRow{Name: rule.Name, Severity: rule.Severity.String(), Summary: rule.Summary})
			}

			if asJSON {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")

				return encoder.Encode(rows)
			}

			tw := table.NewWriter()
			tw.SetOutputMirror(cmd.OutOrStdout())
			tw.SetStyle(table.StyleLight)
			tw.AppendHeader(table.Row{"Rule", "Severity", "Summary"})

			for _, row := range rows {
				tw.AppendRow(table.Row{row.Name, row.Severity, row.Summary})
			}

			tw.Render()

			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the rules as JSON")

	return cmd
}
