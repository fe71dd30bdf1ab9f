package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Consensys/errorprone-checks/pkg/version"
)

// NewRootCommand assembles the epcheck command tree.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "epcheck",
		Short: "epcheck - static checks for Java sources",
		Long: `epcheck reports naming, API-usage and mutability problems in Java code
and can apply the suggested fixes.

Commands:
  check     Check Java sources
  rules     List the rules
  parse     Print the lowered tree of a file
  lsp       Language server on stdio
  mcp       MCP server on stdio`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.String(FlagConfig, "", "config file (default: .epcheck.yaml in . or $HOME)")
	flags.String(FlagTables, "", "rule data document replacing the built-in tables")
	flags.BoolP(FlagVerbose, "v", false, "verbose output")
	flags.BoolP(FlagQuiet, "q", false, "suppress output")

	rootCmd.AddCommand(
		NewCheckCommand(),
		NewRulesCommand(),
		NewParseCommand(),
		NewLSPCommand(),
		NewMCPCommand(),
		versionCmd(),
	)

	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
