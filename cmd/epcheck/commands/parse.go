package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Consensys/errorprone-checks/pkg/node"
	"github.com/Consensys/errorprone-checks/pkg/observability"
)

// NewParseCommand creates the parse command, which prints the lowered tree
// the rules see.
func NewParseCommand() *cobra.Command {
	return &cobra.Command{
		Use:           "parse <file>",
		Short:         "Print the lowered syntax tree of a Java file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnv(cmd, observability.ModeCLI)
			if err != nil {
				return err
			}
			defer env.close()

			src, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			unit, err := env.parser.Parse(cmd.Context(), args[0], src)
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}

			if unit.SyntaxErrors > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d syntax errors\n", args[0], unit.SyntaxErrors)
			}

			return node.Dump(cmd.OutOrStdout(), unit.Root)
		},
	}
}
