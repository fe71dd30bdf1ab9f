package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Consensys/errorprone-checks/pkg/lsp"
	"github.com/Consensys/errorprone-checks/pkg/observability"
)

// NewLSPCommand creates the language server command.
func NewLSPCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the language server on stdio",
		Long: `Start a Language Server Protocol server on stdio. Open Java documents are
checked on open, change and save; findings are published as diagnostics and
their fixes offered as quick fixes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := newEnv(cmd, observability.ModeLSP)
			if err != nil {
				return err
			}
			defer env.close()

			rules, err := env.registry.Select(env.cfg.Rules.Enabled, env.cfg.Rules.Disabled)
			if err != nil {
				return fmt.Errorf("select rules: %w", err)
			}

			eng, err := env.engine(rules)
			if err != nil {
				return err
			}

			red, err := observability.NewREDMetrics(env.providers.Meter)
			if err != nil {
				return err
			}

			stop, err := env.serveMetrics(cmd.Context())
			if err != nil {
				return err
			}
			defer stop()

			srv := lsp.NewServer(eng,
				lsp.WithLogger(env.providers.Logger),
				lsp.WithTracer(env.providers.Tracer),
				lsp.WithMetrics(red),
			)

			return srv.Run()
		},
	}
}
