package commands

import (
	"github.com/spf13/cobra"

	"github.com/Consensys/errorprone-checks/pkg/mcp"
	"github.com/Consensys/errorprone-checks/pkg/observability"
)

// NewMCPCommand creates the MCP server command.
func NewMCPCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The MCP server exposes the epcheck rules as tools that AI agents can discover
and invoke:
  - epcheck_analyze: check inline Java source, optionally returning the fixed code
  - epcheck_rules: list the rules with severity and summary`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := newEnv(cmd, observability.ModeMCP)
			if err != nil {
				return err
			}
			defer env.close()

			maxSize, err := env.cfg.MaxFileSizeBytes()
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

			srv := mcp.NewServer(mcp.ServerDeps{
				Parser:        env.parser,
				Registry:      env.registry,
				EngineOptions: env.engineOptions(maxSize),
				Logger:        env.providers.Logger,
				Metrics:       red,
				Tracer:        env.providers.Tracer,
			})

			return srv.Run(cmd.Context())
		},
	}
}
