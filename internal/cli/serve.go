package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pfannkuchen/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve computations, traces and run history over HTTP.

Routes:
  GET  /healthz
  GET  /v1/fannkuch/{n}?chunks=&workers=&refresh=
  POST /v1/fannkuch
  GET  /v1/runs?limit=
  GET  /v1/runs/{id}
  GET  /v1/trace/{n}/{index}?format=json|dot|svg

The cache and history backends come from the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}

			runner, err := c.newRunner(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := server.New(runner, loggerFromContext(cmd.Context()))
			srv.Timeout = timeout

			printInfo("Serving on %s", StyleValue.Render(addr))
			printDetail("cache: %s · history: %s", c.Config.Cache.Backend, c.Config.History.Backend)
			return srv.Run(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().DurationVar(&timeout, "timeout", server.DefaultTimeout, "per-request timeout")

	return cmd
}
