package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/rebarplan/internal/server"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the design operations over HTTP",
		Long: `Serve starts the HTTP API. Requests may carry their own settings, which are
applied on top of the ones loaded with --settings.

The server stops gracefully on SIGINT or SIGTERM.`,
		Example: `  rebarplan serve --addr :9090 --settings project.toml`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := c.loadSettings()
			if err != nil {
				return err
			}
			orch, err := c.newOrchestrator()
			if err != nil {
				return err
			}
			h := server.NewHandler(orch, s, c.Logger)
			printInfo(cmd.ErrOrStderr(), "Serving rebarplan API on %s (Ctrl+C to stop)", addr)
			return server.New(addr, server.NewRouter(h), c.Logger).Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")

	return cmd
}
