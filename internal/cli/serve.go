package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/kumiko/pkg/observability"
	"github.com/matzehuels/kumiko/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve artwork over HTTP",
		Long: `Serve generated artwork over HTTP.

  GET /v1/kumiko/{slug}.svg   SVG image
  GET /v1/kumiko/{slug}.png   PNG image (width, height)
  GET /v1/kumiko/{slug}.json  layer metadata
  GET /v1/schemes             color schemes
  GET /v1/patterns            motif registry
  GET /healthz                liveness

Query parameters (size, divisions, zoom, fg, bg, stroke_width, scheme,
overflow, finalize, layer) override the configured defaults.`,
		Example: `  kumiko serve --addr :8080
  curl localhost:8080/v1/kumiko/hello-world.svg?scheme=nord&zoom=2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if cmd.Flags().Changed("addr") {
				c.Config.Server.Addr = addr
			}

			hooks := observability.NewLogHooks(c.Logger)
			observability.SetPipelineHooks(hooks)
			observability.SetCacheHooks(hooks)
			observability.SetHTTPHooks(hooks)
			defer observability.Reset()

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			c.Logger.Debug("cache", "backend", c.Config.Cache.Backend)
			return server.New(runner, c.Config, c.Logger).ListenAndServe(ctx, c.Config.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}
