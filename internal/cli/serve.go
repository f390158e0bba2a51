package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/callsurface/internal/server"
	"github.com/matzehuels/callsurface/pkg/cache"
	"github.com/matzehuels/callsurface/pkg/observability"
	"github.com/matzehuels/callsurface/pkg/pipeline"
)

// serveCommand creates the serve command for the HTTP preview API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		logFile string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout and scenario API over HTTP",
		Long: `Serve the layout and scenario API over HTTP.

Endpoints:
  GET  /healthz     liveness and build version
  POST /v1/layout   JSON call state → frame (json or svg)
  POST /v1/play     scenario TOML → rendered run (?format=json|svg|png|pdf)
  GET  /v1/fsm      press and morph state machines (?format=dot|svg)

Rendered runs are cached in the configured cache backend. With --log-file
(or [log] file in the config) logs are also written to a rotating file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				c.Config.Server.Addr = addr
			}
			if cmd.Flags().Changed("log-file") {
				c.Config.Log.File = logFile
			}
			return c.runServe(cmd.Context(), noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, localhost:8080)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "also write logs to this rotating file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runServe serves until the context is cancelled.
func (c *CLI) runServe(ctx context.Context, noCache bool) error {
	logger, closer := newFileLogger(c.out, c.Logger.GetLevel(), c.Config.Log)
	defer closer.Close()

	opts, err := c.options()
	if err != nil {
		return err
	}
	opts.Logger = logger

	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return err
	}
	observability.UseLogger(logger)
	runner := pipeline.NewRunner(cc, cache.NewKeyer(c.Config.Cache), logger)
	defer runner.Close()

	logger.Info("starting server",
		"addr", c.Config.Server.Addr,
		"cache", c.Config.Cache.Backend,
		"width", opts.Width)

	err = server.New(runner, opts, logger).ListenAndServe(ctx, c.Config.Server.Addr)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
