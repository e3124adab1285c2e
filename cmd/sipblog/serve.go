package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	sipblog "github.com/sip-protocol/blog-sip"
	"github.com/sip-protocol/blog-sip/internal/logger"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(c *cli) *cobra.Command {
	var addr, static string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve feeds, OG images, static files and the newsletter API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.cfg
			if addr != "" {
				cfg.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, sipblog.New(cfg, serveOptions(static)...))
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides ADDR)")
	cmd.Flags().StringVar(&static, "static", "", "directory of pre-rendered pages (overrides STATIC_DIR)")
	return cmd
}

func serveOptions(static string) []sipblog.Option {
	var opts []sipblog.Option
	if static != "" {
		opts = append(opts, sipblog.WithStaticDir(static))
	}
	return opts
}

// serve runs app until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, app *sipblog.App) error {
	if err := app.Setup(); err != nil {
		app.Close()
		return err
	}

	errc := make(chan error, 1)
	go func() { errc <- app.Start() }()

	select {
	case err := <-errc:
		app.Close()
		return err
	case <-ctx.Done():
	}

	logger.InfoWithFields("shutting down", logger.Fields{"timeout": shutdownTimeout.String()})
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return <-errc
}
