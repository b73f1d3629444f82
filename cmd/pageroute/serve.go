package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/vango-dev/pageroute/internal/errors"
	"github.com/vango-dev/pageroute/pkg/i18n"
	"github.com/vango-dev/pageroute/pkg/middleware"
	"github.com/vango-dev/pageroute/pkg/server"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the router over HTTP",
		Long: `Start an HTTP server exposing the route table, navigation, the
visited-page cache and its WebSocket stream.

Endpoints:
  GET  /routes
  POST /navigate?to=<url>
  GET  /pages
  GET  /pages/stream
  GET  /controllers?lang=<tag>
  GET  /metrics

Examples:
  pageroute serve
  pageroute serve --port=8080 --host=0.0.0.0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cmd, flags, host, port)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from pageroute.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from pageroute.json)")

	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command, flags *globalFlags, host string, port int) error {
	p, err := loadProject(ctx, flags, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if port > 0 {
		p.cfg.Server.Port = port
	}
	if host != "" {
		p.cfg.Server.Host = host
	}

	bundle, err := loadBundle(p)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(middleware.WithRegistry(reg))

	r := p.newRouter()
	r.Use(metrics.Middleware(), middleware.OpenTelemetry())
	sub := metrics.ObserveCache(r.Cache())
	defer sub.Unsubscribe()

	srv := server.New(r,
		server.WithConfig(&server.Config{Address: p.cfg.Address()}),
		server.WithLogger(p.logger),
		server.WithBundle(bundle),
		server.WithMetrics(metrics, reg),
	)

	success(cmd, "Serving %d pages on http://%s", len(p.routes), p.cfg.Address())
	info(cmd, "Source: %s", p.scanner.Source())
	return srv.Run(ctx)
}

// loadBundle loads the embedded catalogs plus the project's locales
// directory, when present.
func loadBundle(p *project) (*i18n.Bundle, error) {
	tag, err := language.Parse(p.cfg.I18n.Default)
	if err != nil {
		return nil, errors.New("E122").
			WithDetail("i18n.default is not a valid language tag: " + p.cfg.I18n.Default).
			Wrap(err)
	}

	bundle, err := i18n.NewBundle(tag)
	if err != nil {
		return nil, err
	}

	dir := p.cfg.LocalesPath()
	if _, err := os.Stat(dir); err == nil {
		if err := bundle.LoadDir(dir); err != nil {
			return nil, errors.New("E120").WithFile(dir).Wrap(err)
		}
		p.logger.Debug("loaded catalogs", "dir", dir, "languages", len(bundle.Languages()))
	}
	return bundle, nil
}
