package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kbukum/dataprep/cache"
	"github.com/kbukum/dataprep/observability"
	"github.com/kbukum/dataprep/preparation"
	"github.com/kbukum/dataprep/server"
	"github.com/kbukum/dataprep/version"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the transformation API over HTTP",
		Long: `Starts the HTTP API (POST /api/v1/transform, GET /api/v1/actions,
GET /api/v1/metadata/:stepId, /health, /version) and blocks until SIGINT or
SIGTERM, then shuts down gracefully.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runServe(cmd.Context())
		},
	}
}

func (a *app) runServe(ctx context.Context) error {
	shutdown, metrics, err := a.telemetry(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = shutdown(context.Background()) }()

	c, err := cache.New(a.cfg.Cache, a.log)
	if err != nil {
		return err
	}
	defer a.closeCache(c)

	opts := []server.APIOption{
		server.WithLoader(preparation.NewFileLoader(a.cfg.Server.PreparationDirs...)),
	}
	if hc, ok := c.(observability.HealthChecker); ok {
		opts = append(opts, server.WithHealthCheckers(hc))
	}

	srv := server.New(a.cfg.Server, a.log)
	server.NewAPI(a.newService(c, metrics), a.cfg.Name, version.Version, opts...).Register(srv.Engine())
	srv.ApplyMiddleware()

	if err := srv.Start(ctx); err != nil {
		return err
	}
	a.log.Info(version.GetVersionInfo().Banner(), map[string]interface{}{"addr": srv.Addr()})

	<-ctx.Done()
	return srv.Stop(context.Background())
}
