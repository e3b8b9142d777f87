package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/kbukum/dataprep/action/builtin"
	"github.com/kbukum/dataprep/cache"
	_ "github.com/kbukum/dataprep/cache/file"
	_ "github.com/kbukum/dataprep/cache/memory"
	_ "github.com/kbukum/dataprep/cache/redis"
	"github.com/kbukum/dataprep/config"
	"github.com/kbukum/dataprep/logger"
	"github.com/kbukum/dataprep/observability"
	"github.com/kbukum/dataprep/transform"
	"github.com/kbukum/dataprep/version"
)

// app carries what every command needs once configuration is loaded.
type app struct {
	configFile string
	envFile    string

	cfg AppConfig
	log *logger.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "dataprep",
		Short: "Row-streaming data preparation pipelines",
		Long: "dataprep applies preparations (ordered lists of actions) to datasets,\n" +
			"streaming rows through a pipeline and writing a JSON envelope.",
		Version:      version.GetVersionInfo().String(),
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.load()
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&a.configFile, "config", "", "Config file (default: searched in ./cmd/dataprep, ./config, .)")
	f.StringVar(&a.envFile, "env-file", "", "Env file loaded before DATAPREP_ overrides (default: .env)")

	root.AddCommand(newTransformCmd(a))
	root.AddCommand(newActionsCmd(a))
	root.AddCommand(newServeCmd(a))
	root.AddCommand(newVersionCmd())
	return root
}

func (a *app) load() error {
	var opts []config.LoaderOption
	if a.configFile != "" {
		opts = append(opts, config.WithConfigFile(a.configFile))
	}
	if a.envFile != "" {
		opts = append(opts, config.WithEnvFile(a.envFile))
	}
	if err := config.Load("dataprep", &a.cfg, opts...); err != nil {
		return err
	}
	a.cfg.ApplyDefaults()
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	logger.Init(a.cfg.Logging)
	a.log = logger.GetGlobalLogger().WithComponent("cli")
	a.log.Debug("configuration loaded", logger.Fields(
		"environment", a.cfg.Environment,
		"cache", a.cfg.Cache.Provider,
		"telemetry", a.cfg.Observability.Enabled,
	))
	return nil
}

// telemetry starts exporters when enabled and returns the pipeline
// instruments, bound to the global meter provider.
func (a *app) telemetry(ctx context.Context) (observability.ShutdownFunc, *observability.Metrics, error) {
	shutdown, err := observability.Setup(ctx, a.cfg.Observability, a.cfg.Name, version.Version, a.cfg.Environment)
	if err != nil {
		return nil, nil, err
	}
	metrics, err := observability.NewMetrics(observability.Meter(a.cfg.Name))
	if err != nil {
		_ = shutdown(ctx)
		return nil, nil, err
	}
	return shutdown, metrics, nil
}

func (a *app) newService(c cache.ContentCache, metrics *observability.Metrics) *transform.Service {
	return transform.NewService(builtin.NewRegistry(),
		transform.WithCache(c),
		transform.WithMetrics(metrics),
		transform.WithPartitionLimit(a.cfg.Pipeline.PartitionLimit),
		transform.WithLogger(logger.GetGlobalLogger().WithComponent("transform")),
	)
}

// closeCache releases backends holding connections.
func (a *app) closeCache(c cache.ContentCache) {
	if closer, ok := c.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			a.log.Warn("cache close failed", logger.ErrorFields("close", err))
		}
	}
}
