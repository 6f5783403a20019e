package cli

import (
	"io"
	"log/slog"

	"github.com/aretw0/careerpath"
	"github.com/aretw0/careerpath/internal/config"
	httpadapter "github.com/aretw0/careerpath/pkg/adapters/http"
	"github.com/aretw0/careerpath/pkg/observability"
	"github.com/aretw0/careerpath/pkg/ports"
	"github.com/aretw0/careerpath/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// App bundles the components every command needs.
type App struct {
	Config   config.Config
	Logger   *slog.Logger
	Engine   *careerpath.Engine
	Planner  ports.Planner
	Sessions *session.Manager
	Metrics  *observability.Metrics
	Registry *prometheus.Registry
	Streams  *httpadapter.StreamManager

	closeStore func() error
}

// AppOptions tune Bootstrap.
type AppOptions struct {
	Debug     bool
	LogOutput io.Writer
}

// Bootstrap wires logger, metrics, run event streams, engine and session
// manager from cfg.
// Metrics go to a dedicated registry that also carries the Go and process
// collectors, served by the HTTP adapter.
func Bootstrap(cfg config.Config, opts AppOptions) (*App, error) {
	logger, err := createLogger(cfg.Log, opts.LogOutput, opts.Debug)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(reg)

	streams := httpadapter.NewStreamManager(logger)
	hooks := metrics.Hooks().Merge(streams.Hooks())
	if opts.Debug {
		hooks = hooks.Merge(observability.LoggingHooks(logger))
	}

	engine, err := createEngine(cfg, logger, hooks)
	if err != nil {
		return nil, err
	}

	mgr, closeStore, err := createSessionManager(cfg.Sessions, logger)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:     cfg,
		Logger:     logger,
		Engine:     engine,
		Planner:    observability.InstrumentPlanner(engine, metrics),
		Sessions:   mgr,
		Metrics:    metrics,
		Registry:   reg,
		Streams:    streams,
		closeStore: closeStore,
	}, nil
}

// Close releases store connections.
func (a *App) Close() error {
	if a.closeStore == nil {
		return nil
	}
	return a.closeStore()
}
