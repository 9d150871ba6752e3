// Package app wires configuration into a ready placement engine.
package app

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	"sanctuary/internal/config"
	"sanctuary/internal/core"
	"sanctuary/internal/platform/logger"
	"sanctuary/internal/platform/metrics"
	"sanctuary/internal/platform/tracing"
	"sanctuary/pkg/domain"
)

// Sanctuary bundles the engine with the collaborators built for it.
type Sanctuary struct {
	Config  config.Config
	Engine  *core.PlacementEngine
	Logger  *logger.Logger
	Metrics *metrics.Recorder
}

// Options carries runtime dependencies that do not belong in the config file.
type Options struct {
	// Registerer receives the Prometheus collectors; nil uses the default registry.
	Registerer prometheus.Registerer
	// LogWriter replaces the configured log output when set.
	LogWriter io.Writer
	// Clock overrides the engine clock.
	Clock core.Clock
	// TracerProvider backs engine spans when tracing is enabled; nil uses the global provider.
	TracerProvider trace.TracerProvider
}

// New builds a sanctuary from cfg.
func New(cfg config.Config, opts Options) (*Sanctuary, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		log *logger.Logger
		err error
	)
	if opts.LogWriter != nil {
		log, err = logger.NewWithWriter(cfg.Logging, opts.LogWriter)
	} else {
		log, err = logger.New(cfg.Logging)
	}
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	engineOpts := []core.Option{
		core.WithLogger(log.Component("placement")),
		core.WithIDGenerator(idGenerator(cfg.IDs)),
	}
	if opts.Clock != nil {
		engineOpts = append(engineOpts, core.WithClock(opts.Clock))
	}

	var recorder *metrics.Recorder
	if cfg.Metrics.Enabled {
		recorder, err = metrics.NewRecorder(opts.Registerer, cfg.Metrics.Namespace)
		if err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
		engineOpts = append(engineOpts, core.WithMetricsRecorder(recorder))
	}

	if cfg.Tracing.Enabled {
		engineOpts = append(engineOpts, core.WithTracer(tracing.New(opts.TracerProvider)))
	}

	engine, err := core.NewPlacementEngine(cfg.Layout.IsolationCages, cfg.Layout.EnclosureCapacities, engineOpts...)
	if err != nil {
		return nil, err
	}
	log.Info("sanctuary ready",
		"isolation_cages", cfg.Layout.IsolationCages,
		"enclosures", len(cfg.Layout.EnclosureCapacities),
		"ids", cfg.IDs,
		"metrics", cfg.Metrics.Enabled,
		"tracing", cfg.Tracing.Enabled)

	return &Sanctuary{Config: cfg, Engine: engine, Logger: log, Metrics: recorder}, nil
}

func idGenerator(strategy string) domain.IDGenerator {
	if strategy == config.IDsSequence {
		return core.NewSequenceGenerator()
	}
	return core.UUIDGenerator{}
}
