// Command modelgraphd serves graph execution over HTTP.
//
// Predictors are registered in code; graph topologies are YAML
// manifests loaded from the configured manifest directories.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/modelgraph/config"
	"github.com/kbukum/modelgraph/graph"
	"github.com/kbukum/modelgraph/jobs"
	"github.com/kbukum/modelgraph/logger"
	"github.com/kbukum/modelgraph/observability"
	"github.com/kbukum/modelgraph/server"
	"github.com/kbukum/modelgraph/version"
)

const serviceName = "modelgraph"

type appConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server       server.Config `yaml:"server" mapstructure:"server"`
	ManifestDirs []string      `yaml:"manifest_dirs" mapstructure:"manifest_dirs"`

	Tracing struct {
		Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
		Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	} `yaml:"tracing" mapstructure:"tracing"`

	Metrics struct {
		Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
		Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	} `yaml:"metrics" mapstructure:"metrics"`
}

func (c *appConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	if len(c.ManifestDirs) == 0 {
		c.ManifestDirs = []string{"manifests"}
	}
}

func (c *appConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	return c.Server.Validate()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "modelgraphd: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var cfg appConfig
	if err := config.LoadConfig(serviceName, &cfg); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	logger.Init(cfg.Logging)
	log := logger.GetGlobalLogger()
	log.Info("Starting", map[string]interface{}{
		"version":     version.Get().String(),
		"environment": cfg.Environment,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Tracing.Enabled {
		tracerCfg := observability.DefaultTracerConfig(cfg.Name)
		tracerCfg.ServiceVersion = version.Get().Version
		tracerCfg.Environment = cfg.Environment
		if cfg.Tracing.Endpoint != "" {
			tracerCfg.Endpoint = cfg.Tracing.Endpoint
		}
		tp, err := observability.InitTracer(ctx, tracerCfg)
		if err != nil {
			return fmt.Errorf("initializing tracer: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(shutdownCtx); err != nil {
				log.Warn("Tracer shutdown error", map[string]interface{}{"error": err.Error()})
			}
		}()
	}

	var svcOpts []server.ServiceOption
	if cfg.Metrics.Enabled {
		meterCfg := observability.DefaultMeterConfig(cfg.Name)
		meterCfg.ServiceVersion = version.Get().Version
		meterCfg.Environment = cfg.Environment
		if cfg.Metrics.Endpoint != "" {
			meterCfg.Endpoint = cfg.Metrics.Endpoint
		}
		mp, err := observability.InitMeter(ctx, &meterCfg)
		if err != nil {
			return fmt.Errorf("initializing meter: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := mp.Shutdown(shutdownCtx); err != nil {
				log.Warn("Meter shutdown error", map[string]interface{}{"error": err.Error()})
			}
		}()

		metrics, err := observability.NewMetrics(observability.Meter(cfg.Name))
		if err != nil {
			return fmt.Errorf("creating metrics: %w", err)
		}
		svcOpts = append(svcOpts, server.WithMetrics(metrics))
	}

	registry := graph.NewPredictorRegistry()
	// Predictors are registered by the embedding service; the bare
	// daemon starts with an empty registry and reports degraded health
	// until predictors are wired in.

	scheduler := jobs.NewScheduler(jobs.WithLogger(log))
	loader := graph.NewFileManifestLoader(cfg.ManifestDirs...)
	svc := server.NewService(cfg.Name, registry, loader, scheduler, log, svcOpts...)

	srv := server.New(cfg.Server, log, svc)
	if err := srv.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	log.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		return err
	}
	return scheduler.Shutdown(shutdownCtx)
}
