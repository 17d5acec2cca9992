package main

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/viant/zigguard/analyzer"
	"github.com/viant/zigguard/internal/config"
	"github.com/viant/zigguard/internal/metrics"
	"github.com/viant/zigguard/project"
)

// buildContainer wires analyzer.Config, *zap.Logger, metrics.Client,
// *analyzer.Facade, and *project.Driver, following the teacher's cmd/main.go
// buildContainer() — a dig graph of config → logger → dependent
// services, resolved once per CLI invocation.
func buildContainer(resolved config.Resolved, metricsEnabled bool, ext string) (*dig.Container, error) {
	container := dig.New()

	if err := container.Provide(func() analyzer.Config { return resolved.Config }); err != nil {
		return nil, err
	}
	if err := container.Provide(func(cfg analyzer.Config) *zap.Logger {
		return newLogger(cfg.Logging.Level, cfg.Logging.LogPath)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(logger *zap.Logger) metrics.Client {
		if !metricsEnabled {
			return metrics.NewNoopClient()
		}
		return metrics.NewPrometheusClient(logger)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(cfg analyzer.Config) (*analyzer.Facade, error) {
		f, aerr := analyzer.NewFacade(cfg)
		if aerr != nil {
			return nil, aerr
		}
		return f, nil
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(facade *analyzer.Facade, metricsClient metrics.Client) *project.Driver {
		driverCfg := project.DefaultDriverConfig()
		if ext != "" {
			driverCfg.Ext = ext
		}
		return project.New(facade, driverCfg, metricsClient)
	}); err != nil {
		return nil, err
	}
	return container, nil
}
