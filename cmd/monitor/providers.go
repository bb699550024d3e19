package main

import (
	"context"
	"io"

	"speedtest-monitor/internal/config"
	"speedtest-monitor/internal/domain"
	"speedtest-monitor/internal/logging"
	"speedtest-monitor/internal/monitor"
	"speedtest-monitor/internal/scheduler"
	"speedtest-monitor/internal/speedtest"
	"speedtest-monitor/internal/storage/postgres"
)

const serviceName = "speedtest-monitor"

type application struct {
	Config  config.Config
	Logger  *logging.Logger
	Monitor *monitor.Monitor
}

func newApplication(cfg config.Config, logger *logging.Logger, mon *monitor.Monitor) *application {
	return &application{Config: cfg, Logger: logger, Monitor: mon}
}

func provideConfig() (config.Config, error) {
	return config.Load()
}

func provideLogger(out io.Writer) *logging.Logger {
	return logging.New(out, serviceName)
}

func provideCapability() speedtest.Capability {
	return speedtest.NewNetCapability()
}

func provideMeasurer(capability speedtest.Capability, logger *logging.Logger) domain.Measurer {
	return speedtest.NewClient(capability, logger)
}

// provideStore connects to PostgreSQL and bootstraps the schema. Both steps
// are startup-fatal: without a verified store no measurement can be kept.
func provideStore(ctx context.Context, cfg config.Config, logger *logging.Logger) (domain.MeasurementStore, func(), error) {
	gateway, err := postgres.Connect(ctx, postgres.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		Name:     cfg.DBName,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
	})
	if err != nil {
		return nil, nil, err
	}
	logger.Infof("connected to PostgreSQL at %s:%s/%s", cfg.DBHost, cfg.DBPort, cfg.DBName)

	if err := gateway.EnsureSchema(ctx); err != nil {
		_ = gateway.Close()
		return nil, nil, err
	}
	logger.Infof("database schema initialized")

	cleanup := func() {
		if err := gateway.Close(); err != nil {
			logger.Errorf("failed to close storage connection: %v", err)
		}
	}
	return gateway, cleanup, nil
}

func provideScheduler(cfg config.Config, logger *logging.Logger) *scheduler.Scheduler {
	return scheduler.New(scheduler.Config{Interval: cfg.Interval()}, logger)
}

func provideMonitor(measurer domain.Measurer, store domain.MeasurementStore, sched *scheduler.Scheduler, logger *logging.Logger) *monitor.Monitor {
	return monitor.New(measurer, store, sched, logger)
}
