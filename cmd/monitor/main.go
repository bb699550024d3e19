package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"speedtest-monitor/internal/metrics"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, cleanup, err := initApplication(ctx, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	logger := app.Logger
	app.Config.Log(logger)
	metrics.StartServer(logger, app.Config.MetricsPort)

	logger.Infof("speed test monitor started, testing every %s", app.Config.Interval())

	// Blocks until the interrupt signal cancels ctx; the deferred cleanup
	// then releases the storage connection and the process exits 0.
	app.Monitor.Run(ctx)

	logger.Infof("shutting down gracefully")
}
