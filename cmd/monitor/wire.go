//go:build wireinject

package main

import (
	"context"
	"io"

	"github.com/google/wire"
)

func initApplication(ctx context.Context, out io.Writer) (*application, func(), error) {
	wire.Build(
		provideConfig,
		provideLogger,
		provideCapability,
		provideMeasurer,
		provideStore,
		provideScheduler,
		provideMonitor,
		newApplication,
	)
	return nil, nil, nil
}
