package main

import (
	"context"
	"log/slog"
	"os"

	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		fx.NopLogger,
		Module,
		fx.Invoke(
			startServer,
			startSweeper,
			startAuditConsumer,
		),
	)

	if err := app.Start(context.Background()); err != nil {
		slog.Error("failed to start box office", "error", err)
		os.Exit(1)
	}

	<-app.Done()

	if err := app.Stop(context.Background()); err != nil {
		slog.Error("failed to stop box office cleanly", "error", err)
	}
	slog.Info("box office stopped")
}
