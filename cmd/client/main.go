package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aleksmelnik/mediavault/internal/client/cli"
	"github.com/aleksmelnik/mediavault/internal/client/config"
	"github.com/aleksmelnik/mediavault/internal/logging"
)

func main() {
	ctx := context.Background()

	cfg := config.LoadConfig()
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	app, err := cli.NewApp(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "startup failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	app.Run(ctx)
}
