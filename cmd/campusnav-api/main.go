// README: Entry point; loads config, wires services and serves the HTTP API until interrupted.
package main

import (
	"context"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"

	"campusnav/internal/app"
	"campusnav/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Log.Level}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded",
		"http_address", cfg.HTTP.Addr,
		"store", cfg.Store.Backend,
		"directions", cfg.Maps.APIKey != "",
		"firebase", cfg.FirebaseEnabled(),
		"assist", cfg.AI.GeminiKey != "")

	ctx := context.Background()
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "err", err)
		os.Exit(1)
	}
	defer a.Close()

	if err := a.Serve(ctx); err != nil {
		a.Close()
		os.Exit(1)
	}
}
