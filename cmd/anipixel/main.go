package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/anipixel/anipixel/core/anilist"
	"github.com/anipixel/anipixel/core/config"
	"github.com/anipixel/anipixel/core/health"
	"github.com/anipixel/anipixel/core/logger"
	"github.com/anipixel/anipixel/core/telegram"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("anipixel: %v", err)
	}
}

func run() error {
	// .env is optional — env vars may already be set (e.g. in production)
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	lg, err := logger.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := lg.Shutdown(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	catalog := anilist.NewClient(cfg.AniList, telegram.BuildHTTPClient(), lg.Component("anilist"))

	if cfg.Health.Listen != "" {
		healthLog := lg.Component("health")
		go func() {
			if err := health.Serve(ctx, cfg.Health.Listen, healthLog); err != nil {
				healthLog.Error("health server failed",
					slog.String("event", "health.failed"),
					slog.String("err", err.Error()),
				)
			}
		}()
	}

	return telegram.Run(ctx, telegram.Options{
		Config:  cfg,
		Catalog: catalog,
		Log:     lg,
	})
}
