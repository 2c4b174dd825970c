package main

import (
	"context"
	"flag"
	"log"

	"github.com/notequiz/backend/internal/app"
	"github.com/notequiz/backend/internal/config"
	"github.com/notequiz/backend/internal/logger"
	"github.com/notequiz/backend/internal/tracing"
	"go.uber.org/zap"
)

func main() {
	configDir := flag.String("config", ".", "Directory containing config.yaml")
	flag.Parse()

	cfg, err := config.Load(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	shutdownTracing, err := tracing.Init(cfg.Tracing)
	if err != nil {
		zlog.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			zlog.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}()

	a, err := app.New(cfg, zlog)
	if err != nil {
		zlog.Fatal("Failed to initialize app", zap.Error(err))
	}

	if err := a.Run(); err != nil {
		zlog.Error("Server failed", zap.Error(err))
	}
	zlog.Info("Server exiting")
}
