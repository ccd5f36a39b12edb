package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/df07/go-raycaster/internal/config"
	"github.com/df07/go-raycaster/internal/logger"
	"github.com/df07/go-raycaster/web/server"
)

func main() {
	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	flags := config.RegisterFlags(fs)
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(2)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(2)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	webServer := server.NewServer(cfg.Server, logger.Named("web"))

	logger.Info("Go Raycaster Web Server",
		zap.String("url", fmt.Sprintf("http://localhost:%d", cfg.Server.Port)))
	logger.Debug("render limits",
		zap.Int("max_width", cfg.Server.MaxWidth),
		zap.Int("max_height", cfg.Server.MaxHeight))

	if err := webServer.Start(ctx); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
