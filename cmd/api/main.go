package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/pefman/hd2-armory/internal/api"
	"github.com/pefman/hd2-armory/internal/catalog"
	"github.com/pefman/hd2-armory/internal/config"
	"github.com/pefman/hd2-armory/internal/hub"
	"github.com/pefman/hd2-armory/internal/logging"
	"github.com/pefman/hd2-armory/internal/server"
	"github.com/pefman/hd2-armory/internal/stats"
)

func main() {
	configPath := flag.String("config", os.Getenv("ARMORY_CONFIG"), "optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogEncoding)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(2)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat := catalog.New(api.NewClient(cfg.ClientConfig()), logger.Named("catalog"))
	if cfg.TestMode {
		if _, err := cat.LoadFixtures(); err != nil {
			return err
		}
		logger.Info("test mode: fixtures loaded")
	} else {
		loadCtx, cancel := context.WithTimeout(ctx, 2*cfg.FetchTimeout)
		if _, err := cat.Reload(loadCtx, false); err != nil {
			// Serve whatever loaded; POST /api/reload retries.
			logger.Warn("initial load incomplete", zap.Error(err))
		}
		cancel()
	}

	h := hub.New(logger.Named("ws"))
	srv := server.New(cat, h, stats.NewTracker(), logger.Named("http"), server.Options{
		StaticDir:      cfg.StaticDir,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("HD2 armory API listening", zap.String("addr", httpServer.Addr), zap.Bool("test_mode", cfg.TestMode))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	h.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
