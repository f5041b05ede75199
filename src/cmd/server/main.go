package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/api-sage/bankist/src/internal/config"
	"github.com/api-sage/bankist/src/internal/logger"
)

func main() {
	configPath := os.Getenv("BANKIST_CONFIG")
	if configPath == "" {
		configPath = "config.toml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger.Configure(cfg.Logging.Level, cfg.Logging.Pretty)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	a, err := newApp(ctx, cfg)
	cancel()
	if err != nil {
		logger.Error("initialize app", err, nil)
		os.Exit(1)
	}

	printBanner(cfg, a.storage)

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("starting http server", logger.Fields{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", err, nil)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("shutdown signal received", logger.Fields{"signal": sig.String()})

	printShutdownBanner()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.GetShutdownTimeout())
	defer cancelShutdown()

	// ending sessions first closes open event streams so Shutdown is not
	// held up by hijacked websocket connections
	a.close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", err, nil)
	}
	logger.Info("server stopped", nil)
}
