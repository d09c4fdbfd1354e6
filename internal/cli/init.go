// Package cli provides the process setup shared by the creditlens commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/browser"

	"creditlens/internal/config"
	"creditlens/internal/log"
)

// SetupLogger builds the stderr logger at level and installs it as the
// slog default.
func SetupLogger(level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := log.DefaultConfig()
	cfg.Level = lvl
	cfg.Component = log.ComponentCLI
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger, nil
}

// LoadEnvFile loads .env from the working directory when present. A missing
// file is not an error.
func LoadEnvFile() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// LoadAndValidateConfig loads configuration from the environment, applies
// mutate (flag overrides) and validates the result.
func LoadAndValidateConfig(mutate func(*config.Config)) (*config.Config, error) {
	cfg := config.Load()
	if mutate != nil {
		mutate(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// GracefulShutdown returns a context cancelled on SIGINT, SIGTERM or when
// parent ends. When it fires, shutdown runs with a context bounded by
// timeout; done closes once shutdown has returned.
func GracefulShutdown(parent context.Context, logger *log.Logger, timeout time.Duration, shutdown func(context.Context) error) (ctx context.Context, done <-chan struct{}) {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	finished := make(chan struct{})

	go func() {
		defer close(finished)
		<-ctx.Done()
		stop()
		logger.Info("Shutting down", log.FieldOperation, log.OpShutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if shutdown == nil {
			return
		}
		if err := shutdown(shutdownCtx); err != nil {
			logger.Error("Shutdown error", log.FieldError, err.Error(), log.FieldOperation, log.OpShutdown)
			return
		}
		logger.Info("Shutdown complete", log.FieldOperation, log.OpShutdown)
	}()

	return ctx, finished
}

// openURL is replaced in tests.
var openURL = browser.OpenURL

// OpenBrowser opens url in the default browser. Failures are only logged.
func OpenBrowser(logger *log.Logger, url string) {
	browser.Stdout = os.Stderr
	if err := openURL(url); err != nil {
		logger.Warn("Could not open browser", "url", url, log.FieldError, err.Error())
		return
	}
	logger.Info("Browser opened", "url", url)
}
