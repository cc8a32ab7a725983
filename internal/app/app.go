// Package app wires configuration loading, matrix expansion, scheduling and
// reporting into the application lifecycle.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/vk/gridci/internal/config"
	"github.com/vk/gridci/internal/ctxlog"
	"github.com/vk/gridci/internal/executor"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	model      *config.Model
	runner     executor.Runner
	httpServer *http.Server

	// progress is set once the scheduler starts, for the healthcheck server.
	progress func() (completed, total int)
}

// Option customizes an App, primarily for tests.
type Option func(*App)

// WithRunner substitutes the command runner used for every step. Tests use
// it to replace the external world with a fake.
func WithRunner(runner executor.Runner) Option {
	return func(a *App) {
		a.runner = runner
	}
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App with its own isolated logger and the grid configuration
// already loaded and validated. A failure to load configuration is a fatal
// startup error and panics; the CLI entrypoint recovers it into a clean
// exit.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, opts ...Option) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := loader.Load(ctx, appConfig.GridPath)
	if err != nil {
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	logger.Debug("Grid configuration loaded into unified model.")

	a := &App{
		outW:   outW,
		logger: logger,
		config: appConfig,
		model:  model,
		runner: &executor.ExecRunner{},
	}
	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Model returns the loaded configuration model. This is primarily for
// testing.
func (a *App) Model() *config.Model {
	return a.model
}
