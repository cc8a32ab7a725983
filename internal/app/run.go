package app

import (
	"context"
	"fmt"

	"github.com/vk/gridci/internal/ctxlog"
	"github.com/vk/gridci/internal/executor"
	"github.com/vk/gridci/internal/matrix"
	"github.com/vk/gridci/internal/report"
	"github.com/vk/gridci/internal/scheduler"
)

// Run executes the full matrix and writes the summary report. It returns a
// nil error only when every cell passed; the returned error wraps
// report.ErrRunFailed otherwise so the CLI can map it to an exit code.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	cells, err := matrix.Expand(a.model)
	if err != nil {
		return fmt.Errorf("failed to expand matrix: %w", err)
	}
	a.logger.Info("Matrix expanded.",
		"platforms", len(a.model.Platforms),
		"toolchains", len(a.model.Toolchains),
		"cells", len(cells),
	)

	maxConcurrency := a.config.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = a.model.MaxConcurrency
	}

	exec := executor.New(a.runner, a.model.StepTimeout)
	sched := scheduler.New(exec, scheduler.Options{
		MaxConcurrency:   maxConcurrency,
		RetryUnavailable: a.model.RetryUnavailable,
		OnResult:         a.logCellResult,
	})
	// The health handler reads a.progress; set it before the server can
	// serve its first request.
	a.progress = sched.Progress
	if a.config.HealthcheckPort > 0 {
		go a.startHealthcheckServer(a.config.HealthcheckPort)
	}

	a.logger.Info("🚀 Starting matrix execution...")
	results := sched.Run(ctx, cells)
	a.logger.Info("🏁 Matrix execution finished.")

	summary := report.Summarize(results)
	if err := summary.Render(a.outW); err != nil {
		return fmt.Errorf("failed to render run summary: %w", err)
	}

	a.logger.Debug("App.Run method finished.", "status", summary.Status.String())
	return summary.Err()
}

// logCellResult streams per-cell progress as results arrive, in completion
// order.
func (a *App) logCellResult(result *executor.CellResult) {
	logger := a.logger.With("cell", result.Cell.ID(), "status", result.Status.String())
	switch result.Status {
	case executor.StatusPassed:
		logger.Info("Cell completed.")
	case executor.StatusCancelled:
		logger.Warn("Cell cancelled.")
	default:
		logger.Error("Cell did not pass.", "error", result.Err)
	}
}
