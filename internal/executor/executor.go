package executor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vk/gridci/internal/ctxlog"
	"github.com/vk/gridci/internal/matrix"
)

// Executor runs the step sequence of one cell at a time. It is stateless and
// safe for concurrent use by the scheduler's workers.
type Executor struct {
	runner Runner

	// stepTimeout bounds each command. Zero disables the timeout.
	stepTimeout time.Duration
}

// New creates an Executor that invokes commands through the given runner.
func New(runner Runner, stepTimeout time.Duration) *Executor {
	if runner == nil {
		panic("executor: runner must not be nil")
	}
	return &Executor{runner: runner, stepTimeout: stepTimeout}
}

// ExecuteCell runs the cell's setup command (when configured) and then its
// steps strictly in declaration order, stopping at the first failure. It
// always produces a terminal CellResult; per-cell problems are recorded on
// the result, never returned.
func (e *Executor) ExecuteCell(ctx context.Context, cell *matrix.Cell) *CellResult {
	logger := ctxlog.FromContext(ctx).With("cell", cell.ID())
	started := time.Now()

	result := &CellResult{Cell: cell, Attempts: 1}
	finish := func(status Status, err error) *CellResult {
		result.Status = status
		result.Err = err
		result.Duration = time.Since(started)
		return result
	}

	if ctx.Err() != nil {
		logger.Warn("Cell skipped: run cancelled before start.")
		return finish(StatusCancelled, ctx.Err())
	}

	if cell.Setup != "" {
		logger.Debug("Provisioning environment.", "command", cell.Setup)
		output, err := e.runCommand(ctx, cell.Setup)
		if ctx.Err() != nil {
			logger.Warn("Cell cancelled during provisioning.")
			return finish(StatusCancelled, ctx.Err())
		}
		if err == nil && output.ExitCode != 0 {
			err = fmt.Errorf("setup command exited with code %d", output.ExitCode)
		}
		if err != nil {
			logger.Warn("Environment unavailable.", "error", err)
			return finish(StatusUnavailable, &EnvironmentError{
				Platform:  cell.Platform,
				Toolchain: cell.Toolchain,
				Err:       err,
			})
		}
		logger.Debug("Environment provisioned.")
	}

	for _, step := range cell.Steps {
		logger.Info("▶️ Starting step", "step", step.Name)
		stepResult, err := e.runStep(ctx, step)
		result.Steps = append(result.Steps, stepResult)

		if ctx.Err() != nil {
			logger.Warn("Cell cancelled mid-step.", "step", step.Name)
			return finish(StatusCancelled, ctx.Err())
		}
		if err != nil {
			logger.Error("Step failed.", "step", step.Name, "error", err)
			result.FailedStep = step.Name
			return finish(StatusFailed, err)
		}
		logger.Info("✅ Finished step", "step", step.Name)
	}

	logger.Info("🏁 Cell passed.")
	return finish(StatusPassed, nil)
}

// runStep invokes one step's command and folds the outcome into a
// StepResult plus the error that fails the cell, if any.
func (e *Executor) runStep(ctx context.Context, step matrix.Step) (StepResult, error) {
	started := time.Now()
	output, err := e.runCommand(ctx, step.Command)

	stepResult := StepResult{
		Name:     step.Name,
		Command:  step.Command,
		Duration: time.Since(started),
	}

	if err != nil {
		if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
			// The step's own timeout expired; the run itself is still alive.
			return stepResult, &StepError{
				Step:   step.Name,
				Output: fmt.Sprintf("step timed out after %s", e.stepTimeout),
			}
		}
		return stepResult, fmt.Errorf("step %q could not be invoked: %w", step.Name, err)
	}

	stepResult.ExitCode = output.ExitCode
	stepResult.Output = output.Combined()

	if output.ExitCode != 0 {
		return stepResult, &StepError{
			Step:     step.Name,
			ExitCode: output.ExitCode,
			Output:   stepResult.Output,
		}
	}
	return stepResult, nil
}

// runCommand applies the per-step timeout, when configured, around one
// runner invocation.
func (e *Executor) runCommand(ctx context.Context, command string) (*CommandOutput, error) {
	if e.stepTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.stepTimeout)
		defer cancel()
	}

	output, err := e.runner.Run(ctx, command)
	if err != nil && ctx.Err() != nil {
		// Prefer the context's verdict so timeouts and cancellations are
		// not misread as infrastructure failures.
		return nil, ctx.Err()
	}
	return output, err
}
