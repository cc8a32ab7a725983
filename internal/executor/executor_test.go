package executor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vk/gridci/internal/matrix"
)

// fakeRunner records every invoked command and answers from canned
// per-command exit codes and errors. Commands not listed succeed.
type fakeRunner struct {
	mu      sync.Mutex
	calls   []string
	exitFor map[string]int
	errFor  map[string]error
	delay   time.Duration
}

func (f *fakeRunner) Run(ctx context.Context, command string) (*CommandOutput, error) {
	f.mu.Lock()
	f.calls = append(f.calls, command)
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.delay):
		}
	}
	if err, ok := f.errFor[command]; ok {
		return nil, err
	}
	exitCode := 0
	if code, ok := f.exitFor[command]; ok {
		exitCode = code
	}
	return &CommandOutput{ExitCode: exitCode, Stdout: "output of " + command + "\n"}, nil
}

func (f *fakeRunner) commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func threeStepCell() *matrix.Cell {
	return &matrix.Cell{
		Platform:  "ubuntu",
		Toolchain: "stable",
		Steps: []matrix.Step{
			{Name: "test", Command: "tool test"},
			{Name: "format", Command: "tool fmt"},
			{Name: "check", Command: "tool check"},
		},
	}
}

func TestExecuteCell_AllStepsPass(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	runner := &fakeRunner{}
	exec := New(runner, 0)

	// --- Act ---
	result := exec.ExecuteCell(context.Background(), threeStepCell())

	// --- Assert ---
	require.Equal(t, StatusPassed, result.Status)
	require.NoError(t, result.Err)
	require.Empty(t, result.FailedStep)
	require.Equal(t, 1, result.Attempts)
	require.Len(t, result.Steps, 3, "all steps should have been attempted")
	require.Equal(t, []string{"tool test", "tool fmt", "tool check"}, runner.commands(),
		"steps must run strictly in declaration order")
	for _, step := range result.Steps {
		require.Zero(t, step.ExitCode)
		require.NotEmpty(t, step.Output, "captured output must be recorded")
	}
}

func TestExecuteCell_FailFast(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// Step 2 of 3 fails; step 3 must never be executed.
	runner := &fakeRunner{exitFor: map[string]int{"tool fmt": 1}}
	exec := New(runner, 0)

	// --- Act ---
	result := exec.ExecuteCell(context.Background(), threeStepCell())

	// --- Assert ---
	require.Equal(t, StatusFailed, result.Status)
	require.Equal(t, "format", result.FailedStep)
	require.Len(t, result.Steps, 2, "the step after the failure must not be attempted")
	require.Equal(t, []string{"tool test", "tool fmt"}, runner.commands())

	var stepErr *StepError
	require.ErrorAs(t, result.Err, &stepErr)
	require.Equal(t, "format", stepErr.Step)
	require.Equal(t, 1, stepErr.ExitCode)
	require.NotEmpty(t, stepErr.Output)
}

func TestExecuteCell_SetupFailureIsUnavailable(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// A failing setup command means the environment never provisioned, so
	// no step runs and the cell is unavailable rather than failed.
	cell := threeStepCell()
	cell.Setup = "provision env"
	runner := &fakeRunner{exitFor: map[string]int{"provision env": 7}}
	exec := New(runner, 0)

	// --- Act ---
	result := exec.ExecuteCell(context.Background(), cell)

	// --- Assert ---
	require.Equal(t, StatusUnavailable, result.Status)
	require.Empty(t, result.Steps, "no step may run when provisioning fails")
	require.Equal(t, []string{"provision env"}, runner.commands())

	var envErr *EnvironmentError
	require.ErrorAs(t, result.Err, &envErr)
	require.Equal(t, "ubuntu", envErr.Platform)
	require.Equal(t, "stable", envErr.Toolchain)
}

func TestExecuteCell_InvocationErrorFailsStep(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// A command that cannot be started at all still fails the cell at that
	// step, with the cause preserved.
	cause := errors.New("binary not found")
	runner := &fakeRunner{errFor: map[string]error{"tool test": cause}}
	exec := New(runner, 0)

	// --- Act ---
	result := exec.ExecuteCell(context.Background(), threeStepCell())

	// --- Assert ---
	require.Equal(t, StatusFailed, result.Status)
	require.Equal(t, "test", result.FailedStep)
	require.ErrorIs(t, result.Err, cause)
	require.Len(t, runner.commands(), 1)
}

func TestExecuteCell_CancelledBeforeStart(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	runner := &fakeRunner{}
	exec := New(runner, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// --- Act ---
	result := exec.ExecuteCell(ctx, threeStepCell())

	// --- Assert ---
	require.Equal(t, StatusCancelled, result.Status)
	require.ErrorIs(t, result.Err, context.Canceled)
	require.Empty(t, runner.commands(), "no command may run after cancellation")
}

func TestExecuteCell_CancelledMidStep(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	runner := &fakeRunner{delay: time.Hour}
	exec := New(runner, 0)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	// --- Act ---
	result := exec.ExecuteCell(ctx, threeStepCell())

	// --- Assert ---
	require.Equal(t, StatusCancelled, result.Status)
	require.ErrorIs(t, result.Err, context.Canceled)
	require.Len(t, runner.commands(), 1, "only the in-flight step may have started")
}

func TestExecuteCell_StepTimeoutFailsCell(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The runner sits on the first step far longer than the step timeout.
	// The cell must fail at that step; the run itself is not cancelled.
	runner := &fakeRunner{delay: time.Hour}
	exec := New(runner, 25*time.Millisecond)

	// --- Act ---
	result := exec.ExecuteCell(context.Background(), threeStepCell())

	// --- Assert ---
	require.Equal(t, StatusFailed, result.Status)
	require.Equal(t, "test", result.FailedStep)

	var stepErr *StepError
	require.ErrorAs(t, result.Err, &stepErr)
	require.Contains(t, stepErr.Output, "timed out")
	require.Len(t, runner.commands(), 1, "remaining steps must be skipped after a timeout")
}
