package executor

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CommandOutput captures the observable outcome of one command invocation.
type CommandOutput struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Combined returns stdout followed by stderr, for log capture in results.
func (o *CommandOutput) Combined() string {
	if o.Stderr == "" {
		return o.Stdout
	}
	if o.Stdout == "" {
		return o.Stderr
	}
	return o.Stdout + o.Stderr
}

// Runner invokes one external command and reports its exit status and
// captured output. A non-nil error means the command could not be run at
// all (e.g. the binary does not exist); a non-zero exit is not an error.
type Runner interface {
	Run(ctx context.Context, command string) (*CommandOutput, error)
}

// ExecRunner runs commands as local OS processes.
//
// The command string is split on whitespace; there is no shell involved, so
// quoting and redirection are not supported. That matches the declarative
// grid files, where each step is a single tool invocation.
type ExecRunner struct{}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, command string) (*CommandOutput, error) {
	argv := strings.Fields(command)
	if len(argv) == 0 {
		return nil, fmt.Errorf("command is empty")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	exitCode := 0
	if err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			// The process never ran: missing binary, permission problem,
			// or the context expired before start.
			return nil, fmt.Errorf("failed to run %q: %w", argv[0], err)
		}
		exitCode = exitErr.ExitCode()
	}

	return &CommandOutput{
		ExitCode: exitCode,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}, nil
}
