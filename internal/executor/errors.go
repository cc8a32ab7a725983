package executor

import "fmt"

// StepError reports a step whose command exited non-zero or timed out. It
// aborts the remaining steps of its own cell and nothing else.
type StepError struct {
	Step     string
	ExitCode int
	Output   string
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %q failed with exit code %d", e.Step, e.ExitCode)
}

// EnvironmentError reports that a (platform, toolchain) environment could
// not be provisioned. It is distinct from a step failure: no step ran.
type EnvironmentError struct {
	Platform  string
	Toolchain string
	Err       error
}

func (e *EnvironmentError) Error() string {
	return fmt.Sprintf("environment %s/%s unavailable: %v", e.Platform, e.Toolchain, e.Err)
}

func (e *EnvironmentError) Unwrap() error {
	return e.Err
}
