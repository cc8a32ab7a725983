package executor

import (
	"time"

	"github.com/vk/gridci/internal/matrix"
)

// Status is the execution state of a cell. Pending and Running are
// transient; the remaining values are terminal and final.
type Status int32

const (
	StatusPending Status = iota
	StatusRunning
	StatusPassed
	StatusFailed
	StatusUnavailable
	StatusCancelled
)

// String returns the lower-case name of the status as it appears in reports.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusPassed:
		return "passed"
	case StatusFailed:
		return "failed"
	case StatusUnavailable:
		return "unavailable"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status is final.
func (s Status) Terminal() bool {
	return s != StatusPending && s != StatusRunning
}

// StepResult records one attempted step of a cell.
type StepResult struct {
	Name     string
	Command  string
	ExitCode int
	Output   string
	Duration time.Duration
}

// CellResult is the terminal record of a cell. It is immutable once produced
// and owned by the aggregator.
type CellResult struct {
	Cell   *matrix.Cell
	Status Status

	// FailedStep names the first failing step, empty unless Status is
	// StatusFailed.
	FailedStep string

	// Steps holds the results of all attempted steps, in execution order.
	// Steps after the first failure are never attempted and never appear.
	Steps []StepResult

	// Err carries the cell's terminal error: a *StepError, an
	// *EnvironmentError, or a cancellation error. Nil when the cell passed.
	Err error

	// Attempts counts how many times the cell was dispatched. It exceeds 1
	// only when the scheduler re-dispatched an unavailable cell.
	Attempts int

	Duration time.Duration
}
