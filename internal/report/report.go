// Package report folds per-cell results into the run's aggregate verdict and
// renders the deterministic summary that is the tool's observable output.
package report

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/vk/gridci/internal/executor"
)

// ErrRunFailed marks a run whose aggregate status is not passed. The CLI
// maps it to a non-zero process exit code.
var ErrRunFailed = errors.New("one or more matrix cells did not pass")

// Summary is the aggregate over all cell results of a run.
type Summary struct {
	Total       int
	Passed      int
	Failed      int
	Unavailable int
	Cancelled   int

	// Status is passed iff every cell passed. Any cancelled cell marks the
	// whole run cancelled; otherwise any non-passing cell marks it failed.
	Status executor.Status

	// Results is sorted by (platform, toolchain) for deterministic output,
	// regardless of completion order.
	Results []*executor.CellResult
}

// Summarize computes the run summary from the collected cell results.
func Summarize(results []*executor.CellResult) *Summary {
	summary := &Summary{
		Total:   len(results),
		Results: make([]*executor.CellResult, len(results)),
	}
	copy(summary.Results, results)
	sort.Slice(summary.Results, func(i, j int) bool {
		a, b := summary.Results[i].Cell, summary.Results[j].Cell
		if a.Platform != b.Platform {
			return a.Platform < b.Platform
		}
		return a.Toolchain < b.Toolchain
	})

	for _, result := range summary.Results {
		switch result.Status {
		case executor.StatusPassed:
			summary.Passed++
		case executor.StatusFailed:
			summary.Failed++
		case executor.StatusUnavailable:
			summary.Unavailable++
		case executor.StatusCancelled:
			summary.Cancelled++
		}
	}

	switch {
	case summary.Cancelled > 0:
		summary.Status = executor.StatusCancelled
	case summary.Passed == summary.Total:
		summary.Status = executor.StatusPassed
	default:
		summary.Status = executor.StatusFailed
	}

	return summary
}

// ExitCode maps the aggregate status to the process exit code: zero iff the
// run passed.
func (s *Summary) ExitCode() int {
	if s.Status == executor.StatusPassed {
		return 0
	}
	return 1
}

// Err returns nil for a passed run and ErrRunFailed (wrapped with counts)
// otherwise.
func (s *Summary) Err() error {
	if s.Status == executor.StatusPassed {
		return nil
	}
	notPassed := s.Total - s.Passed
	return fmt.Errorf("%d of %d cells did not pass: %w", notPassed, s.Total, ErrRunFailed)
}

// Render writes the per-cell status table followed by the run totals. The
// output is deterministic for a given result set.
func (s *Summary) Render(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "PLATFORM\tTOOLCHAIN\tSTATUS\tFAILED STEP\tATTEMPTS")
	for _, result := range s.Results {
		failedStep := "-"
		if result.FailedStep != "" {
			failedStep = result.FailedStep
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n",
			result.Cell.Platform,
			result.Cell.Toolchain,
			result.Status,
			failedStep,
			result.Attempts,
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%d cells: %d passed, %d failed, %d unavailable, %d cancelled\n",
		s.Total, s.Passed, s.Failed, s.Unavailable, s.Cancelled)
	fmt.Fprintf(w, "run %s\n", s.Status)
	return nil
}
