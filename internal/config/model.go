package config

import (
	"context"
	"time"

	"github.com/hashicorp/hcl/v2"
)

// Model is the unified, format-agnostic representation of a run's
// configuration: the two matrix axes, the shared step sequence, and the
// run-wide settings.
type Model struct {
	// Platforms and Toolchains are the two ordered axes of the matrix.
	Platforms  []string
	Toolchains []string

	// Setup is the optional provisioning command template, nil when absent.
	Setup *Setup

	// Steps is the ordered check sequence shared by every cell.
	Steps []*Step

	// MaxConcurrency bounds the number of simultaneously running cells.
	// Zero means unbounded (one worker per cell).
	MaxConcurrency int

	// RetryUnavailable re-dispatches a cell once if its environment could
	// not be provisioned.
	RetryUnavailable bool

	// StepTimeout bounds each step's command. Zero means no timeout.
	StepTimeout time.Duration
}

// Step is the format-agnostic representation of a `step` block.
//
// Command is kept as a raw, unevaluated expression on purpose: a step's
// command may reference the cell variables `platform` and `toolchain`, which
// only exist once the matrix has been expanded. The model captures the
// user's intent as an expression; the expander resolves it into a concrete
// string per cell.
type Step struct {
	Name    string
	Command hcl.Expression
}

// Setup is the format-agnostic representation of the `setup` block.
type Setup struct {
	Command hcl.Expression
}

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads configuration from the given path (a file or a directory),
	// merges it, and translates it into the format-agnostic model.
	Load(ctx context.Context, path string) (*Model, error)
}
