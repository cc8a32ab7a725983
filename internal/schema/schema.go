// Package schema defines the raw HCL block structures of a grid file, used
// only for decoding. The format-agnostic model lives in internal/config.
package schema

import (
	"github.com/hashicorp/hcl/v2"
)

// Matrix represents the `matrix` block declaring the two axes of the run.
type Matrix struct {
	Platforms  []string `hcl:"platforms"`
	Toolchains []string `hcl:"toolchains"`
}

// Settings represents the optional `settings` block with run-wide tuning.
type Settings struct {
	MaxConcurrency   *int    `hcl:"max_concurrency,optional"`
	RetryUnavailable *bool   `hcl:"retry_unavailable,optional"`
	StepTimeout      *string `hcl:"step_timeout,optional"`
}

// Setup represents the optional `setup` block whose command provisions the
// (platform, toolchain) environment before any step runs. The command stays
// an unevaluated expression so it can reference the per-cell variables.
type Setup struct {
	Command hcl.Expression `hcl:"command"`
}

// Step represents a single `step` block: one named check shared by every
// cell of the matrix.
type Step struct {
	Name    string         `hcl:"name,label"`
	Command hcl.Expression `hcl:"command"`
}

// GridFile represents the top-level structure of one grid file. A run's
// configuration may be split across several files that are merged after
// decoding.
type GridFile struct {
	Matrix   *Matrix   `hcl:"matrix,block"`
	Settings *Settings `hcl:"settings,block"`
	Setup    *Setup    `hcl:"setup,block"`
	Steps    []*Step   `hcl:"step,block"`
}
