// Package config defines the format-agnostic configuration model for a run,
// along with the Loader interface for reading it from disk.
//
// The config.Model is the single source of truth for the matrix expander and
// the scheduler. Concrete loaders, such as the HCL one, live in separate
// packages.
package config
