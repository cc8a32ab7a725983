// Package hcl implements the config.Loader interface for HCL grid files.
// It parses every file found at the configured path, merges the decoded
// blocks into a single view, and translates them into the format-agnostic
// config model.
package hcl
