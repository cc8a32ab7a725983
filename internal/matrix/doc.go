// Package matrix expands the configured platform and toolchain axes into the
// cross-product of executable cells.
//
// Expansion is also the point where the deferred command expressions from the
// config model are resolved: each cell evaluates every command template
// against its own (platform, toolchain) pair, so the executor only ever sees
// concrete command strings.
package matrix
