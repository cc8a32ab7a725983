// Package executor runs a single cell of the matrix: the optional
// provisioning command followed by the ordered check sequence, fail-fast
// within the cell.
//
// The executor never interprets command semantics; a command is an opaque
// collaborator identified only by its exit status and captured output. Real
// invocation goes through the Runner interface so that tests can substitute
// the external world entirely.
package executor
