// Package scheduler dispatches the expanded cells for execution under a
// configurable concurrency bound.
//
// Cells are independent by construction: one cell's failure never cancels,
// blocks, or reorders another. The only shared resource is the concurrency
// limit itself. Results are collected as cells complete, not in submission
// order, so callers can stream progress while the run is still going.
package scheduler
