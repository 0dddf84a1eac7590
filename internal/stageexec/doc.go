// Package stageexec runs one pipeline stage over a batch of items with
// bounded parallelism.
//
// Run fans N items out to at most W workers and always returns exactly N
// results in input order, each tagged Succeeded, Skipped, or Failed. Item
// failures are data, not control flow: a failed or panicking worker never
// aborts the batch, and the executor itself offers no cancellation. The
// context is passed through to the worker function, which may honor it.
package stageexec
