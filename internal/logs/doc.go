// Package logs reads back the pipeline's log file for the CLI. The run
// command writes its structured log there; this package returns the most
// recent lines without loading the whole file into memory.
package logs
