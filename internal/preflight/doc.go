// Package preflight validates the environment before a pipeline run:
// storage directories must be accessible and the rendering engine must be
// reachable. Checks return results rather than errors so callers can log
// every outcome before deciding to abort.
package preflight
