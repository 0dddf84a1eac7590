package preflight

import (
	"context"

	"github.com/yhsung/3gpp-tdoc-portal/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all preflight checks for the given config. Directory
// checks assume EnsureDirectories has already run.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Artifacts root", cfg.Paths.RootDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckEngine(ctx, cfg.Convert.EngineURL),
	}
	return results
}
