// Package testsupport provides shared helpers for tests: disposable
// configurations and zip fixtures.
package testsupport

import (
	"path/filepath"
	"testing"

	"github.com/yhsung/3gpp-tdoc-portal/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config rooted in a unique temp directory per test.
// Stage workers default to 2 to keep test parallelism predictable.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.RootDir = filepath.Join(base, "artifacts")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Download.Workers = 2
	cfg.Extract.Workers = 2
	cfg.Convert.Workers = 2

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithListingURL points the manifest at a test server. A trailing slash is
// appended when missing, matching config normalization.
func WithListingURL(url string) ConfigOption {
	return func(cfg *config.Config) {
		if url != "" && url[len(url)-1] != '/' {
			url += "/"
		}
		cfg.Manifest.BaseURL = url
	}
}

// WithEngineURL points the conversion engine at a test server.
func WithEngineURL(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Convert.EngineURL = url
	}
}

// WithMinArchiveBytes overrides the download completeness threshold.
func WithMinArchiveBytes(n int64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Download.MinArchiveBytes = n
	}
}
