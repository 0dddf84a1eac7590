package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	RootDir string `toml:"root_dir"`
	LogDir  string `toml:"log_dir"`
}

// Manifest contains configuration for the meeting document listing.
type Manifest struct {
	BaseURL        string `toml:"base_url"`
	Pattern        string `toml:"pattern"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Download contains configuration for the archive download stage.
type Download struct {
	Workers         int   `toml:"workers"`
	TimeoutSeconds  int   `toml:"timeout_seconds"`
	MinArchiveBytes int64 `toml:"min_archive_bytes"`
}

// Extract contains configuration for the archive extraction stage.
type Extract struct {
	Workers int `toml:"workers"`
}

// Convert contains configuration for the document conversion stage.
type Convert struct {
	Workers        int      `toml:"workers"`
	EngineURL      string   `toml:"engine_url"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
	DocumentKinds  []string `toml:"document_kinds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for the portal.
//
// Configuration sections by subsystem:
//   - Paths: artifacts root and log directory
//   - Manifest: listing URL, TDoc filename pattern, fetch timeout
//   - Download: worker count, per-archive timeout, minimum archive size
//   - Extract: worker count
//   - Convert: worker count, conversion engine endpoint, recognized kinds
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	Manifest Manifest `toml:"manifest"`
	Download Download `toml:"download"`
	Extract  Extract  `toml:"extract"`
	Convert  Convert  `toml:"convert"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/tdocportal/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/tdocportal/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("tdocportal.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the artifacts root and log directory. Stage
// subdirectories under the root are laid out by the artifacts store.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.RootDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	sample := sampleConfig

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
