package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeManifest()
	c.normalizeDownload()
	c.normalizeExtract()
	c.normalizeConvert()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.RootDir) == "" {
		c.Paths.RootDir = defaultRootDir
	}
	if c.Paths.RootDir, err = expandPath(c.Paths.RootDir); err != nil {
		return fmt.Errorf("paths.root_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeManifest() {
	c.Manifest.BaseURL = strings.TrimSpace(c.Manifest.BaseURL)
	if c.Manifest.BaseURL == "" {
		c.Manifest.BaseURL = defaultManifestBaseURL
	}
	// Archive URLs are formed by appending the filename to the base.
	if !strings.HasSuffix(c.Manifest.BaseURL, "/") {
		c.Manifest.BaseURL += "/"
	}
	c.Manifest.Pattern = strings.TrimSpace(c.Manifest.Pattern)
	if c.Manifest.Pattern == "" {
		c.Manifest.Pattern = defaultManifestPattern
	}
	if c.Manifest.TimeoutSeconds <= 0 {
		c.Manifest.TimeoutSeconds = defaultManifestTimeout
	}
}

func (c *Config) normalizeDownload() {
	if c.Download.Workers <= 0 {
		c.Download.Workers = defaultStageWorkers
	}
	if c.Download.TimeoutSeconds <= 0 {
		c.Download.TimeoutSeconds = defaultDownloadTimeout
	}
	if c.Download.MinArchiveBytes <= 0 {
		c.Download.MinArchiveBytes = defaultMinArchiveBytes
	}
}

func (c *Config) normalizeExtract() {
	if c.Extract.Workers <= 0 {
		c.Extract.Workers = defaultStageWorkers
	}
}

func (c *Config) normalizeConvert() {
	if c.Convert.Workers <= 0 {
		c.Convert.Workers = defaultStageWorkers
	}
	c.Convert.EngineURL = strings.TrimSpace(c.Convert.EngineURL)
	if c.Convert.EngineURL == "" {
		if value, ok := os.LookupEnv("TDOC_DOCLING_URL"); ok {
			c.Convert.EngineURL = strings.TrimSpace(value)
		}
	}
	if c.Convert.EngineURL == "" {
		c.Convert.EngineURL = defaultEngineURL
	}
	c.Convert.EngineURL = strings.TrimRight(c.Convert.EngineURL, "/")
	if c.Convert.TimeoutSeconds <= 0 {
		c.Convert.TimeoutSeconds = defaultEngineTimeout
	}
	if len(c.Convert.DocumentKinds) == 0 {
		c.Convert.DocumentKinds = defaultDocumentKinds()
	} else {
		kinds := make([]string, 0, len(c.Convert.DocumentKinds))
		seen := make(map[string]struct{}, len(c.Convert.DocumentKinds))
		for _, kind := range c.Convert.DocumentKinds {
			normalized := strings.ToLower(strings.TrimSpace(kind))
			if normalized == "" {
				continue
			}
			if !strings.HasPrefix(normalized, ".") {
				normalized = "." + normalized
			}
			if _, exists := seen[normalized]; exists {
				continue
			}
			seen[normalized] = struct{}{}
			kinds = append(kinds, normalized)
		}
		if len(kinds) == 0 {
			kinds = defaultDocumentKinds()
		}
		c.Convert.DocumentKinds = kinds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
