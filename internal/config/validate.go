package config

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateManifest(); err != nil {
		return err
	}
	if err := c.validateStages(); err != nil {
		return err
	}
	if err := c.validateConvert(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.RootDir) == "" {
		return errors.New("paths.root_dir must be set")
	}
	return nil
}

func (c *Config) validateManifest() error {
	parsed, err := url.Parse(c.Manifest.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("manifest.base_url must be an absolute URL, got %q", c.Manifest.BaseURL)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("manifest.base_url must use http or https, got %q", parsed.Scheme)
	}
	if _, err := regexp.Compile(c.Manifest.Pattern); err != nil {
		return fmt.Errorf("manifest.pattern is not a valid regular expression: %v", err)
	}
	return nil
}

func (c *Config) validateStages() error {
	if err := ensurePositiveMap(map[string]int{
		"manifest.timeout_seconds": c.Manifest.TimeoutSeconds,
		"download.workers":         c.Download.Workers,
		"download.timeout_seconds": c.Download.TimeoutSeconds,
		"extract.workers":          c.Extract.Workers,
		"convert.workers":          c.Convert.Workers,
		"convert.timeout_seconds":  c.Convert.TimeoutSeconds,
	}); err != nil {
		return err
	}
	if c.Download.MinArchiveBytes < 1 {
		return errors.New("download.min_archive_bytes must be positive")
	}
	return nil
}

func (c *Config) validateConvert() error {
	if strings.TrimSpace(c.Convert.EngineURL) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/tdocportal/config.toml"
		}
		return fmt.Errorf("convert.engine_url is required. Set TDOC_DOCLING_URL env var or edit %s (create with 'tdocportal config init')", defaultPath)
	}
	parsed, err := url.Parse(c.Convert.EngineURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("convert.engine_url must be an absolute URL, got %q", c.Convert.EngineURL)
	}
	if len(c.Convert.DocumentKinds) == 0 {
		return errors.New("convert.document_kinds must include at least one extension")
	}
	for _, kind := range c.Convert.DocumentKinds {
		if !strings.HasPrefix(kind, ".") || len(kind) < 2 {
			return fmt.Errorf("convert.document_kinds entries must be dotted extensions, got %q", kind)
		}
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
