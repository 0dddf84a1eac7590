package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/yhsung/3gpp-tdoc-portal/internal/config"
)

func TestLoadDefaultConfigExpandsPathsAndAppliesDefaults(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("TDOC_DOCLING_URL", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantRoot := filepath.Join(tempHome, ".local", "share", "tdocportal")
	if cfg.Paths.RootDir != wantRoot {
		t.Fatalf("unexpected root dir: got %q want %q", cfg.Paths.RootDir, wantRoot)
	}
	if cfg.Paths.LogDir != filepath.Join(wantRoot, "logs") {
		t.Fatalf("unexpected log dir: %q", cfg.Paths.LogDir)
	}
	if !strings.HasSuffix(cfg.Manifest.BaseURL, "/") {
		t.Fatalf("expected base url to end with slash, got %q", cfg.Manifest.BaseURL)
	}
	if cfg.Manifest.TimeoutSeconds != 30 {
		t.Fatalf("unexpected manifest timeout: %d", cfg.Manifest.TimeoutSeconds)
	}
	if cfg.Download.Workers != 4 || cfg.Extract.Workers != 4 || cfg.Convert.Workers != 4 {
		t.Fatalf("unexpected worker defaults: %d/%d/%d", cfg.Download.Workers, cfg.Extract.Workers, cfg.Convert.Workers)
	}
	if cfg.Download.MinArchiveBytes != 22 {
		t.Fatalf("unexpected min archive bytes: %d", cfg.Download.MinArchiveBytes)
	}
	if cfg.Convert.EngineURL != "http://localhost:5001" {
		t.Fatalf("unexpected engine url default: %q", cfg.Convert.EngineURL)
	}
	if len(cfg.Convert.DocumentKinds) != 7 {
		t.Fatalf("unexpected document kinds: %v", cfg.Convert.DocumentKinds)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %s/%s", cfg.Logging.Format, cfg.Logging.Level)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.RootDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPathNormalizesValues(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "tdocportal.toml")

	type payload struct {
		Manifest struct {
			BaseURL string `toml:"base_url"`
			Pattern string `toml:"pattern"`
		} `toml:"manifest"`
		Download struct {
			Workers int `toml:"workers"`
		} `toml:"download"`
		Convert struct {
			DocumentKinds []string `toml:"document_kinds"`
		} `toml:"convert"`
	}
	custom := payload{}
	custom.Manifest.BaseURL = "https://example.com/ftp/Docs"
	custom.Manifest.Pattern = `R2-\d{6}\.zip`
	custom.Download.Workers = 8
	custom.Convert.DocumentKinds = []string{"PDF", ".docx", "docx", " "}
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Manifest.BaseURL != "https://example.com/ftp/Docs/" {
		t.Fatalf("expected trailing slash on base url, got %q", cfg.Manifest.BaseURL)
	}
	if cfg.Manifest.Pattern != `R2-\d{6}\.zip` {
		t.Fatalf("expected pattern override, got %q", cfg.Manifest.Pattern)
	}
	if cfg.Download.Workers != 8 {
		t.Fatalf("expected 8 download workers, got %d", cfg.Download.Workers)
	}
	want := []string{".pdf", ".docx"}
	if len(cfg.Convert.DocumentKinds) != len(want) {
		t.Fatalf("unexpected document kinds: %v", cfg.Convert.DocumentKinds)
	}
	for i, kind := range want {
		if cfg.Convert.DocumentKinds[i] != kind {
			t.Fatalf("document kind %d = %q, want %q", i, cfg.Convert.DocumentKinds[i], kind)
		}
	}
}

func TestEngineURLEnvFallback(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "tdocportal.toml")
	if err := os.WriteFile(configPath, []byte("[convert]\nworkers = 2\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("TDOC_DOCLING_URL", "http://engine.internal:5001/")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Convert.EngineURL != "http://engine.internal:5001" {
		t.Fatalf("expected engine url from env, got %q", cfg.Convert.EngineURL)
	}
}

func TestEngineURLFileBeatsEnv(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "tdocportal.toml")
	if err := os.WriteFile(configPath, []byte("[convert]\nengine_url = \"http://from-file:5001\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("TDOC_DOCLING_URL", "http://from-env:5001")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Convert.EngineURL != "http://from-file:5001" {
		t.Fatalf("expected engine url from file, got %q", cfg.Convert.EngineURL)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "meetings_3gpp_sync") {
		t.Fatalf("sample config missing listing URL: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Download.MinArchiveBytes != 22 {
		t.Fatalf("sample min_archive_bytes = %d, want 22", cfg.Download.MinArchiveBytes)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cfg := config.Default()
	cfg.Convert.EngineURL = "http://localhost:5001"
	cfg.Manifest.BaseURL = "not-a-url"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for relative base url")
	}

	cfg = config.Default()
	cfg.Convert.EngineURL = "http://localhost:5001"
	cfg.Manifest.Pattern = "("
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid pattern")
	}

	cfg = config.Default()
	cfg.Convert.EngineURL = "http://localhost:5001"
	cfg.Download.MinArchiveBytes = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero min_archive_bytes")
	}

	cfg = config.Default()
	cfg.Convert.EngineURL = "http://localhost:5001"
	cfg.Download.Workers = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-positive workers")
	}

	cfg = config.Default()
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when engine url is unset")
	} else if !strings.Contains(err.Error(), "TDOC_DOCLING_URL") {
		t.Fatalf("expected remediation hint in error, got %v", err)
	}
}
