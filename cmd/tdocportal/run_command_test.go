package main

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/yhsung/3gpp-tdoc-portal/internal/artifacts"
	"github.com/yhsung/3gpp-tdoc-portal/internal/testsupport"
)

func TestRunExecutesPipeline(t *testing.T) {
	archives := map[string][]byte{
		"R1-2500001": testsupport.ZipBytes(t, map[string]string{
			"a.docx": "alpha",
			"b.pdf":  "beta",
		}),
	}
	portal := newPortalServer(t, archives)
	engine := newEngineServer(t)
	cfg, path := newPipelineConfigFile(t, portal.URL, engine.URL)

	output, err := runCLI(t, "run", "--config", path)
	if err != nil {
		t.Fatalf("run failed: %v\n%s", err, output)
	}
	requireContains(t, output, "Fetching document listing...")
	requireContains(t, output, "Downloading 1 archives")
	requireContains(t, output, "Extracting 1 archives")
	requireContains(t, output, "Converting 2 documents")
	requireContains(t, output, "Processed 2 documents from 1 archives in")

	store := artifacts.NewStore(cfg)
	for _, base := range []string{"a", "b"} {
		htmlPath, markdownPath := store.RenditionPaths("R1-2500001", base)
		if _, err := os.Stat(htmlPath); err != nil {
			t.Fatalf("missing html rendition for %s: %v", base, err)
		}
		if _, err := os.Stat(markdownPath); err != nil {
			t.Fatalf("missing markdown rendition for %s: %v", base, err)
		}
	}

	// A second pass over the same store resolves every item by predicate.
	output, err = runCLI(t, "run", "--config", path)
	if err != nil {
		t.Fatalf("second run failed: %v\n%s", err, output)
	}
	requireContains(t, output, "[SKIP] R1-2500001 (archive already downloaded)")
	requireContains(t, output, "renditions already converted")
}

func TestRunReportsItemFailures(t *testing.T) {
	archives := map[string][]byte{
		"R1-2500001": testsupport.ZipBytes(t, map[string]string{"a.docx": "alpha"}),
		"R1-2500002": bytes.Repeat([]byte("garbage!"), 8),
	}
	portal := newPortalServer(t, archives)
	engine := newEngineServer(t)
	_, path := newPipelineConfigFile(t, portal.URL, engine.URL)

	output, err := runCLI(t, "run", "--config", path)
	if err != nil {
		t.Fatalf("run failed: %v\n%s", err, output)
	}
	requireContains(t, output, "[FAIL] R1-2500002")
	requireContains(t, output, "extract failures:")
	requireContains(t, output, "archive is not readable")
	requireContains(t, output, "Processed 1 documents from 2 archives in")
}

func TestRunAbortsWhenEngineUnreachable(t *testing.T) {
	archives := map[string][]byte{
		"R1-2500001": testsupport.ZipBytes(t, map[string]string{"a.docx": "alpha"}),
	}
	portal := newPortalServer(t, archives)
	engine := newEngineServer(t)
	cfg, path := newPipelineConfigFile(t, portal.URL, engine.URL)
	engine.Close()

	output, err := runCLI(t, "run", "--config", path)
	if err == nil {
		t.Fatalf("expected fatal error, got output:\n%s", output)
	}
	if !strings.Contains(err.Error(), "Rendering engine") {
		t.Fatalf("unexpected error: %v", err)
	}

	store := artifacts.NewStore(cfg)
	if _, statErr := os.Stat(store.ArchivePath("R1-2500001")); statErr == nil {
		t.Fatal("no archive should be downloaded when preflight fails")
	}
}
