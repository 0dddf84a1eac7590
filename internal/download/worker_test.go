package download

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"github.com/yhsung/3gpp-tdoc-portal/internal/artifacts"
	"github.com/yhsung/3gpp-tdoc-portal/internal/config"
	"github.com/yhsung/3gpp-tdoc-portal/internal/services"
	"github.com/yhsung/3gpp-tdoc-portal/internal/stageexec"
)

func newTestWorker(t *testing.T, serverURL string, minBytes int64) (*Worker, *artifacts.Store) {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.RootDir = t.TempDir()
	cfg.Manifest.BaseURL = serverURL + "/"
	cfg.Download.MinArchiveBytes = minBytes
	store := artifacts.NewStore(&cfg)
	if err := store.EnsureLayout(); err != nil {
		t.Fatalf("EnsureLayout() error = %v", err)
	}
	return NewWorker(&cfg, store), store
}

func TestProcessDownloadsArchive(t *testing.T) {
	body := bytes.Repeat([]byte("tdoc"), 16)
	var gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		if r.URL.Path != "/R1-2503001.zip" {
			t.Errorf("request path = %q, want %q", r.URL.Path, "/R1-2503001.zip")
		}
		w.Write(body)
	}))
	defer server.Close()

	worker, store := newTestWorker(t, server.URL, 16)
	outcome := worker.Process(context.Background(), "R1-2503001")
	if outcome.Status != stageexec.StatusSucceeded {
		t.Fatalf("Process() = %+v, want succeeded", outcome)
	}
	if outcome.Detail == "" {
		t.Error("success detail should carry the archive size")
	}
	if gotAgent == "" {
		t.Error("request should carry a User-Agent header")
	}
	saved, err := os.ReadFile(store.ArchivePath("R1-2503001"))
	if err != nil {
		t.Fatalf("reading saved archive: %v", err)
	}
	if !bytes.Equal(saved, body) {
		t.Errorf("saved archive has %d bytes, want %d", len(saved), len(body))
	}
}

func TestProcessSkipsCompleteArchive(t *testing.T) {
	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer server.Close()

	worker, store := newTestWorker(t, server.URL, 8)
	if err := os.WriteFile(store.ArchivePath("R1-2503002"), bytes.Repeat([]byte("z"), 32), 0o644); err != nil {
		t.Fatalf("seeding archive: %v", err)
	}

	outcome := worker.Process(context.Background(), "R1-2503002")
	if outcome.Status != stageexec.StatusSkipped {
		t.Fatalf("Process() = %+v, want skipped", outcome)
	}
	if requests.Load() != 0 {
		t.Errorf("server saw %d requests, want 0", requests.Load())
	}
}

func TestProcessReplacesShortStub(t *testing.T) {
	body := bytes.Repeat([]byte("real archive "), 8)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer server.Close()

	worker, store := newTestWorker(t, server.URL, 22)
	// A zero-byte stub left by an interrupted run must not satisfy the
	// skip predicate.
	if err := os.WriteFile(store.ArchivePath("R1-2503003"), nil, 0o644); err != nil {
		t.Fatalf("seeding stub: %v", err)
	}

	outcome := worker.Process(context.Background(), "R1-2503003")
	if outcome.Status != stageexec.StatusSucceeded {
		t.Fatalf("Process() = %+v, want succeeded", outcome)
	}
	saved, err := os.ReadFile(store.ArchivePath("R1-2503003"))
	if err != nil {
		t.Fatalf("reading saved archive: %v", err)
	}
	if len(saved) != len(body) {
		t.Errorf("saved archive has %d bytes, want %d", len(saved), len(body))
	}
}

func TestProcessFailsOnStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	worker, store := newTestWorker(t, server.URL, 8)
	outcome := worker.Process(context.Background(), "R1-2503004")
	if outcome.Status != stageexec.StatusFailed {
		t.Fatalf("Process() = %+v, want failed", outcome)
	}
	if !errors.Is(outcome.Err, services.ErrTransport) {
		t.Errorf("Process() err = %v, want transport classification", outcome.Err)
	}
	if _, err := os.Stat(store.ArchivePath("R1-2503004")); !os.IsNotExist(err) {
		t.Errorf("no archive file should exist after a status error, stat err = %v", err)
	}
}

func TestProcessRemovesTruncatedArchive(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("tiny"))
	}))
	defer server.Close()

	worker, store := newTestWorker(t, server.URL, 64)
	outcome := worker.Process(context.Background(), "R1-2503005")
	if outcome.Status != stageexec.StatusFailed {
		t.Fatalf("Process() = %+v, want failed", outcome)
	}
	if !errors.Is(outcome.Err, services.ErrTransport) {
		t.Errorf("Process() err = %v, want transport classification", outcome.Err)
	}
	if _, err := os.Stat(store.ArchivePath("R1-2503005")); !os.IsNotExist(err) {
		t.Errorf("truncated archive should be removed, stat err = %v", err)
	}
}

func TestProcessRemovesPartialOnInterruptedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "4096")
		w.Write(bytes.Repeat([]byte("x"), 128))
	}))
	defer server.Close()

	worker, store := newTestWorker(t, server.URL, 8)
	outcome := worker.Process(context.Background(), "R1-2503006")
	if outcome.Status != stageexec.StatusFailed {
		t.Fatalf("Process() = %+v, want failed", outcome)
	}
	if !errors.Is(outcome.Err, services.ErrTransport) {
		t.Errorf("Process() err = %v, want transport classification", outcome.Err)
	}
	if _, err := os.Stat(store.ArchivePath("R1-2503006")); !os.IsNotExist(err) {
		t.Errorf("partial archive should be removed, stat err = %v", err)
	}
}

func TestProcessFailsWhenServerUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	worker, store := newTestWorker(t, url, 8)
	outcome := worker.Process(context.Background(), "R1-2503007")
	if outcome.Status != stageexec.StatusFailed {
		t.Fatalf("Process() = %+v, want failed", outcome)
	}
	if !errors.Is(outcome.Err, services.ErrTransport) {
		t.Errorf("Process() err = %v, want transport classification", outcome.Err)
	}
	if _, err := os.Stat(store.ArchivePath("R1-2503007")); !os.IsNotExist(err) {
		t.Errorf("no archive file should exist, stat err = %v", err)
	}
}
