package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCheckDirectoryAccessPasses(t *testing.T) {
	result := CheckDirectoryAccess("Artifacts root", t.TempDir())
	if !result.Passed {
		t.Fatalf("CheckDirectoryAccess() = %+v, want passed", result)
	}
}

func TestCheckDirectoryAccessMissingDirectory(t *testing.T) {
	result := CheckDirectoryAccess("Artifacts root", filepath.Join(t.TempDir(), "absent"))
	if result.Passed {
		t.Fatalf("CheckDirectoryAccess() = %+v, want failure", result)
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Errorf("detail = %q, want a does-not-exist explanation", result.Detail)
	}
}

func TestCheckDirectoryAccessRejectsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("writing file: %v", err)
	}
	result := CheckDirectoryAccess("Artifacts root", path)
	if result.Passed {
		t.Fatalf("CheckDirectoryAccess() = %+v, want failure", result)
	}
	if !strings.Contains(result.Detail, "not a directory") {
		t.Errorf("detail = %q, want a not-a-directory explanation", result.Detail)
	}
}

func TestCheckEnginePasses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	result := CheckEngine(context.Background(), server.URL)
	if !result.Passed {
		t.Fatalf("CheckEngine() = %+v, want passed", result)
	}
}

func TestCheckEngineUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	result := CheckEngine(context.Background(), url)
	if result.Passed {
		t.Fatalf("CheckEngine() = %+v, want failure", result)
	}
	if !strings.Contains(result.Detail, "unreachable") {
		t.Errorf("detail = %q, want an unreachable explanation", result.Detail)
	}
}

func TestCheckEngineRejectsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "warming up", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	result := CheckEngine(context.Background(), server.URL)
	if result.Passed {
		t.Fatalf("CheckEngine() = %+v, want failure", result)
	}
}

func TestCheckEngineMissingURL(t *testing.T) {
	result := CheckEngine(context.Background(), "  ")
	if result.Passed {
		t.Fatalf("CheckEngine() = %+v, want failure", result)
	}
}
