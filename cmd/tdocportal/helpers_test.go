package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/yhsung/3gpp-tdoc-portal/internal/config"
	"github.com/yhsung/3gpp-tdoc-portal/internal/testsupport"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeTestConfig(t *testing.T, cfg *config.Config) string {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func requireContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Fatalf("output missing %q:\n%s", want, output)
	}
}

// newPortalServer serves a listing at "/" and the given prebuilt archives
// at "/{id}.zip".
func newPortalServer(t *testing.T, archives map[string][]byte) *httptest.Server {
	t.Helper()
	ids := make([]string, 0, len(archives))
	for id := range archives {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var page strings.Builder
	page.WriteString("<html><body>")
	for _, id := range ids {
		fmt.Fprintf(&page, `<a href="%s.zip">%s.zip</a>`, id, id)
	}
	page.WriteString("</body></html>")
	listing := page.String()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			w.Write([]byte(listing))
			return
		}
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/"), ".zip")
		body, ok := archives[id]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write(body)
	}))
	t.Cleanup(server.Close)
	return server
}

// newEngineServer answers the health probe and converts every upload into
// a fixed html/markdown pair.
func newEngineServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			w.Write([]byte(`{"status":"ok"}`))
		case "/v1/convert/file":
			if err := r.ParseMultipartForm(32 << 20); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			_, header, err := r.FormFile("files")
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `{"status":"success","document":{"filename":%q,"html_content":"<h1>doc</h1>","md_content":"# doc"}}`, header.Filename)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

// newPipelineConfigFile wires a test config at the given servers and
// writes it to disk for --config.
func newPipelineConfigFile(t *testing.T, portalURL, engineURL string) (*config.Config, string) {
	t.Helper()
	cfg := testsupport.NewConfig(t,
		testsupport.WithListingURL(portalURL),
		testsupport.WithEngineURL(engineURL))
	return cfg, writeTestConfig(t, cfg)
}
