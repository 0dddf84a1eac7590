package artifacts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yhsung/3gpp-tdoc-portal/internal/config"
	"github.com/yhsung/3gpp-tdoc-portal/internal/fileutil"
)

// Store resolves artifact paths beneath a single root and answers the
// per-stage completion predicates.
type Store struct {
	root            string
	minArchiveBytes int64
	kinds           map[string]struct{}
}

// NewStore builds a Store from configuration.
func NewStore(cfg *config.Config) *Store {
	kinds := make(map[string]struct{}, len(cfg.Convert.DocumentKinds))
	for _, kind := range cfg.Convert.DocumentKinds {
		kinds[strings.ToLower(kind)] = struct{}{}
	}
	return &Store{
		root:            cfg.Paths.RootDir,
		minArchiveBytes: cfg.Download.MinArchiveBytes,
		kinds:           kinds,
	}
}

// Root returns the artifacts root directory.
func (s *Store) Root() string { return s.root }

// DownloadsDir returns the directory holding TDoc archives.
func (s *Store) DownloadsDir() string { return filepath.Join(s.root, "downloads") }

// ExtractedDir returns the directory holding per-TDoc extraction dirs.
func (s *Store) ExtractedDir() string { return filepath.Join(s.root, "extracted") }

// HTMLDir returns the HTML rendition directory.
func (s *Store) HTMLDir() string { return filepath.Join(s.root, "output", "html") }

// MarkdownDir returns the Markdown rendition directory.
func (s *Store) MarkdownDir() string { return filepath.Join(s.root, "output", "markdown") }

// ArchivePath returns the download destination for a TDoc identifier.
func (s *Store) ArchivePath(id string) string {
	return filepath.Join(s.DownloadsDir(), id+".zip")
}

// ExtractDir returns the extraction destination for a TDoc identifier.
func (s *Store) ExtractDir(id string) string {
	return filepath.Join(s.ExtractedDir(), id)
}

// RenditionPaths returns the HTML and Markdown output paths for a document.
// base must already be unique within the TDoc (see EnumerateDocuments).
func (s *Store) RenditionPaths(id, base string) (htmlPath, markdownPath string) {
	name := id + "_" + base
	return filepath.Join(s.HTMLDir(), name+".html"), filepath.Join(s.MarkdownDir(), name+".md")
}

// EnsureLayout creates the stage directories beneath the root.
func (s *Store) EnsureLayout() error {
	for _, dir := range []string{s.DownloadsDir(), s.ExtractedDir(), s.HTMLDir(), s.MarkdownDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// ArchiveComplete reports whether the archive for id exists with at least
// the configured minimum size. Bare existence is not enough: a crash can
// leave a zero-byte stub, and an existence-only check would make that stub
// permanent across runs.
func (s *Store) ArchiveComplete(id string) (bool, error) {
	return fileutil.FileSizeAtLeast(s.ArchivePath(id), s.minArchiveBytes)
}

// ExtractionComplete reports whether the extraction dir for id exists and
// contains at least one entry. An empty directory counts as not extracted
// so an interrupted extraction is retried.
func (s *Store) ExtractionComplete(id string) (bool, error) {
	return fileutil.DirNonEmpty(s.ExtractDir(id))
}

// ConversionComplete reports whether both renditions of doc exist. A lone
// sibling does not count: the pair is regenerated together.
func (s *Store) ConversionComplete(doc Document) (bool, error) {
	htmlPath, markdownPath := s.RenditionPaths(doc.TDoc, doc.Base)
	for _, path := range []string{htmlPath, markdownPath} {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return false, nil
			}
			return false, err
		}
	}
	return true, nil
}
