package extract

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/yhsung/3gpp-tdoc-portal/internal/artifacts"
	"github.com/yhsung/3gpp-tdoc-portal/internal/logging"
	"github.com/yhsung/3gpp-tdoc-portal/internal/services"
	"github.com/yhsung/3gpp-tdoc-portal/internal/stageexec"
)

// Stage names the pipeline stage this worker serves.
const Stage = "extract"

// Worker extracts one downloaded archive per TDoc identifier.
type Worker struct {
	store  *artifacts.Store
	opener Opener
	logger *slog.Logger
}

// Option adjusts worker construction.
type Option func(*Worker)

// WithOpener substitutes the archive opener, primarily for tests.
func WithOpener(opener Opener) Option {
	return func(w *Worker) {
		if opener != nil {
			w.opener = opener
		}
	}
}

// WithLogger attaches a logger to the worker.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) {
		if logger != nil {
			w.logger = logging.NewComponentLogger(logger, Stage)
		}
	}
}

// NewWorker builds an extraction worker over the artifacts store.
func NewWorker(store *artifacts.Store, opts ...Option) *Worker {
	w := &Worker{
		store:  store,
		opener: ZipOpener{},
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Process unpacks the archive for one identifier. Populated extraction
// directories are skipped. The archive is opened before the destination is
// created, and any failure removes the destination, so the skip predicate
// never sees an empty or partial directory.
func (w *Worker) Process(ctx context.Context, id string) stageexec.Outcome {
	ctx = services.WithStage(services.WithTDoc(ctx, id), Stage)
	log := logging.WithContext(ctx, w.logger)

	complete, err := w.store.ExtractionComplete(id)
	if err != nil {
		return stageexec.Fail(services.Wrap(services.ErrTransient, Stage, "check extraction", "cannot inspect extraction directory", err))
	}
	if complete {
		log.Debug("extraction already present")
		return stageexec.Skip("archive already extracted")
	}

	archive, err := w.opener.Open(w.store.ArchivePath(id))
	if err != nil {
		return stageexec.Fail(services.Wrap(services.ErrArchive, Stage, "open archive", "archive is not readable", err))
	}
	defer archive.Close()

	entries := archive.Entries()
	if len(entries) == 0 {
		return stageexec.Fail(services.Wrap(services.ErrArchive, Stage, "open archive", "archive has no entries", nil))
	}

	dest := w.store.ExtractDir(id)
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return stageexec.Fail(services.Wrap(services.ErrTransient, Stage, "create destination", "cannot create extraction directory", err))
	}

	files := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			w.discard(dest, log)
			return stageexec.Fail(services.Wrap(services.ErrTransient, Stage, "write entries", "extraction canceled", err))
		}
		wrote, err := writeEntry(dest, entry)
		if err != nil {
			w.discard(dest, log)
			return stageexec.Fail(services.Wrap(services.ErrArchive, Stage, "write entries",
				fmt.Sprintf("cannot extract %q", entry.Name()), err))
		}
		if wrote {
			files++
		}
	}

	log.Info("archive extracted", logging.Int("files", files))
	return stageexec.Succeed(fmt.Sprintf("%d files", files))
}

// writeEntry materializes one archive entry under dest and reports whether
// it wrote a regular file.
func writeEntry(dest string, entry Entry) (bool, error) {
	target, err := secureTarget(dest, entry.Name())
	if err != nil {
		return false, err
	}
	if entry.IsDir() {
		return false, os.MkdirAll(target, 0o755)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return false, err
	}
	src, err := entry.Open()
	if err != nil {
		return false, err
	}
	defer src.Close()
	out, err := os.Create(target)
	if err != nil {
		return false, err
	}
	_, err = io.Copy(out, src)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// secureTarget joins an entry name onto dest and rejects names that would
// resolve outside the destination directory.
func secureTarget(dest, name string) (string, error) {
	target := filepath.Join(dest, name)
	if target != dest && !strings.HasPrefix(target, dest+string(os.PathSeparator)) {
		return "", fmt.Errorf("entry %q escapes the destination", name)
	}
	return target, nil
}

// discard removes the destination directory after a failed extraction.
func (w *Worker) discard(dest string, log *slog.Logger) {
	if err := os.RemoveAll(dest); err != nil {
		log.Warn("cannot remove partial extraction", logging.Error(err))
	}
}
