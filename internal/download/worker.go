package download

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/yhsung/3gpp-tdoc-portal/internal/artifacts"
	"github.com/yhsung/3gpp-tdoc-portal/internal/config"
	"github.com/yhsung/3gpp-tdoc-portal/internal/logging"
	"github.com/yhsung/3gpp-tdoc-portal/internal/services"
	"github.com/yhsung/3gpp-tdoc-portal/internal/stageexec"
)

// Stage names the pipeline stage this worker serves.
const Stage = "download"

const userAgent = "tdocportal/1.0"

// Worker downloads one archive per TDoc identifier.
type Worker struct {
	store      *artifacts.Store
	baseURL    string
	minBytes   int64
	httpClient *http.Client
	logger     *slog.Logger
}

// Option adjusts worker construction.
type Option func(*Worker)

// WithHTTPClient substitutes the HTTP client, primarily for tests.
func WithHTTPClient(client *http.Client) Option {
	return func(w *Worker) {
		if client != nil {
			w.httpClient = client
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

// NewWorker builds a download worker from configuration.
func NewWorker(cfg *config.Config, store *artifacts.Store, opts ...Option) *Worker {
	w := &Worker{
		store:    store,
		baseURL:  cfg.Manifest.BaseURL,
		minBytes: cfg.Download.MinArchiveBytes,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Download.TimeoutSeconds) * time.Second,
		},
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Process fetches the archive for one identifier. Archives that already
// meet the minimum size are skipped; every failure path removes whatever
// was written so the archive either exists complete or not at all.
func (w *Worker) Process(ctx context.Context, id string) stageexec.Outcome {
	ctx = services.WithStage(services.WithTDoc(ctx, id), Stage)
	log := logging.WithContext(ctx, w.logger)

	complete, err := w.store.ArchiveComplete(id)
	if err != nil {
		return stageexec.Fail(services.Wrap(services.ErrTransient, Stage, "check archive", "cannot inspect existing archive", err))
	}
	if complete {
		log.Debug("archive already present")
		return stageexec.Skip("archive already downloaded")
	}

	url := w.baseURL + id + ".zip"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return stageexec.Fail(services.Wrap(services.ErrTransport, Stage, "build request", "invalid archive URL", err))
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return stageexec.Fail(services.Wrap(services.ErrTransport, Stage, "fetch archive", "archive request failed", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return stageexec.Fail(services.Wrap(services.ErrTransport, Stage, "fetch archive",
			fmt.Sprintf("archive request returned status %d", resp.StatusCode), nil))
	}

	dest := w.store.ArchivePath(id)
	out, err := os.Create(dest)
	if err != nil {
		return stageexec.Fail(services.Wrap(services.ErrTransient, Stage, "create archive", "cannot create archive file", err))
	}

	written, err := io.Copy(out, resp.Body)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		w.discard(dest, log)
		return stageexec.Fail(services.Wrap(services.ErrTransport, Stage, "stream archive", "download interrupted", err))
	}
	if written < w.minBytes {
		w.discard(dest, log)
		return stageexec.Fail(services.Wrap(services.ErrTransport, Stage, "stream archive",
			fmt.Sprintf("archive truncated at %d bytes", written), nil))
	}

	size := humanize.Bytes(uint64(written))
	log.Info("archive downloaded", logging.String("url", url), logging.String("size", size))
	return stageexec.Succeed(size)
}

// discard removes a partial archive so the skip predicate stays truthful.
func (w *Worker) discard(path string, log *slog.Logger) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Warn("cannot remove partial archive", logging.Error(err))
	}
}
