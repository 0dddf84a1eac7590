package convert

import (
	"context"
	"log/slog"
	"os"

	"github.com/yhsung/3gpp-tdoc-portal/internal/artifacts"
	"github.com/yhsung/3gpp-tdoc-portal/internal/fileutil"
	"github.com/yhsung/3gpp-tdoc-portal/internal/logging"
	"github.com/yhsung/3gpp-tdoc-portal/internal/services"
	"github.com/yhsung/3gpp-tdoc-portal/internal/services/docling"
	"github.com/yhsung/3gpp-tdoc-portal/internal/stageexec"
)

// Stage names the pipeline stage this worker serves.
const Stage = "convert"

// Worker renders one extracted document into its HTML and Markdown pair.
type Worker struct {
	store  *artifacts.Store
	engine docling.Engine
	logger *slog.Logger
}

// Option adjusts worker construction.
type Option func(*Worker)

// WithLogger attaches a logger to the worker.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) {
		if logger != nil {
			w.logger = logging.NewComponentLogger(logger, Stage)
		}
	}
}

// NewWorker builds a conversion worker over the store and rendering engine.
func NewWorker(store *artifacts.Store, engine docling.Engine, opts ...Option) *Worker {
	w := &Worker{
		store:  store,
		engine: engine,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Process converts one document. Documents whose HTML and Markdown outputs
// both exist are skipped; a lone survivor from an interrupted run is removed
// up front so the engine regenerates the pair from the same pass. Failures
// leave neither sibling behind.
func (w *Worker) Process(ctx context.Context, doc artifacts.Document) stageexec.Outcome {
	ctx = services.WithStage(services.WithTDoc(ctx, doc.TDoc), Stage)
	ctx = services.WithDocument(ctx, doc.Base)
	log := logging.WithContext(ctx, w.logger)

	complete, err := w.store.ConversionComplete(doc)
	if err != nil {
		return stageexec.Fail(services.Wrap(services.ErrTransient, Stage, "check renditions", "cannot inspect rendition files", err))
	}
	if complete {
		log.Debug("renditions already present")
		return stageexec.Skip("renditions already converted")
	}

	htmlPath, markdownPath := w.store.RenditionPaths(doc.TDoc, doc.Base)
	if err := removeRenditions(htmlPath, markdownPath); err != nil {
		return stageexec.Fail(services.Wrap(services.ErrTransient, Stage, "clear renditions", "cannot remove stale rendition", err))
	}

	rendition, err := w.engine.Render(ctx, doc.Path)
	if err != nil {
		return stageexec.Fail(services.Wrap(services.ErrConversion, Stage, "render document", "engine rejected document", err))
	}

	if err := fileutil.WriteFileAtomic(htmlPath, rendition.HTML, 0o644); err != nil {
		removeRenditions(htmlPath, markdownPath)
		return stageexec.Fail(services.Wrap(services.ErrConversion, Stage, "write renditions", "cannot write html rendition", err))
	}
	if err := fileutil.WriteFileAtomic(markdownPath, rendition.Markdown, 0o644); err != nil {
		removeRenditions(htmlPath, markdownPath)
		return stageexec.Fail(services.Wrap(services.ErrConversion, Stage, "write renditions", "cannot write markdown rendition", err))
	}

	log.Info("document converted",
		logging.Int("html_bytes", len(rendition.HTML)),
		logging.Int("markdown_bytes", len(rendition.Markdown)))
	return stageexec.Succeed("html + markdown")
}

// removeRenditions deletes whichever rendition files exist so the pair is
// always regenerated together.
func removeRenditions(paths ...string) error {
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}
