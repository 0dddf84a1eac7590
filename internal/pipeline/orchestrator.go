package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yhsung/3gpp-tdoc-portal/internal/artifacts"
	"github.com/yhsung/3gpp-tdoc-portal/internal/config"
	"github.com/yhsung/3gpp-tdoc-portal/internal/convert"
	"github.com/yhsung/3gpp-tdoc-portal/internal/download"
	"github.com/yhsung/3gpp-tdoc-portal/internal/extract"
	"github.com/yhsung/3gpp-tdoc-portal/internal/logging"
	"github.com/yhsung/3gpp-tdoc-portal/internal/manifest"
	"github.com/yhsung/3gpp-tdoc-portal/internal/preflight"
	"github.com/yhsung/3gpp-tdoc-portal/internal/services"
	"github.com/yhsung/3gpp-tdoc-portal/internal/services/docling"
	"github.com/yhsung/3gpp-tdoc-portal/internal/stageexec"
)

// ManifestFetcher lists the TDoc identifiers a run will process.
type ManifestFetcher interface {
	Fetch(ctx context.Context) ([]string, error)
}

// IdentifierWorker processes one TDoc identifier within a stage.
type IdentifierWorker interface {
	Process(ctx context.Context, id string) stageexec.Outcome
}

// DocumentWorker processes one conversion unit.
type DocumentWorker interface {
	Process(ctx context.Context, doc artifacts.Document) stageexec.Outcome
}

// StageStartFunc observes a stage about to run with its item count.
type StageStartFunc func(stage string, total int)

// ItemFunc observes each completed item within a stage. Calls are
// serialized per stage.
type ItemFunc func(stage string, index, total int, item string, outcome stageexec.Outcome)

// Orchestrator wires the manifest fetcher and the three stage workers over
// a shared artifacts store and runs them in stage order.
type Orchestrator struct {
	cfg    *config.Config
	store  *artifacts.Store
	base   *slog.Logger
	logger *slog.Logger

	fetcher  ManifestFetcher
	engine   docling.Engine
	download IdentifierWorker
	extract  IdentifierWorker
	convert  DocumentWorker

	onStage StageStartFunc
	onItem  ItemFunc
}

// Option adjusts orchestrator construction.
type Option func(*Orchestrator)

// WithLogger attaches a logger shared by the orchestrator and its workers.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.base = logger
		}
	}
}

// WithManifestFetcher substitutes the manifest fetcher.
func WithManifestFetcher(fetcher ManifestFetcher) Option {
	return func(o *Orchestrator) {
		if fetcher != nil {
			o.fetcher = fetcher
		}
	}
}

// WithEngine substitutes the rendering engine.
func WithEngine(engine docling.Engine) Option {
	return func(o *Orchestrator) {
		if engine != nil {
			o.engine = engine
		}
	}
}

// WithStageStart registers a hook called as each stage begins.
func WithStageStart(fn StageStartFunc) Option {
	return func(o *Orchestrator) {
		o.onStage = fn
	}
}

// WithOnItem registers a hook called as each item resolves.
func WithOnItem(fn ItemFunc) Option {
	return func(o *Orchestrator) {
		o.onItem = fn
	}
}

// New builds an orchestrator with default components for anything not
// injected through options.
func New(cfg *config.Config, opts ...Option) (*Orchestrator, error) {
	if cfg == nil {
		return nil, errors.New("pipeline: config is required")
	}
	o := &Orchestrator{cfg: cfg, base: logging.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = logging.NewComponentLogger(o.base, "pipeline")
	o.store = artifacts.NewStore(cfg)

	if o.fetcher == nil {
		fetcher, err := manifest.New(cfg, manifest.WithLogger(o.base))
		if err != nil {
			return nil, err
		}
		o.fetcher = fetcher
	}
	if o.engine == nil {
		engine, err := docling.New(cfg)
		if err != nil {
			return nil, err
		}
		o.engine = engine
	}
	o.download = download.NewWorker(cfg, o.store, download.WithLogger(o.base))
	o.extract = extract.NewWorker(o.store, extract.WithLogger(o.base))
	o.convert = convert.NewWorker(o.store, o.engine, convert.WithLogger(o.base))
	return o, nil
}

// Run executes one pipeline pass and returns its report. The returned
// error is non-nil only for fatal aborts: storage or preflight failures,
// an unreachable or empty listing, or cancellation between stages. Item
// failures are reported in the summaries instead.
func (o *Orchestrator) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	log := logging.WithContext(ctx, o.logger)

	log.Info("run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.String("root", o.store.Root()))

	if err := o.setup(ctx, log); err != nil {
		o.abort(log, err)
		return nil, err
	}

	o.transition(log, PhaseFetching)
	o.notifyStage("manifest", 0)
	ids, err := o.fetcher.Fetch(ctx)
	if err != nil {
		err = services.Wrap(services.ErrSetup, "manifest", "fetch listing", "cannot fetch the document listing", err)
		o.abort(log, err)
		return nil, err
	}
	if len(ids) == 0 {
		err := services.Wrap(services.ErrSetup, "manifest", "fetch listing", "no documents found in the listing", nil)
		o.abort(log, err)
		return nil, err
	}
	log.Info("manifest fetched",
		logging.String(logging.FieldEventType, "manifest_fetched"),
		logging.Int("identifiers", len(ids)))

	report := &Report{RunID: runID, Identifiers: len(ids)}

	o.transition(log, PhaseDownloading)
	downloadResults, downloadSummary := runStage(ctx, o, log, download.Stage, ids, o.cfg.Download.Workers, o.download.Process, describeIdentifier)
	report.Download = downloadSummary
	if err := o.interrupted(ctx, log); err != nil {
		return nil, err
	}

	o.transition(log, PhaseExtracting)
	extractIDs := advancing(downloadResults)
	extractResults, extractSummary := runStage(ctx, o, log, extract.Stage, extractIDs, o.cfg.Extract.Workers, o.extract.Process, describeIdentifier)
	report.Extract = extractSummary
	if err := o.interrupted(ctx, log); err != nil {
		return nil, err
	}

	o.transition(log, PhaseConverting)
	units, enumFailures := o.enumerate(ctx, advancing(extractResults))
	report.Documents = len(units)
	log.Info("documents enumerated",
		logging.String(logging.FieldEventType, "documents_enumerated"),
		logging.Int("documents", len(units)))

	_, convertSummary := runStage(ctx, o, log, convert.Stage, units, o.cfg.Convert.Workers, o.convert.Process, describeDocument)
	convertSummary.Total += len(enumFailures)
	convertSummary.Failed += len(enumFailures)
	convertSummary.Failures = append(enumFailures, convertSummary.Failures...)
	report.Convert = convertSummary

	o.transition(log, PhaseDone)
	report.Elapsed = time.Since(start)
	log.Info("run completed",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Int("identifiers", report.Identifiers),
		logging.Int("documents", report.Documents),
		logging.Int("failed_downloads", report.Download.Failed),
		logging.Int("failed_extractions", report.Extract.Failed),
		logging.Int("failed_conversions", report.Convert.Failed),
		logging.Duration("run_duration", report.Elapsed))
	return report, nil
}

// setup prepares storage and verifies the environment. Any failure here is
// fatal: nothing has been processed yet and nothing will be.
func (o *Orchestrator) setup(ctx context.Context, log *slog.Logger) error {
	if err := o.cfg.EnsureDirectories(); err != nil {
		return services.Wrap(services.ErrSetup, "setup", "ensure directories", "cannot create storage directories", err)
	}
	if err := o.store.EnsureLayout(); err != nil {
		return services.Wrap(services.ErrSetup, "setup", "ensure layout", "cannot create artifact directories", err)
	}

	var failures []string
	for _, result := range preflight.RunAll(ctx, o.cfg) {
		if result.Passed {
			log.Info("preflight check passed",
				logging.String("check", result.Name),
				logging.String("detail", result.Detail),
				logging.String(logging.FieldEventType, "preflight_passed"))
			continue
		}
		log.Error("preflight check failed",
			logging.String("check", result.Name),
			logging.String("detail", result.Detail),
			logging.String(logging.FieldEventType, "preflight_failed"),
			logging.String(logging.FieldErrorHint, "fix the reported issue and rerun"))
		failures = append(failures, fmt.Sprintf("%s: %s", result.Name, result.Detail))
	}
	if len(failures) > 0 {
		return services.Wrap(services.ErrSetup, "setup", "preflight", strings.Join(failures, "; "), nil)
	}
	return nil
}

// enumerate walks every surviving extraction directory and returns the
// flattened conversion units. Identifiers whose directories cannot be
// walked become conversion failures rather than stopping the batch.
func (o *Orchestrator) enumerate(ctx context.Context, ids []string) ([]artifacts.Document, []Failure) {
	units := make([]artifacts.Document, 0, len(ids))
	var failures []Failure
	for _, id := range ids {
		docs, err := o.store.EnumerateDocuments(id)
		if err != nil {
			wrapped := services.Wrap(services.ErrTransient, convert.Stage, "enumerate documents", "cannot walk the extraction directory", err)
			detail := services.Details(wrapped)
			failures = append(failures, Failure{Item: id, Kind: detail.Kind, Detail: detail.Message})
			logging.WithContext(services.WithTDoc(ctx, id), o.logger).Warn("cannot enumerate documents", logging.Error(err))
			continue
		}
		units = append(units, docs...)
	}
	return units, failures
}

// interrupted aborts the run when the context was canceled between stages.
func (o *Orchestrator) interrupted(ctx context.Context, log *slog.Logger) error {
	if err := ctx.Err(); err != nil {
		err = fmt.Errorf("run canceled: %w", err)
		o.abort(log, err)
		return err
	}
	return nil
}

func (o *Orchestrator) transition(log *slog.Logger, phase Phase) {
	log.Info("entering phase",
		logging.String(logging.FieldEventType, "phase_transition"),
		logging.String("phase", string(phase)))
}

func (o *Orchestrator) abort(log *slog.Logger, err error) {
	o.transition(log, PhaseFatalAbort)
	log.Error("run aborted",
		logging.Error(err),
		logging.String(logging.FieldEventType, "run_aborted"),
		logging.String(logging.FieldErrorHint, "fix the reported issue and rerun"))
}

func (o *Orchestrator) notifyStage(stage string, total int) {
	if o.onStage != nil {
		o.onStage(stage, total)
	}
}

func (o *Orchestrator) notifyItem(stage string, index, total int, item string, outcome stageexec.Outcome) {
	if o.onItem != nil {
		o.onItem(stage, index, total, item, outcome)
	}
}

// runStage fans one stage out over its worker pool with start/complete
// logging and per-item hook delivery.
func runStage[T any](ctx context.Context, o *Orchestrator, log *slog.Logger, stage string, items []T, workers int, fn func(context.Context, T) stageexec.Outcome, describe func(T) string) ([]stageexec.Result[T], Summary) {
	o.notifyStage(stage, len(items))
	stageStart := time.Now()
	log.Info("stage started",
		logging.String(logging.FieldEventType, "stage_start"),
		logging.String(logging.FieldStage, stage),
		logging.Int("items", len(items)),
		logging.Int("workers", workers))

	results := stageexec.Run(ctx, items, workers, fn, stageexec.WithOnResult(func(index int, result stageexec.Result[T]) {
		o.notifyItem(stage, index, len(items), describe(result.Item), result.Outcome)
	}))

	summary := summarize(stage, results, describe)
	log.Info("stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.String(logging.FieldStage, stage),
		logging.Int("succeeded", summary.Succeeded),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failed", summary.Failed),
		logging.Duration("stage_duration", time.Since(stageStart)))
	return results, summary
}

func describeIdentifier(id string) string { return id }

func describeDocument(doc artifacts.Document) string {
	return doc.TDoc + "/" + doc.Base
}
