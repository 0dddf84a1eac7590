package pipeline

import (
	"time"

	"github.com/yhsung/3gpp-tdoc-portal/internal/services"
	"github.com/yhsung/3gpp-tdoc-portal/internal/stageexec"
)

// Phase identifies where a run currently is. Transitions are logged with
// event_type "phase_transition".
type Phase string

const (
	PhaseFetching    Phase = "fetching"
	PhaseDownloading Phase = "downloading"
	PhaseExtracting  Phase = "extracting"
	PhaseConverting  Phase = "converting"
	PhaseDone        Phase = "done"
	PhaseFatalAbort  Phase = "fatal_abort"
)

// Failure records one failed item within a stage.
type Failure struct {
	Item   string
	Kind   string
	Detail string
}

// Summary aggregates one stage's outcomes.
type Summary struct {
	Stage     string
	Total     int
	Succeeded int
	Skipped   int
	Failed    int
	Failures  []Failure
}

// Report describes one complete pipeline run.
type Report struct {
	RunID       string
	Identifiers int
	Documents   int
	Download    Summary
	Extract     Summary
	Convert     Summary
	Elapsed     time.Duration
}

// Summaries returns the per-stage summaries in pipeline order.
func (r *Report) Summaries() []Summary {
	return []Summary{r.Download, r.Extract, r.Convert}
}

// Failed reports whether any stage recorded a failed item.
func (r *Report) Failed() bool {
	return r.Download.Failed > 0 || r.Extract.Failed > 0 || r.Convert.Failed > 0
}

// summarize folds stage results into a Summary, describing each failed
// item through describe.
func summarize[T any](stage string, results []stageexec.Result[T], describe func(T) string) Summary {
	summary := Summary{Stage: stage, Total: len(results)}
	for _, result := range results {
		switch result.Outcome.Status {
		case stageexec.StatusSucceeded:
			summary.Succeeded++
		case stageexec.StatusSkipped:
			summary.Skipped++
		case stageexec.StatusFailed:
			summary.Failed++
			detail := services.Details(result.Outcome.Err)
			summary.Failures = append(summary.Failures, Failure{
				Item:   describe(result.Item),
				Kind:   detail.Kind,
				Detail: detail.Message,
			})
		}
	}
	return summary
}

// advancing returns the items that feed the next stage: succeeded and
// skipped both count, failed items contribute nothing downstream.
func advancing[T any](results []stageexec.Result[T]) []T {
	items := make([]T, 0, len(results))
	for _, result := range results {
		if result.Outcome.Status != stageexec.StatusFailed {
			items = append(items, result.Item)
		}
	}
	return items
}
