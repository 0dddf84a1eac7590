package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/yhsung/3gpp-tdoc-portal/internal/convert"
	"github.com/yhsung/3gpp-tdoc-portal/internal/download"
	"github.com/yhsung/3gpp-tdoc-portal/internal/extract"
	"github.com/yhsung/3gpp-tdoc-portal/internal/logging"
	"github.com/yhsung/3gpp-tdoc-portal/internal/pipeline"
	"github.com/yhsung/3gpp-tdoc-portal/internal/stageexec"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var jsonLogs bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline: download, extract, convert",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			// In JSON mode the log stream on stdout is the interface, so
			// the human renderer stays quiet. Otherwise logs go to the log
			// file and stdout carries progress.
			opts := logging.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format}
			if jsonLogs {
				opts.Format = "json"
			} else if logPath := logging.FilePath(cfg); logPath != "" {
				opts.OutputPaths = []string{logPath}
				opts.ErrorOutputPaths = []string{logPath}
			}
			log, err := logging.New(opts)
			if err != nil {
				return fmt.Errorf("initialize logging: %w", err)
			}

			out := cmd.OutOrStdout()
			render := newRunRenderer(out, jsonLogs)

			orch, err := pipeline.New(cfg,
				pipeline.WithLogger(log),
				pipeline.WithStageStart(render.stageStart),
				pipeline.WithOnItem(render.item),
			)
			if err != nil {
				return err
			}

			report, err := orch.Run(cmd.Context())
			render.finish()
			if err != nil {
				return err
			}
			if !jsonLogs {
				printReport(out, report)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonLogs, "json", false, "Emit JSON logs on stdout instead of human-readable progress")
	return cmd
}

// runRenderer turns pipeline hooks into terminal output: stage banners,
// per-item lines, and a progress bar when stdout is a terminal.
type runRenderer struct {
	out   io.Writer
	tty   bool
	quiet bool
	bar   *progressbar.ProgressBar
}

func newRunRenderer(out io.Writer, quiet bool) *runRenderer {
	return &runRenderer{out: out, tty: isTerminal(out), quiet: quiet}
}

func (r *runRenderer) stageStart(stage string, total int) {
	if r.quiet {
		return
	}
	r.closeBar()
	switch stage {
	case "manifest":
		fmt.Fprintln(r.out, "Fetching document listing...")
	case download.Stage:
		fmt.Fprintf(r.out, "\nDownloading %d archives\n", total)
	case extract.Stage:
		fmt.Fprintf(r.out, "\nExtracting %d archives\n", total)
	case convert.Stage:
		fmt.Fprintf(r.out, "\nConverting %d documents\n", total)
	}
	if r.tty && total > 0 {
		r.bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(r.out),
			progressbar.OptionSetDescription(stage),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}
}

func (r *runRenderer) item(stage string, index, total int, item string, outcome stageexec.Outcome) {
	if r.quiet {
		return
	}
	if outcome.Status == stageexec.StatusFailed {
		if r.bar != nil {
			r.bar.Clear()
		}
		fmt.Fprintf(r.out, "  [FAIL] %s: %s\n", item, outcome.Detail)
	} else if !r.tty {
		label := "OK"
		if outcome.Status == stageexec.StatusSkipped {
			label = "SKIP"
		}
		fmt.Fprintf(r.out, "  [%s] %s (%s)\n", label, item, outcome.Detail)
	}
	if r.bar != nil {
		r.bar.Add(1)
	}
}

func (r *runRenderer) finish() {
	if r.quiet {
		return
	}
	r.closeBar()
}

func (r *runRenderer) closeBar() {
	if r.bar != nil {
		r.bar.Finish()
		r.bar = nil
	}
}

func printReport(out io.Writer, report *pipeline.Report) {
	rows := make([][]string, 0, 3)
	for _, summary := range report.Summaries() {
		rows = append(rows, []string{
			summary.Stage,
			strconv.Itoa(summary.Total),
			strconv.Itoa(summary.Succeeded),
			strconv.Itoa(summary.Skipped),
			strconv.Itoa(summary.Failed),
		})
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, renderTable(
		[]string{"Stage", "Total", "OK", "Skipped", "Failed"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight},
	))

	for _, summary := range report.Summaries() {
		if len(summary.Failures) == 0 {
			continue
		}
		fmt.Fprintf(out, "\n%s failures:\n", summary.Stage)
		for _, failure := range summary.Failures {
			fmt.Fprintf(out, "  %s: %s\n", failure.Item, failure.Detail)
		}
	}

	fmt.Fprintf(out, "\nProcessed %d documents from %d archives in %s\n",
		report.Documents, report.Identifiers, report.Elapsed.Round(time.Millisecond))
}
