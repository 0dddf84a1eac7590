package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/yhsung/3gpp-tdoc-portal/internal/artifacts"
	"github.com/yhsung/3gpp-tdoc-portal/internal/fileutil"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Summarize stored artifacts without touching the network",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store := artifacts.NewStore(cfg)
			out := cmd.OutOrStdout()
			colorize := isTerminal(out)

			archives, err := countEntries(store.DownloadsDir(), false, ".zip")
			if err != nil {
				return fmt.Errorf("inspect downloads: %w", err)
			}
			extractions, err := countEntries(store.ExtractedDir(), true, "")
			if err != nil {
				return fmt.Errorf("inspect extractions: %w", err)
			}
			htmlDocs, err := countEntries(store.HTMLDir(), false, ".html")
			if err != nil {
				return fmt.Errorf("inspect html renditions: %w", err)
			}
			markdownDocs, err := countEntries(store.MarkdownDir(), false, ".md")
			if err != nil {
				return fmt.Errorf("inspect markdown renditions: %w", err)
			}

			for _, line := range renderSectionHeader("Artifact storage", colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, renderStatusLine("Root", statusInfo, store.Root(), colorize))
			fmt.Fprintln(out, renderStatusLine("Archives", countKind(archives),
				fmt.Sprintf("%d (%s)", archives, humanize.Bytes(dirSize(store.DownloadsDir()))), colorize))
			fmt.Fprintln(out, renderStatusLine("Extractions", countKind(extractions),
				fmt.Sprintf("%d (%s)", extractions, humanize.Bytes(dirSize(store.ExtractedDir()))), colorize))

			renditionKind := countKind(htmlDocs)
			renditionDetail := fmt.Sprintf("%d pairs (%s)", htmlDocs,
				humanize.Bytes(dirSize(store.HTMLDir())+dirSize(store.MarkdownDir())))
			if htmlDocs != markdownDocs {
				renditionKind = statusWarn
				renditionDetail = fmt.Sprintf("html=%d markdown=%d (incomplete pairs)", htmlDocs, markdownDocs)
			}
			fmt.Fprintln(out, renderStatusLine("Renditions", renditionKind, renditionDetail, colorize))
			return nil
		},
	}
}

func countKind(n int) statusKind {
	if n > 0 {
		return statusOK
	}
	return statusInfo
}

// dirSize totals a directory for display, treating any walk error as zero.
func dirSize(path string) uint64 {
	size, err := fileutil.DirSize(path)
	if err != nil || size < 0 {
		return 0
	}
	return uint64(size)
}

// countEntries counts the direct children of dir: subdirectories when
// wantDir is set, otherwise files carrying ext. A missing dir counts zero.
func countEntries(dir string, wantDir bool, ext string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	n := 0
	for _, entry := range entries {
		if wantDir {
			if entry.IsDir() {
				n++
			}
			continue
		}
		if entry.IsDir() {
			continue
		}
		if ext == "" || strings.EqualFold(filepath.Ext(entry.Name()), ext) {
			n++
		}
	}
	return n, nil
}
