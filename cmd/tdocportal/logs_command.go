package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yhsung/3gpp-tdoc-portal/internal/logging"
	"github.com/yhsung/3gpp-tdoc-portal/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var lineCount int

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the most recent lines from the pipeline log",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logPath := logging.FilePath(cfg)
			if logPath == "" {
				return fmt.Errorf("no log directory configured")
			}

			lines, err := logs.LastLines(logPath, lineCount)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(lines) == 0 {
				fmt.Fprintf(out, "No log entries at %s yet\n", logPath)
				return nil
			}
			for _, line := range lines {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&lineCount, "lines", "n", 50, "Number of trailing lines to print")
	return cmd
}
