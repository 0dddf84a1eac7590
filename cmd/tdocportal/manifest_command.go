package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/yhsung/3gpp-tdoc-portal/internal/manifest"
)

func newManifestCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "manifest",
		Short: "Fetch the document listing and print the TDoc identifiers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			fetcher, err := manifest.New(cfg)
			if err != nil {
				return err
			}
			ids, err := fetcher.Fetch(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(ids) == 0 {
				fmt.Fprintf(out, "No documents found at %s\n", cfg.Manifest.BaseURL)
				return nil
			}
			rows := make([][]string, 0, len(ids))
			for i, id := range ids {
				rows = append(rows, []string{strconv.Itoa(i + 1), id})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "TDoc"},
				rows,
				[]columnAlignment{alignRight, alignLeft},
			))
			fmt.Fprintf(out, "%d documents listed at %s\n", len(ids), cfg.Manifest.BaseURL)
			return nil
		},
	}
}
