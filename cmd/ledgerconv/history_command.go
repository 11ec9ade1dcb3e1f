package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"ledgerconv/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently processed source files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg.HistoryPath())
			if err != nil {
				return fmt.Errorf("open run history: %w", err)
			}
			defer store.Close()

			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				status := string(entry.Status)
				if entry.ErrorKind != "" {
					status += " (" + entry.ErrorKind + ")"
				}
				rows = append(rows, []string{
					entry.FinishedAt.Local().Format("2006-01-02 15:04"),
					filepath.Base(entry.SourceFile),
					entry.Identifier,
					strconv.Itoa(entry.SourceRows),
					strconv.Itoa(entry.OutputRows),
					strconv.Itoa(entry.ExceptionRows),
					status,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Finished", "Source", "Period", "Rows", "Ledger", "Exceptions", "Status"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to show")
	return cmd
}
