package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"ledgerconv/internal/pipeline"
	"ledgerconv/internal/period"
	"ledgerconv/internal/record"
)

func newPeriodsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "periods <file>",
		Short: "Show the output identifier and comparison periods of a report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			preamble, err := record.ReadPreamble(args[0])
			if err != nil {
				return err
			}
			res, err := period.Resolve(preamble)
			if err != nil {
				return err
			}
			processor := pipeline.NewProcessor(cfg)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Entity:       %s\n", res.Entity)
			fmt.Fprintf(out, "Run date:     %s\n", res.RunDate.Format("2006-01-02"))
			fmt.Fprintf(out, "Identifier:   %s\n", res.Identifier)
			fmt.Fprintf(out, "Ledger:       %s\n", processor.OutputPath(res))
			fmt.Fprintf(out, "Exceptions:   %s\n", processor.ExceptionPath(res))
			if len(res.Comparisons) == 0 {
				fmt.Fprintln(out, "Comparisons:  none")
				return nil
			}
			fmt.Fprintf(out, "Comparisons:  %s\n", strings.Join(res.Comparisons, ", "))
			return nil
		},
	}
}

func newFormatCommand(ctx *commandContext) *cobra.Command {
	var showExceptions bool

	cmd := &cobra.Command{
		Use:   "format <file>",
		Short: "Print the ledger lines a report would produce without writing anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.stderrLogger(cfg)
			if err != nil {
				return err
			}
			directory, closeDirectory, err := pipeline.OpenDirectory(cfg)
			if err != nil {
				return err
			}
			defer closeDirectory()

			processor := pipeline.NewProcessor(cfg, pipeline.WithDirectory(directory), pipeline.WithLogger(logger))
			plan, err := processor.Prepare(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, line := range plan.Lines {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d ledger lines, %d exceptions\n",
				filepath.Base(args[0]), len(plan.Lines), len(plan.Result.Exceptions))

			if showExceptions && len(plan.Result.Exceptions) > 0 {
				rows := make([][]string, 0, len(plan.Result.Exceptions))
				for _, exception := range plan.Result.Exceptions {
					rows = append(rows, []string{
						strconv.Itoa(exception.Record.Line),
						plan.Batch.Value(exception.Record, record.TaxID),
						exception.ReasonCodes(),
					})
				}
				fmt.Fprintln(cmd.ErrOrStderr(), renderTable(
					[]string{"Line", "Tax ID", "Reasons"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft},
				))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showExceptions, "exceptions", false, "Also list the rows that would go to the exception report")
	return cmd
}
