package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ledgerconv/internal/config"
	"ledgerconv/internal/logging"
	"ledgerconv/internal/pipeline"
	"ledgerconv/internal/preflight"
	"ledgerconv/internal/watch"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Process every pending source file once",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := requirePreflight(cfg); err != nil {
				return err
			}
			logger, err := ctx.runLogger(cfg)
			if err != nil {
				return err
			}
			env, err := ctx.openPipeline(logger)
			if err != nil {
				return err
			}
			defer env.cleanup()

			summary, runErr := env.runner.Run(cmd.Context())
			printSummary(cmd.OutOrStdout(), summary)
			if runErr != nil {
				return runErr
			}
			if summary.Failed > 0 {
				return fmt.Errorf("%d of %d source files failed; see the run log", summary.Failed, len(summary.Files))
			}
			return nil
		},
	}
}

func newWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Process pending files now and again whenever a new report arrives",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := requirePreflight(cfg); err != nil {
				return err
			}
			logger, err := ctx.runLogger(cfg)
			if err != nil {
				return err
			}
			env, err := ctx.openPipeline(logger)
			if err != nil {
				return err
			}
			defer env.cleanup()

			run := func(runCtx context.Context) error {
				_, err := env.runner.Run(runCtx)
				if errors.Is(err, pipeline.ErrLocked) {
					logging.WarnWithContext(logger, "another run holds the lock; skipping this trigger", "run_locked",
						logging.String(logging.FieldImpact, "new files wait for the next event"),
						logging.String(logging.FieldErrorHint, "the other run will pick them up if it is still scanning"),
					)
					return nil
				}
				return err
			}
			watcher := watch.New(cfg.Paths.SourceDir, cfg.WatchDebounce(), run, logging.NewComponentLogger(logger, "watch"))
			return watcher.Watch(cmd.Context())
		},
	}
}

func requirePreflight(cfg *config.Config) error {
	failed := preflight.Failed(preflight.RunAll(cfg))
	if len(failed) == 0 {
		return nil
	}
	details := make([]string, 0, len(failed))
	for _, result := range failed {
		details = append(details, fmt.Sprintf("%s: %s", result.Name, result.Detail))
	}
	return fmt.Errorf("preflight failed: %s", strings.Join(details, "; "))
}

func printSummary(out io.Writer, summary pipeline.Summary) {
	if len(summary.Files) == 0 {
		fmt.Fprintln(out, "No source files to process")
		return
	}
	rows := make([][]string, 0, len(summary.Files))
	for _, file := range summary.Files {
		status := "processed"
		if file.Err != nil {
			status = "failed: " + pipeline.ErrorKind(file.Err)
		}
		rows = append(rows, []string{
			filepath.Base(file.Path),
			file.Result.Identifier,
			strconv.Itoa(file.Result.SourceRows),
			strconv.Itoa(file.Result.OutputRows),
			strconv.Itoa(file.Result.ExceptionRows),
			status,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Source", "Period", "Rows", "Ledger", "Exceptions", "Status"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
	))
	fmt.Fprintf(out, "Run %s: %d processed, %d failed in %s\n",
		summary.RunID, summary.Processed, summary.Failed, summary.Finished.Sub(summary.Started).Round(time.Millisecond))
}
