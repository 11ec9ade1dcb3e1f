package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"ledgerconv/internal/archive"
	"ledgerconv/internal/config"
	"ledgerconv/internal/history"
	"ledgerconv/internal/logging"
	"ledgerconv/internal/reconcile"
)

// ErrLocked is returned when another process holds the run lock.
var ErrLocked = errors.New("another ledgerconv run is in progress")

// FileOutcome is the result of one source file in a run.
type FileOutcome struct {
	Path   string
	Result reconcile.Result
	Err    error
}

// Summary describes a completed run.
type Summary struct {
	RunID     string
	Files     []FileOutcome
	Processed int
	Failed    int
	Started   time.Time
	Finished  time.Time
}

// FileProcessor runs every stage for one source file. *Processor is the
// production implementation.
type FileProcessor interface {
	ProcessFile(ctx context.Context, path string) (reconcile.Result, error)
}

// Runner drains the source directory.
type Runner struct {
	cfg       *config.Config
	processor FileProcessor
	history   *history.Store
	logger    *slog.Logger
	lock      *flock.Flock
}

// NewRunner returns a Runner. store may be nil to skip journaling.
func NewRunner(cfg *config.Config, processor FileProcessor, store *history.Store, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{
		cfg:       cfg,
		processor: processor,
		history:   store,
		logger:    logger,
		lock:      flock.New(cfg.LockPath()),
	}
}

// Run processes every pending source file once, strictly in order.
// Malformed files are journaled as failed and skipped. A reconciliation
// mismatch or context cancellation stops the run and is returned.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	ok, err := r.lock.TryLock()
	if err != nil {
		return Summary{}, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return Summary{}, ErrLocked
	}
	defer func() {
		if err := r.lock.Unlock(); err != nil {
			r.logger.Warn("failed to release run lock", logging.Error(err))
		}
	}()

	summary := Summary{RunID: uuid.NewString(), Started: time.Now()}
	logger := r.logger.With(logging.String(logging.FieldRunID, summary.RunID))
	processor := r.processor
	if p, ok := processor.(*Processor); ok {
		processor = p.withLogger(logger)
	}

	paths, err := archive.Scan(r.cfg.Paths.SourceDir)
	if err != nil {
		return summary, err
	}
	if len(paths) == 0 {
		logger.Info("no source files to process", logging.String("source_dir", r.cfg.Paths.SourceDir))
		summary.Finished = time.Now()
		return summary, nil
	}
	logger.Info("run started", logging.Int("files", len(paths)))

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			summary.Finished = time.Now()
			return summary, err
		}

		started := time.Now()
		result, err := processor.ProcessFile(ctx, path)
		outcome := FileOutcome{Path: path, Result: result, Err: err}
		summary.Files = append(summary.Files, outcome)
		r.journal(ctx, logger, summary.RunID, started, outcome)

		if err == nil {
			summary.Processed++
			continue
		}
		summary.Failed++

		var mismatch *reconcile.MismatchError
		if errors.As(err, &mismatch) {
			logging.ErrorWithContext(logger, "row reconciliation failed; aborting run", "reconciliation_failed",
				logging.Alert("reconciliation"),
				logging.String(logging.FieldSourceFile, filepath.Base(path)),
				logging.String("stage", mismatch.Stage),
				logging.Int("source_rows", mismatch.SourceRows),
				logging.Int("output_rows", mismatch.OutputRows),
				logging.Int("exception_rows", mismatch.ExceptionRows),
				logging.String(logging.FieldImpact, "records may have been lost or duplicated; remaining files were not processed"),
				logging.String(logging.FieldErrorHint, "inspect the ledger and exception report before re-running"),
				logging.Error(err),
			)
			summary.Finished = time.Now()
			return summary, err
		}
		logging.ErrorWithContext(logger, "source file failed; continuing with next file", "source_failed",
			logging.String(logging.FieldSourceFile, filepath.Base(path)),
			logging.String(logging.FieldImpact, "file left in the source directory and not archived"),
			logging.String(logging.FieldErrorHint, "fix the file and run again"),
			logging.Error(err),
		)
	}

	summary.Finished = time.Now()
	logger.Info("run finished",
		logging.Int("processed", summary.Processed),
		logging.Int("failed", summary.Failed),
		logging.Duration("elapsed", summary.Finished.Sub(summary.Started)),
	)
	return summary, nil
}

func (r *Runner) journal(ctx context.Context, logger *slog.Logger, runID string, started time.Time, outcome FileOutcome) {
	if r.history == nil {
		return
	}
	entry := history.Entry{
		RunID:         runID,
		SourceFile:    outcome.Path,
		Identifier:    outcome.Result.Identifier,
		Status:        history.StatusProcessed,
		SourceRows:    outcome.Result.SourceRows,
		OutputRows:    outcome.Result.OutputRows,
		ExceptionRows: outcome.Result.ExceptionRows,
		OutputPath:    outcome.Result.OutputPath,
		ExceptionPath: outcome.Result.ExceptionPath,
		ArchivePath:   outcome.Result.ArchivePath,
		StartedAt:     started,
		FinishedAt:    time.Now(),
	}
	if outcome.Err != nil {
		entry.Status = history.StatusFailed
		entry.ErrorKind = ErrorKind(outcome.Err)
		entry.ErrorMessage = outcome.Err.Error()
	}
	if _, err := r.history.Record(ctx, entry); err != nil {
		logging.WarnWithContext(logger, "failed to journal run outcome", "history_write_failed",
			logging.String(logging.FieldSourceFile, filepath.Base(outcome.Path)),
			logging.Error(err),
		)
	}
}

// ErrorClassifier is implemented by errors that declare their kind.
type ErrorClassifier interface {
	ErrorKind() string
}

// ErrorKind returns the declared kind of err, or "io" for unclassified errors.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	var classifier ErrorClassifier
	if errors.As(err, &classifier) {
		return classifier.ErrorKind()
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "canceled"
	}
	return "io"
}
