package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"ledgerconv/internal/archive"
	"ledgerconv/internal/classify"
	"ledgerconv/internal/config"
	"ledgerconv/internal/dedupe"
	"ledgerconv/internal/exceptions"
	"ledgerconv/internal/fileutil"
	"ledgerconv/internal/history"
	"ledgerconv/internal/ledger"
	"ledgerconv/internal/logging"
	"ledgerconv/internal/lookup"
	"ledgerconv/internal/period"
	"ledgerconv/internal/reconcile"
	"ledgerconv/internal/record"
)

// Option configures a Processor.
type Option func(*Processor)

// WithDirectory enables tax id enrichment.
func WithDirectory(d lookup.Directory) Option {
	return func(p *Processor) {
		if d != nil {
			p.directory = d
		}
	}
}

// WithHistory lets the processor warn when a period was already produced.
func WithHistory(store *history.Store) Option {
	return func(p *Processor) {
		p.history = store
	}
}

// WithLogger sets the processor logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Processor runs every stage for a single source file.
type Processor struct {
	cfg       *config.Config
	layout    ledger.Layout
	directory lookup.Directory
	history   *history.Store
	archiver  archive.Archiver
	logger    *slog.Logger
}

// NewProcessor builds a Processor from configuration.
func NewProcessor(cfg *config.Config, opts ...Option) *Processor {
	p := &Processor{
		cfg:       cfg,
		layout:    ledger.Standard,
		directory: lookup.Nop{},
		archiver:  archive.Archiver{Root: cfg.Paths.ArchiveDir},
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Processor) withLogger(logger *slog.Logger) *Processor {
	clone := *p
	clone.logger = logger
	return &clone
}

// Plan is a fully classified and formatted batch that has not been written.
type Plan struct {
	Batch           *record.Batch
	Period          period.Resolution
	Result          classify.Result
	Lines           []string
	RepairedRows    int
	BatchDuplicates int
	PriorMatches    []dedupe.Match
	Coverage        dedupe.Coverage
}

// OutputPath returns where the ledger for the plan is written.
func (p *Processor) OutputPath(res period.Resolution) string {
	return filepath.Join(p.cfg.Paths.OutputDir, res.Year(), res.OutputName())
}

// ExceptionPath returns where the exception report for the plan is written.
func (p *Processor) ExceptionPath(res period.Resolution) string {
	ext := exceptions.Extension(p.cfg.Exceptions.Format)
	return filepath.Join(p.cfg.Paths.ExceptionDir, res.Year(), period.ExceptionName(res.Identifier, ext))
}

// Prepare reads, repairs, classifies, deduplicates and formats path without
// writing anything.
func (p *Processor) Prepare(ctx context.Context, path string) (*Plan, error) {
	logger := p.logger.With(logging.String(logging.FieldSourceFile, filepath.Base(path)))

	batch, err := record.ReadBatch(path)
	if err != nil {
		return nil, err
	}
	res, err := period.Resolve(batch.Preamble)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	logger = logger.With(logging.String(logging.FieldPeriod, res.Identifier))
	logger.Info("batch loaded",
		logging.Int("rows", batch.Len()),
		logging.Int("comparison_periods", len(res.Comparisons)),
	)

	priorFiles := make([]dedupe.PriorFile, 0, len(res.Comparisons))
	for i, name := range res.PriorOutputNames() {
		priorFiles = append(priorFiles, dedupe.PriorFile{
			Period: res.Comparisons[i],
			Path:   filepath.Join(p.cfg.Paths.OutputDir, res.Year(), name),
		})
	}
	index, coverage, err := dedupe.LoadPriorIndex(p.layout, priorFiles, logger)
	if err != nil {
		return nil, err
	}
	if len(coverage.Missing) > 0 {
		logger.Info("prior coverage incomplete",
			logging.Strings("loaded", coverage.Loaded),
			logging.Strings("missing", coverage.Missing),
		)
	}

	repaired := record.RepairBatch(batch)
	if repaired > 0 {
		logger.Info("misaligned rows repaired", logging.Int("rows", repaired))
	}

	classifier := classify.New(
		classify.WithKeywords(p.cfg.Classification.ExtraKeywords...),
		classify.WithDirectory(p.directory),
		classify.WithLogger(logger),
	)
	result, err := classifier.Classify(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("classify %s: %w", filepath.Base(path), err)
	}

	result, batchDups := dedupe.WithinBatch(result)
	result, matches := dedupe.AgainstPrior(batch.Schema, p.layout, result, index)
	for _, match := range matches {
		logger.Debug("record exists in previous file",
			logging.Int(logging.FieldLine, match.Line),
			logging.String("record_id", match.ID),
			logging.String("prior_period", match.Period),
		)
	}

	formatter := ledger.NewFormatter(p.layout, batch.Schema, logger)
	lines := formatter.Format(result.Valid)

	logger.Info("batch classified",
		logging.Int("valid", len(result.Valid)),
		logging.Int("exceptions", len(result.Exceptions)),
		logging.Int("batch_duplicates", batchDups),
		logging.Int("prior_duplicates", len(matches)),
	)

	return &Plan{
		Batch:           batch,
		Period:          res,
		Result:          result,
		Lines:           lines,
		RepairedRows:    repaired,
		BatchDuplicates: batchDups,
		PriorMatches:    matches,
		Coverage:        coverage,
	}, nil
}

// ProcessFile runs every stage for path: prepare, write outputs, reconcile,
// archive. A *reconcile.MismatchError leaves the source in place, and an
// archive collision is reported before any output is written.
func (p *Processor) ProcessFile(ctx context.Context, path string) (reconcile.Result, error) {
	plan, err := p.Prepare(ctx, path)
	if err != nil {
		return reconcile.Result{SourceFile: path}, err
	}
	if err := p.archiver.CheckFree(path, plan.Period.Year()); err != nil {
		return reconcile.Result{SourceFile: path, Identifier: plan.Period.Identifier}, err
	}
	logger := p.logger.With(
		logging.String(logging.FieldSourceFile, filepath.Base(path)),
		logging.String(logging.FieldPeriod, plan.Period.Identifier),
	)
	p.warnIfAlreadyProcessed(ctx, logger, plan.Period.Identifier)

	result := reconcile.Result{
		SourceFile:      path,
		Identifier:      plan.Period.Identifier,
		SourceRows:      plan.Batch.Len(),
		ValidRows:       len(plan.Result.Valid),
		ExceptionRows:   len(plan.Result.Exceptions),
		RepairedRows:    plan.RepairedRows,
		BatchDuplicates: plan.BatchDuplicates,
		PriorDuplicates: len(plan.PriorMatches),
		OutputPath:      p.OutputPath(plan.Period),
		ExceptionPath:   p.ExceptionPath(plan.Period),
		MissingPrior:    plan.Coverage.Missing,
	}
	if err := reconcile.CheckPartition(path, result.SourceRows, result.ValidRows, result.ExceptionRows); err != nil {
		return result, err
	}

	content := ledger.Render(p.layout, plan.Lines, ledger.Options{
		HeaderRecord: p.cfg.Output.HeaderRecord,
		Trailer:      p.cfg.Output.Trailer,
	})
	if err := ledger.WriteFile(result.OutputPath, content); err != nil {
		return result, err
	}
	if mirror := p.cfg.Paths.MirrorDir; mirror != "" {
		target := filepath.Join(mirror, filepath.Base(result.OutputPath))
		if err := fileutil.CopyFileVerified(result.OutputPath, target); err != nil {
			return result, fmt.Errorf("mirror ledger: %w", err)
		}
		logger.Debug("ledger mirrored", logging.String("path", target))
	}

	report := exceptions.Build(plan.Batch.Columns, plan.Result.Exceptions)
	if err := exceptions.Write(result.ExceptionPath, p.cfg.Exceptions.Format, report); err != nil {
		return result, err
	}

	result.OutputRows, err = ledger.CountRecords(result.OutputPath)
	if err != nil {
		return result, err
	}
	if err := reconcile.Validate(result); err != nil {
		return result, err
	}

	archived, err := p.archiver.Move(path, plan.Period.Year())
	if err != nil {
		return result, err
	}
	result.ArchivePath = archived

	logger.Info("source processed",
		logging.Int("source_rows", result.SourceRows),
		logging.Int("output_rows", result.OutputRows),
		logging.Int("exception_rows", result.ExceptionRows),
		logging.String("output", result.OutputPath),
		logging.String("exceptions", result.ExceptionPath),
		logging.String("archive", result.ArchivePath),
	)
	return result, nil
}

func (p *Processor) warnIfAlreadyProcessed(ctx context.Context, logger *slog.Logger, identifier string) {
	if p.history == nil {
		return
	}
	previous, err := p.history.PeriodProcessed(ctx, identifier)
	if err != nil {
		logger.Debug("history lookup failed", logging.Error(err))
		return
	}
	if previous == nil {
		return
	}
	logging.WarnWithContext(logger, "output identifier already processed; ledger will be replaced", "period_reprocessed",
		logging.String("previous_run_id", previous.RunID),
		logging.String("previous_source", previous.SourceFile),
		logging.String(logging.FieldImpact, "the earlier ledger for this period is overwritten"),
		logging.String(logging.FieldErrorHint, "confirm the downstream system has not already imported the earlier ledger"),
	)
}
