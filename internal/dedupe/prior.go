package dedupe

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"ledgerconv/internal/classify"
	"ledgerconv/internal/ledger"
	"ledgerconv/internal/logging"
	"ledgerconv/internal/record"
)

// PriorFile is the ledger expected for a comparison period.
type PriorFile struct {
	Period string
	Path   string
}

// PriorIndex maps record identifiers to the period whose ledger holds them.
type PriorIndex map[string]string

// Coverage reports which prior ledgers were consulted.
type Coverage struct {
	Loaded  []string
	Missing []string
}

// LoadPriorIndex reads the identifiers of every PIC line in files. A missing
// ledger is logged and skipped; any other read failure is returned.
func LoadPriorIndex(layout ledger.Layout, files []PriorFile, logger *slog.Logger) (PriorIndex, Coverage, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	index := make(PriorIndex)
	var coverage Coverage
	for _, prior := range files {
		file, err := os.Open(prior.Path)
		if errors.Is(err, os.ErrNotExist) {
			logging.WarnWithContext(logger, "prior output missing; period skipped", "prior_output_missing",
				logging.String(logging.FieldPeriod, prior.Period),
				logging.String("path", prior.Path),
				logging.String(logging.FieldImpact, "records already sent in this period will not be detected"),
				logging.String(logging.FieldErrorHint, "restore the ledger into the output directory and re-run if needed"),
			)
			coverage.Missing = append(coverage.Missing, prior.Period)
			continue
		}
		if err != nil {
			return nil, coverage, fmt.Errorf("open prior output %s: %w", prior.Path, err)
		}
		ids, err := ledger.ReadIDs(file, layout)
		_ = file.Close()
		if err != nil {
			return nil, coverage, fmt.Errorf("read prior output %s: %w", prior.Path, err)
		}
		for _, id := range ids {
			if _, exists := index[id]; !exists {
				index[id] = prior.Period
			}
		}
		coverage.Loaded = append(coverage.Loaded, prior.Period)
		logger.Debug("prior output loaded",
			logging.String(logging.FieldPeriod, prior.Period),
			logging.Int("records", len(ids)),
		)
	}
	return index, coverage, nil
}

// Match is a valid record found in a prior ledger.
type Match struct {
	Line   int
	ID     string
	Period string
}

// AgainstPrior moves valid records whose identifier is in index to the
// exceptions.
func AgainstPrior(schema record.Schema, layout ledger.Layout, result classify.Result, index PriorIndex) (classify.Result, []Match) {
	if len(index) == 0 {
		return result, nil
	}
	kept := make([]record.Record, 0, len(result.Valid))
	exceptions := result.Exceptions
	var matches []Match
	for _, rec := range result.Valid {
		id := layout.RecordID(record.Get(schema, rec, record.TaxID))
		if period, found := index[id]; found {
			exceptions = append(exceptions, classify.Exception{
				Record:  rec,
				Reasons: []classify.Reason{classify.ReasonDuplicateInPriorPeriod},
			})
			matches = append(matches, Match{Line: rec.Line, ID: id, Period: period})
			continue
		}
		kept = append(kept, rec)
	}
	return classify.Result{Valid: kept, Exceptions: exceptions}, matches
}
