package ledger

import (
	"log/slog"

	"ledgerconv/internal/logging"
	"ledgerconv/internal/record"
	"ledgerconv/internal/textutil"
)

const ongoingFlag = "Y"

// FieldError describes a value that rendered as a sentinel.
type FieldError struct {
	Line  int
	Field string
	Err   error
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e FieldError) Unwrap() error { return e.Err }

// Formatter renders records as ledger lines.
type Formatter struct {
	layout Layout
	schema record.Schema
	logger *slog.Logger
}

// NewFormatter returns a Formatter for records described by schema.
func NewFormatter(layout Layout, schema record.Schema, logger *slog.Logger) *Formatter {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Formatter{layout: layout, schema: schema, logger: logger}
}

// Layout returns the formatter's layout.
func (f *Formatter) Layout() Layout {
	return f.layout
}

// Line renders one record. Unparsable dates and amounts become sentinels and
// are reported in the returned errors; the line is always produced.
func (f *Formatter) Line(rec record.Record) (string, []FieldError) {
	get := func(c record.Column) string { return record.Get(f.schema, rec, c) }

	var problems []FieldError
	startDate, err := FormatDate(get(record.StartDate))
	if err != nil {
		problems = append(problems, FieldError{Line: rec.Line, Field: FieldStartDate, Err: err})
	}
	_, amountWidth, _ := f.layout.Span(FieldAmount)
	amount, err := FormatAmount(get(record.Amount), amountWidth)
	if err != nil {
		problems = append(problems, FieldError{Line: rec.Line, Field: FieldAmount, Err: err})
	}
	zip, zipExt := SplitZip(get(record.Zip))

	values := map[string]string{
		FieldTag:           RecordTag,
		FieldTaxID:         textutil.DigitsOnly(get(record.TaxID)),
		FieldFirstName:     textutil.Upper(get(record.FirstName)),
		FieldMiddleInitial: textutil.Upper(textutil.FirstRune(get(record.MiddleName))),
		FieldLastName:      textutil.Upper(get(record.LastName)),
		FieldAddress:       textutil.Upper(JoinAddress(get(record.Address1), get(record.Address2))),
		FieldCity:          textutil.Upper(get(record.City)),
		FieldState:         textutil.Upper(get(record.State)),
		FieldZip:           zip,
		FieldZipExtension:  zipExt,
		FieldStartDate:     startDate,
		FieldAmount:        amount,
		FieldOngoing:       ongoingFlag,
	}
	return f.layout.Join(values), problems
}

// Format renders every record in order and logs each degraded field.
func (f *Formatter) Format(records []record.Record) []string {
	lines := make([]string, 0, len(records))
	for _, rec := range records {
		line, problems := f.Line(rec)
		for _, problem := range problems {
			f.logger.Error("field rendered as sentinel",
				logging.Int(logging.FieldLine, problem.Line),
				logging.String("field", problem.Field),
				logging.Error(problem.Err),
			)
		}
		lines = append(lines, line)
	}
	return lines
}
