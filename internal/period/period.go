package period

import (
	"fmt"
	"strings"
	"time"

	"ledgerconv/internal/textutil"
)

const (
	entityLine  = 1
	runDateLine = 3

	runDateLabel  = "RUN DATE:"
	runDateLayout = "Jan-2-06"
	idLayout      = "Jan_02_06"
)

// Header holds the values declared in a report preamble.
type Header struct {
	Entity  string
	RunDate time.Time
}

// Resolution is everything the pipeline needs to know about a batch's period.
type Resolution struct {
	Header
	// Identifier names the batch outputs: {ENTITY}_{MON_DD_YY}.
	Identifier string
	// Comparisons lists prior period identifiers in chronological order.
	Comparisons []string
}

// ParseHeader extracts the entity name from line 1 and the run date from
// line 3 of the preamble.
func ParseHeader(lines []string) (Header, error) {
	if len(lines) < runDateLine {
		return Header{}, &MalformedHeaderError{Line: len(lines) + 1, Reason: "preamble shorter than three lines"}
	}

	entity := firstCell(lines[entityLine-1])
	if entity == "" {
		return Header{}, &MalformedHeaderError{Line: entityLine, Value: lines[entityLine-1], Reason: "missing entity name"}
	}

	raw := firstCell(lines[runDateLine-1])
	idx := strings.Index(strings.ToUpper(raw), runDateLabel)
	if idx < 0 {
		return Header{}, &MalformedHeaderError{Line: runDateLine, Value: raw, Reason: "missing RUN DATE label"}
	}
	fields := strings.Fields(raw[idx+len(runDateLabel):])
	if len(fields) == 0 {
		return Header{}, &MalformedHeaderError{Line: runDateLine, Value: raw, Reason: "missing run date"}
	}
	runDate, err := time.Parse(runDateLayout, fields[0])
	if err != nil {
		return Header{}, &MalformedHeaderError{Line: runDateLine, Value: fields[0], Reason: "run date is not MON-DD-YY"}
	}

	return Header{
		Entity:  textutil.SanitizeToken(entity),
		RunDate: runDate,
	}, nil
}

// Resolve parses the preamble and derives the batch identifier and the
// comparison periods.
func Resolve(lines []string) (Resolution, error) {
	header, err := ParseHeader(lines)
	if err != nil {
		return Resolution{}, err
	}
	return Resolution{
		Header:      header,
		Identifier:  header.Entity + "_" + Format(header.RunDate),
		Comparisons: Comparisons(header.RunDate),
	}, nil
}

// Comparisons returns every 1st and 15th of the run date's year that falls
// strictly before runDate. A January 1 run date yields nil.
func Comparisons(runDate time.Time) []string {
	runDate = truncateDay(runDate)
	var out []string
	for month := time.January; month <= time.December; month++ {
		for _, day := range []int{1, 15} {
			mark := time.Date(runDate.Year(), month, day, 0, 0, 0, 0, time.UTC)
			if !mark.Before(runDate) {
				return out
			}
			out = append(out, Format(mark))
		}
	}
	return out
}

// Format renders t as a period identifier, e.g. JAN_15_24.
func Format(t time.Time) string {
	return strings.ToUpper(t.Format(idLayout))
}

// Year is the directory year for every file the batch produces.
func (r Resolution) Year() string {
	return fmt.Sprintf("%04d", r.RunDate.Year())
}

// OutputName returns the ledger file name for the batch.
func (r Resolution) OutputName() string {
	return OutputName(r.Identifier)
}

// PriorOutputNames maps each comparison period to the ledger file name the
// same entity would have produced for it.
func (r Resolution) PriorOutputNames() []string {
	names := make([]string, 0, len(r.Comparisons))
	for _, comparison := range r.Comparisons {
		names = append(names, OutputName(r.Entity+"_"+comparison))
	}
	return names
}

// OutputName returns the ledger file name for an output identifier.
func OutputName(identifier string) string {
	return "output_" + identifier + ".txt"
}

// ExceptionName returns the exception report name for an output identifier.
func ExceptionName(identifier, ext string) string {
	return "exceptions_" + identifier + "." + strings.TrimPrefix(ext, ".")
}

func firstCell(line string) string {
	line = strings.TrimPrefix(line, "\ufeff")
	if idx := strings.IndexByte(line, ','); idx >= 0 {
		line = line[:idx]
	}
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(line), `"`))
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
