package ledger

import (
	"fmt"
	"strings"

	"ledgerconv/internal/textutil"
)

// Record tags.
const (
	RecordTag  = "PIC"
	TrailerTag = "TIC"
)

// Field names.
const (
	FieldTag           = "record_tag"
	FieldTaxID         = "tax_id"
	FieldFirstName     = "first_name"
	FieldMiddleInitial = "middle_initial"
	FieldLastName      = "last_name"
	FieldAddress       = "address"
	FieldCity          = "city"
	FieldState         = "state"
	FieldZip           = "zip"
	FieldZipExtension  = "zip_extension"
	FieldStartDate     = "contract_start"
	FieldAmount        = "amount"
	FieldExpiration    = "contract_expiration"
	FieldOngoing       = "ongoing_flag"
	FieldFiller        = "filler"
)

// trailerCountWidth is the width of the PIC count in a TIC trailer.
const trailerCountWidth = 11

// Field is one fixed-width column.
type Field struct {
	Name  string
	Width int
}

// Layout is an ordered list of fields.
type Layout struct {
	Fields []Field
}

// Standard is the downstream ledger layout (171 characters).
var Standard = Layout{Fields: []Field{
	{FieldTag, 3},
	{FieldTaxID, 9},
	{FieldFirstName, 16},
	{FieldMiddleInitial, 1},
	{FieldLastName, 30},
	{FieldAddress, 40},
	{FieldCity, 25},
	{FieldState, 2},
	{FieldZip, 5},
	{FieldZipExtension, 4},
	{FieldStartDate, 8},
	{FieldAmount, 11},
	{FieldExpiration, 8},
	{FieldOngoing, 1},
	{FieldFiller, 8},
}}

// Width returns the total line width.
func (l Layout) Width() int {
	total := 0
	for _, field := range l.Fields {
		total += field.Width
	}
	return total
}

// Span returns the start offset and width of the named field.
func (l Layout) Span(name string) (start, width int, ok bool) {
	for _, field := range l.Fields {
		if field.Name == name {
			return start, field.Width, true
		}
		start += field.Width
	}
	return 0, 0, false
}

// IDWidth is the width of the record identifier prefix: everything up to the
// end of the tax id field.
func (l Layout) IDWidth() int {
	start, width, ok := l.Span(FieldTaxID)
	if !ok {
		return len(RecordTag)
	}
	return start + width
}

// RecordID returns the identifier a line for taxID starts with, trailing
// blanks removed.
func (l Layout) RecordID(taxID string) string {
	_, width, ok := l.Span(FieldTaxID)
	if !ok {
		width = len(textutil.DigitsOnly(taxID))
	}
	return strings.TrimRight(RecordTag+textutil.Fit(textutil.DigitsOnly(taxID), width), " ")
}

// LineID returns the record identifier of a ledger line. Lines that are not
// PIC records report false.
func (l Layout) LineID(line string) (string, bool) {
	if !strings.HasPrefix(line, RecordTag) {
		return "", false
	}
	return strings.TrimRight(textutil.Fit(line, l.IDWidth()), " "), true
}

// Join fits values to their fields and concatenates them. Missing values are
// blank.
func (l Layout) Join(values map[string]string) string {
	var b strings.Builder
	b.Grow(l.Width())
	for _, field := range l.Fields {
		b.WriteString(textutil.Fit(values[field.Name], field.Width))
	}
	return b.String()
}

// Trailer renders the TIC record carrying count.
func (l Layout) Trailer(count int) string {
	return textutil.Fit(fmt.Sprintf("%s%0*d", TrailerTag, trailerCountWidth, count), l.Width())
}

// HeaderRecord fits text to the line width. Empty text yields "".
func (l Layout) HeaderRecord(text string) string {
	if text == "" {
		return ""
	}
	return textutil.Fit(text, l.Width())
}
