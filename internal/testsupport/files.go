package testsupport

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
)

// Header is the column header of a well-formed contract report.
var Header = []string{
	"Tax ID",
	"Organization First Name",
	"Organization Middle Name",
	"Organization Last Name",
	"Organization Street Line1 Address",
	"Organization Street Line2 Address",
	"Organization City",
	"Organization State",
	"Organization Zip code",
	"Start Date of Contract",
	"Amount of Contract",
}

// Row is one data row of a fixture report.
type Row struct {
	TaxID     string
	First     string
	Middle    string
	Last      string
	Address1  string
	Address2  string
	City      string
	State     string
	Zip       string
	StartDate string
	Amount    string
	Extra     []string
}

// Cells returns the row in header order followed by any extra cells.
func (r Row) Cells() []string {
	cells := []string{
		r.TaxID, r.First, r.Middle, r.Last, r.Address1, r.Address2,
		r.City, r.State, r.Zip, r.StartDate, r.Amount,
	}
	return append(cells, r.Extra...)
}

// Person returns a valid row for taxID.
func Person(taxID, first, last string) Row {
	return Row{
		TaxID:     taxID,
		First:     first,
		Middle:    "Quinn",
		Last:      last,
		Address1:  "123 Elm St",
		Address2:  "Apt 4",
		City:      "Sacramento",
		State:     "CA",
		Zip:       "95814-1234",
		StartDate: "1/5/2024",
		Amount:    "$1,600.00",
	}
}

// SourceCSV renders a complete report: preamble, header and rows.
func SourceCSV(t testing.TB, entity, runDate string, rows ...Row) []byte {
	t.Helper()

	var buf bytes.Buffer
	buf.WriteString(entity + ",,,,,,,,,,\n")
	buf.WriteString("Contract Payments Report,,,,,,,,,,\n")
	buf.WriteString("RUN DATE: " + runDate + " 07:30,,,,,,,,,,\n")
	buf.WriteString(",,,,,,,,,,\n")
	buf.WriteString(",,,,,,,,,,\n")

	w := csv.NewWriter(&buf)
	if err := w.Write(Header); err != nil {
		t.Fatalf("write header: %v", err)
	}
	for _, row := range rows {
		if err := w.Write(row.Cells()); err != nil {
			t.Fatalf("write row: %v", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		t.Fatalf("flush csv: %v", err)
	}
	return buf.Bytes()
}

// WriteSource writes a fixture report into dir and returns its path.
func WriteSource(t testing.TB, dir, name, entity, runDate string, rows ...Row) string {
	t.Helper()
	path := filepath.Join(dir, name)
	WriteFile(t, path, SourceCSV(t, entity, runDate, rows...))
	return path
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path string, content []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
