package record_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ledgerconv/internal/record"
	"ledgerconv/internal/testsupport"
)

func TestReadBatchParsesRows(t *testing.T) {
	dir := t.TempDir()
	path := testsupport.WriteSource(t, dir, "acme.csv", "Acme Child Care", "JAN-15-24",
		testsupport.Person("123456789", "Jane", "Doe"),
		testsupport.Person("987654321", "John", "Roe"),
	)

	batch, err := record.ReadBatch(path)
	if err != nil {
		t.Fatalf("ReadBatch returned error: %v", err)
	}
	if batch.Path != path {
		t.Fatalf("path got %q want %q", batch.Path, path)
	}
	if len(batch.Preamble) != record.PreambleLines {
		t.Fatalf("expected %d preamble lines, got %d", record.PreambleLines, len(batch.Preamble))
	}
	if batch.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", batch.Len())
	}
	first := batch.Records[0]
	if first.Line != 7 {
		t.Fatalf("first data line got %d want 7", first.Line)
	}
	if got := batch.Value(first, record.FirstName); got != "Jane" {
		t.Fatalf("first name got %q want %q", got, "Jane")
	}
	if got := batch.Value(batch.Records[1], record.TaxID); got != "987654321" {
		t.Fatalf("tax id got %q want %q", got, "987654321")
	}
}

func TestReadNamesExtraColumnsAndPadsRows(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("Acme\n\nRUN DATE: JAN-15-24\n\n\n")
	buf.WriteString(strings.Join(testsupport.Header, ",") + ",\n")
	buf.WriteString("123456789,Jane,Q,Doe,1 Elm St,,Sacramento,CA,95814,1/5/2024,$10,x,y\n")
	buf.WriteString("\n")
	buf.WriteString(",,,,,,,,,,,\n")
	buf.WriteString("987654321,John\n")

	batch, err := record.Read(&buf)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	wantExtra := []string{"extra_col_12", "extra_col_13"}
	if diff := cmp.Diff(wantExtra, batch.Columns[11:]); diff != "" {
		t.Fatalf("extra columns mismatch (-want +got):\n%s", diff)
	}
	if batch.Len() != 3 {
		t.Fatalf("expected empty-cell row kept, got %d records", batch.Len())
	}
	for _, rec := range batch.Records {
		if len(rec.Fields) != len(batch.Columns) {
			t.Fatalf("record on line %d has %d fields, want %d", rec.Line, len(rec.Fields), len(batch.Columns))
		}
	}
	if batch.Records[1].Line != 9 {
		t.Fatalf("empty-cell record line got %d want 9", batch.Records[1].Line)
	}
	if batch.Records[2].Line != 10 {
		t.Fatalf("third record line got %d want 10", batch.Records[2].Line)
	}
	if !record.IsExtraColumn(batch.Columns[12]) {
		t.Fatalf("expected %q to be an extra column", batch.Columns[12])
	}
}

func TestReadHeaderMatchIsCaseInsensitive(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("Acme\n\nRUN DATE: JAN-15-24\n\n\n")
	buf.WriteString(strings.ToUpper(strings.Join(testsupport.Header, ",")) + "\n")
	buf.WriteString("123456789,Jane,Q,Doe,1 Elm St,,Sacramento,CA,95814,1/5/2024,$10\n")

	batch, err := record.Read(&buf)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if got := batch.Value(batch.Records[0], record.Amount); got != "$10" {
		t.Fatalf("amount got %q", got)
	}
}

func TestReadRejectsMalformedInput(t *testing.T) {
	header := strings.Join(testsupport.Header, ",")
	tests := map[string]string{
		"short preamble": "Acme\nRUN DATE: JAN-15-24\n",
		"no header":      "Acme\n\nRUN DATE: JAN-15-24\n\n\n",
		"no data":        "Acme\n\nRUN DATE: JAN-15-24\n\n\n" + header + "\n",
		"missing column": "Acme\n\nRUN DATE: JAN-15-24\n\n\nTax ID,Organization First Name\n1,2\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := record.Read(strings.NewReader(content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, record.ErrMalformedInput) {
				t.Fatalf("expected ErrMalformedInput, got %v", err)
			}
		})
	}
}

func TestReadBatchMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.csv")
	_, err := record.ReadBatch(path)
	var malformed *record.MalformedInputError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected *MalformedInputError, got %v", err)
	}
	if malformed.Path != path {
		t.Fatalf("path got %q want %q", malformed.Path, path)
	}
}

func TestReadPreambleIgnoresRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	content := "Acme,,\nContract Payments Report,,\nRUN DATE: JAN-15-24 07:30,,\n,,\n,,\nnot,a,\"valid\nrow"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	preamble, err := record.ReadPreamble(path)
	if err != nil {
		t.Fatalf("ReadPreamble returned error: %v", err)
	}
	if len(preamble) != record.PreambleLines || preamble[2] != "RUN DATE: JAN-15-24 07:30,," {
		t.Fatalf("unexpected preamble %q", preamble)
	}
}
