package record

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// PreambleLines is the number of report lines before the column header.
const PreambleLines = 5

// ReadBatch reads a source report from disk.
func ReadBatch(path string) (*Batch, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &MalformedInputError{Path: path, Reason: "open source", Err: err}
	}
	defer file.Close()

	batch, err := Read(file)
	if err != nil {
		var malformed *MalformedInputError
		if errors.As(err, &malformed) && malformed.Path == "" {
			malformed.Path = path
		}
		return nil, err
	}
	batch.Path = path
	return batch, nil
}

// Read parses a report: five preamble lines, a column header on line 6, then
// data rows. Rows with only empty cells are kept as records; short rows are
// padded to the header width. Unlabelled columns are named extra_col_<n>.
func Read(r io.Reader) (*Batch, error) {
	br := bufio.NewReader(r)

	preamble, err := readPreamble(br)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &MalformedInputError{Line: PreambleLines + 1, Reason: "missing column header"}
	}
	if err != nil {
		return nil, parseError(err)
	}
	columns := normalizeHeader(header)

	width := len(columns)
	var records []Record
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, parseError(err)
		}
		line, _ := reader.FieldPos(0)
		records = append(records, Record{Line: line + PreambleLines, Fields: row})
		if len(row) > width {
			width = len(row)
		}
	}

	for len(columns) < width {
		columns = append(columns, extraColumnName(len(columns)))
	}
	for i := range records {
		if missing := width - len(records[i].Fields); missing > 0 {
			records[i].Fields = append(records[i].Fields, make([]string, missing)...)
		}
	}

	schema, err := NewSchema(columns)
	if err != nil {
		return nil, &MalformedInputError{Line: PreambleLines + 1, Reason: err.Error()}
	}
	if len(records) == 0 {
		return nil, &MalformedInputError{Reason: "no data rows"}
	}

	return &Batch{
		Preamble: preamble,
		Columns:  columns,
		Schema:   schema,
		Records:  records,
	}, nil
}

// ReadPreamble returns the preamble lines of the report at path without
// parsing its rows.
func ReadPreamble(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &MalformedInputError{Path: path, Reason: "open source", Err: err}
	}
	defer file.Close()

	preamble, err := readPreamble(bufio.NewReader(file))
	if err != nil {
		var malformed *MalformedInputError
		if errors.As(err, &malformed) {
			malformed.Path = path
		}
		return nil, err
	}
	return preamble, nil
}

func readPreamble(br *bufio.Reader) ([]string, error) {
	preamble := make([]string, 0, PreambleLines)
	for len(preamble) < PreambleLines {
		line, err := br.ReadString('\n')
		if line != "" {
			preamble = append(preamble, strings.TrimRight(line, "\r\n"))
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &MalformedInputError{Reason: "read preamble", Err: err}
		}
	}
	if len(preamble) < PreambleLines {
		return nil, &MalformedInputError{Line: len(preamble) + 1, Reason: "file ends inside the report preamble"}
	}
	return preamble, nil
}

func normalizeHeader(header []string) []string {
	columns := make([]string, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if name == "" {
			name = extraColumnName(i)
		}
		columns[i] = name
	}
	return columns
}

func extraColumnName(index int) string {
	return fmt.Sprintf("%s%d", ExtraColumnPrefix, index+1)
}

func parseError(err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return &MalformedInputError{Line: parseErr.Line + PreambleLines, Reason: "parse row", Err: parseErr.Err}
	}
	return &MalformedInputError{Reason: "read rows", Err: err}
}
