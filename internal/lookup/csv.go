package lookup

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"ledgerconv/internal/textutil"
)

// ReadPeopleCSV parses a directory export with the columns tax id, first
// name, middle name and last name. Rows whose tax id cell has no digits,
// including a header row, are skipped.
func ReadPeopleCSV(r io.Reader) ([]Person, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var people []Person
	for {
		cells, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read directory csv: %w", err)
		}
		id := textutil.DigitsOnly(cell(cells, 0))
		if id == "" {
			continue
		}
		people = append(people, Person{
			TaxID:      id,
			FirstName:  cell(cells, 1),
			MiddleName: cell(cells, 2),
			LastName:   cell(cells, 3),
		})
	}
	return people, nil
}

func cell(cells []string, idx int) string {
	if idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx])
}
