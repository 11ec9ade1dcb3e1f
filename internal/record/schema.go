package record

import (
	"fmt"
	"strings"
)

// Column identifies a semantic field of a source record.
type Column int

const (
	TaxID Column = iota
	FirstName
	MiddleName
	LastName
	Address1
	Address2
	City
	State
	Zip
	StartDate
	Amount

	numColumns
)

var columnNames = [numColumns]string{
	TaxID:      "Tax ID",
	FirstName:  "Organization First Name",
	MiddleName: "Organization Middle Name",
	LastName:   "Organization Last Name",
	Address1:   "Organization Street Line1 Address",
	Address2:   "Organization Street Line2 Address",
	City:       "Organization City",
	State:      "Organization State",
	Zip:        "Organization Zip code",
	StartDate:  "Start Date of Contract",
	Amount:     "Amount of Contract",
}

// String returns the header label of the column.
func (c Column) String() string {
	if c < 0 || c >= numColumns {
		return fmt.Sprintf("Column(%d)", int(c))
	}
	return columnNames[c]
}

// Columns returns every semantic column in header order.
func Columns() []Column {
	out := make([]Column, numColumns)
	for i := range out {
		out[i] = Column(i)
	}
	return out
}

// ExtraColumnPrefix names header cells that carry no label.
const ExtraColumnPrefix = "extra_col_"

// IsExtraColumn reports whether name is a synthetic column label.
func IsExtraColumn(name string) bool {
	return strings.HasPrefix(name, ExtraColumnPrefix)
}

// Schema maps semantic columns to slot indexes.
type Schema struct {
	index [numColumns]int
}

// NewSchema matches header names case-insensitively. Every semantic column
// must be present.
func NewSchema(header []string) (Schema, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, dup := positions[key]; !dup {
			positions[key] = i
		}
	}
	var s Schema
	for c := Column(0); c < numColumns; c++ {
		idx, ok := positions[strings.ToLower(columnNames[c])]
		if !ok {
			return Schema{}, fmt.Errorf("missing required column %q", columnNames[c])
		}
		s.index[c] = idx
	}
	return s, nil
}

// Index returns the slot index of c.
func (s Schema) Index(c Column) int {
	return s.index[c]
}
