package record

import "strings"

// Record is one data row. Fields is aligned with Batch.Columns.
type Record struct {
	// Line is the 1-based line number in the source file.
	Line   int
	Fields []string
}

// Clone returns a deep copy.
func (r Record) Clone() Record {
	return Record{Line: r.Line, Fields: append([]string(nil), r.Fields...)}
}

// Batch is one source file read into memory.
type Batch struct {
	Path     string
	Preamble []string
	Columns  []string
	Schema   Schema
	Records  []Record
}

// Len returns the number of data rows.
func (b *Batch) Len() int {
	return len(b.Records)
}

// Value returns the trimmed value of column c for r.
func (b *Batch) Value(r Record, c Column) string {
	return Get(b.Schema, r, c)
}

// Get returns the trimmed value of column c for r using schema.
func Get(schema Schema, r Record, c Column) string {
	idx := schema.Index(c)
	if idx < 0 || idx >= len(r.Fields) {
		return ""
	}
	return strings.TrimSpace(r.Fields[idx])
}

// Set writes value into column c of r.
func Set(schema Schema, r *Record, c Column, value string) {
	idx := schema.Index(c)
	if idx < 0 || idx >= len(r.Fields) {
		return
	}
	r.Fields[idx] = value
}
