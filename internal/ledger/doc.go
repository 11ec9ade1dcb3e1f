// Package ledger renders valid records as fixed-width PIC lines and reads
// them back.
//
// The Layout describes every field's width in order. Writers fit each value
// to its width, so every line of a ledger has the same length. Readers take
// the record identifier (tag plus tax id) from the same Layout instead of a
// hard-coded offset.
package ledger
