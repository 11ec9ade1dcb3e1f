package record

import (
	"strings"

	"ledgerconv/internal/textutil"
)

// NeedsRepair reports whether address line 1 is empty or holds no letter,
// the signature of a row that lost a column upstream.
func NeedsRepair(schema Schema, r Record) bool {
	value := Get(schema, r, Address1)
	return strings.TrimSpace(value) == "" || !textutil.ContainsLetter(value)
}

// Repair shifts every slot from address line 2 onward one position left and
// clears the final slot. Aligned rows are left untouched.
func Repair(schema Schema, r *Record) bool {
	if !NeedsRepair(schema, *r) {
		return false
	}
	start := schema.Index(Address2)
	if start <= 0 || start >= len(r.Fields) {
		return false
	}
	copy(r.Fields[start-1:], r.Fields[start:])
	r.Fields[len(r.Fields)-1] = ""
	return true
}

// RepairBatch repairs every record of b in place and returns how many rows
// were shifted.
func RepairBatch(b *Batch) int {
	repaired := 0
	for i := range b.Records {
		if Repair(b.Schema, &b.Records[i]) {
			repaired++
		}
	}
	return repaired
}
