package dedupe

import (
	"strings"

	"ledgerconv/internal/classify"
	"ledgerconv/internal/record"
	"ledgerconv/internal/textutil"
)

// noiseChars are ignored when comparing records.
const noiseChars = ",.#-"

// Key returns the comparison key of rec: every field with formatting noise
// removed.
func Key(rec record.Record) string {
	parts := make([]string, len(rec.Fields))
	for i, field := range rec.Fields {
		parts[i] = strings.TrimSpace(textutil.StripChars(field, noiseChars))
	}
	return strings.Join(parts, "\x1f")
}

// WithinBatch keeps the first valid record for each key and moves later ones
// to the exceptions. It returns the updated result and the number moved.
func WithinBatch(result classify.Result) (classify.Result, int) {
	seen := make(map[string]struct{}, len(result.Valid))
	kept := make([]record.Record, 0, len(result.Valid))
	exceptions := result.Exceptions
	moved := 0
	for _, rec := range result.Valid {
		key := Key(rec)
		if _, dup := seen[key]; dup {
			exceptions = append(exceptions, classify.Exception{
				Record:  rec,
				Reasons: []classify.Reason{classify.ReasonDuplicateInBatch},
			})
			moved++
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, rec)
	}
	return classify.Result{Valid: kept, Exceptions: exceptions}, moved
}
