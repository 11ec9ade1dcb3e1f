// Package dedupe removes duplicate records in two stages: within the current
// batch, then against the ledgers written for earlier periods.
//
// Duplicates are never dropped. Both stages move them from the valid set to
// the exception set, so valid plus exceptions always equals the batch size.
package dedupe
