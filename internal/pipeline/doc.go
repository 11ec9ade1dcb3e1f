// Package pipeline wires the record stages together.
//
// Processor turns one source report into a ledger, an exception report and
// an archived source, checking row conservation before anything is archived.
// Runner drains the source directory one file at a time under a
// single-instance lock, journaling each outcome. Per-file failures are
// logged and skipped; a reconciliation mismatch stops the whole run.
package pipeline
