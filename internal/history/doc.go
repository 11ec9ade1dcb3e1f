// Package history keeps a SQLite journal of processed source files.
//
// Each Runner pass records one entry per file with its counts, status and
// the run id shared by every entry of that pass. The journal answers two
// questions: what ran recently (the history command) and whether an output
// identifier has already been produced successfully (re-run warnings).
//
// Schema changes bump schemaVersion in schema.go; users delete the database
// to adopt the new schema.
package history
