// Package logging assembles structured slog loggers and formatting helpers used
// across ledgerconv.
//
// It owns the console and JSON handlers, fans records out to stdout and the
// per-run log file, and exposes the standardized field keys every component
// uses (component, run_id, source_file, period, event_type). Warnings and
// errors are emitted through WarnWithContext and ErrorWithContext so each
// entry carries a cause, an impact and a hint for the operator.
//
// The package also provides a no-op logger for tests and wiring code that
// cannot fail, plus retention pruning for old run logs.
package logging
