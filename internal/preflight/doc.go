// Package preflight provides readiness checks for the filesystem paths and
// the optional record directory ledgerconv depends on.
//
// The CLI "ledgerconv check" command prints every result; "ledgerconv run"
// and "ledgerconv watch" refuse to start while any check fails. Disabled
// features are skipped.
package preflight
