// Package config loads, normalizes, and validates ledgerconv configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// LOG_LEVEL. The Config type centralizes every directory the pipeline reads
// from or writes to, the optional header/trailer records of the ledger, the
// exception file format, and the optional record directory used to enrich
// names by tax identifier.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config
