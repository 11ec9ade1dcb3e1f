// Package lookup provides the optional record directory used to enrich
// contract rows by tax identifier.
//
// The pipeline depends only on the Directory interface. Nop is the default
// and disables enrichment; SQLiteDirectory reads a persons table keyed by
// ssn.
package lookup
