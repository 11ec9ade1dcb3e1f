// Package classify partitions a repaired batch into valid records and
// exceptions.
//
// Three predicates apply to every record and are not exclusive: an
// organization keyword in the first name, a blank address line 1, and a
// hyphenated tax id. When a real lookup.Directory is configured, matched
// records take the directory's names and unmatched records are flagged as
// invalid tax ids too.
package classify
