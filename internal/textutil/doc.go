// Package textutil holds the small string helpers shared by the record
// pipeline: fixed-width fitting, character stripping, digit extraction and
// locale-independent uppercasing.
//
// Widths are measured in runes so multi-byte names never split a character.
package textutil
