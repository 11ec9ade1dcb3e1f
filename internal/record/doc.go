// Package record reads contract report files into batches and repairs rows
// whose columns slipped left because an upstream address field was missing.
//
// A Record keeps its cells as ordered slots aligned with the batch header.
// Semantic columns are located through a Schema, so repair is a plain shift
// over the slot slice and classification never depends on column labels.
package record
