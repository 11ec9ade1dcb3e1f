package classify

import (
	"strings"

	"ledgerconv/internal/record"
)

// Reason is an exception reason code.
type Reason string

const (
	ReasonOrganizationKeyword    Reason = "organization-keyword"
	ReasonMissingAddress         Reason = "missing-address"
	ReasonInvalidTaxID           Reason = "invalid-tax-id"
	ReasonDuplicateInBatch       Reason = "duplicate-in-batch"
	ReasonDuplicateInPriorPeriod Reason = "duplicate-in-prior-period"
)

var reasonComments = map[Reason]string{
	ReasonOrganizationKeyword:    "This is an Organisation TaxID.",
	ReasonMissingAddress:         "Missing Line1 Address.",
	ReasonInvalidTaxID:           "Invalid Tax ID or Tax ID not found in database.",
	ReasonDuplicateInBatch:       "Duplicate of an earlier row in this file",
	ReasonDuplicateInPriorPeriod: "Exists in Previous file",
}

// Comment returns the human-readable text recorded for r.
func (r Reason) Comment() string {
	if comment, ok := reasonComments[r]; ok {
		return comment
	}
	return string(r)
}

// Exception is a record tagged with the reasons it was rejected.
type Exception struct {
	Record  record.Record
	Reasons []Reason
}

// Add appends reason unless it is already present.
func (e *Exception) Add(reason Reason) {
	for _, existing := range e.Reasons {
		if existing == reason {
			return
		}
	}
	e.Reasons = append(e.Reasons, reason)
}

// Has reports whether reason applies.
func (e Exception) Has(reason Reason) bool {
	for _, existing := range e.Reasons {
		if existing == reason {
			return true
		}
	}
	return false
}

// ReasonCodes joins the reason codes with ";".
func (e Exception) ReasonCodes() string {
	codes := make([]string, len(e.Reasons))
	for i, reason := range e.Reasons {
		codes[i] = string(reason)
	}
	return strings.Join(codes, ";")
}

// Comments concatenates the reason comments with single spaces.
func (e Exception) Comments() string {
	comments := make([]string, len(e.Reasons))
	for i, reason := range e.Reasons {
		comments[i] = reason.Comment()
	}
	return strings.Join(comments, " ")
}

// Result partitions a batch.
type Result struct {
	Valid      []record.Record
	Exceptions []Exception
}

// Total returns the number of records across both sets.
func (r Result) Total() int {
	return len(r.Valid) + len(r.Exceptions)
}
