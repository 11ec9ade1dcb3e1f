// Package reconcile checks that every source row of a batch ends up in
// exactly one of the ledger or the exception report.
package reconcile

import (
	"errors"
	"fmt"
)

// Stages at which conservation is checked.
const (
	StageClassification = "classification"
	StageOutput         = "output"
)

// ErrMismatch is wrapped by every MismatchError.
var ErrMismatch = errors.New("row count mismatch")

// Result summarizes one processed source file.
type Result struct {
	SourceFile string
	Identifier string

	SourceRows      int
	ValidRows       int
	ExceptionRows   int
	OutputRows      int
	RepairedRows    int
	BatchDuplicates int
	PriorDuplicates int

	OutputPath    string
	ExceptionPath string
	ArchivePath   string
	MissingPrior  []string
}

// MismatchError means rows were lost or duplicated between stages. It is the
// only failure that stops a whole run.
type MismatchError struct {
	SourceFile    string
	Stage         string
	SourceRows    int
	OutputRows    int
	ExceptionRows int
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s: %s stage: %d source rows != %d output + %d exception rows",
		e.SourceFile, e.Stage, e.SourceRows, e.OutputRows, e.ExceptionRows)
}

func (e *MismatchError) Unwrap() error { return ErrMismatch }

// ErrorKind classifies the error for the run history.
func (e *MismatchError) ErrorKind() string { return "reconciliation" }

// CheckPartition verifies valid + exceptions == source before any output is
// written.
func CheckPartition(sourceFile string, sourceRows, validRows, exceptionRows int) error {
	if sourceRows == validRows+exceptionRows {
		return nil
	}
	return &MismatchError{
		SourceFile:    sourceFile,
		Stage:         StageClassification,
		SourceRows:    sourceRows,
		OutputRows:    validRows,
		ExceptionRows: exceptionRows,
	}
}

// Validate verifies source == written ledger lines + exceptions.
func Validate(r Result) error {
	if r.SourceRows == r.OutputRows+r.ExceptionRows {
		return nil
	}
	return &MismatchError{
		SourceFile:    r.SourceFile,
		Stage:         StageOutput,
		SourceRows:    r.SourceRows,
		OutputRows:    r.OutputRows,
		ExceptionRows: r.ExceptionRows,
	}
}

// IsMismatch reports whether err carries a MismatchError.
func IsMismatch(err error) bool {
	var mismatch *MismatchError
	return errors.As(err, &mismatch)
}
