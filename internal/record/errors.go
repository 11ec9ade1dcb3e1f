package record

import (
	"errors"
	"fmt"
)

// ErrMalformedInput is wrapped by every MalformedInputError.
var ErrMalformedInput = errors.New("malformed input")

// MalformedInputError reports a source file that cannot be turned into a batch.
type MalformedInputError struct {
	Path   string
	Line   int
	Reason string
	Err    error
}

func (e *MalformedInputError) Error() string {
	msg := e.Reason
	if e.Line > 0 {
		msg = fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("malformed input %s: %s", e.Path, msg)
	}
	return "malformed input: " + msg
}

func (e *MalformedInputError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformedInput}
	}
	return []error{ErrMalformedInput, e.Err}
}

// ErrorKind classifies the error for the run history.
func (e *MalformedInputError) ErrorKind() string { return "malformed_input" }
