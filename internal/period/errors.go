package period

import (
	"errors"
	"fmt"
)

// ErrMalformedHeader is wrapped by every MalformedHeaderError.
var ErrMalformedHeader = errors.New("malformed header")

// MalformedHeaderError reports a preamble that does not carry an entity name
// or a parsable run date.
type MalformedHeaderError struct {
	Line   int
	Value  string
	Reason string
}

func (e *MalformedHeaderError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("malformed header line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("malformed header line %d: %s (%q)", e.Line, e.Reason, e.Value)
}

func (e *MalformedHeaderError) Unwrap() error { return ErrMalformedHeader }

// ErrorKind classifies the error for the run history.
func (e *MalformedHeaderError) ErrorKind() string { return "malformed_input" }
