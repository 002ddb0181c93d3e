package sim

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is wrapped by every InvalidInputError so callers can test with errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError names the flow input that was rejected before simulation started.
type InvalidInputError struct {
	Index  int    // position of the offending element in the input
	Value  string // the offending value as given
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input at flow %d (%q): %s", e.Index, e.Value, e.Reason)
}

func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}
