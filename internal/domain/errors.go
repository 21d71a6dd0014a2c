package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptySeries is returned when a series has no comparable (non-NaN) values.
	ErrEmptySeries = errors.New("empty series")

	// ErrLengthMismatch is returned when labels and values differ in length.
	ErrLengthMismatch = errors.New("labels and values differ in length")

	// ErrInvalidValue matches every InvalidValueError via errors.Is.
	ErrInvalidValue = errors.New("invalid value")
)

// InvalidValueError reports an observation that is not numeric.
type InvalidValueError struct {
	Label string
	Value any
	Err   error
}

func (e *InvalidValueError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid value %q for %q: %v", fmt.Sprint(e.Value), e.Label, e.Err)
	}
	return fmt.Sprintf("invalid value %q for %q: not numeric (%T)", fmt.Sprint(e.Value), e.Label, e.Value)
}

func (e *InvalidValueError) Unwrap() error { return e.Err }

func (e *InvalidValueError) Is(target error) bool { return target == ErrInvalidValue }
