package domain

import (
	"errors"
	"fmt"
)

// ErrNoRecords signals that a summarizer received no records to work with.
// Callers should treat this as "no attribution available", a different
// severity from a poor reconciliation (large AttributionAccuracy).
var ErrNoRecords = errors.New("no attribution records")

// InsufficientDataError is returned when alignment leaves fewer common
// dates than the minimum required for attribution. It is an expected,
// recoverable condition.
type InsufficientDataError struct {
	Dates   int
	Minimum int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient aligned data: %d common dates, need at least %d", e.Dates, e.Minimum)
}

// MalformedInputError is returned when a required date axis is missing or
// no common asset universe can be formed. Input names the offending input.
type MalformedInputError struct {
	Input  string
	Reason string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed input %q: %s", e.Input, e.Reason)
}
