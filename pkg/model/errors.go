package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by a record store that has no set for a date.
	ErrNotFound = errors.New("record set not found")

	// ErrMalformedRecord marks stored data that cannot be decoded.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrMissingDayStart means a stored day has no start time configured.
	// Nothing can be computed for such a day.
	ErrMissingDayStart = errors.New("no day start configured")

	// ErrInvalidClockOut rejects a clock-out before the day start or before
	// the person clocked in.
	ErrInvalidClockOut = errors.New("invalid clock-out time")

	// ErrEarlyNotConfirmed rejects an early clock-in the operator declined.
	ErrEarlyNotConfirmed = errors.New("early clock-in not confirmed")

	// ErrAlreadyClosed is returned when closing a record twice.
	ErrAlreadyClosed = errors.New("record already closed")

	// ErrAlreadyOpen is returned when clocking in a person twice.
	ErrAlreadyOpen = errors.New("record already open")

	// ErrUnknownPerson is returned when clocking out someone who never
	// clocked in that day.
	ErrUnknownPerson = errors.New("person has not clocked in")

	// ErrInvalidInput marks operator input that failed validation.
	ErrInvalidInput = errors.New("invalid input")
)

// MalformedRecordError describes where stored data failed to decode.
type MalformedRecordError struct {
	Source string // file path or store key
	Field  string // offending field, may be empty
	Reason string
}

func (e *MalformedRecordError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("malformed record %s: %s: %s", e.Source, e.Field, e.Reason)
	}
	return fmt.Sprintf("malformed record %s: %s", e.Source, e.Reason)
}

// Is lets errors.Is(err, ErrMalformedRecord) match.
func (e *MalformedRecordError) Is(target error) bool { return target == ErrMalformedRecord }

// InputError is a validation failure for a single operator input.
type InputError struct {
	Field string
	Value string
	Err   error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrInvalidInput) match every InputError.
func (e *InputError) Is(target error) bool { return target == ErrInvalidInput }
