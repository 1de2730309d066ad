package parser

import (
	"errors"
	"strconv"
)

var (
	// ErrInvalidNumberFormat is returned when a raw value is not a decimal numeral.
	ErrInvalidNumberFormat = errors.New("invalid number format")
)

// FormatError records why a raw value could not be parsed as a number.
// It always unwraps to ErrInvalidNumberFormat.
type FormatError struct {
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	return "parse number " + strconv.Quote(e.Input) + ": " + e.Reason
}

func (e *FormatError) Unwrap() error {
	return ErrInvalidNumberFormat
}

func formatError(input, reason string) error {
	return &FormatError{Input: input, Reason: reason}
}
