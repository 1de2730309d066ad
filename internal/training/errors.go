package training

import "errors"

var (
	// ErrMissingKey is returned when a required key has no value.
	ErrMissingKey = errors.New("required key is not set")
	// ErrNotInteger is returned when an integer setting has a fractional value.
	ErrNotInteger = errors.New("value must be an integer")
	// ErrOutOfRange is returned when a value falls outside its allowed range.
	ErrOutOfRange = errors.New("value out of range")
)

// KeyError ties a resolution failure to the key that caused it.
type KeyError struct {
	Key string
	Err error
}

func (e *KeyError) Error() string {
	return e.Key + ": " + e.Err.Error()
}

func (e *KeyError) Unwrap() error {
	return e.Err
}
