package timeparse

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned for blank input.
	ErrEmptyInput = errors.New("empty time")
	// ErrInvalidFormat is returned when no rule accepts the input.
	ErrInvalidFormat = errors.New("invalid time format")
)

// ParseError records the text that failed to parse.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("parse time %q: %s", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func invalid(input string) error {
	return &ParseError{Input: input, Err: ErrInvalidFormat}
}
