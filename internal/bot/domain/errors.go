package domain

import "errors"

var (
	// ErrEmptyResult is returned when an upstream answered with a non-success
	// status, timed out, or produced no usable body.
	ErrEmptyResult = errors.New("empty result")

	// ErrDecode is returned when an upstream body is not valid JSON.
	ErrDecode = errors.New("decode error")

	// ErrNotFound is returned by the preference store for unknown users.
	ErrNotFound = errors.New("not found")

	// ErrMalformedCommand means the message carried no command token.
	ErrMalformedCommand = errors.New("malformed command")
)
