package model

import "errors"

// Error taxonomy shared by the store, the serialization engine and the
// outer surfaces. Callers match with errors.Is; messages wrap these with
// context.
var (
	// ErrValidation reports unacceptable user input such as empty or
	// over-length task text.
	ErrValidation = errors.New("validation failed")

	// ErrUnrecognizedFormat reports a payload that matches none of the
	// known import grammars.
	ErrUnrecognizedFormat = errors.New("unrecognized format")

	// ErrNotFound reports a task id that does not exist in the set.
	ErrNotFound = errors.New("not found")
)
