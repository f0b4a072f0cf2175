package common

import "errors"

// Error taxonomy shared by the store, codec and persistence layers.
// Callers match with errors.Is; concrete errors wrap one of these.
var (
	// ErrAllocation is returned when a requested buffer cannot be allocated,
	// e.g. a declared length that does not fit in an int.
	ErrAllocation = errors.New("allocation failed")

	// ErrInvalidArgument is returned for a nil or destroyed store, or a nil blob.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrIO is returned when a file or stream cannot be opened, read or
	// written, including truncated input.
	ErrIO = errors.New("i/o error")
)
