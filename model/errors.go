package model

import "errors"

// Error kinds returned by the core. Recoverable bus failures are not
// listed here; they live in the bus package and never surface as tick
// failures.
var (
	ErrBadArg         = errors.New("invalid argument")
	ErrOutOfRange     = errors.New("value out of range")
	ErrNotInitialized = errors.New("not initialized")
	ErrCrcMismatch    = errors.New("snapshot CRC mismatch")
	ErrQueueFull      = errors.New("alert queue full")
	ErrFault          = errors.New("core is in fault state")
)
