package engine

import "errors"

// Error kinds surfaced by the engine. I/O failures are wrapped OS errors and
// carry no sentinel of their own.
var (
	// ErrInvalidArgument marks rejected configuration or parameters. The
	// operation had no side effects.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidState marks an operation invoked while the engine is closed.
	ErrInvalidState = errors.New("engine not open")

	// ErrCorrupted marks a structurally damaged data or ledger file.
	ErrCorrupted = errors.New("corrupted storage")
)
