package entity

import "errors"

// Domain-specific errors for entity operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrEntityNotFound is returned when an entity lookup fails.
	ErrEntityNotFound = errors.New("entity: not found")

	// ErrDuplicateEntity is returned when registering an entity whose
	// unique ID is already taken.
	ErrDuplicateEntity = errors.New("entity: duplicate unique id")

	// ErrNotCommandable is returned when a command targets an entity
	// that does not accept commands (e.g., a sensor).
	ErrNotCommandable = errors.New("entity: not commandable")

	// ErrInvalidCommand is returned when a command payload cannot be parsed.
	ErrInvalidCommand = errors.New("entity: invalid command payload")
)
