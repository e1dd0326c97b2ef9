package models

import (
	"errors"
	"strings"
)

// Sentinel errors shared across the storage layer, the engine, and the
// command surface. The messages are the exact strings rendered to users, so
// they deviate from the usual lowercase convention.
var (
	// ErrNotRepository means no .wires database exists in the working
	// directory or any parent.
	ErrNotRepository = errors.New("Not a wires repository (run 'wires init')")

	// ErrAlreadyInitialized means init found an existing .wires directory.
	ErrAlreadyInitialized = errors.New("already initialized")

	// ErrWireNotFound means the referenced wire id does not exist.
	ErrWireNotFound = errors.New("Wire not found")

	// ErrInvalidStatus means a status label is outside the known set.
	ErrInvalidStatus = errors.New("Invalid status")

	// ErrWireExists means an insert collided with an existing wire id.
	ErrWireExists = errors.New("wire id already exists")
)

// CycleError reports a rejected dependency edge together with one concrete
// path that would have closed the loop. The path begins and ends at the
// dependent wire.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return "Circular dependency detected: " + strings.Join(e.Path, " -> ")
}
