package service

import "errors"

var (
	// ErrNoActiveUser is returned when an operation that needs the active
	// account runs before anyone has unlocked a vault.
	ErrNoActiveUser = errors.New("no active user")

	// ErrNotFound is returned when a vault item, folder, collection, or
	// send with the requested id does not exist in the local store.
	ErrNotFound = errors.New("item not found")

	// ErrUnsupportedFormat is returned by the export service when asked
	// for a format it does not produce.
	ErrUnsupportedFormat = errors.New("unsupported export format")
)
