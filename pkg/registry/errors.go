package registry

import "errors"

var (
	// ErrInvalidMetadata is returned when a factory's Metadata() has a blank
	// id, name, or version.
	ErrInvalidMetadata = errors.New("registry: metadata must have non-empty id, name, and version")

	// ErrVersionConflict is returned when registering a factory whose id is
	// already registered under a different version.
	ErrVersionConflict = errors.New("registry: id already registered under a different version")

	// ErrNodeNotFound is returned by GetInstance when no factory is
	// registered for the requested id.
	ErrNodeNotFound = errors.New("registry: no node registered for id")
)
