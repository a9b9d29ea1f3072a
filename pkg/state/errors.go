package state

import "errors"

// Sentinel errors for per-execution state operations (C2, section 4.2).
var (
	ErrStateAlreadyExists = errors.New("state already exists for this execution id")
	ErrStateNotFound      = errors.New("state not found for this execution id")
)
