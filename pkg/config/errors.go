package config

import "errors"

// Sentinel errors for configuration validation
var (
	ErrInvalidExecutionTime     = errors.New("invalid max execution time: must be non-negative")
	ErrInvalidNodeExecutionTime = errors.New("invalid max node execution time: must be non-negative")
	ErrInvalidMaxIterations     = errors.New("invalid max loop iterations: must be non-negative")
	ErrInvalidLoopExecutionTime = errors.New("invalid max loop execution time: must be non-negative")
	ErrInvalidCleanupDelay      = errors.New("invalid default state cleanup delay: must be non-negative")
	ErrInvalidResourceLimit     = errors.New("invalid resource limit: must be non-negative")
)
