package config

import (
	"time"
)

// Config holds workflow engine configuration. Of its fields, only
// MaxNodeExecutions, MaxLoopIterations and MaxLoopExecutionTime are read by
// the engine driver (engine.New takes the *Config); DefaultStateCleanupDelay
// is read by callers that construct a state manager. The parser, loop
// manager and state manager take no *Config, and no component reads
// MaxExecutionTime, MaxNodeExecutionTime, MaxNodes, MaxEdges,
// MaxParseErrors or ParallelEdgeSequences.
type Config struct {
	// Execution limits
	MaxExecutionTime     time.Duration // Maximum time for one workflow execution
	MaxNodeExecutionTime time.Duration // Maximum time for a single node invocation
	MaxNodeExecutions    int           // Circuit breaker: total node invocations per execution (0 = unlimited)

	// Loop manager defaults (section 3), overridable per loop-starting node
	MaxLoopIterations    int           // Default maxIterations for a loop
	MaxLoopExecutionTime time.Duration // Default maxExecutionTime for a loop

	// State manager
	DefaultStateCleanupDelay time.Duration // scheduleCleanup default (3 600 000 ms in the spec)

	// Parser resource limits
	MaxNodes       int // Maximum number of nodes in a parsed workflow
	MaxEdges       int // Maximum number of edges in a parsed workflow
	MaxParseErrors int // Ceiling on accumulated parse faults (0 = unlimited); the parser does not read it

	// ParallelEdgeSequences is a scheduling-policy flag, false by default.
	// No component reads it: the driver always runs a sequence's elements in
	// order within one execution, per section 5's single-threaded model,
	// whatever its value.
	ParallelEdgeSequences bool
}

// Default returns a Config with the engine's baseline tunables.
func Default() *Config {
	return &Config{
		MaxExecutionTime:         5 * time.Minute,
		MaxNodeExecutionTime:     30 * time.Second,
		MaxNodeExecutions:        0,

		MaxLoopIterations:    100,
		MaxLoopExecutionTime: 30 * time.Second,

		DefaultStateCleanupDelay: time.Duration(3_600_000) * time.Millisecond,

		MaxNodes:       1000,
		MaxEdges:       5000,
		MaxParseErrors: 0,

		ParallelEdgeSequences: false,
	}
}

// Development returns a Config with relaxed limits, useful for local
// experimentation where runaway loops should still terminate, just slower.
func Development() *Config {
	cfg := Default()
	cfg.MaxExecutionTime = 30 * time.Minute
	cfg.MaxLoopExecutionTime = 5 * time.Minute
	cfg.MaxLoopIterations = 10000
	return cfg
}

// ValidationLimits returns a Config with strict resource ceilings, suitable
// for validating untrusted workflow definitions before they run.
func ValidationLimits() *Config {
	cfg := Default()
	cfg.MaxNodes = 200
	cfg.MaxEdges = 1000
	cfg.MaxParseErrors = 50
	cfg.MaxNodeExecutions = 10000
	return cfg
}

// Validate checks that the configuration values are internally consistent.
func (c *Config) Validate() error {
	if c.MaxExecutionTime < 0 {
		return ErrInvalidExecutionTime
	}
	if c.MaxNodeExecutionTime < 0 {
		return ErrInvalidNodeExecutionTime
	}
	if c.MaxLoopIterations < 0 {
		return ErrInvalidMaxIterations
	}
	if c.MaxLoopExecutionTime < 0 {
		return ErrInvalidLoopExecutionTime
	}
	if c.DefaultStateCleanupDelay < 0 {
		return ErrInvalidCleanupDelay
	}
	if c.MaxNodes < 0 || c.MaxEdges < 0 {
		return ErrInvalidResourceLimit
	}
	return nil
}

// Clone creates a copy of the configuration safe for independent mutation.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
