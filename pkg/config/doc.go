// Package config centralizes the workflow engine's tunables: execution and
// loop time/iteration budgets, state cleanup delay, and parser resource
// ceilings.
//
// # Overview
//
// The engine driver is the one core package that takes a *Config at
// construction: it reads the node-execution budget and the default loop
// bounds from it. The parser, loop manager and state manager take no
// *Config (a caller passes DefaultStateCleanupDelay to state.New itself),
// and the parser resource ceilings, the overall execution time limits and
// ParallelEdgeSequences are not read by any component. There is no hidden
// global configuration object.
//
// # Basic Usage
//
//	import "github.com/flowcraft/workflow-engine/pkg/config"
//
//	cfg := config.Default()
//	driver := engine.New(exec, router, loopMgr, errMgr, cfg, observers)
//
// # Constructors
//
//   - Default: baseline tunables for normal operation
//   - Development: relaxed time/iteration budgets for local iteration
//   - ValidationLimits: strict resource ceilings for validating untrusted
//     workflow definitions before they are allowed to run
//
// # Thread Safety
//
// A *Config is expected to be read-only after construction; Clone returns
// an independent copy for callers that need to adjust one field.
package config
