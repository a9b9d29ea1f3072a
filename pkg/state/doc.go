// Package state implements the workflow engine's per-execution state
// manager (C2): isolated, mutation-safe state keyed by executionId, with
// deep-merge writes, deep-clone reads, and lifecycle-bound cleanup.
//
// # Overview
//
// Every node invocation within one execution reads and writes the same
// state object; the state manager is the only channel through which nodes
// communicate across calls. Different executions never share state: each
// executionId gets its own mutex-guarded entry, so operations on distinct
// executions proceed fully in parallel. A single global lock would
// serialize every execution in the process, which this package never does.
//
// # Basic Usage
//
//	import "github.com/flowcraft/workflow-engine/pkg/state"
//
//	sm := state.New(nil, 0) // nil observers, default cleanup delay
//
//	if err := sm.Initialize("exec-1", map[string]interface{}{"count": 0}); err != nil {
//	    // ErrStateAlreadyExists if exec-1 is already live
//	}
//
//	if err := sm.Update("exec-1", map[string]interface{}{"count": 1}); err != nil {
//	    // ErrStateNotFound
//	}
//
//	snapshot, err := sm.Get("exec-1") // a deep clone; safe to mutate
//
// # Merge Semantics
//
// Update deep-merges a patch into the stored state:
//
//   - two mappings merge recursively key-by-key
//   - anything else, including list-vs-list, is replaced wholesale
//   - an explicit null assigns null; it is never treated as "no write"
//
// # Lifecycle
//
// Cleanup destroys an execution's state immediately. ScheduleCleanup
// arranges automatic cleanup after a delay (3 600 000 ms by default,
// matching the spec), cancellable by an explicit Cleanup call before it
// fires. Every lifecycle transition (initialize/update/cleanup/clear) fans
// out through an optional *observer.Manager as
// StateInitialized/StateUpdated/StateCleanedUp/AllStatesCleared/
// CleanupError events.
//
// # Thread Safety
//
// Initialize/Get/Update/GetProperty/SetProperty/Cleanup for a given
// executionId execute in a serialized order relative to each other;
// operations on different executionIds never block one another.
package state
