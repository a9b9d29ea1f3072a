// Package observer provides an event-driven observer pattern for workflow
// execution.
//
// # Overview
//
// The observer package lets callers monitor workflow and node execution
// without coupling to the engine's internals: every stage of a run that
// matters to an outside watcher (workflow start/end, node start/success/
// failure, loop start/iteration/termination, state lifecycle) is reported
// as a single Event type, and an Observer implements one method to receive
// all of them.
//
// # Observer Interface
//
//	type Observer interface {
//	    OnEvent(ctx context.Context, event Event)
//	}
//
// Event carries a Type (one of the EventXxx constants), a Status, the
// workflow/execution/node identifiers in scope, timing information, and a
// free-form Metadata map for event-specific detail — a loop termination's
// reason, for instance, arrives as Metadata["reason"].
//
// # Manager
//
// Manager fans a single Notify call out to every registered Observer,
// calling each one in its own goroutine so a slow or panicking observer
// cannot block or crash the execution it is watching:
//
//	mgr := observer.NewManager()
//	mgr.Register(observer.NewConsoleObserver())
//	mgr.Register(myTelemetryObserver)
//	mgr.Notify(ctx, observer.Event{Type: observer.EventWorkflowStart, ExecutionID: id})
//
// # Built-in Observers
//
// NoOpObserver discards every event; it is the safe default when nothing
// is configured. ConsoleObserver logs each event through a Logger
// (NewDefaultLogger writes to stdout/stderr via the standard log package;
// NoOpLogger discards everything).
//
// # Error Handling
//
// Notify recovers a panicking observer's goroutine rather than letting it
// take down the execution; other observers still receive the event.
//
// # Thread Safety
//
// Observer.OnEvent may be called concurrently from multiple goroutines —
// implementations must synchronize their own state.
package observer
