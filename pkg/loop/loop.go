// Package loop implements the Loop Manager (C6): bounded iterative
// sub-sequences tracked per execution, with iteration and wall-clock
// termination guarantees.
package loop

import (
	"context"
	"sync"
	"time"

	"github.com/flowcraft/workflow-engine/pkg/observer"
	"github.com/flowcraft/workflow-engine/pkg/types"
)

// Default bounds (section 3), used when a workflow's loop edge does not
// specify its own.
const (
	DefaultMaxIterations    = 100
	DefaultMaxExecutionTime = 30 * time.Second
)

// TerminationReason names why a loop stopped.
type TerminationReason string

const (
	ReasonMaxIterations TerminationReason = "max_iterations"
	ReasonTimeout       TerminationReason = "timeout"
	ReasonNonLoopEdge   TerminationReason = "non_loop_edge"
	ReasonCompleted     TerminationReason = "completed"
)

// Result is returned by every state-transition operation: the next node to
// schedule (if any), whether the execution is still inside the loop, and —
// once the loop has ended — why.
type Result struct {
	NextNode   string
	IsLoop     bool
	Terminated bool
	Reason     TerminationReason
	Iteration  int
}

// Manager tracks one LoopState per execution. Per spec's locking
// discipline, Manager's lock is acquired (and released) independently of
// the state manager's — the two are never held simultaneously across a
// node invocation.
type Manager struct {
	mu    sync.Mutex
	loops map[string]*types.LoopState

	observers *observer.Manager
}

// New creates a loop manager. observers may be nil.
func New(observers *observer.Manager) *Manager {
	return &Manager{loops: make(map[string]*types.LoopState), observers: observers}
}

// HasLoopEdge reports whether a runtime edge map declared a "loop" branch.
func HasLoopEdge(edgeMap types.EdgeMap) bool {
	return edgeMap.Has("loop")
}

// IsInLoop reports whether executionID currently has an active loop.
func (m *Manager) IsInLoop(executionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok := m.loops[executionID]
	return ok && state.IsActive
}

// StartLoop begins a new loop for executionID. It fails if a loop is
// already active for this execution (nested loops are disallowed) or if
// sequence is empty.
func (m *Manager) StartLoop(executionID, nodeID string, sequence []string, maxIterations int, maxExecutionTime time.Duration) (Result, error) {
	if len(sequence) == 0 {
		return Result{}, ErrEmptySequence
	}
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	if maxExecutionTime <= 0 {
		maxExecutionTime = DefaultMaxExecutionTime
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.loops[executionID]; ok && existing.IsActive {
		return Result{}, ErrAlreadyInLoop
	}

	state := &types.LoopState{
		NodeID:           nodeID,
		Iteration:        0,
		MaxIterations:    maxIterations,
		Sequence:         append([]string(nil), sequence...),
		SequenceIndex:    0,
		IsActive:         true,
		StartTime:        time.Now(),
		MaxExecutionTime: maxExecutionTime,
	}
	m.loops[executionID] = state
	m.notify(executionID, observer.EventLoopStarted, state)

	return Result{NextNode: state.Sequence[0], IsLoop: true, Iteration: 0}, nil
}

// ContinueLoop advances the state machine of section 4.6 after
// completedNodeID finished and produced edgeMap.
func (m *Manager) ContinueLoop(executionID, completedNodeID string, edgeMap types.EdgeMap) Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.loops[executionID]
	if !ok || !state.IsActive {
		return Result{Terminated: true, Reason: ReasonCompleted}
	}

	if state.SequenceIndex >= 0 {
		// Body@i: advance to the next body element, or fall back to the
		// loop node once the body is exhausted.
		state.SequenceIndex++
		if state.SequenceIndex < len(state.Sequence) {
			return Result{NextNode: state.Sequence[state.SequenceIndex], IsLoop: true, Iteration: state.Iteration}
		}
		state.SequenceIndex = -1
		return Result{NextNode: state.NodeID, IsLoop: true, Iteration: state.Iteration}
	}

	// AtLoopNode: completedNodeID just re-ran the loop-initiating node.
	switch {
	case edgeMap.Has("loop"):
		state.Iteration++
		if state.Iteration >= state.MaxIterations {
			m.terminate(executionID, ReasonMaxIterations)
			return Result{Terminated: true, Reason: ReasonMaxIterations, Iteration: state.Iteration}
		}
		if time.Since(state.StartTime) > state.MaxExecutionTime {
			m.terminate(executionID, ReasonTimeout)
			return Result{Terminated: true, Reason: ReasonTimeout, Iteration: state.Iteration}
		}
		state.SequenceIndex = 0
		m.notify(executionID, observer.EventLoopIteration, state)
		return Result{NextNode: state.Sequence[0], IsLoop: true, Iteration: state.Iteration}

	case hasNonLoopEdge(edgeMap):
		m.terminate(executionID, ReasonNonLoopEdge)
		return Result{Terminated: true, Reason: ReasonNonLoopEdge, Iteration: state.Iteration}

	default:
		m.terminate(executionID, ReasonCompleted)
		return Result{Terminated: true, Reason: ReasonCompleted, Iteration: state.Iteration}
	}
}

func hasNonLoopEdge(edgeMap types.EdgeMap) bool {
	for _, name := range edgeMap.Order() {
		if name != "loop" {
			return true
		}
	}
	return false
}

// terminate clears loop state and fires the loop_terminated event. Caller
// must hold m.mu.
func (m *Manager) terminate(executionID string, reason TerminationReason) {
	state := m.loops[executionID]
	delete(m.loops, executionID)
	if m.observers != nil && m.observers.HasObservers() {
		m.observers.Notify(context.Background(), observer.Event{
			Type:        observer.EventLoopTerminated,
			ExecutionID: executionID,
			NodeID:      nodeIDOf(state),
			Metadata:    map[string]interface{}{"reason": string(reason)},
		})
	}
}

// ExtractLoopSequence reads a route result's next-nodes as the loop body,
// the helper named in section 4.6.
func ExtractLoopSequence(route types.RouteResult) []string {
	return append([]string(nil), route.NextNodes...)
}

// ValidateLoopSequence checks a candidate loop body against the AST,
// returning accumulated faults (never partial — an empty slice means the
// sequence is usable).
func ValidateLoopSequence(sequence []string, ast *types.AST) []string {
	var problems []string
	if len(sequence) == 0 {
		problems = append(problems, "loop body must not be empty")
	}
	for _, nodeID := range sequence {
		if _, ok := ast.ByID[nodeID]; !ok {
			problems = append(problems, "loop body references unknown node "+nodeID)
		}
	}
	return problems
}

// Stats is a snapshot of a loop's bookkeeping for introspection.
type Stats struct {
	NodeID        string
	Iteration     int
	MaxIterations int
	SequenceIndex int
	IsActive      bool
	Elapsed       time.Duration
}

// GetLoopStats returns a point-in-time snapshot, or false if no loop is
// tracked for executionID.
func (m *Manager) GetLoopStats(executionID string) (Stats, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.loops[executionID]
	if !ok {
		return Stats{}, false
	}
	return Stats{
		NodeID:        state.NodeID,
		Iteration:     state.Iteration,
		MaxIterations: state.MaxIterations,
		SequenceIndex: state.SequenceIndex,
		IsActive:      state.IsActive,
		Elapsed:       time.Since(state.StartTime),
	}, true
}

// Cleanup removes any loop state tracked for executionID.
func (m *Manager) Cleanup(executionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.loops, executionID)
}

// Clear removes every tracked loop across all executions.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loops = make(map[string]*types.LoopState)
}

func (m *Manager) notify(executionID string, eventType observer.EventType, state *types.LoopState) {
	if m.observers == nil || !m.observers.HasObservers() {
		return
	}
	m.observers.Notify(context.Background(), observer.Event{
		Type:        eventType,
		ExecutionID: executionID,
		NodeID:      state.NodeID,
		Metadata:    map[string]interface{}{"iteration": state.Iteration},
	})
}

func nodeIDOf(state *types.LoopState) string {
	if state == nil {
		return ""
	}
	return state.NodeID
}
