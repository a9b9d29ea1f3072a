// Package executor implements the Node Executor (C7): the single entry
// point that validates a node's authored configuration, instantiates it
// from the registry, wires it to per-execution state, and classifies any
// failure into the structured error model.
package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	perrors "github.com/flowcraft/workflow-engine/pkg/errors"
	"github.com/flowcraft/workflow-engine/pkg/logging"
	"github.com/flowcraft/workflow-engine/pkg/observer"
	"github.com/flowcraft/workflow-engine/pkg/registry"
	"github.com/flowcraft/workflow-engine/pkg/state"
	"github.com/flowcraft/workflow-engine/pkg/types"
)

// Executor is the C7 node executor.
type Executor struct {
	registry  *registry.Registry
	state     *state.Manager
	errors    *perrors.Manager
	logger    *logging.Logger
	observers *observer.Manager
}

// New creates an executor wired to the given registry, state manager, and
// error manager. logger may be nil, in which case a default logger is used.
// observers may be nil, in which case node execution is not reported to any
// observer.
func New(reg *registry.Registry, st *state.Manager, errMgr *perrors.Manager, logger *logging.Logger, observers *observer.Manager) *Executor {
	if logger == nil {
		logger = logging.New(logging.DefaultConfig())
	}
	return &Executor{registry: reg, state: st, errors: errMgr, logger: logger, observers: observers}
}

// ExecuteNode runs the seven-step sequence of section 4.7 and always
// returns a usable EdgeMap — every failure, including arguments that make
// execution impossible to attempt, is reported as an "error" edge rather
// than a Go error.
func (e *Executor) ExecuteNode(nodeID string, nodeConfig map[string]interface{}, workflowID, executionID string, inputs []interface{}) (result types.EdgeMap) {
	ctxFields := perrors.Context{NodeID: nodeID, ExecutionID: executionID, WorkflowID: workflowID}
	nodeType, _ := nodeConfig["type"].(string)
	startTime := time.Now()

	e.notify(observer.EventNodeStart, observer.StatusStarted, workflowID, executionID, nodeID, nodeType, startTime, types.EdgeMap{}, nil)
	defer func() {
		eventType, status := observer.EventNodeSuccess, observer.StatusSuccess
		var resultErr error
		if producer, ok := result.Get("error"); ok {
			eventType, status = observer.EventNodeFailure, observer.StatusFailure
			if asErr, ok := producer().(error); ok {
				resultErr = asErr
			}
		}
		e.notify(eventType, status, workflowID, executionID, nodeID, nodeType, startTime, result, resultErr)
	}()

	// Step 1: validate type.
	if nodeType == "" {
		return e.errorEdge(perrors.CategoryValidation, perrors.CodeMissingNodeType,
			fmt.Sprintf("node %q has no type", nodeID), ctxFields, executionID)
	}

	// Step 2: look up factory.
	factory, ok := e.registry.Get(nodeType)
	if !ok {
		return e.errorEdge(perrors.CategoryValidation, perrors.CodeUnknownNodeType,
			fmt.Sprintf("node %q has unregistered type %q", nodeID, nodeType), ctxFields, executionID)
	}

	// Step 3: instantiate.
	node, err := factory.New()
	if err != nil {
		return e.errorEdge(perrors.CategoryRuntime, perrors.CodeNodeInstantiationFailed,
			fmt.Sprintf("failed to instantiate node %q: %v", nodeID, err), ctxFields, executionID)
	}

	// Step 4: confirm state is reachable before invoking the node.
	if _, err := e.state.Get(executionID); err != nil {
		return e.errorEdge(perrors.CategoryRuntime, perrors.CodeStateRetrievalFailed,
			fmt.Sprintf("failed to read state for execution %q: %v", executionID, err), ctxFields, executionID)
	}

	// Step 5: build the execution context and invoke.
	ctx := newExecutionContext(workflowID, nodeID, executionID, inputs, e.state)
	config := configWithoutType(nodeConfig)

	result, execErr := node.Execute(ctx, config)
	if execErr != nil {
		// Step 7: classify a thrown/returned failure.
		return e.handleNodeFailure(execErr, ctxFields, executionID)
	}

	// Step 6: a write during Execute may have failed; the node's own
	// result still stands, downgraded to a warning-severity error edge.
	if ctx.writeErr != nil {
		e.errors.Create(perrors.CategoryRuntime, perrors.CodeStateUpdateFailed,
			fmt.Sprintf("state update failed for node %q: %v", nodeID, ctx.writeErr),
			perrors.SeverityWarning, ctxFields)
		result.Merge(e.syntheticErrorEdge(ctx.writeErr))
	}

	return result
}

// handleNodeFailure implements step 7: classify through C1 as
// node_execution_failed, record a compact summary under state.lastError,
// and return a single "error" edge.
func (e *Executor) handleNodeFailure(execErr error, ctxFields perrors.Context, executionID string) types.EdgeMap {
	structured, _ := e.errors.HandleExecutionError(execErr, ctxFields)

	summary := map[string]interface{}{
		"id":        structured.ID,
		"code":      structured.Code,
		"message":   structured.Message,
		"timestamp": structured.Timestamp,
	}
	if updErr := e.state.Update(executionID, map[string]interface{}{"lastError": summary}); updErr != nil {
		e.errors.Create(perrors.CategoryRuntime, perrors.CodeErrorStateUpdateFailed,
			fmt.Sprintf("failed to record lastError for execution %q: %v", executionID, updErr),
			perrors.SeverityWarning, ctxFields)
	}

	return e.syntheticErrorEdge(structured)
}

// notify reports a node lifecycle event if an observer manager is wired and
// has at least one registered observer.
func (e *Executor) notify(eventType observer.EventType, status observer.ExecutionStatus, workflowID, executionID, nodeID, nodeType string, startTime time.Time, result types.EdgeMap, err error) {
	if e.observers == nil || !e.observers.HasObservers() {
		return
	}
	e.observers.Notify(context.Background(), observer.Event{
		Type:        eventType,
		Status:      status,
		Timestamp:   time.Now(),
		ExecutionID: executionID,
		WorkflowID:  workflowID,
		NodeID:      nodeID,
		NodeType:    types.NodeType(nodeType),
		StartTime:   startTime,
		ElapsedTime: time.Since(startTime),
		Result:      result,
		Error:       err,
	})
}

func (e *Executor) errorEdge(category perrors.Category, code, message string, ctxFields perrors.Context, executionID string) types.EdgeMap {
	structured := e.errors.Create(category, code, message, perrors.SeverityError, ctxFields)
	if e.state != nil && executionID != "" {
		_ = e.state.Update(executionID, map[string]interface{}{"lastError": map[string]interface{}{
			"id": structured.ID, "code": structured.Code, "message": structured.Message, "timestamp": structured.Timestamp,
		}})
	}
	return e.syntheticErrorEdge(structured)
}

func (e *Executor) syntheticErrorEdge(err error) types.EdgeMap {
	em := types.NewEdgeMap()
	em.Set("error", types.StaticEdge(err))
	return em
}

// configWithoutType copies a node's authored config, dropping the "type"
// discriminator before it reaches the node's Execute.
func configWithoutType(nodeConfig map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(nodeConfig))
	for k, v := range nodeConfig {
		if k == "type" {
			continue
		}
		out[k] = v
	}
	return out
}

// CreateExecution initializes a fresh execution and returns its id.
func (e *Executor) CreateExecution(workflowID string, initial map[string]interface{}) (string, error) {
	executionID := uuid.NewString()
	if err := e.state.Initialize(executionID, initial); err != nil {
		return "", err
	}
	return executionID, nil
}

// CompleteExecution clears any loop state (via loopCleanup, which the
// engine driver supplies since this package does not depend on pkg/loop)
// and schedules state cleanup after delay.
func (e *Executor) CompleteExecution(executionID string, cleanupDelay time.Duration, loopCleanup func(string)) error {
	if loopCleanup != nil {
		loopCleanup(executionID)
	}
	e.errors.CleanupByExecution(executionID)
	return e.state.ScheduleCleanup(executionID, cleanupDelay)
}

// GetFinalState returns the current (final, once the execution has ended)
// state for an execution.
func (e *Executor) GetFinalState(executionID string) (map[string]interface{}, error) {
	return e.state.Get(executionID)
}
