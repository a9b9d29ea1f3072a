// Package engine implements the Execution Engine Driver (C8): the
// frontier-walk loop that ties the node executor, edge router, and loop
// manager together into a single run of a parsed workflow.
package engine

import (
	"context"
	"time"

	"github.com/flowcraft/workflow-engine/pkg/config"
	perrors "github.com/flowcraft/workflow-engine/pkg/errors"
	"github.com/flowcraft/workflow-engine/pkg/executor"
	"github.com/flowcraft/workflow-engine/pkg/loop"
	"github.com/flowcraft/workflow-engine/pkg/observer"
	"github.com/flowcraft/workflow-engine/pkg/router"
	"github.com/flowcraft/workflow-engine/pkg/types"
)

// Driver is the C8 execution engine.
type Driver struct {
	executor  *executor.Executor
	router    *router.Router
	loop      *loop.Manager
	errors    *perrors.Manager
	cfg       *config.Config
	observers *observer.Manager
}

// New assembles a driver from its collaborators. None may be nil except cfg,
// which defaults to config.Default(), and observers, which may be nil if no
// workflow-level events need reporting.
func New(exec *executor.Executor, rtr *router.Router, loopMgr *loop.Manager, errMgr *perrors.Manager, cfg *config.Config, observers *observer.Manager) *Driver {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Driver{executor: exec, router: rtr, loop: loopMgr, errors: errMgr, cfg: cfg, observers: observers}
}

// Status is the terminal outcome of a RunParsedWorkflow call.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// RunResult is the driver's report of one execution.
type RunResult struct {
	Status        Status
	FinalState    map[string]interface{}
	Errors        []*perrors.Error
	NodesExecuted int
}

// CreateExecution initializes a fresh execution's state and returns its id.
func (d *Driver) CreateExecution(workflowID string, initialState map[string]interface{}) (string, error) {
	return d.executor.CreateExecution(workflowID, initialState)
}

// CompleteExecution clears any active loop and schedules state cleanup.
func (d *Driver) CompleteExecution(executionID string, cleanupDelay time.Duration) error {
	return d.executor.CompleteExecution(executionID, cleanupDelay, d.loop.Cleanup)
}

// GetFinalState returns an execution's current state.
func (d *Driver) GetFinalState(executionID string) (map[string]interface{}, error) {
	return d.executor.GetFinalState(executionID)
}

// RunParsedWorkflow walks ast starting from its first authoring-order node,
// driving node execution, loop continuation, and routing until the work
// list drains or an unrecoverable fault halts the run.
//
// ctx is checked for cancellation between node invocations only: a node
// invocation itself runs to completion once started, matching the
// cooperative cancellation model (section 9's open question on
// cancellation) — there is no mid-invocation suspension point.
//
// The run is bracketed by EventWorkflowStart/EventWorkflowEnd notifications
// if an observer manager was wired in at construction.
func (d *Driver) RunParsedWorkflow(ctx context.Context, ast *types.AST, executionID string) RunResult {
	startTime := time.Now()
	d.notifyWorkflowStart(executionID, ast.WorkflowID, startTime)
	result := d.runParsedWorkflow(ctx, ast, executionID)
	d.notifyWorkflowEnd(executionID, ast.WorkflowID, startTime, result)
	return result
}

func (d *Driver) runParsedWorkflow(ctx context.Context, ast *types.AST, executionID string) RunResult {
	if len(ast.RootOrder) == 0 {
		return RunResult{Status: StatusCompleted, FinalState: d.finalStateOrNil(executionID)}
	}

	work := []types.WorkItem{{NodeID: ast.Nodes[ast.RootOrder[0]].NodeID}}
	executions := 0

	for len(work) > 0 {
		if err := ctx.Err(); err != nil {
			d.errors.Create(perrors.CategorySystem, perrors.CodeExecutionCancelled, err.Error(), perrors.SeverityError,
				perrors.Context{ExecutionID: executionID, WorkflowID: ast.WorkflowID})
			return RunResult{Status: StatusCancelled, FinalState: d.finalStateOrNil(executionID), Errors: d.errors.GetByExecution(executionID), NodesExecuted: executions}
		}

		item := work[0]
		work = work[1:]

		node, ok := ast.NodeByID(item.NodeID)
		if !ok {
			continue
		}

		executions++
		if d.cfg.MaxNodeExecutions > 0 && executions > d.cfg.MaxNodeExecutions {
			d.errors.Create(perrors.CategoryFlowControl, perrors.CodeTooManyNodeExecutions,
				"execution exceeded the configured node-execution budget", perrors.SeverityError,
				perrors.Context{NodeID: node.NodeID, ExecutionID: executionID, WorkflowID: ast.WorkflowID})
			return RunResult{Status: StatusFailed, FinalState: d.finalStateOrNil(executionID), Errors: d.errors.GetByExecution(executionID), NodesExecuted: executions}
		}

		nodeConfig := mergeConfig(node.Config, item.Overlay)
		nodeConfig["type"] = node.Type

		edgeMap := d.executor.ExecuteNode(node.NodeID, nodeConfig, ast.WorkflowID, executionID, nil)

		if d.loop.IsInLoop(executionID) {
			loopRes := d.loop.ContinueLoop(executionID, node.NodeID, edgeMap)
			if !loopRes.Terminated {
				work = append(work, types.WorkItem{NodeID: loopRes.NextNode})
				continue
			}

			switch loopRes.Reason {
			case loop.ReasonNonLoopEdge:
				next, halt := d.routeRespectingErrorTermination(ast, node, edgeMap, executionID)
				if halt {
					return RunResult{Status: StatusFailed, FinalState: d.finalStateOrNil(executionID), Errors: d.errors.GetByExecution(executionID), NodesExecuted: executions}
				}
				work = append(work, next...)
			case loop.ReasonMaxIterations, loop.ReasonTimeout:
				next, halt := d.handleLoopFault(ast, node, loopRes.Reason, executionID)
				if halt {
					return RunResult{Status: StatusFailed, FinalState: d.finalStateOrNil(executionID), Errors: d.errors.GetByExecution(executionID), NodesExecuted: executions}
				}
				work = append(work, next...)
			case loop.ReasonCompleted:
				// The loop-initiating node, re-run after the body, produced
				// no edges at all (or no loop was active): this branch ends.
			}
			continue
		}

		if loop.HasLoopEdge(edgeMap) {
			routeRes, err := d.router.RouteForExecution(ast, node, edgeMap, executionID)
			if err != nil {
				return RunResult{Status: StatusFailed, FinalState: d.finalStateOrNil(executionID), Errors: d.errors.GetByExecution(executionID), NodesExecuted: executions}
			}
			sequence := loop.ExtractLoopSequence(routeRes)
			maxIterations, maxExecutionTime := d.loopBounds(node.Config)
			startRes, err := d.loop.StartLoop(executionID, node.NodeID, sequence, maxIterations, maxExecutionTime)
			if err != nil {
				d.errors.Create(perrors.CategoryFlowControl, perrors.CodeMaxIterations, err.Error(), perrors.SeverityError,
					perrors.Context{NodeID: node.NodeID, ExecutionID: executionID, WorkflowID: ast.WorkflowID})
				return RunResult{Status: StatusFailed, FinalState: d.finalStateOrNil(executionID), Errors: d.errors.GetByExecution(executionID), NodesExecuted: executions}
			}
			work = append(work, types.WorkItem{NodeID: startRes.NextNode})
			continue
		}

		next, halt := d.routeRespectingErrorTermination(ast, node, edgeMap, executionID)
		if halt {
			return RunResult{Status: StatusFailed, FinalState: d.finalStateOrNil(executionID), Errors: d.errors.GetByExecution(executionID), NodesExecuted: executions}
		}
		work = append(work, next...)
	}

	return RunResult{Status: StatusCompleted, FinalState: d.finalStateOrNil(executionID), Errors: d.errors.GetByExecution(executionID), NodesExecuted: executions}
}

// routeRespectingErrorTermination implements section 4.8's failure
// semantics: a node's "error" edge is only ever followed if the node
// declares an "error" or "error?" outbound edge; otherwise the execution
// terminates here rather than falling through to the next authoring-order
// node the way an ordinary unmatched edge name would.
func (d *Driver) routeRespectingErrorTermination(ast *types.AST, node *types.ASTNode, edgeMap types.EdgeMap, executionID string) ([]types.WorkItem, bool) {
	if edgeMap.Has("error") && !edgeMap.Has("loop") {
		if _, ok := errorEdgeTarget(node); !ok {
			return nil, true
		}
	}
	return d.routeFrom(ast, node, edgeMap, executionID)
}

// routeFrom resolves the general (non-loop) next frontier for node given
// edgeMap, returning the work items to enqueue. halt reports an
// unrecoverable routing fault.
func (d *Driver) routeFrom(ast *types.AST, node *types.ASTNode, edgeMap types.EdgeMap, executionID string) ([]types.WorkItem, bool) {
	routeRes, err := d.router.RouteForExecution(ast, node, edgeMap, executionID)
	if err != nil {
		return nil, true
	}
	items := make([]types.WorkItem, 0, len(routeRes.NextNodes))
	for _, nextID := range routeRes.NextNodes {
		items = append(items, types.WorkItem{NodeID: nextID, Overlay: routeRes.InlineConfigs[nextID]})
	}
	return items, false
}

// handleLoopFault implements section 7's loop-fault propagation: follow the
// loop-initiating node's declared error edge if one exists, otherwise
// surface an execution-level fault and halt the run.
func (d *Driver) handleLoopFault(ast *types.AST, node *types.ASTNode, reason loop.TerminationReason, executionID string) ([]types.WorkItem, bool) {
	code := perrors.CodeMaxIterations
	if reason == loop.ReasonTimeout {
		code = perrors.CodeTimeout
	}
	faultErr := d.errors.Create(perrors.CategoryFlowControl, code,
		"loop on node "+node.NodeID+" terminated: "+string(reason), perrors.SeverityError,
		perrors.Context{NodeID: node.NodeID, ExecutionID: executionID, WorkflowID: ast.WorkflowID})

	if _, ok := errorEdgeTarget(node); !ok {
		return nil, true
	}

	em := types.NewEdgeMap()
	em.Set("error", types.StaticEdge(faultErr))
	return d.routeFrom(ast, node, em, executionID)
}

// errorEdgeTarget reports whether node declares an "error" or "error?"
// outbound edge, the exact-over-optional rule used for routing it too.
func errorEdgeTarget(node *types.ASTNode) (types.EdgeTarget, bool) {
	if target, ok := node.Edges["error"]; ok {
		return target, true
	}
	if target, ok := node.Edges["error?"]; ok {
		return target, true
	}
	return types.EdgeTarget{}, false
}

func (d *Driver) finalStateOrNil(executionID string) map[string]interface{} {
	state, err := d.executor.GetFinalState(executionID)
	if err != nil {
		return nil
	}
	return state
}

// mergeConfig shallow-merges an inline edge-target's per-use overlay over a
// node's authored config; overlay keys win.
func mergeConfig(base, overlay map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(base)+len(overlay))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overlay {
		out[k] = v
	}
	return out
}

// loopBounds reads optional per-node overrides of the configured default
// loop bounds from the loop-initiating node's authored config, falling back
// to the driver's Config when the node specifies neither.
func (d *Driver) loopBounds(config map[string]interface{}) (int, time.Duration) {
	maxIterations := d.cfg.MaxLoopIterations
	maxExecutionTime := d.cfg.MaxLoopExecutionTime

	if v, ok := config["maxIterations"].(float64); ok && v > 0 {
		maxIterations = int(v)
	}
	if v, ok := config["maxExecutionTimeMs"].(float64); ok && v > 0 {
		maxExecutionTime = time.Duration(v) * time.Millisecond
	}
	return maxIterations, maxExecutionTime
}

func (d *Driver) notifyWorkflowStart(executionID, workflowID string, startTime time.Time) {
	if d.observers == nil || !d.observers.HasObservers() {
		return
	}
	d.observers.Notify(context.Background(), observer.Event{
		Type:        observer.EventWorkflowStart,
		Status:      observer.StatusStarted,
		Timestamp:   startTime,
		ExecutionID: executionID,
		WorkflowID:  workflowID,
		StartTime:   startTime,
	})
}

func (d *Driver) notifyWorkflowEnd(executionID, workflowID string, startTime time.Time, result RunResult) {
	if d.observers == nil || !d.observers.HasObservers() {
		return
	}
	status := observer.StatusSuccess
	var endErr error
	if result.Status != StatusCompleted {
		status = observer.StatusFailure
		if len(result.Errors) > 0 {
			endErr = result.Errors[len(result.Errors)-1]
		}
	}
	d.observers.Notify(context.Background(), observer.Event{
		Type:        observer.EventWorkflowEnd,
		Status:      status,
		Timestamp:   time.Now(),
		ExecutionID: executionID,
		WorkflowID:  workflowID,
		StartTime:   startTime,
		ElapsedTime: time.Since(startTime),
		Error:       endErr,
		Metadata:    map[string]interface{}{"nodes_executed": result.NodesExecuted, "status": string(result.Status)},
	})
}
