// Package router implements the Edge Router (C5): given a node's returned
// edge map and its AST edge table, resolve the next execution frontier.
package router

import (
	"fmt"

	perrors "github.com/flowcraft/workflow-engine/pkg/errors"
	"github.com/flowcraft/workflow-engine/pkg/types"
)

// Router resolves route results from an AST and a node's runtime edge map.
// It holds no mutable state and is safe for concurrent use.
type Router struct {
	errors *perrors.Manager
}

// New creates a router. errMgr may be nil, in which case a default error
// manager is used for validateAllEdges faults.
func New(errMgr *perrors.Manager) *Router {
	if errMgr == nil {
		errMgr = perrors.New(nil)
	}
	return &Router{errors: errMgr}
}

// Route implements the deterministic, first-match resolution algorithm of
// section 4.5. node is the AST node that just ran; edgeMap is what its
// Execute call returned (edge name -> lazily-invoked payload, in the
// insertion order the node produced them).
func (r *Router) Route(ast *types.AST, node *types.ASTNode, edgeMap types.EdgeMap) (types.RouteResult, error) {
	return r.RouteForExecution(ast, node, edgeMap, "")
}

// RouteForExecution is Route with an executionID attached to any fault it
// raises, so the fault can be retrieved later via the error manager's
// GetByExecution. Route itself calls this with an empty executionID for
// callers that operate outside any one run.
func (r *Router) RouteForExecution(ast *types.AST, node *types.ASTNode, edgeMap types.EdgeMap, executionID string) (types.RouteResult, error) {
	// Step 1: loop has strict priority, whether the node declared it plain
	// or "?" — the engine asks the loop manager about the "loop" branch
	// before considering anything else the node returned.
	if edgeMap.Has("loop") {
		if target, ok := lookupEdge(node, "loop"); ok {
			return r.resolveTarget(ast, node, "loop", target, executionID)
		}
	}

	// Step 2: iterate the runtime edge map in insertion order; for each
	// key, try the exact name then the "?"-suffixed one in the AST table.
	for _, key := range edgeMap.Order() {
		if key == "loop" {
			continue // already handled with priority above
		}
		if target, ok := lookupEdge(node, key); ok {
			return r.resolveTarget(ast, node, key, target, executionID)
		}
	}

	// Step 4: no key in the edge map matched any declared edge; fall
	// through to the next node in authoring order.
	next := ast.NextInAuthoringOrder(node.NodeID)
	if next == "" {
		return types.RouteResult{NextNodes: []string{}, ContinueSequence: true}, nil
	}
	return types.RouteResult{NextNodes: []string{next}, ContinueSequence: true}, nil
}

// lookupEdge tries key then key+"?" against node's edge table, the
// exact-over-optional shadowing rule of section 4.5.
func lookupEdge(node *types.ASTNode, key string) (types.EdgeTarget, bool) {
	if target, ok := node.Edges[key]; ok {
		return target, true
	}
	if target, ok := node.Edges[key+"?"]; ok {
		return target, true
	}
	return types.EdgeTarget{}, false
}

// resolveTarget implements step 3: resolving a matched edge by its shape.
func (r *Router) resolveTarget(ast *types.AST, node *types.ASTNode, edgeName string, target types.EdgeTarget, executionID string) (types.RouteResult, error) {
	result := types.RouteResult{IsOptional: target.IsOptional, IsLoop: edgeName == "loop"}

	switch target.Kind {
	case types.EdgeTargetSingle:
		if target.NodeID == "" {
			return result, nil
		}
		if _, ok := ast.ByID[target.NodeID]; ok {
			result.NextNodes = []string{target.NodeID}
			return result, nil
		}
		if target.IsOptional {
			result.NextNodes = []string{}
			result.ContinueSequence = true
			return result, nil
		}
		return result, r.invalidReference(ast.WorkflowID, node, edgeName, target.NodeID, executionID)

	case types.EdgeTargetSequence:
		var next []string
		inline := map[string]map[string]interface{}{}
		for _, el := range target.Sequence {
			sub, err := r.resolveTarget(ast, node, edgeName, el, executionID)
			if err != nil {
				return result, err
			}
			next = append(next, sub.NextNodes...)
			for k, v := range sub.InlineConfigs {
				inline[k] = v
			}
		}
		result.NextNodes = next
		if len(inline) > 0 {
			result.InlineConfigs = inline
		}
		return result, nil

	case types.EdgeTargetInline, types.EdgeTargetMulti:
		result.NextNodes = append([]string{}, target.InlineOrder...)
		result.InlineConfigs = target.InlineConfigs
		return result, nil
	}

	return result, nil
}

func (r *Router) invalidReference(workflowID string, node *types.ASTNode, edgeName, targetID, executionID string) error {
	return r.errors.Create(perrors.CategoryFlowControl, perrors.CodeInvalidNodeReference,
		fmt.Sprintf("edge %q of node %q targets unknown node %q", edgeName, node.NodeID, targetID),
		perrors.SeverityError, perrors.Context{NodeID: node.NodeID, WorkflowID: workflowID, ExecutionID: executionID})
}

// ValidateAllEdges implements section 4.5's validateAllEdges: it resolves
// every declared edge against a synthetic truthy edge map and returns the
// accumulated faults without throwing, useful as a pre-flight check
// independent of any one runtime execution.
func (r *Router) ValidateAllEdges(ast *types.AST) []*perrors.Error {
	var faults []*perrors.Error
	for i := range ast.Nodes {
		node := &ast.Nodes[i]
		for _, edgeName := range node.EdgeOrder {
			target := node.Edges[edgeName]
			if _, err := r.resolveTarget(ast, node, edgeName, target, ""); err != nil {
				if se, ok := err.(*perrors.Error); ok {
					faults = append(faults, se)
				}
			}
		}
	}
	return faults
}
