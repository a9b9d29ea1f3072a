package parser

import (
	"fmt"

	"golang.org/x/text/cases"

	perrors "github.com/flowcraft/workflow-engine/pkg/errors"
	"github.com/flowcraft/workflow-engine/pkg/graph"
	"github.com/flowcraft/workflow-engine/pkg/types"
)

var foldCaser = cases.Fold()

// resolveReferences implements phase B rule 2: every string-valued edge
// target must resolve to a node id elsewhere in the AST unless its edge
// name was marked optional, in which case a missing target silently
// degrades to fall-through at route time.
func (b *builder) resolveReferences(ast *types.AST) {
	for i := range ast.Nodes {
		node := &ast.Nodes[i]
		for _, edgeName := range node.EdgeOrder {
			b.resolveTarget(ast, node, edgeName, node.Edges[edgeName])
		}
	}
}

func (b *builder) resolveTarget(ast *types.AST, node *types.ASTNode, edgeName string, target types.EdgeTarget) {
	switch target.Kind {
	case types.EdgeTargetSingle:
		if target.NodeID == "" {
			return
		}
		if _, ok := ast.ByID[target.NodeID]; !ok && !target.IsOptional {
			b.fault(perrors.CategoryValidation, perrors.CodeInvalidNodeReference,
				fmt.Sprintf("edge %q of node %q targets unknown node %q", edgeName, node.NodeID, target.NodeID),
				perrors.Context{NodeID: node.NodeID})
		}
	case types.EdgeTargetSequence:
		for _, el := range target.Sequence {
			b.resolveTarget(ast, node, edgeName, el)
		}
	default:
		// Inline/Multi children were created by construction; no dangling
		// reference is possible.
	}
}

// detectAmbiguousIDs flags root-level node names that differ only by
// Unicode case folding (width and accent differences are not folded, so
// such names are not flagged): authoring two nodes that a careless
// reader would consider "the same name" is a likely typo, not a deliberate
// design, so it is reported even though the two ids are technically
// distinct map keys.
func (b *builder) detectAmbiguousIDs(ast *types.AST, entries []workflowEntry) {
	seen := make(map[string]string, len(entries))
	for _, e := range entries {
		key := foldCaser.String(e.name)
		if original, ok := seen[key]; ok && original != e.name {
			b.fault(perrors.CategoryValidation, perrors.CodeAmbiguousNodeID,
				fmt.Sprintf("node %q is ambiguous with earlier node %q", e.name, original),
				perrors.Context{NodeID: e.name})
			continue
		}
		seen[key] = e.name
	}
}

// detectCycles implements phase B rule 4: a non-loop edge whose target
// transitively leads back to the owning node is a fault. A loop-named
// edge re-entering the same node is explicitly legal and excluded here.
func (b *builder) detectCycles(ast *types.AST) {
	seen := make(map[string]bool, len(ast.Nodes))
	nodeIDs := make([]string, 0, len(ast.Nodes))
	for _, n := range ast.Nodes {
		if !seen[n.NodeID] {
			seen[n.NodeID] = true
			nodeIDs = append(nodeIDs, n.NodeID)
		}
	}

	var edges []graph.Edge
	for _, n := range ast.Nodes {
		for _, edgeName := range n.EdgeOrder {
			if edgeName == "loop" || edgeName == "loop?" {
				continue
			}
			collectSingleEdges(n.Edges[edgeName], n.NodeID, edgeName, ast, &edges)
		}
	}

	if err := graph.New(nodeIDs, edges).DetectCycles(); err != nil {
		b.fault(perrors.CategoryValidation, perrors.CodeCircularReference, err.Error(), perrors.Context{})
	}
}

func collectSingleEdges(target types.EdgeTarget, source, edgeName string, ast *types.AST, out *[]graph.Edge) {
	switch target.Kind {
	case types.EdgeTargetSingle:
		if _, ok := ast.ByID[target.NodeID]; ok {
			*out = append(*out, graph.Edge{Source: source, Target: target.NodeID, Name: edgeName})
		}
	case types.EdgeTargetSequence:
		for _, el := range target.Sequence {
			collectSingleEdges(el, source, edgeName, ast, out)
		}
	}
}
