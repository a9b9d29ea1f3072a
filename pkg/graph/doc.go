// Package graph provides the directed-graph cycle detector used by the
// parser's phase B semantic validation.
//
// # Overview
//
// A workflow's edges are mostly interpreted at runtime by pkg/router and
// pkg/loop, not statically ordered: the engine walks edge-by-edge rather
// than executing a precomputed topological order. The one place a DAG
// algorithm is still useful is validation — rejecting workflows whose
// non-loop edges form a cycle, since a loop must be declared via the
// reserved "loop" edge name and anything else that re-enters a node is a
// parser fault (circular_reference).
//
// # Key Algorithm
//
// Topological Sort (Kahn's algorithm), applied to the subgraph of edges
// whose name is not "loop":
//  1. Calculate in-degree for all nodes
//  2. Add zero in-degree nodes to a queue, in deterministic (sorted) order
//  3. Process the queue: remove a node, decrement neighbor in-degrees
//  4. Add newly zero in-degree nodes to the queue
//  5. If the processed count does not equal the node count, a cycle exists
//
// # Usage
//
//	import "github.com/flowcraft/workflow-engine/pkg/graph"
//
//	g := graph.New(nodeIDs, nonLoopEdges)
//	if err := g.DetectCycles(); err != nil {
//	    path := g.FindCycleFrom(someNodeID)
//	    // report circular_reference with path
//	}
//
// # Performance
//
//   - Topological sort: O(V + E)
//   - Cycle path reconstruction: O(V + E) DFS, run only on failure
//
// # Thread Safety
//
// A Graph is built once from a fixed node/edge set and never mutated after
// construction; read-only methods are safe for concurrent use.
package graph
