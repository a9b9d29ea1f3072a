// Package graph provides directed-graph operations used by the parser's
// phase B semantic validation. It is a DAG cycle detector, not a scheduler:
// the engine driver itself walks the AST edge-by-edge at runtime (see
// pkg/router and pkg/engine); this package only answers "does this set of
// non-loop edges contain a cycle" during validation.
package graph

import "fmt"

// Edge is a directed reference from Source to Target discovered while
// walking a workflow's edge targets. Name is the owning edge name, kept for
// diagnostics only.
type Edge struct {
	Source string
	Target string
	Name   string
}

// Graph represents the non-loop reference graph of a parsed workflow: one
// node per authored node id, one edge per resolved edge target whose edge
// name is not "loop" (loop-named edges are explicitly allowed to re-enter
// the same node and are excluded by the caller before constructing a Graph).
type Graph struct {
	nodes []string
	edges []Edge
}

// New creates a new Graph from node ids and non-loop edges.
func New(nodeIDs []string, edges []Edge) *Graph {
	return &Graph{nodes: nodeIDs, edges: edges}
}

// TopologicalSort performs Kahn's algorithm over the non-loop reference
// graph. Any remaining unprocessed node indicates a non-loop circular
// reference, which the parser surfaces as a circular_reference fault.
//
// Optimizations:
//   - Pre-allocated slices with exact capacity to minimize allocations
//   - Fixed-size queue slice with head/tail indices to avoid re-slicing
//   - Insertion sort for small orphan node sets
func (g *Graph) TopologicalSort() ([]string, error) {
	numNodes := len(g.nodes)
	if numNodes == 0 {
		return []string{}, nil
	}

	inDegree := make(map[string]int, numNodes)
	adjacency := make(map[string][]string, numNodes)

	for _, id := range g.nodes {
		inDegree[id] = 0
	}

	for i := range g.edges {
		edge := &g.edges[i]
		adjacency[edge.Source] = append(adjacency[edge.Source], edge.Target)
		if _, ok := inDegree[edge.Target]; ok {
			inDegree[edge.Target]++
		}
	}

	orphanNodes := make([]string, 0, numNodes)
	for _, id := range g.nodes {
		if inDegree[id] == 0 {
			orphanNodes = append(orphanNodes, id)
		}
	}
	insertionSort(orphanNodes)

	queue := make([]string, numNodes)
	queueStart := 0
	queueEnd := len(orphanNodes)
	copy(queue, orphanNodes)

	order := make([]string, 0, numNodes)

	for queueStart < queueEnd {
		current := queue[queueStart]
		queueStart++
		order = append(order, current)

		for _, neighbor := range adjacency[current] {
			if _, ok := inDegree[neighbor]; !ok {
				continue
			}
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue[queueEnd] = neighbor
				queueEnd++
			}
		}
	}

	if len(order) != numNodes {
		return nil, fmt.Errorf("workflow contains a non-loop circular reference")
	}

	return order, nil
}

// insertionSort sorts a slice of strings in place. Faster than the standard
// library sort for the small orphan sets typical of workflow graphs.
func insertionSort(arr []string) {
	for i := 1; i < len(arr); i++ {
		key := arr[i]
		j := i - 1
		for j >= 0 && arr[j] > key {
			arr[j+1] = arr[j]
			j--
		}
		arr[j+1] = key
	}
}

// DetectCycles reports whether the non-loop reference graph contains a
// cycle. A non-nil error only reports that a cycle exists; it does not
// name the nodes involved (FindCycleFrom reconstructs a path on request).
func (g *Graph) DetectCycles() error {
	_, err := g.TopologicalSort()
	return err
}

// FindCycleFrom performs a DFS from start looking for a path that returns
// to start, returning that path (empty when start is not on a cycle). The
// parser's circular_reference check does not call it; it reports only the
// DetectCycles error.
func (g *Graph) FindCycleFrom(start string) []string {
	adjacency := make(map[string][]string, len(g.nodes))
	for i := range g.edges {
		adjacency[g.edges[i].Source] = append(adjacency[g.edges[i].Source], g.edges[i].Target)
	}

	visited := make(map[string]bool)
	var path []string

	var dfs func(node string) bool
	dfs = func(node string) bool {
		if node == start && len(path) > 0 {
			return true
		}
		if visited[node] {
			return false
		}
		visited[node] = true
		path = append(path, node)
		for _, next := range adjacency[node] {
			if next == start || dfs(next) {
				return true
			}
		}
		path = path[:len(path)-1]
		return false
	}

	dfs(start)
	return path
}
