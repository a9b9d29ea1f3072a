package graph

import (
	"strconv"
	"strings"
	"testing"
)

func TestTopologicalSort_Simple(t *testing.T) {
	tests := []struct {
		name       string
		nodes      []string
		edges      []Edge
		wantOrder  []string
		wantErr    bool
		checkOrder bool
	}{
		{
			name:      "linear chain",
			nodes:     []string{"1", "2", "3"},
			edges:     []Edge{{Source: "1", Target: "2"}, {Source: "2", Target: "3"}},
			wantOrder: []string{"1", "2", "3"},
		},
		{
			name:  "diamond shape",
			nodes: []string{"1", "2", "3", "4"},
			edges: []Edge{
				{Source: "1", Target: "2"},
				{Source: "1", Target: "3"},
				{Source: "2", Target: "4"},
				{Source: "3", Target: "4"},
			},
			checkOrder: false,
		},
		{
			name:      "single node",
			nodes:     []string{"1"},
			edges:     nil,
			wantOrder: []string{"1"},
		},
		{
			name:       "multiple roots",
			nodes:      []string{"1", "2", "3"},
			edges:      []Edge{{Source: "1", Target: "3"}, {Source: "2", Target: "3"}},
			checkOrder: false,
		},
		{
			name:      "empty graph",
			nodes:     []string{},
			edges:     nil,
			wantOrder: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(tt.nodes, tt.edges)
			got, err := g.TopologicalSort()

			if (err != nil) != tt.wantErr {
				t.Fatalf("TopologicalSort() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}

			if tt.checkOrder {
				if !equalSlices(got, tt.wantOrder) {
					t.Errorf("TopologicalSort() = %v, want %v", got, tt.wantOrder)
				}
			} else if !isValidTopologicalOrder(got, tt.edges) {
				t.Errorf("TopologicalSort() returned invalid order: %v", got)
			}
		})
	}
}

func TestTopologicalSort_Cycles(t *testing.T) {
	tests := []struct {
		name  string
		nodes []string
		edges []Edge
	}{
		{
			name:  "simple cycle",
			nodes: []string{"1", "2"},
			edges: []Edge{{Source: "1", Target: "2"}, {Source: "2", Target: "1"}},
		},
		{
			name:  "self loop",
			nodes: []string{"1"},
			edges: []Edge{{Source: "1", Target: "1"}},
		},
		{
			name:  "three node cycle",
			nodes: []string{"1", "2", "3"},
			edges: []Edge{
				{Source: "1", Target: "2"},
				{Source: "2", Target: "3"},
				{Source: "3", Target: "1"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(tt.nodes, tt.edges)
			if _, err := g.TopologicalSort(); err == nil {
				t.Error("TopologicalSort() expected error for cyclic graph, got nil")
			}
		})
	}
}

func TestTopologicalSort_Large(t *testing.T) {
	tests := []struct {
		name     string
		numNodes int
	}{
		{name: "100 nodes linear", numNodes: 100},
		{name: "1000 nodes linear", numNodes: 1000},
		{name: "100 nodes wide", numNodes: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var nodes []string
			var edges []Edge

			if strings.Contains(tt.name, "linear") {
				nodes, edges = generateLinearChain(tt.numNodes)
			} else if strings.Contains(tt.name, "wide") {
				nodes, edges = generateWideGraph(tt.numNodes)
			}

			g := New(nodes, edges)
			order, err := g.TopologicalSort()
			if err != nil {
				t.Fatalf("TopologicalSort() unexpected error: %v", err)
			}
			if len(order) != len(nodes) {
				t.Errorf("TopologicalSort() returned %d nodes, want %d", len(order), len(nodes))
			}
			if !isValidTopologicalOrder(order, edges) {
				t.Error("TopologicalSort() returned invalid order")
			}
		})
	}
}

func TestDetectCycles(t *testing.T) {
	tests := []struct {
		name    string
		nodes   []string
		edges   []Edge
		wantErr bool
	}{
		{
			name:  "no cycle",
			nodes: []string{"1", "2"},
			edges: []Edge{{Source: "1", Target: "2"}},
		},
		{
			name:    "cycle exists",
			nodes:   []string{"1", "2"},
			edges:   []Edge{{Source: "1", Target: "2"}, {Source: "2", Target: "1"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(tt.nodes, tt.edges)
			err := g.DetectCycles()
			if (err != nil) != tt.wantErr {
				t.Errorf("DetectCycles() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFindCycleFrom(t *testing.T) {
	g := New([]string{"a", "b", "c"}, []Edge{
		{Source: "a", Target: "b"},
		{Source: "b", Target: "c"},
		{Source: "c", Target: "a"},
	})

	if err := g.DetectCycles(); err == nil {
		t.Fatal("expected cycle to be detected")
	}

	path := g.FindCycleFrom("a")
	if len(path) == 0 {
		t.Error("FindCycleFrom() returned empty path for a cyclic graph")
	}
}

func equalSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func isValidTopologicalOrder(order []string, edges []Edge) bool {
	pos := make(map[string]int)
	for i, nodeID := range order {
		pos[nodeID] = i
	}
	for _, edge := range edges {
		sourcePos, sourceExists := pos[edge.Source]
		targetPos, targetExists := pos[edge.Target]
		if !sourceExists || !targetExists {
			return false
		}
		if sourcePos >= targetPos {
			return false
		}
	}
	return true
}

func generateLinearChain(n int) ([]string, []Edge) {
	nodes := make([]string, n)
	edges := make([]Edge, 0, n-1)
	for i := 0; i < n; i++ {
		nodes[i] = strconv.Itoa(i)
		if i > 0 {
			edges = append(edges, Edge{Source: strconv.Itoa(i - 1), Target: strconv.Itoa(i)})
		}
	}
	return nodes, edges
}

func generateWideGraph(n int) ([]string, []Edge) {
	nodes := make([]string, n+1)
	edges := make([]Edge, 0, n)
	nodes[0] = "root"
	for i := 1; i <= n; i++ {
		nodes[i] = strconv.Itoa(i)
		edges = append(edges, Edge{Source: "root", Target: strconv.Itoa(i)})
	}
	return nodes, edges
}
