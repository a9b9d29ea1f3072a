package parser

import (
	"testing"

	perrors "github.com/flowcraft/workflow-engine/pkg/errors"
	"github.com/flowcraft/workflow-engine/pkg/registry"
	"github.com/flowcraft/workflow-engine/pkg/types"
)

func mustParse(t *testing.T, reg *registry.Registry, doc string) (*types.AST, []*perrors.Error) {
	t.Helper()
	p, err := New(reg, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return p.Parse([]byte(doc))
}

func TestParse_MappingForm(t *testing.T) {
	doc := `{
		"id": "wf-1", "name": "Example", "version": "1.0.0",
		"workflow": {
			"a": {"type": "number", "value": 5, "edges": {"next": "b"}},
			"b": {"type": "number", "value": 10}
		}
	}`
	ast, faults := mustParse(t, nil, doc)
	if len(faults) != 0 {
		t.Fatalf("Parse() faults = %v", faults)
	}
	if len(ast.Nodes) != 2 {
		t.Fatalf("len(Nodes) = %d, want 2", len(ast.Nodes))
	}
	a, ok := ast.NodeByID("a")
	if !ok {
		t.Fatal("NodeByID(a) not found")
	}
	if a.Type != "number" || a.Config["value"] != 5.0 {
		t.Errorf("node a = %+v", a)
	}
	if a.Edges["next"].NodeID != "b" {
		t.Errorf("a.edges[next] = %+v", a.Edges["next"])
	}
}

func TestParse_SequenceForm(t *testing.T) {
	doc := `{
		"id": "wf-1", "name": "Example", "version": "1.0.0",
		"workflow": [
			{"a": {"type": "number", "value": 1}},
			"b"
		]
	}`
	ast, faults := mustParse(t, nil, doc)
	// "b" is a bare entry with no type: expect a missing_node_type fault.
	if len(faults) != 1 || faults[0].Code != perrors.CodeMissingNodeType {
		t.Fatalf("faults = %v, want exactly one missing_node_type", faults)
	}
	if len(ast.RootOrder) != 2 {
		t.Fatalf("len(RootOrder) = %d, want 2", len(ast.RootOrder))
	}
}

func TestParse_UnknownNodeType(t *testing.T) {
	reg := registry.New()
	doc := `{
		"id": "wf-1", "name": "Example", "version": "1.0.0",
		"workflow": {"a": {"type": "does-not-exist"}}
	}`
	_, faults := mustParse(t, reg, doc)
	if len(faults) != 1 || faults[0].Code != perrors.CodeUnknownNodeType {
		t.Fatalf("faults = %v, want exactly one unknown_node_type", faults)
	}
}

func TestParse_OptionalEdgeMissingTargetTolerated(t *testing.T) {
	doc := `{
		"id": "wf-1", "name": "Example", "version": "1.0.0",
		"workflow": {"a": {"type": "number", "edges": {"next?": "ghost"}}}
	}`
	_, faults := mustParse(t, nil, doc)
	if len(faults) != 0 {
		t.Fatalf("faults = %v, want none (optional edge tolerates missing target)", faults)
	}
}

func TestParse_RequiredEdgeMissingTargetFaults(t *testing.T) {
	doc := `{
		"id": "wf-1", "name": "Example", "version": "1.0.0",
		"workflow": {"a": {"type": "number", "edges": {"next": "ghost"}}}
	}`
	_, faults := mustParse(t, nil, doc)
	if len(faults) != 1 || faults[0].Code != perrors.CodeInvalidNodeReference {
		t.Fatalf("faults = %v, want exactly one invalid_node_reference", faults)
	}
}

// TestParse_EdgeTableKeepsExactAndOptionalDistinct verifies the parser
// retains "result" and "result?" as two separate edge-table entries (the
// exact-wins shadowing described in section 4.5 is the router's job, at
// route time, not the parser's).
func TestParse_EdgeTableKeepsExactAndOptionalDistinct(t *testing.T) {
	doc := `{
		"id": "wf-1", "name": "Example", "version": "1.0.0",
		"workflow": {
			"a": {"type": "number", "edges": {"result": "b", "result?": "c"}},
			"b": {"type": "number"}
		}
	}`
	ast, faults := mustParse(t, nil, doc)
	if len(faults) != 0 {
		t.Fatalf("faults = %v", faults)
	}
	a, _ := ast.NodeByID("a")
	exact, ok := a.Edges["result"]
	if !ok || exact.NodeID != "b" || exact.IsOptional {
		t.Errorf("a.Edges[result] = %+v, ok=%v", exact, ok)
	}
	optional, ok := a.Edges["result?"]
	if !ok || optional.NodeID != "c" || !optional.IsOptional {
		t.Errorf("a.Edges[result?] = %+v, ok=%v", optional, ok)
	}
}

func TestParse_CircularReferenceFaults(t *testing.T) {
	doc := `{
		"id": "wf-1", "name": "Example", "version": "1.0.0",
		"workflow": {
			"a": {"type": "number", "edges": {"next": "b"}},
			"b": {"type": "number", "edges": {"next": "a"}}
		}
	}`
	_, faults := mustParse(t, nil, doc)
	found := false
	for _, f := range faults {
		if f.Code == perrors.CodeCircularReference {
			found = true
		}
	}
	if !found {
		t.Fatalf("faults = %v, want a circular_reference fault", faults)
	}
}

func TestParse_LoopEdgeIsNotCircular(t *testing.T) {
	doc := `{
		"id": "wf-1", "name": "Example", "version": "1.0.0",
		"workflow": {"a": {"type": "number", "edges": {"loop": "a"}}}
	}`
	_, faults := mustParse(t, nil, doc)
	for _, f := range faults {
		if f.Code == perrors.CodeCircularReference {
			t.Fatalf("a loop edge back to itself must not fault as circular: %v", faults)
		}
	}
}

func TestParse_InlineNestedEdgeCreatesChild(t *testing.T) {
	doc := `{
		"id": "wf-1", "name": "Example", "version": "1.0.0",
		"workflow": {
			"a": {"type": "condition", "edges": {"yes": {"b": {"type": "number", "value": 1}}}}
		}
	}`
	ast, faults := mustParse(t, nil, doc)
	if len(faults) != 0 {
		t.Fatalf("faults = %v", faults)
	}
	if len(ast.Nodes) != 2 {
		t.Fatalf("len(Nodes) = %d, want 2 (root + inline child)", len(ast.Nodes))
	}
	b, ok := ast.NodeByID("b")
	if !ok {
		t.Fatal("NodeByID(b) not found")
	}
	if b.Depth != 1 {
		t.Errorf("b.Depth = %d, want 1", b.Depth)
	}
	aIdx := ast.ByID["a"]
	if b.Parent != aIdx {
		t.Errorf("b.Parent = %d, want %d", b.Parent, aIdx)
	}
}

func TestParse_SchemaViolationInvalidID(t *testing.T) {
	doc := `{
		"id": "Not Valid!", "name": "Example", "version": "1.0.0",
		"workflow": {"a": {"type": "number"}}
	}`
	ast, faults := mustParse(t, nil, doc)
	if ast != nil {
		t.Error("Parse() returned an AST for a schema-invalid document")
	}
	if len(faults) == 0 {
		t.Fatal("Parse() returned no faults for an invalid id")
	}
}

