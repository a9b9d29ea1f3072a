// Package parser implements the Parser / AST Builder (C4): schema
// validation (phase A), semantic validation (phase B), and construction of
// the arena-with-indices AST consumed by the router, loop manager, and
// engine driver.
package parser

import (
	"fmt"
	"sort"

	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	perrors "github.com/flowcraft/workflow-engine/pkg/errors"
	"github.com/flowcraft/workflow-engine/pkg/registry"
	"github.com/flowcraft/workflow-engine/pkg/types"
)

// Parser validates and compiles a workflow definition document into an AST.
// A Parser is safe for concurrent use by multiple goroutines: Parse holds
// no mutable state across calls beyond the compiled schema and the shared
// (already concurrency-safe) registry and error manager.
type Parser struct {
	registry *registry.Registry // optional: nil skips the unknown_node_type check
	errors   *perrors.Manager
	schema   *gojsonschema.Schema
}

// New compiles the phase A schema once. reg may be nil to skip node-type
// existence checks (useful for parsing workflows ahead of node
// registration). errMgr may be nil, in which case a default error manager
// is created.
func New(reg *registry.Registry, errMgr *perrors.Manager) (*Parser, error) {
	loader := gojsonschema.NewStringLoader(documentSchema)
	schema, err := gojsonschema.NewSchema(loader)
	if err != nil {
		return nil, fmt.Errorf("parser: compiling document schema: %w", err)
	}
	if errMgr == nil {
		errMgr = perrors.New(nil)
	}
	return &Parser{registry: reg, errors: errMgr, schema: schema}, nil
}

// Parse runs phase A, and — if the document is structurally valid —
// phase B and AST construction. Faults accumulate rather than aborting on
// the first one; the driver decides whether to refuse execution based on
// len(faults) > 0.
func (p *Parser) Parse(raw []byte) (*types.AST, []*perrors.Error) {
	docLoader := gojsonschema.NewBytesLoader(raw)
	result, err := p.schema.Validate(docLoader)
	if err != nil {
		return nil, []*perrors.Error{p.errors.Create(
			perrors.CategoryValidation, perrors.CodeMissingRequiredField,
			fmt.Sprintf("document is not valid JSON: %v", err),
			perrors.SeverityError, perrors.Context{},
		)}
	}
	if !result.Valid() {
		var faults []*perrors.Error
		for _, re := range result.Errors() {
			faults = append(faults, p.errors.Create(
				perrors.CategoryValidation, schemaErrorCode(re.Field()),
				re.String(), perrors.SeverityError,
				perrors.Context{Details: re.Field()},
			))
		}
		p.sortFaults(faults)
		return nil, faults
	}

	root := gjson.ParseBytes(raw)

	ast := &types.AST{
		WorkflowID: root.Get("id").String(),
		Name:       root.Get("name").String(),
		Version:    root.Get("version").String(),
		ByID:       make(map[string]int),
	}
	if initial := root.Get("initialState"); initial.Exists() {
		if m, ok := initial.Value().(map[string]interface{}); ok {
			ast.InitialState = m
		}
	}

	b := &builder{ast: ast, registry: p.registry, errors: p.errors}

	entries := flattenWorkflow(root.Get("workflow"), b)
	if len(entries) == 0 {
		b.fault(perrors.CategoryValidation, perrors.CodeEmptyWorkflow, "workflow has no nodes", perrors.Context{WorkflowID: ast.WorkflowID})
		p.sortFaults(b.faults)
		return ast, b.faults
	}

	for i, e := range entries {
		idx := b.parseNode(e.name, e.raw, e.hasConfig, 0, -1, fmt.Sprintf("%s_%d", e.name, i))
		ast.RootOrder = append(ast.RootOrder, idx)
	}

	b.detectAmbiguousIDs(ast, entries)
	b.resolveReferences(ast)
	b.detectCycles(ast)

	p.sortFaults(b.faults)
	return ast, b.faults
}

// sortFaults orders accumulated faults by node id (collation-aware, so
// mixed-script node ids still sort predictably) and then by code, so two
// Parse calls over the same document always report faults in the same
// order regardless of JSON object key iteration quirks.
func (p *Parser) sortFaults(faults []*perrors.Error) {
	// A Collator keeps scratch buffers between comparisons, so each call
	// builds its own rather than sharing one across concurrent Parse calls.
	collator := collate.New(language.Und)
	sort.SliceStable(faults, func(i, j int) bool {
		if c := collator.CompareString(faults[i].NodeID, faults[j].NodeID); c != 0 {
			return c < 0
		}
		return faults[i].Code < faults[j].Code
	})
}

// schemaErrorCode maps a gojsonschema violation field to the closest
// taxonomy code from section 7; most top-level field violations map onto
// either a missing-field or a format fault.
func schemaErrorCode(field string) string {
	switch field {
	case "id":
		return perrors.CodeInvalidIDFormat
	case "version":
		return perrors.CodeInvalidVersionFormat
	case "(root)":
		return perrors.CodeUnknownProperty
	default:
		return perrors.CodeMissingRequiredField
	}
}
