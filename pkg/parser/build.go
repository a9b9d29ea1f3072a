package parser

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	perrors "github.com/flowcraft/workflow-engine/pkg/errors"
	"github.com/flowcraft/workflow-engine/pkg/registry"
	"github.com/flowcraft/workflow-engine/pkg/types"
)

// builder accumulates phase B faults while walking the validated document
// into an AST. A builder is used for exactly one Parse call.
type builder struct {
	ast      *types.AST
	registry *registry.Registry
	errors   *perrors.Manager
	faults   []*perrors.Error
}

func (b *builder) fault(category perrors.Category, code, message string, ctx perrors.Context) {
	ctx.WorkflowID = b.ast.WorkflowID
	b.faults = append(b.faults, b.errors.Create(category, code, message, perrors.SeverityError, ctx))
}

func (b *builder) faultMissingType(depth int, nodeID, uniqueID string) {
	code := perrors.CodeMissingNodeType
	if depth > 0 {
		code = perrors.CodeNestedNodeMissingType
	}
	b.fault(perrors.CategoryValidation, code, fmt.Sprintf("node %q has no type", nodeID), perrors.Context{NodeID: nodeID, Details: uniqueID})
}

type workflowEntry struct {
	name      string
	raw       gjson.Result
	hasConfig bool
}

// flattenWorkflow normalizes both workflow shapes (a mapping, or a sequence
// of bare strings / single-key mappings) into one ordered entry list.
func flattenWorkflow(workflow gjson.Result, b *builder) []workflowEntry {
	var entries []workflowEntry

	switch {
	case workflow.IsObject():
		workflow.ForEach(func(key, value gjson.Result) bool {
			entries = append(entries, workflowEntry{name: key.String(), raw: value, hasConfig: true})
			return true
		})
	case workflow.IsArray():
		workflow.ForEach(func(_, el gjson.Result) bool {
			switch {
			case el.Type == gjson.String:
				entries = append(entries, workflowEntry{name: el.String(), hasConfig: false})
			case el.IsObject():
				keys := 0
				var name string
				var raw gjson.Result
				el.ForEach(func(k, v gjson.Result) bool {
					keys++
					name, raw = k.String(), v
					return true
				})
				if keys != 1 {
					b.fault(perrors.CategoryValidation, perrors.CodeUnknownProperty,
						"sequence entry must be a bare node name or a single-key mapping", perrors.Context{})
					return true
				}
				entries = append(entries, workflowEntry{name: name, raw: raw, hasConfig: true})
			default:
				b.fault(perrors.CategoryValidation, perrors.CodeUnknownProperty,
					"sequence entry must be a string or an object", perrors.Context{})
			}
			return true
		})
	}

	return entries
}

// parseNode appends a new AST node (root or nested) and, when the entry
// carries a config object, splits it into {type, config, edges},
// recursing into edges to materialize any inline nested children. It
// returns the new node's index in ast.Nodes.
func (b *builder) parseNode(nodeID string, raw gjson.Result, hasConfig bool, depth, parentIdx int, uniqueID string) int {
	ast := b.ast
	idx := len(ast.Nodes)
	ast.Nodes = append(ast.Nodes, types.ASTNode{
		NodeID:   nodeID,
		UniqueID: uniqueID,
		Depth:    depth,
		Parent:   parentIdx,
	})
	if parentIdx >= 0 {
		ast.Nodes[parentIdx].Children = append(ast.Nodes[parentIdx].Children, idx)
	}
	ast.ByID[nodeID] = idx

	if !hasConfig {
		b.faultMissingType(depth, nodeID, uniqueID)
		return idx
	}

	config := map[string]interface{}{}
	edges := map[string]types.EdgeTarget{}
	var edgeOrder []string
	typ := raw.Get("type")
	edgeCounter := 0

	raw.ForEach(func(key, value gjson.Result) bool {
		switch key.String() {
		case "type":
			// handled via typ above
		case "edges":
			// Edge-table keys keep their declared "?" suffix: "result" and
			// "result?" are distinct entries, and the router (C5) tries the
			// exact name before falling back to the optional-suffixed one.
			if value.IsObject() {
				value.ForEach(func(ek, ev gjson.Result) bool {
					rawName := ek.String()
					isOptional := strings.HasSuffix(rawName, "?")
					baseName := strings.TrimSuffix(rawName, "?")
					edges[rawName] = b.parseEdgeTarget(ev, idx, baseName, depth, uniqueID, isOptional, &edgeCounter)
					edgeOrder = append(edgeOrder, rawName)
					return true
				})
			}
		case "config":
			if value.IsObject() {
				value.ForEach(func(ck, cv gjson.Result) bool {
					config[ck.String()] = cv.Value()
					return true
				})
			}
		default:
			config[key.String()] = value.Value()
		}
		return true
	})

	ast.Nodes[idx].Type = typ.String()
	ast.Nodes[idx].Config = config
	ast.Nodes[idx].Edges = edges
	ast.Nodes[idx].EdgeOrder = edgeOrder

	if !typ.Exists() || typ.String() == "" {
		b.faultMissingType(depth, nodeID, uniqueID)
	} else if b.registry != nil && !b.registry.HasNode(typ.String()) {
		b.fault(perrors.CategoryValidation, perrors.CodeUnknownNodeType,
			fmt.Sprintf("node %q declares unknown type %q", nodeID, typ.String()),
			perrors.Context{NodeID: nodeID, Details: uniqueID})
	}

	return idx
}

// parseEdgeTarget parses one edge's destination value into the matching
// EdgeTarget shape, recursing into inline/multi nested mappings to
// materialize their node definitions as children of parentIdx.
func (b *builder) parseEdgeTarget(value gjson.Result, parentIdx int, edgeName string, parentDepth int, parentUniqueID string, isOptional bool, counter *int) types.EdgeTarget {
	switch {
	case value.Type == gjson.String:
		return types.EdgeTarget{Kind: types.EdgeTargetSingle, IsOptional: isOptional, NodeID: value.String()}

	case value.IsArray():
		var seq []types.EdgeTarget
		value.ForEach(func(_, el gjson.Result) bool {
			seq = append(seq, b.parseEdgeTarget(el, parentIdx, edgeName, parentDepth, parentUniqueID, isOptional, counter))
			return true
		})
		return types.EdgeTarget{Kind: types.EdgeTargetSequence, IsOptional: isOptional, Sequence: seq}

	case value.IsObject():
		keyCount := 0
		value.ForEach(func(_, _ gjson.Result) bool { keyCount++; return true })
		kind := types.EdgeTargetInline
		if keyCount > 1 {
			kind = types.EdgeTargetMulti
		}

		inlineConfigs := map[string]map[string]interface{}{}
		var order []string
		value.ForEach(func(k, v gjson.Result) bool {
			name := k.String()
			uniqueID := fmt.Sprintf("%s_nested_%s_%d", parentUniqueID, edgeName, *counter)
			*counter++
			b.parseNode(name, v, true, parentDepth+1, parentIdx, uniqueID)
			if raw, ok := v.Value().(map[string]interface{}); ok {
				inlineConfigs[name] = raw
			}
			order = append(order, name)
			return true
		})
		return types.EdgeTarget{Kind: kind, IsOptional: isOptional, InlineConfigs: inlineConfigs, InlineOrder: order}

	default:
		b.fault(perrors.CategoryValidation, perrors.CodeInvalidNodeReference,
			fmt.Sprintf("edge %q target must be a string, array, or object", edgeName), perrors.Context{})
		return types.EdgeTarget{Kind: types.EdgeTargetSingle, IsOptional: isOptional}
	}
}
