package nodes

import (
	"fmt"

	"github.com/flowcraft/workflow-engine/pkg/registry"
	"github.com/flowcraft/workflow-engine/pkg/types"
)

// Number returns a constant numeric value. It is the simplest possible
// node: no inputs, one "result" edge.
//
// Config:
//   - value (number, required): the value to produce.
//   - as (string, optional): if set, the value is also written to state
//     under this key so downstream nodes can read it without an edge.
type Number struct{}

func (Number) Metadata() types.Metadata {
	return types.Metadata{ID: "number", Name: "Number", Version: "1.0.0", Outputs: []string{"result"}}
}

func (Number) Execute(ctx types.ExecutionContext, config map[string]interface{}) (types.EdgeMap, error) {
	value, ok := config["value"].(float64)
	if !ok {
		return types.EdgeMap{}, fmt.Errorf("number node %q missing numeric \"value\"", ctx.NodeID())
	}

	if as, ok := config["as"].(string); ok && as != "" {
		if err := ctx.SetStateProperty(as, value); err != nil {
			return types.EdgeMap{}, err
		}
	}

	em := types.NewEdgeMap()
	em.SetValue("result", value)
	return em, nil
}

// NumberFactory produces fresh Number instances; Number carries no state so
// every invocation could share one instance, but the factory follows the
// class-like convention the registry expects by default.
type NumberFactory struct{}

func (NumberFactory) Metadata() types.Metadata    { return Number{}.Metadata() }
func (NumberFactory) New() (registry.Node, error) { return Number{}, nil }
