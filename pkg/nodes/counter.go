package nodes

import (
	"fmt"

	"github.com/flowcraft/workflow-engine/pkg/registry"
	"github.com/flowcraft/workflow-engine/pkg/types"
)

// Counter increments a named counter kept in execution state by one each
// time it runs, and routes to "loop" until it reaches a configured limit,
// then to "done". It exists to give loop-body demos and tests a node that
// carries state across iterations without needing a real upstream system.
//
// Config:
//   - key (string, optional, default "count"): the state property to
//     increment.
//   - limit (number, required): the value at which the counter stops
//     looping and exits via "done".
type Counter struct{}

func (Counter) Metadata() types.Metadata {
	return types.Metadata{ID: "counter", Name: "Counter", Version: "1.0.0", Outputs: []string{"loop", "done"}}
}

func (Counter) Execute(ctx types.ExecutionContext, config map[string]interface{}) (types.EdgeMap, error) {
	limit, ok := config["limit"].(float64)
	if !ok {
		return types.EdgeMap{}, fmt.Errorf("counter node %q missing numeric \"limit\"", ctx.NodeID())
	}
	key := "count"
	if k, ok := config["key"].(string); ok && k != "" {
		key = k
	}

	raw, _, err := ctx.GetStateProperty(key)
	if err != nil {
		return types.EdgeMap{}, err
	}
	count, _ := raw.(float64)
	count++
	if err := ctx.SetStateProperty(key, count); err != nil {
		return types.EdgeMap{}, err
	}

	em := types.NewEdgeMap()
	if count < limit {
		em.SetValue("loop", count)
	} else {
		em.SetValue("done", count)
	}
	return em, nil
}

type CounterFactory struct{}

func (CounterFactory) Metadata() types.Metadata    { return Counter{}.Metadata() }
func (CounterFactory) New() (registry.Node, error) { return Counter{}, nil }
