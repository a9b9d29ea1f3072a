package nodes

import (
	"fmt"

	"github.com/flowcraft/workflow-engine/pkg/registry"
	"github.com/flowcraft/workflow-engine/pkg/types"
)

// Text returns a constant string value, the text-producing counterpart to
// Number.
//
// Config:
//   - text (string, required): the value to produce.
//   - as (string, optional): state key to also write the value under.
type Text struct{}

func (Text) Metadata() types.Metadata {
	return types.Metadata{ID: "text", Name: "Text", Version: "1.0.0", Outputs: []string{"result"}}
}

func (Text) Execute(ctx types.ExecutionContext, config map[string]interface{}) (types.EdgeMap, error) {
	text, ok := config["text"].(string)
	if !ok {
		return types.EdgeMap{}, fmt.Errorf("text node %q missing \"text\"", ctx.NodeID())
	}

	if as, ok := config["as"].(string); ok && as != "" {
		if err := ctx.SetStateProperty(as, text); err != nil {
			return types.EdgeMap{}, err
		}
	}

	em := types.NewEdgeMap()
	em.SetValue("result", text)
	return em, nil
}

type TextFactory struct{}

func (TextFactory) Metadata() types.Metadata    { return Text{}.Metadata() }
func (TextFactory) New() (registry.Node, error) { return Text{}, nil }
