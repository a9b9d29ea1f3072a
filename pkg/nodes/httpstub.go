package nodes

import (
	"fmt"

	"github.com/flowcraft/workflow-engine/pkg/registry"
	"github.com/flowcraft/workflow-engine/pkg/types"
)

// HTTPStub buckets an HTTP status code into one of "success", "client_error",
// "server_error", or "other", without making any network call. It stands in
// for a real HTTP node, which is out of scope here: it exists so
// status-code-routing workflows can be exercised end to end using a status
// code supplied directly in config.
//
// Config:
//   - statusCode (number, required): the status code to bucket.
type HTTPStub struct{}

func (HTTPStub) Metadata() types.Metadata {
	return types.Metadata{ID: "httpstub", Name: "HTTP Stub", Version: "1.0.0", Outputs: []string{"success", "client_error", "server_error", "other"}}
}

func (HTTPStub) Execute(ctx types.ExecutionContext, config map[string]interface{}) (types.EdgeMap, error) {
	statusCode, ok := config["statusCode"].(float64)
	if !ok {
		return types.EdgeMap{}, fmt.Errorf("httpstub node %q missing numeric \"statusCode\"", ctx.NodeID())
	}

	em := types.NewEdgeMap()
	switch {
	case statusCode >= 200 && statusCode < 300:
		em.SetValue("success", statusCode)
	case statusCode >= 400 && statusCode < 500:
		em.SetValue("client_error", statusCode)
	case statusCode >= 500 && statusCode < 600:
		em.SetValue("server_error", statusCode)
	default:
		em.SetValue("other", statusCode)
	}
	return em, nil
}

type HTTPStubFactory struct{}

func (HTTPStubFactory) Metadata() types.Metadata    { return HTTPStub{}.Metadata() }
func (HTTPStubFactory) New() (registry.Node, error) { return HTTPStub{}, nil }
