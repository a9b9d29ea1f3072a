package executor

import (
	"github.com/flowcraft/workflow-engine/pkg/state"
	"github.com/flowcraft/workflow-engine/pkg/types"
)

// executionContext is the ExecutionContext a node's Execute receives. It
// proxies every state operation directly to C2 — state is shared across
// the whole execution, not buffered per invocation — and remembers the
// first write failure so the executor can degrade it to a warning edge
// after Execute returns instead of failing the whole invocation.
type executionContext struct {
	workflowID  string
	nodeID      string
	executionID string
	inputs      []interface{}

	state *state.Manager

	writeErr error
}

func newExecutionContext(workflowID, nodeID, executionID string, inputs []interface{}, st *state.Manager) *executionContext {
	return &executionContext{
		workflowID:  workflowID,
		nodeID:      nodeID,
		executionID: executionID,
		inputs:      inputs,
		state:       st,
	}
}

func (c *executionContext) WorkflowID() string    { return c.workflowID }
func (c *executionContext) NodeID() string        { return c.nodeID }
func (c *executionContext) ExecutionID() string   { return c.executionID }
func (c *executionContext) Inputs() []interface{} { return c.inputs }

func (c *executionContext) GetState() (map[string]interface{}, error) {
	return c.state.Get(c.executionID)
}

func (c *executionContext) UpdateState(patch map[string]interface{}) error {
	if err := c.state.Update(c.executionID, patch); err != nil {
		if c.writeErr == nil {
			c.writeErr = err
		}
		return err
	}
	return nil
}

func (c *executionContext) GetStateProperty(key string) (interface{}, bool, error) {
	return c.state.GetProperty(c.executionID, key)
}

func (c *executionContext) SetStateProperty(key string, value interface{}) error {
	if err := c.state.SetProperty(c.executionID, key, value); err != nil {
		if c.writeErr == nil {
			c.writeErr = err
		}
		return err
	}
	return nil
}

var _ types.ExecutionContext = (*executionContext)(nil)
