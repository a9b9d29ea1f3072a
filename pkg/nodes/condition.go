package nodes

import (
	"fmt"

	"github.com/flowcraft/workflow-engine/pkg/registry"
	"github.com/flowcraft/workflow-engine/pkg/types"
)

// Condition evaluates a comparison string against a numeric value and
// routes to "true" or "false".
//
// Config:
//   - condition (string, required): one of "true", "false", or a
//     two-character-operator-first comparison against a threshold, e.g.
//     ">100", "<=50", "==10", "!=5".
//   - value (number, optional): the value to compare. Takes precedence
//     over valueFrom.
//   - valueFrom (string, optional): a state key to read the value from
//     when value is not given directly.
type Condition struct{}

func (Condition) Metadata() types.Metadata {
	return types.Metadata{ID: "condition", Name: "Condition", Version: "1.0.0", Outputs: []string{"true", "false"}}
}

func (Condition) Execute(ctx types.ExecutionContext, config map[string]interface{}) (types.EdgeMap, error) {
	condition, ok := config["condition"].(string)
	if !ok {
		return types.EdgeMap{}, fmt.Errorf("condition node %q missing \"condition\"", ctx.NodeID())
	}

	value, err := conditionInput(ctx, config)
	if err != nil {
		return types.EdgeMap{}, err
	}

	em := types.NewEdgeMap()
	if evaluateCondition(condition, value) {
		em.SetValue("true", value)
	} else {
		em.SetValue("false", value)
	}
	return em, nil
}

func conditionInput(ctx types.ExecutionContext, config map[string]interface{}) (interface{}, error) {
	if v, ok := config["value"]; ok {
		return v, nil
	}
	key, ok := config["valueFrom"].(string)
	if !ok {
		return nil, fmt.Errorf("condition node %q needs \"value\" or \"valueFrom\"", ctx.NodeID())
	}
	v, found, err := ctx.GetStateProperty(key)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("condition node %q: state has no %q", ctx.NodeID(), key)
	}
	return v, nil
}

// evaluateCondition parses condition and compares it against value.
//
// Supported forms:
//   - "true", "false" - constants
//   - ">N", "<N", ">=N", "<=N", "==N", "!=N" - numeric comparisons
//
// value may be a direct number or a map carrying a "value" field, the
// shape an upstream node's edge payload commonly takes.
func evaluateCondition(condition string, value interface{}) bool {
	if condition == "true" {
		return true
	}
	if condition == "false" {
		return false
	}

	numVal, ok := value.(float64)
	if !ok {
		if m, isMap := value.(map[string]interface{}); isMap {
			if v, exists := m["value"]; exists {
				numVal, ok = v.(float64)
			}
		}
		if !ok {
			return false
		}
	}

	var threshold float64
	var operator string

	if len(condition) >= 2 {
		switch condition[0:2] {
		case ">=":
			operator = ">="
			fmt.Sscanf(condition[2:], "%f", &threshold)
		case "<=":
			operator = "<="
			fmt.Sscanf(condition[2:], "%f", &threshold)
		case "==":
			operator = "=="
			fmt.Sscanf(condition[2:], "%f", &threshold)
		case "!=":
			operator = "!="
			fmt.Sscanf(condition[2:], "%f", &threshold)
		default:
			switch condition[0] {
			case '>':
				operator = ">"
				fmt.Sscanf(condition[1:], "%f", &threshold)
			case '<':
				operator = "<"
				fmt.Sscanf(condition[1:], "%f", &threshold)
			}
		}
	}

	switch operator {
	case ">":
		return numVal > threshold
	case "<":
		return numVal < threshold
	case ">=":
		return numVal >= threshold
	case "<=":
		return numVal <= threshold
	case "==":
		return numVal == threshold
	case "!=":
		return numVal != threshold
	default:
		return false
	}
}

type ConditionFactory struct{}

func (ConditionFactory) Metadata() types.Metadata    { return Condition{}.Metadata() }
func (ConditionFactory) New() (registry.Node, error) { return Condition{}, nil }
