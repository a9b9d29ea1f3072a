// Command demo drives a handful of small workflows through the full
// parse-then-run pipeline using the example node types in pkg/nodes, the
// way cmd/demo-conditional-execution once drove the old engine by hand.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/flowcraft/workflow-engine/pkg/config"
	"github.com/flowcraft/workflow-engine/pkg/engine"
	perrors "github.com/flowcraft/workflow-engine/pkg/errors"
	"github.com/flowcraft/workflow-engine/pkg/executor"
	"github.com/flowcraft/workflow-engine/pkg/loop"
	"github.com/flowcraft/workflow-engine/pkg/logging"
	"github.com/flowcraft/workflow-engine/pkg/nodes"
	"github.com/flowcraft/workflow-engine/pkg/observer"
	"github.com/flowcraft/workflow-engine/pkg/parser"
	"github.com/flowcraft/workflow-engine/pkg/registry"
	"github.com/flowcraft/workflow-engine/pkg/router"
	"github.com/flowcraft/workflow-engine/pkg/state"
	"github.com/flowcraft/workflow-engine/pkg/telemetry"
)

func main() {
	fmt.Println("=================================================")
	fmt.Println("Conditional Execution Demo")
	fmt.Println("=================================================")
	fmt.Println()

	demoAgeBasedRouting()
	demoStatusCodeRouting()
	demoNestedConditions()
}

// rig bundles the collaborators a driver needs, rebuilt per demo so state
// and loop tracking never leak between runs.
type rig struct {
	reg       *registry.Registry
	parser    *parser.Parser
	driver    *engine.Driver
	telemetry *telemetry.Provider
}

func newRig() *rig {
	reg := registry.New()
	if err := nodes.Register(reg); err != nil {
		fmt.Fprintf(os.Stderr, "registering node types: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(logging.DefaultConfig())
	errMgr := perrors.New(log)
	cfg := config.Default()

	p, err := parser.New(reg, errMgr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "building parser: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	telProvider, err := telemetry.NewProvider(ctx, telemetry.DefaultConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "starting telemetry: %v\n", err)
		os.Exit(1)
	}

	obsMgr := observer.NewManager()
	obsMgr.Register(observer.NewConsoleObserver())
	obsMgr.Register(telemetry.NewTelemetryObserver(telProvider))

	st := state.New(nil, cfg.DefaultStateCleanupDelay)
	exec := executor.New(reg, st, errMgr, nil, obsMgr)
	rtr := router.New(errMgr)
	loopMgr := loop.New(obsMgr)
	driver := engine.New(exec, rtr, loopMgr, errMgr, cfg, obsMgr)

	return &rig{reg: reg, parser: p, driver: driver, telemetry: telProvider}
}

// close shuts down the rig's telemetry provider, flushing any buffered
// spans/metrics before the process that owns it moves on.
func (r *rig) close() {
	_ = r.telemetry.Shutdown(context.Background())
}

// run parses doc and drives it to completion, printing the final state and
// any faults.
func (r *rig) run(label string, doc map[string]interface{}) {
	raw, err := json.Marshal(doc)
	if err != nil {
		fmt.Printf("  ❌ marshalling %s: %v\n", label, err)
		return
	}

	ast, faults := r.parser.Parse(raw)
	if len(faults) > 0 {
		fmt.Printf("  ❌ %s: document invalid:\n", label)
		for _, f := range faults {
			fmt.Printf("      - %s: %s\n", f.Code, f.Message)
		}
		return
	}

	executionID, err := r.driver.CreateExecution(ast.WorkflowID, nil)
	if err != nil {
		fmt.Printf("  ❌ %s: creating execution: %v\n", label, err)
		return
	}

	result := r.driver.RunParsedWorkflow(context.Background(), ast, executionID)
	fmt.Printf("  %s -> status=%s state=%v\n", label, result.Status, result.FinalState)
	for _, e := range result.Errors {
		fmt.Printf("      fault: %s: %s\n", e.Code, e.Message)
	}
}

func demoAgeBasedRouting() {
	fmt.Println("📋 DEMO 1: Age-Based Routing")
	fmt.Println("----------------------------------")
	fmt.Println("Scenario: age >= 18 -> adult path, else -> minor path")
	fmt.Println()

	r := newRig()
	defer r.close()
	for _, age := range []float64{25, 16} {
		doc := map[string]interface{}{
			"id": "age-routing", "name": "Age Routing", "version": "1.0.0",
			"workflow": map[string]interface{}{
				"age": map[string]interface{}{
					"type": "number", "value": age, "as": "age",
					"edges": map[string]interface{}{"result": "gate"},
				},
				"gate": map[string]interface{}{
					"type": "condition", "condition": ">=18", "valueFrom": "age",
					"edges": map[string]interface{}{"true": "adult", "false": "minor"},
				},
				"adult": map[string]interface{}{"type": "text", "text": "adult path: profile API -> sports API"},
				"minor": map[string]interface{}{"type": "text", "text": "minor path: parental consent required"},
			},
		}
		r.run(fmt.Sprintf("age=%.0f", age), doc)
	}
	fmt.Println()
}

func demoStatusCodeRouting() {
	fmt.Println("📋 DEMO 2: HTTP Status Code Routing")
	fmt.Println("------------------------------------------------")
	fmt.Println("Scenario: route to a handler bucketed by status code")
	fmt.Println()

	r := newRig()
	defer r.close()
	for _, code := range []float64{200, 404, 500, 301} {
		doc := map[string]interface{}{
			"id": "status-routing", "name": "Status Routing", "version": "1.0.0",
			"workflow": map[string]interface{}{
				"router": map[string]interface{}{
					"type": "httpstub", "statusCode": code,
					"edges": map[string]interface{}{
						"success": "success_handler", "client_error": "not_found_handler",
						"server_error": "error_handler", "other": "other_handler",
					},
				},
				"success_handler":   map[string]interface{}{"type": "text", "text": "processed successful response"},
				"not_found_handler": map[string]interface{}{"type": "text", "text": "handled not found"},
				"error_handler":     map[string]interface{}{"type": "text", "text": "logged server error"},
				"other_handler":     map[string]interface{}{"type": "text", "text": "other status code"},
			},
		}
		r.run(fmt.Sprintf("status=%.0f", code), doc)
	}
	fmt.Println()
}

func demoNestedConditions() {
	fmt.Println("📋 DEMO 3: Nested Conditional Logic")
	fmt.Println("------------------------------------")
	fmt.Println("Scenario: age >= 18 AND over_limit -> special_offer")
	fmt.Println("          age >= 18 AND !over_limit -> standard_offer")
	fmt.Println("          age < 18 -> parental_consent")
	fmt.Println()

	r := newRig()
	defer r.close()
	cases := []struct {
		age   float64
		spend float64
	}{
		{25, 150},
		{25, 50},
		{16, 0},
	}
	for _, c := range cases {
		doc := map[string]interface{}{
			"id": "nested-conditions", "name": "Nested Conditions", "version": "1.0.0",
			"workflow": map[string]interface{}{
				"age": map[string]interface{}{
					"type": "number", "value": c.age, "as": "age",
					"edges": map[string]interface{}{"result": "ageGate"},
				},
				"ageGate": map[string]interface{}{
					"type": "condition", "condition": ">=18", "valueFrom": "age",
					"edges": map[string]interface{}{"true": "spendGate", "false": "parental_consent"},
				},
				"spendGate": map[string]interface{}{
					"type": "condition", "condition": ">100", "value": c.spend,
					"edges": map[string]interface{}{"true": "special_offer", "false": "standard_offer"},
				},
				"special_offer":    map[string]interface{}{"type": "text", "text": "special offer"},
				"standard_offer":   map[string]interface{}{"type": "text", "text": "standard offer"},
				"parental_consent": map[string]interface{}{"type": "text", "text": "parental consent required"},
			},
		}
		r.run(fmt.Sprintf("age=%.0f,spend=%.0f", c.age, c.spend), doc)
	}
	fmt.Println()
}
