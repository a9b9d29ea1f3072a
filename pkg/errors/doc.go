// Package errors implements the structured Error Model (C1) shared by
// every other core component.
//
// # Overview
//
// Rather than raising host-language exceptions, the parser, router, loop
// manager, state manager, and executor all communicate failure through
// *errors.Error values. Centralizing the shape lets the router attach
// failure information to an edge map without depending on any particular
// component's internal error types.
//
// # Basic Usage
//
//	import "github.com/flowcraft/workflow-engine/pkg/errors"
//
//	mgr := errors.New(nil)
//	e := mgr.Create(errors.CategoryValidation, errors.CodeInvalidIDFormat,
//	    "id must match [a-z0-9][a-z0-9-_]*", errors.SeverityError, errors.Context{
//	        WorkflowID: "wf-1",
//	    })
//
// # Severity and Logging
//
// Severity only affects how an error is logged (info/warn/error, with
// fatal attaching its Details as additional stack-equivalent context); it
// never changes routing decisions.
package errors
