// Package parser implements the Parser / AST Builder (C4): a two-phase
// validator that turns a JSON workflow definition into the arena-with-
// indices AST the rest of the engine consumes.
//
// # Phase A
//
// Structural validation of the top-level document via a compiled
// JSON-schema (id/name/version format, workflow non-empty, no unknown
// top-level properties).
//
// # Phase B
//
// Walks the workflow body, requiring a type on every node, resolving
// string edge targets against sibling node ids (tolerating `?`-suffixed
// optional edges whose target is absent), recursing into inline nested
// configurations, and rejecting non-loop circular references.
//
// # Accumulation
//
// Both phases accumulate faults rather than stopping at the first one;
// Parse always returns every fault it found. The driver refuses to
// execute a workflow when that list is non-empty.
//
// # Usage
//
//	p, err := parser.New(reg, errMgr)
//	ast, faults := p.Parse(documentBytes)
//	if len(faults) > 0 {
//	    // refuse to run
//	}
package parser
