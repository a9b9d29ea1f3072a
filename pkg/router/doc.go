// Package router implements the Edge Router (C5): the deterministic,
// first-match algorithm that turns a node's returned edge map into the
// engine driver's next frontier.
//
// # Resolution order
//
//  1. If the edge map contains "loop" and the node's edge table declares a
//     "loop" (or "loop?") edge, that edge wins unconditionally.
//  2. Otherwise the edge map's entries are tried in the order the node
//     produced them; for each name, the router tries the exact AST edge
//     first, then the "?"-suffixed one.
//  3. The matched edge-target shape (single / sequence / inline / multi)
//     determines the resolved next-node list and any inline config
//     overlays.
//  4. If nothing matched, the router falls through to the next node in
//     authoring order.
//
// Route never throws on an unresolved required reference that phase B
// validation should have already caught; it returns the invalid-reference
// fault as an *errors.Error so callers can decide how to surface it.
package router
