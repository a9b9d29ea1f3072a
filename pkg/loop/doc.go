// Package loop implements the Loop Manager (C6).
//
// # State machine
//
// Not-in-loop -> StartLoop -> Body@0 -> ... -> Body@k-1 -> AtLoopNode ->
// (re-run the loop-initiating node) -> either a fresh Body@0 (new
// iteration), or termination (max_iterations, timeout, non_loop_edge, or
// completed).
//
// At most one loop may be active per execution; StartLoop on an execution
// that already has one returns ErrAlreadyInLoop. Iteration and elapsed
// time are checked once per cycle, at the AtLoopNode transition.
package loop
