// Package engine implements the Execution Engine Driver (C8): the
// frontier-walk loop over a parsed workflow.
//
// A single execution is a single-threaded cooperative sequence of node
// invocations: the driver never interleaves two nodes of the same
// execution, though separate executions may run concurrently on separate
// Driver calls since C2 and C6 isolate state per executionId. Routing
// priority on every step is: the loop manager (C6) first if the execution
// is already inside a loop or the node just started one, otherwise the
// general edge router (C5).
package engine
