// Package executor implements the Node Executor (C7).
//
// ExecuteNode is the sole entry point: validate a node's declared type,
// resolve and instantiate it from the registry, wire it to the
// per-execution state manager through an ExecutionContext, invoke it, and
// reduce every possible failure mode — missing type, unknown type,
// instantiation failure, unreachable state, a thrown/returned node fault,
// or a failed state write — into a usable EdgeMap. Callers never see a Go
// error from ExecuteNode itself; failures surface as a populated "error"
// edge for the router (C5) to follow.
package executor
