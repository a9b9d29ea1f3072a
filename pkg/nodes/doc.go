// Package nodes provides a handful of example registry.Node implementations
// — number, text, condition, counter, and an httpstub — standing in for the
// externally-supplied node kinds a real deployment would register. They
// exist to exercise the engine end to end in tests and in cmd/demo; nothing
// in pkg/engine or pkg/executor depends on this package.
package nodes
