// Package registry implements the Node Registry (C3).
//
// # Overview
//
// The registry is a Strategy Pattern lookup from a node type name to a
// Factory that can produce Node instances. The parser consults it during
// Phase B validation (does this type name exist?); the executor consults
// it at run time to instantiate or fetch the node that will handle a
// given step.
//
// # Registration
//
//	reg := registry.New()
//	reg.MustRegister(numbernode.Factory{}, true) // singleton
//
// Registering the same (id, version) twice is a no-op. Registering the
// same id under a different version returns ErrVersionConflict — the
// caller must Unregister the old version first.
//
// # Discovery
//
// Discover scans a directory for compiled Go plugins (.so files built
// with `go build -buildmode=plugin`) exposing a package-level
// `var NodeFactory registry.Factory` symbol, and registers each one it can
// load. A plugin that fails to open or does not export the expected
// symbol is logged and skipped; discovery never aborts partway through a
// directory because of one bad plugin.
package registry
