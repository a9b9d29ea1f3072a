package nodes

import "github.com/flowcraft/workflow-engine/pkg/registry"

// Register adds every node type in this package to reg. Each is registered
// non-singleton: these nodes carry no per-instance state, so the registry's
// own default of one instance per call is harmless, but Register does not
// assume that and leaves the choice to the registry's default.
func Register(reg *registry.Registry) error {
	factories := []registry.Factory{
		NumberFactory{},
		TextFactory{},
		ConditionFactory{},
		CounterFactory{},
		HTTPStubFactory{},
	}
	for _, f := range factories {
		if err := reg.Register(f, false); err != nil {
			return err
		}
	}
	return nil
}
