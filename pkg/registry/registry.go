// Package registry implements the Node Registry (C3): a type-name to node
// factory lookup with metadata validation and optional filesystem
// discovery. This is a Strategy Pattern registry in the same shape as the
// teacher's pkg/executor/registry.go, generalized from a fixed node-type
// enum to an open set of externally-registered node kinds.
package registry

import (
	"sync"

	"github.com/flowcraft/workflow-engine/pkg/types"
)

// Node is the abstraction the engine consumes: an entity with immutable
// Metadata and an Execute operation. The registry does not interpret
// config — it is opaque to the registry and to the factory that produced
// the node.
type Node interface {
	Metadata() types.Metadata
	Execute(ctx types.ExecutionContext, config map[string]interface{}) (types.EdgeMap, error)
}

// Factory produces Node instances. Class-like factories return a new Node
// per call to New; singleton factories are expected to return the same
// instance every time (the registry itself also caches singleton
// instances, so a factory that happens to allocate fresh state per call is
// still only invoked once).
type Factory interface {
	Metadata() types.Metadata
	New() (Node, error)
}

// registration pairs a factory with whether it is registered as a
// singleton and, if so, its cached instance.
type registration struct {
	factory   Factory
	singleton bool
	instance  Node
}

// Registry is the C3 node registry: a process-global, read-mostly map from
// node id to factory. Registration is expected at startup or via ordered
// discovery; hot re-registration is allowed, but in-flight executions may
// observe either the old or the new factory (section 5).
type Registry struct {
	mu   sync.RWMutex
	byID map[string]*registration
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{byID: make(map[string]*registration)}
}

// Register validates the factory's metadata ({id, name, version} all
// non-empty strings) and adds it to the registry.
//
// Re-registering the same (id, version) is a no-op. Re-registering the
// same id with a different version is a fault (ErrVersionConflict) — a
// genuine upgrade must go through Unregister first.
func (r *Registry) Register(factory Factory, singleton bool) error {
	meta := factory.Metadata()
	if meta.ID == "" || meta.Name == "" || meta.Version == "" {
		return ErrInvalidMetadata
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byID[meta.ID]; ok {
		if existing.factory.Metadata().Version == meta.Version {
			return nil
		}
		return ErrVersionConflict
	}

	r.byID[meta.ID] = &registration{factory: factory, singleton: singleton}
	return nil
}

// MustRegister registers a factory and panics on error. Useful at process
// init where registration failure is a programming error.
func (r *Registry) MustRegister(factory Factory, singleton bool) {
	if err := r.Register(factory, singleton); err != nil {
		panic(err)
	}
}

// Get returns the factory registered for id, if any.
func (r *Registry) Get(id string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	return reg.factory, true
}

// GetInstance instantiates (or, for a singleton registration, returns the
// cached instance of) the node registered under id.
func (r *Registry) GetInstance(id string) (Node, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	reg, ok := r.byID[id]
	if !ok {
		return nil, ErrNodeNotFound
	}

	if reg.singleton {
		if reg.instance == nil {
			inst, err := reg.factory.New()
			if err != nil {
				return nil, err
			}
			reg.instance = inst
		}
		return reg.instance, nil
	}

	return reg.factory.New()
}

// GetMetadata returns the metadata for a registered node id.
func (r *Registry) GetMetadata(id string) (types.Metadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.byID[id]
	if !ok {
		return types.Metadata{}, false
	}
	return reg.factory.Metadata(), true
}

// ListAll returns the metadata of every registered node, in no particular
// order.
func (r *Registry) ListAll() []types.Metadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]types.Metadata, 0, len(r.byID))
	for _, reg := range r.byID {
		out = append(out, reg.factory.Metadata())
	}
	return out
}

// HasNode reports whether id is registered.
func (r *Registry) HasNode(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byID[id]
	return ok
}

// Unregister removes a node registration.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
}

// Clear removes every registration.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID = make(map[string]*registration)
}

// Size returns the number of registered node ids.
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
