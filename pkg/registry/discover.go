package registry

import (
	"fmt"
	"path/filepath"
	"plugin"

	"github.com/flowcraft/workflow-engine/pkg/logging"
)

// Discover scans directory for compiled plugins (*.so) and registers
// every one that exports a `NodeFactory` symbol satisfying Factory. A
// plugin that cannot be opened, or does not export the expected symbol in
// the expected shape, is logged via logger and skipped — one bad plugin
// never prevents the rest of the directory from loading.
func (r *Registry) Discover(directory string, logger *logging.Logger) error {
	if logger == nil {
		logger = logging.New(logging.DefaultConfig())
	}

	matches, err := filepath.Glob(filepath.Join(directory, "*.so"))
	if err != nil {
		return fmt.Errorf("registry: scanning %s: %w", directory, err)
	}

	for _, path := range matches {
		if err := r.loadPlugin(path); err != nil {
			logger.WithField("plugin", path).WithError(err).Warn("skipping node plugin that failed to load")
			continue
		}
	}
	return nil
}

func (r *Registry) loadPlugin(path string) error {
	p, err := plugin.Open(path)
	if err != nil {
		return fmt.Errorf("opening plugin: %w", err)
	}

	sym, err := p.Lookup("NodeFactory")
	if err != nil {
		return fmt.Errorf("looking up NodeFactory symbol: %w", err)
	}

	factory, ok := sym.(Factory)
	if !ok {
		factoryPtr, okPtr := sym.(*Factory)
		if !okPtr {
			return fmt.Errorf("NodeFactory symbol does not implement registry.Factory")
		}
		factory = *factoryPtr
	}

	return r.Register(factory, true)
}
