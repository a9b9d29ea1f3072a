package state

// Snapshot captures a deep clone of an execution's current state, useful
// for tests that want to assert the deep-clone/deep-merge invariants
// without re-running a whole workflow (section 8, properties 1-2).
//
// A full execution snapshot (state plus loop progress) composes at the
// engine layer, which already holds both a *state.Manager and a
// *loop.Manager; keeping Snapshot scoped to state alone avoids a pkg/state
// -> pkg/loop import that the rest of the package graph does not need.
func (m *Manager) Snapshot(executionID string) (map[string]interface{}, error) {
	return m.Get(executionID)
}

// Restore replaces an execution's state wholesale with a previously
// captured snapshot. The execution must already be live; Restore does not
// create new executions.
func (m *Manager) Restore(executionID string, snapshot map[string]interface{}) error {
	e, err := m.lookup(executionID)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.data = deepCloneMap(snapshot)
	if e.data == nil {
		e.data = make(map[string]interface{})
	}
	e.mu.Unlock()
	return nil
}
