// Package state implements the per-execution state manager (C2): isolated
// mutable state keyed by executionId, deep-clone reads, deep-merge writes,
// and lifecycle-bound cleanup.
package state

import (
	"context"
	"sync"
	"time"

	"github.com/flowcraft/workflow-engine/pkg/observer"
)

// entry holds one execution's live state plus the mutex that serializes
// every operation touching it. Operations on different executionIds proceed
// in parallel; a single global lock would serialize all executions, which
// section 5's design notes explicitly forbid.
type entry struct {
	mu           sync.Mutex
	data         map[string]interface{}
	cleanupTimer *time.Timer
}

// Manager is the C2 state manager. The zero value is not usable; construct
// with New.
type Manager struct {
	// mu guards the executions map itself (adding/removing entries), not
	// the state within an entry.
	mu         sync.RWMutex
	executions map[string]*entry

	observers    *observer.Manager
	defaultDelay time.Duration
}

// New creates a state manager. observers may be nil, in which case
// lifecycle events are simply not emitted. defaultCleanupDelay is used by
// ScheduleCleanup when delay <= 0; the spec's default is 3 600 000 ms.
func New(observers *observer.Manager, defaultCleanupDelay time.Duration) *Manager {
	if defaultCleanupDelay <= 0 {
		defaultCleanupDelay = time.Duration(3_600_000) * time.Millisecond
	}
	return &Manager{
		executions:   make(map[string]*entry),
		observers:    observers,
		defaultDelay: defaultCleanupDelay,
	}
}

// Initialize creates state for a new execution. Fails with
// ErrStateAlreadyExists if the id is already live.
func (m *Manager) Initialize(executionID string, initial map[string]interface{}) error {
	m.mu.Lock()
	if _, exists := m.executions[executionID]; exists {
		m.mu.Unlock()
		return ErrStateAlreadyExists
	}
	e := &entry{data: deepCloneMap(initial)}
	if e.data == nil {
		e.data = make(map[string]interface{})
	}
	m.executions[executionID] = e
	m.mu.Unlock()

	m.notify(executionID, observer.EventStateInitialized, nil)
	return nil
}

// Get returns a deep clone of the execution's state. Callers cannot mutate
// internal state by holding a reference into the returned map.
func (m *Manager) Get(executionID string) (map[string]interface{}, error) {
	e, err := m.lookup(executionID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return deepCloneMap(e.data), nil
}

// Update deep-merges patch into the stored state (see deepMerge for the
// merge rules) and reports ErrStateNotFound if the execution is not live.
func (m *Manager) Update(executionID string, patch map[string]interface{}) error {
	e, err := m.lookup(executionID)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.data = deepMergeMap(e.data, patch)
	e.mu.Unlock()

	m.notify(executionID, observer.EventStateUpdated, patch)
	return nil
}

// GetProperty is a convenience wrapper semantically equivalent to Get plus
// a key read.
func (m *Manager) GetProperty(executionID, key string) (interface{}, bool, error) {
	state, err := m.Get(executionID)
	if err != nil {
		return nil, false, err
	}
	v, ok := state[key]
	return v, ok, nil
}

// SetProperty is semantically equivalent to Update(id, {key: value}).
func (m *Manager) SetProperty(executionID, key string, value interface{}) error {
	return m.Update(executionID, map[string]interface{}{key: value})
}

// Has reports whether an execution currently has live state.
func (m *Manager) Has(executionID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.executions[executionID]
	return ok
}

// Size returns the number of live executions.
func (m *Manager) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.executions)
}

// Cleanup destroys an execution's state immediately, cancelling any
// scheduled cleanup timer. Further operations on executionID fail with
// ErrStateNotFound until a new Initialize.
func (m *Manager) Cleanup(executionID string) error {
	m.mu.Lock()
	e, ok := m.executions[executionID]
	if ok {
		delete(m.executions, executionID)
	}
	m.mu.Unlock()

	if !ok {
		err := ErrStateNotFound
		m.notify(executionID, observer.EventCleanupError, err.Error())
		return err
	}
	if e.cleanupTimer != nil {
		e.cleanupTimer.Stop()
	}
	m.notify(executionID, observer.EventStateCleanedUp, nil)
	return nil
}

// ScheduleCleanup arranges for Cleanup to run automatically after delay. A
// delay <= 0 uses the manager's default (3 600 000 ms per the spec). The
// timer is cancellable by an explicit Cleanup call in the meantime.
func (m *Manager) ScheduleCleanup(executionID string, delay time.Duration) error {
	if delay <= 0 {
		delay = m.defaultDelay
	}

	m.mu.Lock()
	e, ok := m.executions[executionID]
	if !ok {
		m.mu.Unlock()
		return ErrStateNotFound
	}
	if e.cleanupTimer != nil {
		e.cleanupTimer.Stop()
	}
	e.cleanupTimer = time.AfterFunc(delay, func() {
		_ = m.Cleanup(executionID)
	})
	m.mu.Unlock()
	return nil
}

// Clear destroys every execution's state, for tests and process shutdown.
func (m *Manager) Clear() {
	m.mu.Lock()
	for _, e := range m.executions {
		if e.cleanupTimer != nil {
			e.cleanupTimer.Stop()
		}
	}
	m.executions = make(map[string]*entry)
	m.mu.Unlock()

	m.notify("", observer.EventAllStatesCleared, nil)
}

func (m *Manager) lookup(executionID string) (*entry, error) {
	m.mu.RLock()
	e, ok := m.executions[executionID]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrStateNotFound
	}
	return e, nil
}

func (m *Manager) notify(executionID string, eventType observer.EventType, payload interface{}) {
	if m.observers == nil || !m.observers.HasObservers() {
		return
	}
	m.observers.Notify(context.Background(), observer.Event{
		Type:        eventType,
		Status:      observer.StatusCompleted,
		Timestamp:   time.Now(),
		ExecutionID: executionID,
		Result:      payload,
	})
}
