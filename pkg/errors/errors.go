// Package errors implements the workflow engine's structured Error Model
// (C1). Failures inside the engine are values, not host-language
// exceptions: operations that can fail return either a result or a
// *Error, and a single privileged edge name "error" conveys that a node
// execution yielded an error value to the router.
package errors

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/flowcraft/workflow-engine/pkg/logging"
)

// Category partitions errors by where they originated (section 7).
type Category string

const (
	CategoryValidation    Category = "validation"
	CategoryRuntime       Category = "runtime"
	CategoryFlowControl   Category = "flow_control"
	CategoryNodeExecution Category = "node_execution"
	CategorySystem        Category = "system"
)

// Severity influences logging only; it never changes routing (section 7).
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
	SeverityFatal   Severity = "fatal"
)

// Representative codes from the taxonomy in section 7.
const (
	CodeMissingRequiredField    = "missing_required_field"
	CodeInvalidIDFormat         = "invalid_id_format"
	CodeInvalidVersionFormat    = "invalid_version_format"
	CodeEmptyWorkflow           = "empty_workflow"
	CodeUnknownProperty         = "unknown_property"
	CodeMissingNodeType         = "missing_node_type"
	CodeUnknownNodeType         = "unknown_node_type"
	CodeNestedNodeMissingType   = "nested_node_missing_type"
	CodeInvalidNodeReference    = "invalid_node_reference"
	CodeEdgeTargetNotFound      = "edge_target_not_found"
	CodeCircularReference       = "circular_reference"
	CodeAmbiguousNodeID         = "ambiguous_node_id"
	CodeStateRetrievalFailed    = "state_retrieval_failed"
	CodeStateUpdateFailed       = "state_update_failed"
	CodeErrorStateUpdateFailed  = "error_state_update_failed"
	CodeNodeInstantiationFailed = "node_instantiation_failed"
	CodeStateAlreadyExists      = "state_already_exists"
	CodeStateNotFound           = "state_not_found"
	CodeNodeExecutionFailed     = "node_execution_failed"
	CodeInvalidMetadata         = "invalid_metadata"
	CodeVersionConflict         = "version_conflict"
	CodeMaxIterations           = "max_iterations"
	CodeTimeout                 = "timeout"
	CodeExecutionCancelled      = "execution_cancelled"
	CodeTooManyNodeExecutions   = "too_many_node_executions"
)

// Context carries the identifiers an Error may be scoped to.
type Context struct {
	NodeID      string
	ExecutionID string
	WorkflowID  string
	Details     interface{}
	Cause       error
}

// Error is the structured error value of section 3/4.1.
type Error struct {
	ID          string      `json:"id"`
	Category    Category    `json:"category"`
	Code        string      `json:"code"`
	Message     string      `json:"message"`
	Severity    Severity    `json:"severity"`
	Timestamp   time.Time   `json:"timestamp"`
	NodeID      string      `json:"nodeId,omitempty"`
	ExecutionID string      `json:"executionId,omitempty"`
	WorkflowID  string      `json:"workflowId,omitempty"`
	Details     interface{} `json:"details,omitempty"`
	Cause       error       `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("[%s/%s] %s", e.Category, e.Code, e.Message)
}

// Unwrap exposes the cause chain to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Manager is the C1 error model: it mints structured errors, logs them at
// the matching severity, and indexes them by id and by executionId so
// callers can retrieve or clean up every error tied to one execution.
type Manager struct {
	mu          sync.RWMutex
	byID        map[string]*Error
	byExecution map[string][]string // executionId -> []errorId

	logger *logging.Logger
}

// New creates an error manager. logger may be nil, in which case a default
// logger is used.
func New(logger *logging.Logger) *Manager {
	if logger == nil {
		logger = logging.New(logging.DefaultConfig())
	}
	return &Manager{
		byID:        make(map[string]*Error),
		byExecution: make(map[string][]string),
		logger:      logger,
	}
}

// Create assigns a fresh id, attaches a timestamp, logs at the matching
// level (any severity logs the Cause; fatal also logs Details as
// stack_context, a stack-equivalent), and indexes
// the error by id and by executionId.
func (m *Manager) Create(category Category, code, message string, severity Severity, ctx Context) *Error {
	e := &Error{
		ID:          uuid.NewString(),
		Category:    category,
		Code:        code,
		Message:     message,
		Severity:    severity,
		Timestamp:   time.Now(),
		NodeID:      ctx.NodeID,
		ExecutionID: ctx.ExecutionID,
		WorkflowID:  ctx.WorkflowID,
		Details:     ctx.Details,
		Cause:       ctx.Cause,
	}

	m.mu.Lock()
	m.byID[e.ID] = e
	if e.ExecutionID != "" {
		m.byExecution[e.ExecutionID] = append(m.byExecution[e.ExecutionID], e.ID)
	}
	m.mu.Unlock()

	m.log(e)
	return e
}

func (m *Manager) log(e *Error) {
	l := m.logger.
		WithField("error_id", e.ID).
		WithField("category", string(e.Category)).
		WithField("code", e.Code)
	if e.ExecutionID != "" {
		l = l.WithExecutionID(e.ExecutionID)
	}
	if e.NodeID != "" {
		l = l.WithNodeID(e.NodeID)
	}
	if e.Cause != nil {
		l = l.WithError(e.Cause)
	}

	switch e.Severity {
	case SeverityInfo:
		l.Info(e.Message)
	case SeverityWarning:
		l.Warn(e.Message)
	case SeverityFatal:
		l.WithField("stack_context", e.Details).Error(e.Message)
	default:
		l.Error(e.Message)
	}
}

// HandleExecutionError normalizes any unstructured failure into a
// structured Error and returns the routing edge name to use: "error". It
// writes no execution state (this package does not depend on pkg/state);
// the executor records its compact summary under state.lastError only, and
// no summary is written under state.error.
func (m *Manager) HandleExecutionError(err error, ctx Context) (*Error, string) {
	if structured, ok := err.(*Error); ok {
		return structured, "error"
	}
	ctx.Cause = err
	e := m.Create(CategoryNodeExecution, CodeNodeExecutionFailed, err.Error(), SeverityError, ctx)
	return e, "error"
}

// ResponseShape is the external-facing error envelope from section 6.
type ResponseShape struct {
	Success bool       `json:"success"`
	Error   *errorBody `json:"error"`
}

type errorBody struct {
	ID        string      `json:"id"`
	Category  Category    `json:"category"`
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	Severity  Severity    `json:"severity"`
	Timestamp time.Time   `json:"timestamp"`
	Details   interface{} `json:"details,omitempty"`
}

// Response produces the external-facing shape for an Error.
func Response(e *Error) ResponseShape {
	return ResponseShape{
		Success: false,
		Error: &errorBody{
			ID:        e.ID,
			Category:  e.Category,
			Code:      e.Code,
			Message:   e.Message,
			Severity:  e.Severity,
			Timestamp: e.Timestamp,
			Details:   e.Details,
		},
	}
}

// GetByExecution returns every error recorded against an executionId, in
// creation order.
func (m *Manager) GetByExecution(executionID string) []*Error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := m.byExecution[executionID]
	out := make([]*Error, 0, len(ids))
	for _, id := range ids {
		if e, ok := m.byID[id]; ok {
			out = append(out, e)
		}
	}
	return out
}

// CleanupByExecution removes every error recorded against an executionId
// from the index. It is opt-in garbage collection: callers invoke it when
// an execution's lifecycle ends (see pkg/engine.CompleteExecution).
func (m *Manager) CleanupByExecution(executionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range m.byExecution[executionID] {
		delete(m.byID, id)
	}
	delete(m.byExecution, executionID)
}
