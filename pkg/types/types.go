// Package types holds the data model shared by every component of the
// workflow engine: the raw workflow-definition shapes decoded from JSON, the
// parsed AST, and the runtime contracts (execution context, edge maps,
// route results) that the parser, router, loop manager, executor, and
// engine driver pass between each other.
package types

import "time"

// NodeType identifies a registered node kind by its factory id.
type NodeType string

// WorkflowDocument is the top-level shape accepted by the parser's phase A
// schema validation: id/name/version plus the workflow body and optional
// initial state.
type WorkflowDocument struct {
	ID           string                 `json:"id"`
	Name         string                 `json:"name"`
	Version      string                 `json:"version"`
	InitialState map[string]interface{} `json:"initialState,omitempty"`
	Workflow     interface{}            `json:"workflow"`
}

// RawNodeConfig is a single authored node body: { "type": ..., <config
// fields>, "edges": {...} }. Sibling keys beyond type/edges flatten into
// Config during AST construction.
type RawNodeConfig struct {
	Type   string                 `json:"type"`
	Config map[string]interface{} `json:"config,omitempty"`
	Edges  map[string]interface{} `json:"edges,omitempty"`
	Extra  map[string]interface{} `json:"-"`
}

// EdgeTargetKind distinguishes the four edge-target shapes of section 3.
type EdgeTargetKind int

const (
	// EdgeTargetSingle is a bare string naming another node.
	EdgeTargetSingle EdgeTargetKind = iota
	// EdgeTargetSequence is an ordered list of nested edge-targets.
	EdgeTargetSequence
	// EdgeTargetInline is a single-key { nodeName: nodeConfig } mapping.
	EdgeTargetInline
	// EdgeTargetMulti is a multi-key mapping, each key its own inline target.
	EdgeTargetMulti
)

// EdgeTarget is the parsed form of an edge's destination. The owning edge
// name keeps its `?` suffix as the key in ASTNode.Edges; IsOptional records
// whether that suffix was present.
type EdgeTarget struct {
	Kind       EdgeTargetKind
	IsOptional bool

	// Single
	NodeID string

	// Sequence: each element is itself an EdgeTarget (string or inline).
	Sequence []EdgeTarget

	// Inline/Multi: node name -> config overlay for that use.
	InlineConfigs map[string]map[string]interface{}
	// InlineOrder preserves authoring order of InlineConfigs keys.
	InlineOrder []string
}

// ASTNode is one node of the arena-with-indices AST produced by C4. Parent
// and Children are integer indices into the owning AST's Nodes slice, never
// pointers, so the AST is trivially copyable and free of reference cycles.
type ASTNode struct {
	NodeID   string
	UniqueID string
	Type     string
	Config   map[string]interface{}
	Edges    map[string]EdgeTarget
	// EdgeOrder preserves the authoring order of edge names.
	EdgeOrder []string
	Depth     int
	Parent    int // -1 for root-level nodes
	Children  []int
}

// AST is the parsed workflow: a flat vector of nodes plus the authoring
// order of the root-level (top of workflow) nodes, and an index from
// nodeId to its position for routing/fall-through lookups.
type AST struct {
	WorkflowID string
	Name       string
	Version    string

	Nodes    []ASTNode
	RootOrder []int // indices into Nodes, in authoring order

	// ByID maps an authored nodeId to its index in Nodes. Nested nodes are
	// keyed by their own nodeId too (authoring names are unique within a
	// scope, per section 3, but the index lets routing resolve by name
	// regardless of nesting).
	ByID map[string]int

	InitialState map[string]interface{}
}

// NodeByID looks a node up by its authored nodeId.
func (a *AST) NodeByID(nodeID string) (*ASTNode, bool) {
	idx, ok := a.ByID[nodeID]
	if !ok {
		return nil, false
	}
	return &a.Nodes[idx], true
}

// NextInAuthoringOrder returns the nodeId that follows nodeID in RootOrder,
// or "" if nodeID is the last root-level node (or not a root-level node).
func (a *AST) NextInAuthoringOrder(nodeID string) string {
	idx, ok := a.ByID[nodeID]
	if !ok {
		return ""
	}
	for i, rootIdx := range a.RootOrder {
		if rootIdx == idx {
			if i+1 < len(a.RootOrder) {
				return a.Nodes[a.RootOrder[i+1]].NodeID
			}
			return ""
		}
	}
	return ""
}

// EdgeProducer is a lazily-invoked result payload: the engine only calls
// Producer for the edge it chooses to follow.
type EdgeProducer func() interface{}

// EdgeMap is the runtime value returned by a node execution, associating
// edge names with lazy payloads. The edge name "loop" is reserved and
// always takes precedence when present; "error" is reserved for failures.
// Order is significant — section 4.5's router consults populated edges in
// the order a node produced them — so EdgeMap is an ordered structure
// rather than a bare Go map (whose iteration order is unspecified).
type EdgeMap struct {
	order     []string
	producers map[string]EdgeProducer
}

// NewEdgeMap creates an empty, ready-to-use EdgeMap.
func NewEdgeMap() EdgeMap {
	return EdgeMap{producers: make(map[string]EdgeProducer)}
}

// Set records an edge, appending it to the insertion order the first time
// name is seen; setting the same name twice replaces its producer without
// moving its position.
func (m *EdgeMap) Set(name string, producer EdgeProducer) {
	if m.producers == nil {
		m.producers = make(map[string]EdgeProducer)
	}
	if _, exists := m.producers[name]; !exists {
		m.order = append(m.order, name)
	}
	m.producers[name] = producer
}

// SetValue is Set wrapped around StaticEdge, for the common case of a
// non-lazy payload.
func (m *EdgeMap) SetValue(name string, value interface{}) {
	m.Set(name, StaticEdge(value))
}

// Has reports whether name was set.
func (m EdgeMap) Has(name string) bool {
	_, ok := m.producers[name]
	return ok
}

// Get returns the producer for name, if set.
func (m EdgeMap) Get(name string) (EdgeProducer, bool) {
	p, ok := m.producers[name]
	return p, ok
}

// Order returns the edge names in the order they were first set.
func (m EdgeMap) Order() []string {
	return m.order
}

// Len reports how many distinct edges are set.
func (m EdgeMap) Len() int {
	return len(m.order)
}

// Merge appends every edge of other not already present in m, preserving
// m's existing order and appending other's edges after it. Used by the
// executor (C7) to merge a synthesized "error" edge into a node's result
// without disturbing the edges the node already produced.
func (m *EdgeMap) Merge(other EdgeMap) {
	for _, name := range other.order {
		if !m.Has(name) {
			m.Set(name, other.producers[name])
		}
	}
}

// StaticEdge wraps a plain value as an EdgeProducer, for nodes that have no
// need for laziness.
func StaticEdge(v interface{}) EdgeProducer {
	return func() interface{} { return v }
}

// Metadata describes a registered node factory (C3). Inputs/Outputs and
// AIHints are descriptive only; the registry does not interpret them.
type Metadata struct {
	ID          string
	Name        string
	Version     string
	Description string
	AIHints     map[string]interface{}
	Inputs      []string
	Outputs     []string
}

// ExecutionContext is what a node's Execute receives. It is the only
// channel through which a node reads or writes the shared execution state;
// everything else (inputs, identifiers) is read-only per invocation.
type ExecutionContext interface {
	WorkflowID() string
	NodeID() string
	ExecutionID() string
	Inputs() []interface{}

	GetState() (map[string]interface{}, error)
	UpdateState(patch map[string]interface{}) error
	GetStateProperty(key string) (interface{}, bool, error)
	SetStateProperty(key string, value interface{}) error
}

// RouteResult is C5's output: the next frontier plus any inline config
// overlays and routing metadata the driver/loop manager needs.
type RouteResult struct {
	NextNodes        []string
	InlineConfigs    map[string]map[string]interface{}
	IsOptional       bool
	ContinueSequence bool
	IsLoop           bool
}

// LoopState is C6's per-execution loop bookkeeping (section 3).
type LoopState struct {
	NodeID           string
	Iteration        int
	MaxIterations    int
	Sequence         []string
	SequenceIndex    int // -1 == "at the loop node"
	IsActive         bool
	StartTime        time.Time
	MaxExecutionTime time.Duration
}

// WorkItem is one entry of the engine driver's work list: a scheduled node
// plus an optional per-use config overlay carried in from an inline edge
// target.
type WorkItem struct {
	NodeID  string
	Overlay map[string]interface{}
}
