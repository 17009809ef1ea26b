package domain

// Kind identifies which expansion rule applies to a node.
type Kind string

const (
	// KindRoot is the industry node at the top of the taxonomy.
	KindRoot Kind = "root"
	KindSector Kind = "sector"
	KindSubSector Kind = "subsector"
	// KindEndUserGroup is an intermediate grouping node ("End Users -
	// Providers" / "End Users - Customers") under a subsector.
	KindEndUserGroup Kind = "end_user_group"
	KindEndUser Kind = "end_user"
	// KindJob is a taxonomy leaf. Jobs are complete at creation; the
	// downstream analysis pipeline may later grow Step nodes beneath them.
	KindJob Kind = "job"
	// KindStep is a node of the analysis pipeline attached under a Job.
	KindStep Kind = "step"
)

// Valid reports whether k belongs to the closed kind set.
func (k Kind) Valid() bool {
	switch k {
	case KindRoot, KindSector, KindSubSector, KindEndUserGroup, KindEndUser, KindJob, KindStep:
		return true
	}
	return false
}

// Node is the single entity of the taxonomy tree.
//
// A node is created by the expansion scheduler as the result of parsing one
// generation record. After creation it is mutated only to flip Complete;
// children are appended, never removed, during normal operation.
type Node struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Kind        Kind   `json:"kind" yaml:"kind"`

	// Complete is true only after every expansion this node is responsible
	// for has been generated and persisted. Incomplete nodes are, by
	// definition, eligible for (re)processing on resume.
	Complete bool `json:"complete" yaml:"complete"`

	// Origin is the id of the expansion step that created this node. Empty
	// for the root. The scheduler uses it to detect which steps have already
	// run beneath a node, so re-running a step is a no-op.
	Origin string `json:"origin,omitempty" yaml:"origin,omitempty"`

	// EmptySteps lists ids of steps that ran against this node and parsed to
	// zero records. The empty outcome is recorded so re-runs skip the step
	// instead of regenerating it.
	EmptySteps []string `json:"empty_steps,omitempty" yaml:"empty_steps,omitempty"`

	// ParentID is empty only for the root.
	ParentID string `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`

	// ChildIDs preserves insertion order, which mirrors generation order.
	ChildIDs []string `json:"child_ids,omitempty" yaml:"child_ids,omitempty"`
}

// Terminal reports whether the node requires no further taxonomy expansion.
func (n *Node) Terminal() bool {
	return n.Kind == KindJob || n.Kind == KindStep
}

// Ref is a name/description pair used to build generation context chains.
type Ref struct {
	Name        string
	Description string
	Kind        Kind
}

// Ref returns the node's context reference.
func (n *Node) Ref() Ref {
	return Ref{Name: n.Name, Description: n.Description, Kind: n.Kind}
}
