package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Tree is the arena of nodes for one industry taxonomy.
type Tree struct {
	Industry string
	RootID   string

	nodes map[string]*Node
	// order preserves global insertion order for deterministic iteration
	// when a caller needs "all nodes" rather than a subtree walk.
	order []string
}

// NewTree creates a fresh tree with a single incomplete root node.
func NewTree(industry string) *Tree {
	t := &Tree{
		Industry: industry,
		nodes:    make(map[string]*Node),
	}
	root := &Node{
		ID:          NewNodeID(),
		Name:        industry,
		Description: "Root node for industry taxonomy",
		Kind:        KindRoot,
	}
	t.RootID = root.ID
	t.nodes[root.ID] = root
	t.order = append(t.order, root.ID)
	return t
}

// NewNodeID returns a fresh stable node identifier.
func NewNodeID() string {
	return uuid.NewString()
}

// Restore rebuilds a tree from a flat set of nodes, e.g. loaded from a
// store. It returns ErrCorruptTree if the nodes do not form a single
// connected tree rooted at rootID.
func Restore(industry, rootID string, nodes []*Node) (*Tree, error) {
	t := &Tree{
		Industry: industry,
		RootID:   rootID,
		nodes:    make(map[string]*Node, len(nodes)),
	}
	for _, n := range nodes {
		if _, dup := t.nodes[n.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate node id %s", ErrCorruptTree, n.ID)
		}
		t.nodes[n.ID] = n
		t.order = append(t.order, n.ID)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Root returns the root node.
func (t *Tree) Root() *Node {
	return t.nodes[t.RootID]
}

// Node returns the node with the given id, or nil.
func (t *Tree) Node(id string) *Node {
	return t.nodes[id]
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// AddChild appends a new node under the given parent. The child must carry
// a unique id; its ParentID is set here. Appending under an unknown parent
// or reusing an id is an error.
func (t *Tree) AddChild(parentID string, child *Node) error {
	parent, ok := t.nodes[parentID]
	if !ok {
		return fmt.Errorf("%w: parent %s", ErrNodeNotFound, parentID)
	}
	if child.ID == "" {
		return fmt.Errorf("child node has no id")
	}
	if _, dup := t.nodes[child.ID]; dup {
		return fmt.Errorf("duplicate node id %s", child.ID)
	}
	child.ParentID = parent.ID
	t.nodes[child.ID] = child
	t.order = append(t.order, child.ID)
	parent.ChildIDs = append(parent.ChildIDs, child.ID)
	return nil
}

// Children returns the ordered children of a node.
func (t *Tree) Children(id string) []*Node {
	n := t.nodes[id]
	if n == nil {
		return nil
	}
	out := make([]*Node, 0, len(n.ChildIDs))
	for _, cid := range n.ChildIDs {
		if c := t.nodes[cid]; c != nil {
			out = append(out, c)
		}
	}
	return out
}

// Ancestors returns the root-to-node chain, excluding the node itself.
func (t *Tree) Ancestors(id string) []*Node {
	var rev []*Node
	n := t.nodes[id]
	if n == nil {
		return nil
	}
	for n.ParentID != "" {
		n = t.nodes[n.ParentID]
		if n == nil {
			return nil
		}
		rev = append(rev, n)
	}
	out := make([]*Node, len(rev))
	for i, a := range rev {
		out[len(rev)-1-i] = a
	}
	return out
}

// Chain returns root-to-node context references, including the node itself.
func (t *Tree) Chain(id string) []Ref {
	n := t.nodes[id]
	if n == nil {
		return nil
	}
	ancestors := t.Ancestors(id)
	chain := make([]Ref, 0, len(ancestors)+1)
	for _, a := range ancestors {
		chain = append(chain, a.Ref())
	}
	return append(chain, n.Ref())
}

// NearestAncestor walks up from id (exclusive) and returns the first node
// of the given kind, or nil.
func (t *Tree) NearestAncestor(id string, kind Kind) *Node {
	n := t.nodes[id]
	if n == nil {
		return nil
	}
	for n.ParentID != "" {
		n = t.nodes[n.ParentID]
		if n == nil {
			return nil
		}
		if n.Kind == kind {
			return n
		}
	}
	return nil
}

// Path returns the human-readable root-to-node path, slash separated.
// Used in logs so a failed step can be located in the taxonomy.
func (t *Tree) Path(id string) string {
	n := t.nodes[id]
	if n == nil {
		return ""
	}
	path := n.Name
	for n.ParentID != "" {
		n = t.nodes[n.ParentID]
		if n == nil {
			break
		}
		path = n.Name + "/" + path
	}
	return path
}

// Walk visits nodes in pre-order (parents before children, children in
// insertion order). The visit function may return false to stop early.
func (t *Tree) Walk(fn func(*Node) bool) {
	var visit func(id string) bool
	visit = func(id string) bool {
		n := t.nodes[id]
		if n == nil {
			return true
		}
		if !fn(n) {
			return false
		}
		for _, cid := range n.ChildIDs {
			if !visit(cid) {
				return false
			}
		}
		return true
	}
	visit(t.RootID)
}

// Frontier returns all incomplete nodes in pre-order. These are the nodes a
// resumed run must continue processing.
func (t *Tree) Frontier() []*Node {
	var frontier []*Node
	t.Walk(func(n *Node) bool {
		if !n.Complete {
			frontier = append(frontier, n)
		}
		return true
	})
	return frontier
}

// Nodes returns all nodes in insertion order.
func (t *Tree) Nodes() []*Node {
	out := make([]*Node, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.nodes[id])
	}
	return out
}

// JobNodes returns every node of kind Job, in tree order. This replaces the
// original side-channel list of jobs: it is a query, not shared state.
func (t *Tree) JobNodes() []*Node {
	var jobs []*Node
	t.Walk(func(n *Node) bool {
		if n.Kind == KindJob {
			jobs = append(jobs, n)
		}
		return true
	})
	return jobs
}

// Validate checks the structural invariants: every node is reachable from
// the root through parent links, parent/child references agree, there are
// no cycles and no dangling ids.
func (t *Tree) Validate() error {
	root := t.nodes[t.RootID]
	if root == nil {
		return fmt.Errorf("%w: missing root %s", ErrCorruptTree, t.RootID)
	}
	if root.ParentID != "" {
		return fmt.Errorf("%w: root has a parent", ErrCorruptTree)
	}

	seen := make(map[string]bool, len(t.nodes))
	var visit func(id string) error
	visit = func(id string) error {
		n := t.nodes[id]
		if n == nil {
			return fmt.Errorf("%w: dangling child id %s", ErrCorruptTree, id)
		}
		if seen[id] {
			return fmt.Errorf("%w: node %s reachable twice (cycle or duplicate link)", ErrCorruptTree, id)
		}
		seen[id] = true
		for _, cid := range n.ChildIDs {
			c := t.nodes[cid]
			if c == nil {
				return fmt.Errorf("%w: dangling child id %s under %s", ErrCorruptTree, cid, n.Name)
			}
			if c.ParentID != n.ID {
				return fmt.Errorf("%w: node %s parent mismatch", ErrCorruptTree, cid)
			}
			if err := visit(cid); err != nil {
				return err
			}
		}
		return nil
	}
	if err := visit(t.RootID); err != nil {
		return err
	}
	if len(seen) != len(t.nodes) {
		return fmt.Errorf("%w: %d of %d nodes unreachable from root", ErrCorruptTree, len(t.nodes)-len(seen), len(t.nodes))
	}
	return nil
}
