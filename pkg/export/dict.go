package export

import "github.com/jobatlas/jobatlas/pkg/domain"

// NodeDict is the generic nested representation of a node, suitable for
// JSON or YAML encoding by any consumer.
type NodeDict struct {
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Kind        string     `json:"kind" yaml:"kind"`
	Complete    bool       `json:"complete" yaml:"complete"`
	Children    []NodeDict `json:"children,omitempty" yaml:"children,omitempty"`
}

// Dict converts the whole tree into its nested representation.
func Dict(tree *domain.Tree) NodeDict {
	return dictNode(tree, tree.RootID)
}

func dictNode(tree *domain.Tree, id string) NodeDict {
	n := tree.Node(id)
	d := NodeDict{
		Name:        n.Name,
		Description: n.Description,
		Kind:        string(n.Kind),
		Complete:    n.Complete,
	}
	for _, c := range tree.Children(id) {
		d.Children = append(d.Children, dictNode(tree, c.ID))
	}
	return d
}
