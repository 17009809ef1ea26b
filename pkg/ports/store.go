package ports

import (
	"context"

	"github.com/jobatlas/jobatlas/pkg/domain"
)

// TreeStore persists taxonomy trees keyed by industry name.
//
// Write ordering matters for crash safety: the engine persists new child
// nodes (via UpsertNodes) before it persists the parent carrying the
// completion flag. Implementations must apply the nodes of a single
// UpsertNodes call in the order given.
type TreeStore interface {
	// SaveTree persists the whole tree, replacing any previous state for
	// the same industry.
	SaveTree(ctx context.Context, tree *domain.Tree) error

	// LoadTree reassembles the tree for an industry. Returns
	// domain.ErrTreeNotFound when no state exists, or domain.ErrCorruptTree
	// when the persisted nodes do not form a valid tree.
	LoadTree(ctx context.Context, industry string) (*domain.Tree, error)

	// UpsertNode writes a single node.
	UpsertNode(ctx context.Context, industry string, node *domain.Node) error

	// UpsertNodes writes several nodes in order. Used to persist generated
	// children together with their updated parent.
	UpsertNodes(ctx context.Context, industry string, nodes []*domain.Node) error

	// FindNode returns one node by id, or domain.ErrNodeNotFound.
	FindNode(ctx context.Context, industry, id string) (*domain.Node, error)

	// List returns the industries with persisted trees.
	List(ctx context.Context) ([]string, error)

	// Delete removes all state for an industry. Deleting an unknown
	// industry is not an error.
	Delete(ctx context.Context, industry string) error
}
