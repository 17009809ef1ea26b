package middleware

import (
	"context"
	"regexp"

	"github.com/jobatlas/jobatlas/pkg/domain"
	"github.com/jobatlas/jobatlas/pkg/ports"
)

// Mask replaces redacted descriptions at rest.
const Mask = "***"

type redactionMiddleware struct {
	next     ports.TreeStore
	patterns []*regexp.Regexp
}

// NewRedactionMiddleware creates a middleware that blanks the description of
// any node whose name matches one of the patterns before it is persisted.
// Useful when generated analyses (e.g. financial metrics) must not reach
// shared storage verbatim.
func NewRedactionMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.TreeStore) ports.TreeStore {
		return &redactionMiddleware{next: next, patterns: patterns}
	}
}

func (m *redactionMiddleware) SaveTree(ctx context.Context, tree *domain.Tree) error {
	redacted := make([]*domain.Node, 0, tree.Len())
	for _, n := range tree.Nodes() {
		redacted = append(redacted, m.redactNode(n))
	}
	redactedTree, err := domain.Restore(tree.Industry, tree.RootID, redacted)
	if err != nil {
		return err
	}
	return m.next.SaveTree(ctx, redactedTree)
}

func (m *redactionMiddleware) LoadTree(ctx context.Context, industry string) (*domain.Tree, error) {
	return m.next.LoadTree(ctx, industry)
}

func (m *redactionMiddleware) UpsertNode(ctx context.Context, industry string, node *domain.Node) error {
	return m.next.UpsertNode(ctx, industry, m.redactNode(node))
}

func (m *redactionMiddleware) UpsertNodes(ctx context.Context, industry string, nodes []*domain.Node) error {
	redacted := make([]*domain.Node, 0, len(nodes))
	for _, n := range nodes {
		redacted = append(redacted, m.redactNode(n))
	}
	return m.next.UpsertNodes(ctx, industry, redacted)
}

func (m *redactionMiddleware) FindNode(ctx context.Context, industry, id string) (*domain.Node, error) {
	return m.next.FindNode(ctx, industry, id)
}

func (m *redactionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *redactionMiddleware) Delete(ctx context.Context, industry string) error {
	return m.next.Delete(ctx, industry)
}

// redactNode clones the node so the in-memory tree used by the scheduler
// keeps its full text.
func (m *redactionMiddleware) redactNode(n *domain.Node) *domain.Node {
	cloned := *n
	cloned.ChildIDs = append([]string(nil), n.ChildIDs...)
	cloned.EmptySteps = append([]string(nil), n.EmptySteps...)
	for _, p := range m.patterns {
		if p.MatchString(n.Name) {
			cloned.Description = Mask
			break
		}
	}
	return &cloned
}
