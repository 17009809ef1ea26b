package expand

import (
	"context"
	"errors"
	"fmt"

	"github.com/jobatlas/jobatlas/pkg/domain"
)

// loadOrInit returns the persisted tree for an industry, creating and
// persisting a fresh single-root tree when none exists. Corrupt state is
// fatal: silently reinitializing would discard a partially built taxonomy.
func (s *Scheduler) loadOrInit(ctx context.Context, industry string) (*domain.Tree, error) {
	tree, err := s.store.LoadTree(ctx, industry)
	if err == nil {
		s.log.Info("resuming tree", "industry", industry, "nodes", tree.Len(), "frontier", len(tree.Frontier()))
		return tree, nil
	}
	if !errors.Is(err, domain.ErrTreeNotFound) {
		return nil, fmt.Errorf("loading tree for %s: %w", industry, err)
	}

	tree = domain.NewTree(industry)
	if err := s.store.SaveTree(ctx, tree); err != nil {
		return nil, fmt.Errorf("initializing tree for %s: %w", industry, err)
	}
	s.log.Info("initialized tree", "industry", industry)
	return tree, nil
}

// load returns the persisted tree, failing when none exists. Used by the
// pipeline, which never creates trees.
func (s *Scheduler) load(ctx context.Context, industry string) (*domain.Tree, error) {
	tree, err := s.store.LoadTree(ctx, industry)
	if err != nil {
		return nil, fmt.Errorf("loading tree for %s: %w", industry, err)
	}
	return tree, nil
}
