// Package memory implements ports.TreeStore in process memory. It backs
// tests and throwaway runs; nothing survives a restart.
package memory

import (
	"context"
	"sync"

	"github.com/jobatlas/jobatlas/pkg/domain"
)

// Store implements ports.TreeStore in memory.
// Safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	trees map[string]*treeState
}

type treeState struct {
	rootID string
	nodes  map[string]*domain.Node
	order  []string
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		trees: make(map[string]*treeState),
	}
}

// SaveTree replaces the stored state for the tree's industry.
func (s *Store) SaveTree(ctx context.Context, tree *domain.Tree) error {
	st := &treeState{
		rootID: tree.RootID,
		nodes:  make(map[string]*domain.Node),
	}
	for _, n := range tree.Nodes() {
		st.nodes[n.ID] = copyNode(n)
		st.order = append(st.order, n.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.trees[tree.Industry] = st
	return nil
}

// LoadTree reassembles the tree for an industry.
func (s *Store) LoadTree(ctx context.Context, industry string) (*domain.Tree, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.trees[industry]
	if !ok {
		return nil, domain.ErrTreeNotFound
	}

	nodes := make([]*domain.Node, 0, len(st.order))
	for _, id := range st.order {
		nodes = append(nodes, copyNode(st.nodes[id]))
	}
	return domain.Restore(industry, st.rootID, nodes)
}

// UpsertNode writes a single node.
func (s *Store) UpsertNode(ctx context.Context, industry string, node *domain.Node) error {
	return s.UpsertNodes(ctx, industry, []*domain.Node{node})
}

// UpsertNodes writes nodes in order under one lock acquisition.
func (s *Store) UpsertNodes(ctx context.Context, industry string, nodes []*domain.Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.trees[industry]
	if !ok {
		return domain.ErrTreeNotFound
	}
	for _, n := range nodes {
		if _, exists := st.nodes[n.ID]; !exists {
			st.order = append(st.order, n.ID)
		}
		st.nodes[n.ID] = copyNode(n)
	}
	return nil
}

// FindNode returns one node by id.
func (s *Store) FindNode(ctx context.Context, industry, id string) (*domain.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.trees[industry]
	if !ok {
		return nil, domain.ErrTreeNotFound
	}
	n, ok := st.nodes[id]
	if !ok {
		return nil, domain.ErrNodeNotFound
	}
	return copyNode(n), nil
}

// List returns industries with stored trees.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	industries := make([]string, 0, len(s.trees))
	for industry := range s.trees {
		industries = append(industries, industry)
	}
	return industries, nil
}

// Delete removes all state for an industry.
func (s *Store) Delete(ctx context.Context, industry string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.trees, industry)
	return nil
}

// copyNode isolates store state from caller mutation, the same way a
// serializing store would.
func copyNode(n *domain.Node) *domain.Node {
	c := *n
	c.ChildIDs = append([]string(nil), n.ChildIDs...)
	c.EmptySteps = append([]string(nil), n.EmptySteps...)
	return &c
}
