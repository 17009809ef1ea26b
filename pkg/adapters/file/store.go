// Package file implements ports.TreeStore on the local filesystem. Each
// industry is one JSON document holding the whole taxonomy as a nested
// structure, rewritten atomically on every mutation.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jobatlas/jobatlas/pkg/domain"
)

// Store implements ports.TreeStore using one JSON file per industry.
type Store struct {
	BasePath string
}

// NewStore creates a file store rooted at basePath.
// If basePath is empty, it defaults to ".jobatlas/trees".
func NewStore(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".jobatlas", "trees")
	}
	return &Store{BasePath: basePath}
}

// document is the on-disk shape: the tree nested the way it reads, not the
// flat arena the engine works on.
type document struct {
	Industry string  `json:"industry"`
	Root     docNode `json:"root"`
}

type docNode struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Kind        domain.Kind `json:"kind"`
	Origin      string      `json:"origin,omitempty"`
	EmptySteps  []string    `json:"empty_steps,omitempty"`
	Complete    bool        `json:"complete"`
	Children    []docNode   `json:"children,omitempty"`
}

// SaveTree writes the whole tree document.
func (f *Store) SaveTree(ctx context.Context, tree *domain.Tree) error {
	if tree.Industry == "" {
		return fmt.Errorf("industry cannot be empty")
	}
	doc := document{
		Industry: tree.Industry,
		Root:     nest(tree, tree.RootID),
	}
	return f.write(tree.Industry, doc)
}

// LoadTree reads and reassembles the tree for an industry.
func (f *Store) LoadTree(ctx context.Context, industry string) (*domain.Tree, error) {
	doc, err := f.read(industry)
	if err != nil {
		return nil, err
	}
	var nodes []*domain.Node
	flatten(doc.Root, "", &nodes)
	tree, err := domain.Restore(doc.Industry, doc.Root.ID, nodes)
	if err != nil {
		return nil, fmt.Errorf("tree file for %s: %w", industry, err)
	}
	return tree, nil
}

// UpsertNode writes a single node.
func (f *Store) UpsertNode(ctx context.Context, industry string, node *domain.Node) error {
	return f.UpsertNodes(ctx, industry, []*domain.Node{node})
}

// UpsertNodes applies the batch to the stored document and rewrites it. The
// whole-document rewrite makes the batch atomic: either every node of the
// batch is durable or none is.
func (f *Store) UpsertNodes(ctx context.Context, industry string, nodes []*domain.Node) error {
	tree, err := f.LoadTree(ctx, industry)
	if err != nil {
		return err
	}

	flat := make(map[string]*domain.Node, tree.Len())
	order := make([]string, 0, tree.Len())
	for _, n := range tree.Nodes() {
		flat[n.ID] = n
		order = append(order, n.ID)
	}
	for _, n := range nodes {
		if _, exists := flat[n.ID]; !exists {
			order = append(order, n.ID)
		}
		flat[n.ID] = n
	}

	all := make([]*domain.Node, 0, len(order))
	for _, id := range order {
		all = append(all, flat[id])
	}
	updated, err := domain.Restore(industry, tree.RootID, all)
	if err != nil {
		return fmt.Errorf("upsert into %s: %w", industry, err)
	}
	return f.SaveTree(ctx, updated)
}

// FindNode returns one node by id.
func (f *Store) FindNode(ctx context.Context, industry, id string) (*domain.Node, error) {
	tree, err := f.LoadTree(ctx, industry)
	if err != nil {
		return nil, err
	}
	n := tree.Node(id)
	if n == nil {
		return nil, domain.ErrNodeNotFound
	}
	return n, nil
}

// List returns the industries with tree files.
func (f *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(f.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list trees: %w", err)
	}

	var industries []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(f.BasePath, entry.Name()))
		if err != nil {
			continue
		}
		var doc struct {
			Industry string `json:"industry"`
		}
		if json.Unmarshal(data, &doc) == nil && doc.Industry != "" {
			industries = append(industries, doc.Industry)
		}
	}
	return industries, nil
}

// Delete removes the tree file.
func (f *Store) Delete(ctx context.Context, industry string) error {
	err := os.Remove(f.path(industry))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete tree file: %w", err)
	}
	return nil
}

func (f *Store) path(industry string) string {
	return filepath.Join(f.BasePath, slug(industry)+".json")
}

func (f *Store) read(industry string) (document, error) {
	data, err := os.ReadFile(f.path(industry))
	if err != nil {
		if os.IsNotExist(err) {
			return document{}, domain.ErrTreeNotFound
		}
		return document{}, fmt.Errorf("failed to read tree file: %w", err)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return document{}, fmt.Errorf("%w: %v", domain.ErrCorruptTree, err)
	}
	return doc, nil
}

// write marshals and writes through a temp file plus rename, so a crash
// mid-write never leaves a truncated document behind.
func (f *Store) write(industry string, doc document) error {
	if err := os.MkdirAll(f.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure tree directory: %w", err)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal tree: %w", err)
	}

	target := f.path(industry)
	tmp, err := os.CreateTemp(f.BasePath, ".tree-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write tree file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close tree file: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace tree file: %w", err)
	}
	return nil
}

func nest(tree *domain.Tree, id string) docNode {
	n := tree.Node(id)
	dn := docNode{
		ID:          n.ID,
		Name:        n.Name,
		Description: n.Description,
		Kind:        n.Kind,
		Origin:      n.Origin,
		EmptySteps:  n.EmptySteps,
		Complete:    n.Complete,
	}
	for _, c := range tree.Children(id) {
		dn.Children = append(dn.Children, nest(tree, c.ID))
	}
	return dn
}

func flatten(dn docNode, parentID string, out *[]*domain.Node) {
	n := &domain.Node{
		ID:          dn.ID,
		Name:        dn.Name,
		Description: dn.Description,
		Kind:        dn.Kind,
		Origin:      dn.Origin,
		EmptySteps:  dn.EmptySteps,
		Complete:    dn.Complete,
		ParentID:    parentID,
	}
	for _, c := range dn.Children {
		n.ChildIDs = append(n.ChildIDs, c.ID)
	}
	*out = append(*out, n)
	for _, c := range dn.Children {
		flatten(c, dn.ID, out)
	}
}

// slug turns an industry name into a safe file name.
func slug(industry string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(industry) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_', r == '/':
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "tree"
	}
	return b.String()
}
