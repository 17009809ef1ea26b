package ports

import (
	"context"
	"testing"
	"time"

	"github.com/jobatlas/jobatlas/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunTreeStoreContract runs a suite of tests to verify that a TreeStore
// implementation adheres to the defined interface contract. Every adapter's
// test file calls this against a fresh store.
func RunTreeStoreContract(t *testing.T, store TreeStore) {
	ctx := context.Background()
	industry := "Contract Test " + time.Now().Format("20060102150405")

	newTree := func(t *testing.T) (*domain.Tree, *domain.Node) {
		tree := domain.NewTree(industry)
		sector := &domain.Node{
			ID:          domain.NewNodeID(),
			Name:        "Banking",
			Description: "Deposits, lending and payments.",
			Kind:        domain.KindSector,
		}
		require.NoError(t, tree.AddChild(tree.RootID, sector))
		return tree, sector
	}

	t.Run("SaveTree and LoadTree", func(t *testing.T) {
		tree, sector := newTree(t)
		sector.Complete = true
		require.NoError(t, store.SaveTree(ctx, tree))
		defer func() { _ = store.Delete(ctx, industry) }()

		loaded, err := store.LoadTree(ctx, industry)
		require.NoError(t, err)
		assert.Equal(t, industry, loaded.Industry)
		assert.Equal(t, tree.RootID, loaded.RootID)
		require.Equal(t, tree.Len(), loaded.Len())

		got := loaded.Node(sector.ID)
		require.NotNil(t, got)
		assert.Equal(t, "Banking", got.Name)
		assert.True(t, got.Complete)
		assert.Equal(t, tree.RootID, got.ParentID)
	})

	t.Run("LoadTree non-existent", func(t *testing.T) {
		_, err := store.LoadTree(ctx, "no-such-industry-"+industry)
		assert.ErrorIs(t, err, domain.ErrTreeNotFound)
	})

	t.Run("UpsertNodes children before parent", func(t *testing.T) {
		tree, sector := newTree(t)
		require.NoError(t, store.SaveTree(ctx, tree))
		defer func() { _ = store.Delete(ctx, industry) }()

		sub := &domain.Node{
			ID:          domain.NewNodeID(),
			Name:        "Retail Banking",
			Description: "Consumer accounts and branches.",
			Kind:        domain.KindSubSector,
		}
		require.NoError(t, tree.AddChild(sector.ID, sub))
		sector.Complete = true

		require.NoError(t, store.UpsertNodes(ctx, industry, []*domain.Node{sub, sector}))

		loaded, err := store.LoadTree(ctx, industry)
		require.NoError(t, err)
		require.Equal(t, 3, loaded.Len())
		assert.True(t, loaded.Node(sector.ID).Complete)
		children := loaded.Children(sector.ID)
		require.Len(t, children, 1)
		assert.Equal(t, "Retail Banking", children[0].Name)
	})

	t.Run("UpsertNode updates in place", func(t *testing.T) {
		tree, sector := newTree(t)
		require.NoError(t, store.SaveTree(ctx, tree))
		defer func() { _ = store.Delete(ctx, industry) }()

		sector.Complete = true
		sector.Description = "Amended description."
		require.NoError(t, store.UpsertNode(ctx, industry, sector))

		got, err := store.FindNode(ctx, industry, sector.ID)
		require.NoError(t, err)
		assert.True(t, got.Complete)
		assert.Equal(t, "Amended description.", got.Description)
	})

	t.Run("FindNode non-existent", func(t *testing.T) {
		tree, _ := newTree(t)
		require.NoError(t, store.SaveTree(ctx, tree))
		defer func() { _ = store.Delete(ctx, industry) }()

		_, err := store.FindNode(ctx, industry, "no-such-node")
		assert.ErrorIs(t, err, domain.ErrNodeNotFound)
	})

	t.Run("List", func(t *testing.T) {
		other := industry + " B"
		treeA, _ := newTree(t)
		treeB := domain.NewTree(other)
		require.NoError(t, store.SaveTree(ctx, treeA))
		require.NoError(t, store.SaveTree(ctx, treeB))
		defer func() {
			_ = store.Delete(ctx, industry)
			_ = store.Delete(ctx, other)
		}()

		industries, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, industries, industry)
		assert.Contains(t, industries, other)
	})

	t.Run("Delete", func(t *testing.T) {
		tree, _ := newTree(t)
		require.NoError(t, store.SaveTree(ctx, tree))

		require.NoError(t, store.Delete(ctx, industry))
		_, err := store.LoadTree(ctx, industry)
		assert.ErrorIs(t, err, domain.ErrTreeNotFound)

		// Deleting again is a no-op.
		assert.NoError(t, store.Delete(ctx, industry))
	})
}
