package domain_test

import (
	"testing"

	"github.com/jobatlas/jobatlas/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func child(name string, kind domain.Kind) *domain.Node {
	return &domain.Node{ID: domain.NewNodeID(), Name: name, Kind: kind}
}

func TestNewTree_Root(t *testing.T) {
	tree := domain.NewTree("Finance")

	root := tree.Root()
	require.NotNil(t, root)
	assert.Equal(t, "Finance", root.Name)
	assert.Equal(t, domain.KindRoot, root.Kind)
	assert.False(t, root.Complete)
	assert.Empty(t, root.ParentID)
	assert.NoError(t, tree.Validate())
}

func TestTree_AddChild_OrderPreserved(t *testing.T) {
	tree := domain.NewTree("Finance")

	names := []string{"Banking", "Insurance", "Capital Markets"}
	for _, n := range names {
		require.NoError(t, tree.AddChild(tree.RootID, child(n, domain.KindSector)))
	}

	children := tree.Children(tree.RootID)
	require.Len(t, children, 3)
	for i, n := range names {
		assert.Equal(t, n, children[i].Name)
		assert.Equal(t, tree.RootID, children[i].ParentID)
	}
}

func TestTree_AddChild_Rejections(t *testing.T) {
	tree := domain.NewTree("Finance")

	t.Run("unknown parent", func(t *testing.T) {
		err := tree.AddChild("no-such-id", child("Banking", domain.KindSector))
		assert.ErrorIs(t, err, domain.ErrNodeNotFound)
	})

	t.Run("duplicate id", func(t *testing.T) {
		c := child("Banking", domain.KindSector)
		require.NoError(t, tree.AddChild(tree.RootID, c))
		dup := &domain.Node{ID: c.ID, Name: "Banking again", Kind: domain.KindSector}
		assert.Error(t, tree.AddChild(tree.RootID, dup))
	})

	t.Run("missing id", func(t *testing.T) {
		assert.Error(t, tree.AddChild(tree.RootID, &domain.Node{Name: "anon"}))
	})
}

func TestTree_AncestorsAndChain(t *testing.T) {
	tree := domain.NewTree("Finance")
	sector := child("Banking", domain.KindSector)
	sub := child("Retail Banking", domain.KindSubSector)
	require.NoError(t, tree.AddChild(tree.RootID, sector))
	require.NoError(t, tree.AddChild(sector.ID, sub))

	ancestors := tree.Ancestors(sub.ID)
	require.Len(t, ancestors, 2)
	assert.Equal(t, domain.KindRoot, ancestors[0].Kind)
	assert.Equal(t, "Banking", ancestors[1].Name)

	chain := tree.Chain(sub.ID)
	require.Len(t, chain, 3)
	assert.Equal(t, "Retail Banking", chain[2].Name)

	assert.Equal(t, "Finance/Banking/Retail Banking", tree.Path(sub.ID))
}

func TestTree_NearestAncestor(t *testing.T) {
	tree := domain.NewTree("Finance")
	sector := child("Banking", domain.KindSector)
	sub := child("Retail Banking", domain.KindSubSector)
	group := child("End Users - Providers", domain.KindEndUserGroup)
	user := child("Bank Teller", domain.KindEndUser)
	job := child("Processing Deposits", domain.KindJob)
	require.NoError(t, tree.AddChild(tree.RootID, sector))
	require.NoError(t, tree.AddChild(sector.ID, sub))
	require.NoError(t, tree.AddChild(sub.ID, group))
	require.NoError(t, tree.AddChild(group.ID, user))
	require.NoError(t, tree.AddChild(user.ID, job))

	assert.Equal(t, user, tree.NearestAncestor(job.ID, domain.KindEndUser))
	assert.Equal(t, sector, tree.NearestAncestor(job.ID, domain.KindSector))
	assert.Nil(t, tree.NearestAncestor(tree.RootID, domain.KindSector))
}

func TestTree_Frontier_PreOrder(t *testing.T) {
	tree := domain.NewTree("Finance")
	sector := child("Banking", domain.KindSector)
	sub := child("Retail Banking", domain.KindSubSector)
	require.NoError(t, tree.AddChild(tree.RootID, sector))
	require.NoError(t, tree.AddChild(sector.ID, sub))

	frontier := tree.Frontier()
	require.Len(t, frontier, 3)
	assert.Equal(t, tree.RootID, frontier[0].ID)
	assert.Equal(t, sector.ID, frontier[1].ID)
	assert.Equal(t, sub.ID, frontier[2].ID)

	sector.Complete = true
	tree.Root().Complete = true
	frontier = tree.Frontier()
	require.Len(t, frontier, 1)
	assert.Equal(t, sub.ID, frontier[0].ID)
}

func TestTree_JobNodes_IsAQuery(t *testing.T) {
	tree := domain.NewTree("Finance")
	sector := child("Banking", domain.KindSector)
	require.NoError(t, tree.AddChild(tree.RootID, sector))
	job1 := child("Verifying Identities", domain.KindJob)
	job2 := child("Detecting Fraud", domain.KindJob)
	require.NoError(t, tree.AddChild(sector.ID, job1))
	require.NoError(t, tree.AddChild(sector.ID, job2))

	jobs := tree.JobNodes()
	require.Len(t, jobs, 2)
	assert.Equal(t, "Verifying Identities", jobs[0].Name)
	assert.Equal(t, "Detecting Fraud", jobs[1].Name)
}

func TestRestore_RoundTrip(t *testing.T) {
	tree := domain.NewTree("Finance")
	sector := child("Banking", domain.KindSector)
	sub := child("Retail Banking", domain.KindSubSector)
	require.NoError(t, tree.AddChild(tree.RootID, sector))
	require.NoError(t, tree.AddChild(sector.ID, sub))
	sector.Complete = true

	restored, err := domain.Restore(tree.Industry, tree.RootID, tree.Nodes())
	require.NoError(t, err)
	assert.Equal(t, tree.Len(), restored.Len())
	assert.Equal(t, tree.Path(sub.ID), restored.Path(sub.ID))
	assert.True(t, restored.Node(sector.ID).Complete)

	// Child order must survive the cycle.
	orig := tree.Children(tree.RootID)
	got := restored.Children(tree.RootID)
	require.Equal(t, len(orig), len(got))
	for i := range orig {
		assert.Equal(t, orig[i].ID, got[i].ID)
	}
}

func TestRestore_Corruption(t *testing.T) {
	t.Run("missing root", func(t *testing.T) {
		n := child("orphan", domain.KindSector)
		_, err := domain.Restore("Finance", "missing-root", []*domain.Node{n})
		assert.ErrorIs(t, err, domain.ErrCorruptTree)
	})

	t.Run("dangling child id", func(t *testing.T) {
		root := &domain.Node{ID: domain.NewNodeID(), Name: "Finance", Kind: domain.KindRoot, ChildIDs: []string{"ghost"}}
		_, err := domain.Restore("Finance", root.ID, []*domain.Node{root})
		assert.ErrorIs(t, err, domain.ErrCorruptTree)
	})

	t.Run("unreachable node", func(t *testing.T) {
		root := &domain.Node{ID: domain.NewNodeID(), Name: "Finance", Kind: domain.KindRoot}
		stray := &domain.Node{ID: domain.NewNodeID(), Name: "stray", Kind: domain.KindSector, ParentID: "elsewhere"}
		_, err := domain.Restore("Finance", root.ID, []*domain.Node{root, stray})
		assert.ErrorIs(t, err, domain.ErrCorruptTree)
	})

	t.Run("parent mismatch", func(t *testing.T) {
		root := &domain.Node{ID: domain.NewNodeID(), Name: "Finance", Kind: domain.KindRoot}
		c := &domain.Node{ID: domain.NewNodeID(), Name: "Banking", Kind: domain.KindSector, ParentID: "someone-else"}
		root.ChildIDs = []string{c.ID}
		_, err := domain.Restore("Finance", root.ID, []*domain.Node{root, c})
		assert.ErrorIs(t, err, domain.ErrCorruptTree)
	})
}
