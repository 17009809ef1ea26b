package export_test

import (
	"encoding/json"
	"testing"

	"github.com/jobatlas/jobatlas/pkg/domain"
	"github.com/jobatlas/jobatlas/pkg/export"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree(t *testing.T) *domain.Tree {
	t.Helper()
	tree := domain.NewTree("Finance")
	sector := &domain.Node{ID: domain.NewNodeID(), Name: "Banking", Description: "Deposits and lending.", Kind: domain.KindSector}
	sub := &domain.Node{ID: domain.NewNodeID(), Name: "Retail Banking", Kind: domain.KindSubSector}
	require.NoError(t, tree.AddChild(tree.RootID, sector))
	require.NoError(t, tree.AddChild(sector.ID, sub))
	return tree
}

func TestMarkdown(t *testing.T) {
	got := export.Markdown(sampleTree(t))

	assert.Equal(t, "# Finance\n\n"+
		"- **Banking**: Deposits and lending.\n"+
		"  - **Retail Banking**\n", got)
}

func TestMarkdownSubtree(t *testing.T) {
	tree := sampleTree(t)
	sector := tree.Children(tree.RootID)[0]

	got := export.MarkdownSubtree(tree, sector.ID)
	assert.Equal(t, "- **Banking**: Deposits and lending.\n"+
		"  - **Retail Banking**\n", got)

	assert.Empty(t, export.MarkdownSubtree(tree, "no-such-id"))
}

func TestDict(t *testing.T) {
	d := export.Dict(sampleTree(t))

	assert.Equal(t, "Finance", d.Name)
	assert.Equal(t, "root", d.Kind)
	require.Len(t, d.Children, 1)
	assert.Equal(t, "Banking", d.Children[0].Name)
	require.Len(t, d.Children[0].Children, 1)
	assert.Equal(t, "Retail Banking", d.Children[0].Children[0].Name)

	// The dict round-trips through JSON without losing the nesting.
	data, err := json.Marshal(d)
	require.NoError(t, err)
	var back export.NodeDict
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, d, back)
}
