// Package export renders taxonomy trees into shareable formats.
package export

import (
	"strings"

	"github.com/jobatlas/jobatlas/pkg/domain"
)

// Markdown renders the tree as an indented bullet list, one node per line.
func Markdown(tree *domain.Tree) string {
	var b strings.Builder
	b.WriteString("# " + tree.Industry + "\n\n")
	for _, c := range tree.Children(tree.RootID) {
		writeNode(&b, tree, c, 0)
	}
	return b.String()
}

// MarkdownSubtree renders one node and everything beneath it.
func MarkdownSubtree(tree *domain.Tree, id string) string {
	n := tree.Node(id)
	if n == nil {
		return ""
	}
	var b strings.Builder
	writeNode(&b, tree, n, 0)
	return b.String()
}

func writeNode(b *strings.Builder, tree *domain.Tree, n *domain.Node, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString("- **" + n.Name + "**")
	if n.Description != "" {
		b.WriteString(": " + n.Description)
	}
	b.WriteByte('\n')
	for _, c := range tree.Children(n.ID) {
		writeNode(b, tree, c, depth+1)
	}
}
