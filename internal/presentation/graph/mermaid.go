// Package graph renders taxonomy trees as Mermaid flowcharts.
package graph

import (
	"fmt"
	"strings"

	"github.com/jobatlas/jobatlas/pkg/domain"
)

// GenerateMermaid produces a Mermaid flowchart from a taxonomy tree.
// Node shapes follow the kind:
//   - root: ((Circle))
//   - job: [[Subroutine]]
//   - end_user_group: [/Parallelogram/]
//   - everything else: [Rectangle]
//
// Incomplete nodes are styled so interrupted runs are visible at a glance.
func GenerateMermaid(tree *domain.Tree) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	var incomplete []string
	tree.Walk(func(node *domain.Node) bool {
		safeID := sanitizeMermaidID(node.ID)

		opener, closer := "[", "]"
		switch node.Kind {
		case domain.KindRoot:
			opener, closer = "((", "))"
		case domain.KindJob:
			opener, closer = "[[", "]]"
		case domain.KindEndUserGroup:
			opener, closer = "[/", "/]"
		}

		label := strings.ReplaceAll(node.Name, "\"", "'")
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, label, closer))

		for _, childID := range node.ChildIDs {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", safeID, sanitizeMermaidID(childID)))
		}

		if !node.Complete {
			incomplete = append(incomplete, safeID)
		}
		return true
	})

	if len(incomplete) > 0 {
		sb.WriteString("\n    %% Incomplete nodes\n")
		// Force black text for contrast on both light and dark themes
		sb.WriteString("    classDef incomplete fill:#ffeb3b,stroke:#fbc02d,stroke-width:2px,color:#000;\n")
		for _, id := range incomplete {
			sb.WriteString(fmt.Sprintf("    class %s incomplete;\n", id))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
