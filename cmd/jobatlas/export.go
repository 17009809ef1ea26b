package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jobatlas/jobatlas/internal/presentation/graph"
	"github.com/jobatlas/jobatlas/internal/presentation/tui"
	"github.com/jobatlas/jobatlas/pkg/export"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <industry>",
	Short: "Export a taxonomy tree",
	Long: `Writes the persisted tree of an industry to stdout.

Formats:
- markdown (default): indented bullet outline
- json: nested node document
- mermaid: flowchart of the tree, incomplete nodes highlighted`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		industry := args[0]
		format, _ := cmd.Flags().GetString("format")
		render, _ := cmd.Flags().GetBool("render")

		atlas, _, err := createAtlas(cmd)
		if err != nil {
			fatal(err)
		}

		tree, err := atlas.Tree(context.Background(), industry)
		if err != nil {
			fatal(err)
		}

		switch format {
		case "markdown":
			md := export.Markdown(tree)
			if render {
				out, err := tui.NewRenderer()(md)
				if err == nil {
					fmt.Print(out)
					return
				}
			}
			fmt.Print(md)
		case "json":
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(export.Dict(tree)); err != nil {
				fatal(err)
			}
		case "mermaid":
			fmt.Print(graph.GenerateMermaid(tree))
		default:
			fatal(fmt.Errorf("unknown format %q (want markdown, json or mermaid)", format))
		}
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("format", "f", "markdown", "Output format: markdown, json or mermaid")
	exportCmd.Flags().Bool("render", false, "Render markdown for the terminal")
}
