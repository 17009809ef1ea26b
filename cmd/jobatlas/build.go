package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jobatlas/jobatlas/internal/presentation/tui"
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build <industry>",
	Short: "Build the taxonomy tree for an industry",
	Long: `Expands an industry into sectors, subsectors, end-user groups, end users
and jobs. Interrupting the run is safe: running build again resumes from
the last persisted node.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		industry := args[0]
		quiet, _ := cmd.Flags().GetBool("quiet")

		engine, logger, err := createEngine(cmd)
		if err != nil {
			fatal(err)
		}

		if !quiet {
			tui.PrintBanner()
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		logger.Info("building taxonomy", "industry", industry)
		tree, err := engine.BuildTaxonomy(ctx, industry)
		if err != nil {
			if ctx.Err() != nil {
				fmt.Println("\nInterrupted. Run build again to resume.")
				return
			}
			fatal(err)
		}

		fmt.Printf("Taxonomy for %q complete: %d nodes, %d jobs.\n",
			industry, tree.Len(), len(tree.JobNodes()))
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().BoolP("quiet", "q", false, "Suppress the banner and summary output")
}
