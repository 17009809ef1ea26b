package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// processCmd represents the process command
var processCmd = &cobra.Command{
	Use:   "process <industry> [job-id]",
	Short: "Run the job analysis pipeline",
	Long: `Drills every job of a built taxonomy into its full analysis: contexts,
job map, desired outcomes, situational factors, related, emotional and
social jobs, financial metrics, ideal state and root causes.

With a job-id only that job is processed. Already analysed jobs are
skipped, so interrupted runs can simply be restarted.`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		industry := args[0]

		engine, logger, err := createEngine(cmd)
		if err != nil {
			fatal(err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if len(args) == 2 {
			jobID := args[1]
			logger.Info("processing job", "industry", industry, "job_id", jobID)
			if _, err := engine.ProcessJob(ctx, industry, jobID); err != nil {
				if ctx.Err() != nil {
					fmt.Println("\nInterrupted. Run process again to resume.")
					return
				}
				fatal(err)
			}
			fmt.Printf("Job %s of %q analysed.\n", jobID, industry)
			return
		}

		logger.Info("processing jobs", "industry", industry)
		tree, err := engine.ProcessJobs(ctx, industry)
		if err != nil {
			if ctx.Err() != nil {
				fmt.Println("\nInterrupted. Run process again to resume.")
				return
			}
			fatal(err)
		}
		fmt.Printf("All %d jobs of %q analysed.\n", len(tree.JobNodes()), industry)
	},
}

func init() {
	rootCmd.AddCommand(processCmd)
}
