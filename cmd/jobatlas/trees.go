package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the industries with a persisted tree",
	Run: func(cmd *cobra.Command, args []string) {
		atlas, _, err := createAtlas(cmd)
		if err != nil {
			fatal(err)
		}

		industries, err := atlas.Industries(context.Background())
		if err != nil {
			fatal(err)
		}
		if len(industries) == 0 {
			fmt.Println("No trees yet. Run 'jobatlas build <industry>' first.")
			return
		}
		for _, industry := range industries {
			fmt.Println(industry)
		}
	},
}

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <industry>",
	Short: "Delete the persisted tree of an industry",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		industry := args[0]

		atlas, _, err := createAtlas(cmd)
		if err != nil {
			fatal(err)
		}

		if err := atlas.Delete(context.Background(), industry); err != nil {
			fatal(err)
		}
		fmt.Printf("Deleted tree for %q.\n", industry)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(deleteCmd)
}
