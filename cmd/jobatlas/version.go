package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jobatlas/jobatlas"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of jobatlas",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("jobatlas version %s\n", strings.TrimSpace(jobatlas.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
