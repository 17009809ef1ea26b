package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jobatlas/jobatlas"
	"github.com/jobatlas/jobatlas/internal/cli"
)

var rootCmd = &cobra.Command{
	Use:   "jobatlas",
	Short: "jobatlas builds jobs-to-be-done taxonomies with a language model",
	Long: `jobatlas expands a single industry name into a full jobs-to-be-done
taxonomy (sectors, subsectors, end users and their jobs) and drills each
job into a complete analysis: contexts, job map, desired outcomes and more.

Every node is persisted as soon as it is created, so interrupted runs
resume where they left off.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the config file (default jobatlas.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
}

// loadConfig reads the configured file and builds the shared logger.
func loadConfig(cmd *cobra.Command) (cli.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg, err := cli.Load(path)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, cli.NewLogger(verbose), nil
}

// createEngine builds an engine from the command's configuration.
func createEngine(cmd *cobra.Command) (*jobatlas.Engine, *slog.Logger, error) {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	engine, err := cli.NewEngine(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return engine, logger, nil
}

// createAtlas builds the read-only side, which needs no API key.
func createAtlas(cmd *cobra.Command) (*cli.Atlas, *slog.Logger, error) {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	atlas, err := cli.NewAtlas(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return atlas, logger, nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
