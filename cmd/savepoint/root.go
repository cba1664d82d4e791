package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"savepoint/pkg/config"
	"savepoint/pkg/logger"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string

	// Loaded configuration, available to every subcommand
	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "savepoint",
	Short: "Inspect and manage checkpoint files for resumable batch processes",
	Long: `Savepoint is the companion CLI for the savepoint checkpoint library.

A batch process using the library periodically writes its progress to a
single checkpoint file and restores it after a crash or restart. This tool
works with those files:

  inspect   show a checkpoint's metadata and decoded contents
  verify    check that a checkpoint decodes cleanly
  clear     remove a checkpoint so the next run starts cold

Configuration is read from .savepoint.yaml, .env files, and SAVEPOINT_*
environment variables, in the same way the library's host processes do.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configFile)
		if err != nil {
			return err
		}
		if logLevel != "" {
			loaded.Logging.Level = logLevel
		}
		if err := logger.Initialize(&loaded.Logging); err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is .savepoint.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(clearCmd)
}
