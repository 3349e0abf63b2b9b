package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "archiver",
	Short: "Frigate export backup and lifecycle tool",
	Long: `archiver automates the lifecycle of Frigate video exports:
it triggers exports for a time window, waits until the exported files are
confirmed complete, moves them into long-term storage, and prunes files
older than the retention period.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (YAML, overrides environment)")
}
