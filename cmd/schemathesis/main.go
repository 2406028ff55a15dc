// Package main is the entry point for the schemathesis CLI: property-based
// API testing driven by OpenAPI specifications.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// Build information, set via ldflags
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "schemathesis",
		Short: "Property-based API testing from OpenAPI specifications",
		Long: `schemathesis generates test cases from an OpenAPI specification and runs
them against the target API. Each operation is exercised with both
schema-conforming and deliberately invalid inputs.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newRunCommand(),
		newAuthCommand(),
		newRunsCommand(),
		newVersionCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("schemathesis %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}

// historyPath returns the location of the run-history database, creating its
// directory if needed.
func historyPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	dir := filepath.Join(configDir, "schemathesis")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return filepath.Join(dir, "history.db"), nil
}
