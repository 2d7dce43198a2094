// Package main is the entry point for the langprobe CLI.
//
// langprobe checks which languages a documentation site is published in:
// it reads a list of language codes, probes the site once per code with
// bounded concurrency, and partitions the outcomes into supported and
// unsupported files.
//
// Usage:
//
//	langprobe check languages.txt           # Run a batch with defaults
//	langprobe check -c config.yaml langs.txt
//	langprobe validate -c config.yaml       # Validate configuration
//	langprobe version                       # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set by GoReleaser at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
// It just displays help - actual functionality is in subcommands.
var rootCmd = &cobra.Command{
	Use:   "langprobe",
	Short: "Check which languages a documentation site supports",
	Long: `langprobe probes a documentation site for a list of language codes
and reports which are published.

For each code in the input list it performs one HTTP check against
<base_url>/<code>/cloud/ and classifies the language as supported
(HTTP 200) or unsupported (anything else, including network failure).
Checks run concurrently up to a configurable ceiling.

Quick start:
  1. Create an input file, one "code name" pair per line:
       en English
       fr French
  2. Run: langprobe check languages.txt
  3. Read supported.txt / unsupported.txt

Input lines missing a display name are skipped with a warning.`,
	// No Run/RunE means this just shows help when called without subcommands
}

// Execute runs the root command.
// This is the main entry point called from main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this langprobe binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("langprobe %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	// Register subcommands with root
	rootCmd.AddCommand(versionCmd)
}
