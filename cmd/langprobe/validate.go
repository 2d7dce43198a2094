package main

import (
	"fmt"

	"github.com/jpalmerr/langprobe/config"
	"github.com/spf13/cobra"
)

// validateCmd validates a config file without running a batch.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate a langprobe configuration file without probing anything.

This command parses the YAML, expands environment variables, and validates
all fields. It's useful for CI/CD pipelines or pre-deployment checks.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  langprobe validate -c langprobe.yaml
  langprobe validate --config /etc/langprobe/config.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	rateLimit := "unlimited"
	if cfg.RateLimit > 0 {
		rateLimit = fmt.Sprintf("%g/s", cfg.RateLimit)
	}

	fmt.Printf("Config is valid!\n")
	fmt.Printf("  Base URL:        %s\n", cfg.BaseURL)
	fmt.Printf("  Max concurrency: %d\n", cfg.MaxConcurrency)
	fmt.Printf("  Timeout:         %s\n", cfg.Timeout.Duration())
	fmt.Printf("  Rate limit:      %s\n", rateLimit)
	fmt.Printf("  Output:          %s / %s\n", cfg.SupportedFile, cfg.UnsupportedFile)

	return nil
}
