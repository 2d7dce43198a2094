package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/jpalmerr/langprobe/config"
	"github.com/jpalmerr/langprobe/internal/batch"
	"github.com/jpalmerr/langprobe/internal/input"
	"github.com/jpalmerr/langprobe/internal/probe"
	"github.com/jpalmerr/langprobe/internal/report"
)

// newLogger creates a JSON logger for CLI use.
func newLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// checkCmd runs one probe batch over an input file.
var checkCmd = &cobra.Command{
	Use:   "check [input-file]",
	Short: "Probe every language in the input file",
	Long: `Run one probe batch over the given input file.

For each well-formed line the site is checked once, results are appended
to the supported/unsupported files, and a summary is printed. Individual
probe failures are normal outcomes, not errors: the command exits nonzero
only when the input file or config cannot be read.

Example:
  langprobe check languages.txt
  langprobe check -c langprobe.yaml --concurrency 20 languages.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringP("config", "c", "", "path to config file (optional)")
	checkCmd.Flags().Int("concurrency", 0, "max concurrent probes (overrides config)")
	checkCmd.Flags().String("base-url", "", "documentation root to probe (overrides config)")
	checkCmd.Flags().Duration("timeout", 0, "per-probe timeout (overrides config)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	cfg, err := loadCheckConfig(cmd)
	if err != nil {
		return err
	}

	items, skipped, err := input.ParseFile(args[0], logger)
	if err != nil {
		return err
	}
	logger.Info("input parsed",
		"items", len(items),
		"skipped", skipped,
	)

	prober := probe.NewProber(cfg.BaseURL, cfg.Timeout.Duration())
	defer prober.Close()

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}

	collector := batch.NewCollector()
	runner, err := batch.NewRunner(prober.Check, collector, cfg.MaxConcurrency, limiter, logger)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// set up context with signal handling - cancel on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// live progress: one log line per completed probe
	progress := collector.Subscribe()
	var progressWG sync.WaitGroup
	progressWG.Add(1)
	go func() {
		defer progressWG.Done()
		done := 0
		for r := range progress {
			done++
			logger.Info("probed",
				"lang", r.Item.ID,
				"status", r.Classification.String(),
				"code", r.StatusCode,
				"latency", r.Latency.Round(time.Millisecond).String(),
				"done", done,
				"total", len(items),
			)
		}
	}()

	summary, runErr := runner.Run(ctx, items)

	collector.Unsubscribe(progress)
	progressWG.Wait()

	if err := report.AppendLines(cfg.SupportedFile, collector.Supported()); err != nil {
		return err
	}
	if err := report.AppendLines(cfg.UnsupportedFile, collector.Unsupported()); err != nil {
		return err
	}

	fmt.Printf("Checked %d languages (%d malformed lines skipped)\n", summary.Total, skipped)
	fmt.Printf("  Supported:   %d -> %s\n", summary.Supported, cfg.SupportedFile)
	fmt.Printf("  Unsupported: %d -> %s\n", summary.Unsupported, cfg.UnsupportedFile)

	if runErr != nil {
		return fmt.Errorf("batch interrupted: %w", runErr)
	}
	return nil
}

// loadCheckConfig resolves the effective config: file if given, defaults
// otherwise, then flag overrides on top.
func loadCheckConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()

	if configFile, _ := cmd.Flags().GetString("config"); configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("concurrency") {
		cfg.MaxConcurrency, _ = cmd.Flags().GetInt("concurrency")
	}
	if cmd.Flags().Changed("base-url") {
		cfg.BaseURL, _ = cmd.Flags().GetString("base-url")
	}
	if cmd.Flags().Changed("timeout") {
		d, _ := cmd.Flags().GetDuration("timeout")
		cfg.Timeout = config.Duration(d)
	}

	// flag overrides get the same checks as file values
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
