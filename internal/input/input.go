// Package input parses the language list consumed by langprobe.
//
// The expected format is one language per line: the code, whitespace, then
// the display name (which may itself contain spaces). Blank lines and lines
// starting with '#' are ignored. A line with a code but no display name is
// malformed; malformed lines are skipped with a warning and counted, never
// aborting the batch.
package input

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jpalmerr/langprobe/internal/probe"
)

// ParseFile reads and parses a language list file.
//
// Returns the well-formed items in input order, the number of malformed
// lines that were skipped, and an error only when the file itself cannot
// be read. Duplicate codes are kept; they are probed independently.
func ParseFile(path string, logger *slog.Logger) ([]probe.Item, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read input file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Parse(f, logger)
}

// Parse parses a language list from a reader.
//
// Each malformed line is logged at Warn level with its line number.
func Parse(r io.Reader, logger *slog.Logger) ([]probe.Item, int, error) {
	var items []probe.Item
	skipped := 0

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			skipped++
			logger.Warn("skipping malformed line",
				"line", lineNo,
				"content", line,
			)
			continue
		}

		items = append(items, probe.Item{
			ID:          fields[0],
			DisplayName: strings.Join(fields[1:], " "),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, skipped, fmt.Errorf("failed to read input: %w", err)
	}

	return items, skipped, nil
}
