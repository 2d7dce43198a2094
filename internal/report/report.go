// Package report writes the finished partitions to their output files.
//
// Partition files are append targets: re-running a batch appends new lines
// rather than deduplicating against previous runs. Truncate the files
// first if a fresh snapshot is wanted.
package report

import (
	"fmt"
	"os"
	"strings"
)

// AppendLines appends the given lines to the file at path, creating it if
// it does not exist.
//
// Each line is written with a trailing newline. A nil or empty slice still
// creates the file, so both partitions exist after every run even when one
// is empty.
func AppendLines(path string, lines []string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}

	if len(lines) > 0 {
		if _, err := f.WriteString(strings.Join(lines, "\n") + "\n"); err != nil {
			_ = f.Close()
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
