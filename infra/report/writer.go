// Package report persists per-batch report artifacts (trade lines
// followed by the resting-book rendering) and fingerprints them.
package report

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
)

type Writer struct {
	dir string
}

func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("report: create output dir: %w", err)
	}
	return &Writer{dir: dir}, nil
}

// Write persists lines, one per line, to an artifact keyed by the batch
// name and returns the artifact path. An existing artifact for the same
// batch is truncated.
func (w *Writer) Write(batch string, lines []string) (string, error) {
	path := filepath.Join(w.dir, batch)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("report: create artifact %s: %w", batch, err)
	}
	bw := bufio.NewWriter(f)
	for _, line := range lines {
		if _, err := bw.WriteString(line + "\n"); err != nil {
			f.Close()
			return "", fmt.Errorf("report: write artifact %s: %w", batch, err)
		}
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return "", fmt.Errorf("report: flush artifact %s: %w", batch, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("report: close artifact %s: %w", batch, err)
	}
	return path, nil
}
