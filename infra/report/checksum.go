package report

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
)

// Checksum returns the MD5 hex digest of the artifact's bytes. The
// digest is the durable processed-marker for the batch, so it must be
// computed from the written file, not the in-memory lines.
func Checksum(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("report: read artifact for checksum: %w", err)
	}
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:]), nil
}
