package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

type segment struct {
	file   *os.File
	offset int64
}

func segmentPath(dir string, index int) string {
	return filepath.Join(dir, fmt.Sprintf("segment-%06d.journal", index))
}

func openSegment(dir string, index int) (*segment, error) {
	f, err := os.OpenFile(segmentPath(dir, index), os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &segment{file: f, offset: info.Size()}, nil
}

func (s *segment) append(b []byte) error {
	n, err := s.file.Write(b)
	if err != nil {
		return err
	}
	s.offset += int64(n)
	return nil
}

func (s *segment) close() error {
	return s.file.Close()
}

// latestSegmentIndex finds the highest existing segment index, or 0 for
// a fresh directory.
func latestSegmentIndex(dir string) (int, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "segment-*.journal"))
	if err != nil {
		return 0, err
	}
	if len(paths) == 0 {
		return 0, nil
	}
	sort.Strings(paths)
	var index int
	name := filepath.Base(paths[len(paths)-1])
	if _, err := fmt.Sscanf(name, "segment-%06d.journal", &index); err != nil {
		return 0, fmt.Errorf("journal: unexpected segment name %s: %w", name, err)
	}
	return index, nil
}
