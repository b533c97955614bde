// Package journal is an append-only, CRC-framed audit log of executed
// trades, segmented by size. It is independent of the per-batch report
// artifacts: artifacts can be regenerated, the journal is the durable
// record of what actually traded.
package journal

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

type Config struct {
	Dir         string
	SegmentSize int64
}

const defaultSegmentSize = 2 * 1024 * 1024

type Journal struct {
	dir      string
	segSize  int64
	current  *segment
	segIndex int
}

// Open creates or resumes the journal in cfg.Dir, appending to the
// highest existing segment.
func Open(cfg Config) (*Journal, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("journal: create dir: %w", err)
	}
	if cfg.SegmentSize <= 0 {
		cfg.SegmentSize = defaultSegmentSize
	}

	index, err := latestSegmentIndex(cfg.Dir)
	if err != nil {
		return nil, err
	}
	seg, err := openSegment(cfg.Dir, index)
	if err != nil {
		return nil, err
	}
	return &Journal{
		dir:      cfg.Dir,
		segSize:  cfg.SegmentSize,
		current:  seg,
		segIndex: index,
	}, nil
}

// Append writes one frame:
//
//	[seq:8][time:8][len:4][payload][crc:4]
//
// and rotates the segment once it exceeds the configured size.
func (j *Journal) Append(f Frame) error {
	payloadLen := uint32(len(f.Payload))
	buf := make([]byte, 8+8+4+payloadLen+4)

	binary.BigEndian.PutUint64(buf[0:8], f.Seq)
	binary.BigEndian.PutUint64(buf[8:16], uint64(f.Time))
	binary.BigEndian.PutUint32(buf[16:20], payloadLen)
	copy(buf[20:], f.Payload)

	crc := crc32Sum(buf[:20+payloadLen])
	binary.BigEndian.PutUint32(buf[20+payloadLen:], crc)

	if err := j.current.append(buf); err != nil {
		return fmt.Errorf("journal: append: %w", err)
	}
	if j.current.offset >= j.segSize {
		return j.rotate()
	}
	return nil
}

func (j *Journal) rotate() error {
	_ = j.current.close()
	j.segIndex++

	seg, err := openSegment(j.dir, j.segIndex)
	if err != nil {
		return fmt.Errorf("journal: rotate: %w", err)
	}
	j.current = seg
	return nil
}

func (j *Journal) Close() error {
	return j.current.close()
}

// Segments lists the journal's segment paths in index order.
func (j *Journal) Segments() ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(j.dir, "segment-*.journal"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}
