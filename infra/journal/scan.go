package journal

import (
	"encoding/binary"
	"errors"
	"io"
	"os"
	"time"
)

// Frame is one journal entry. Payload is an opaque line; the runner
// writes the report trade lines.
type Frame struct {
	Seq     uint64
	Time    int64
	Payload []byte
}

// NewFrame stamps a frame with the current time.
func NewFrame(seq uint64, payload []byte) Frame {
	return Frame{Seq: seq, Time: time.Now().UnixNano(), Payload: payload}
}

// ErrCorruptFrame reports a CRC mismatch during a scan.
var ErrCorruptFrame = errors.New("journal: corrupt frame")

// Scan replays all frames of one segment in append order, verifying
// each CRC. A clean EOF ends the scan; a torn trailing frame is treated
// as corruption.
func Scan(path string, fn func(f Frame) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	for {
		header := make([]byte, 20)
		if _, err := io.ReadFull(f, header); err != nil {
			if err == io.EOF {
				return nil
			}
			return ErrCorruptFrame
		}

		payloadLen := binary.BigEndian.Uint32(header[16:20])
		rest := make([]byte, payloadLen+4)
		if _, err := io.ReadFull(f, rest); err != nil {
			return ErrCorruptFrame
		}

		sum := binary.BigEndian.Uint32(rest[payloadLen:])
		full := append(header, rest[:payloadLen]...)
		if !crc32Valid(full, sum) {
			return ErrCorruptFrame
		}

		frame := Frame{
			Seq:     binary.BigEndian.Uint64(header[0:8]),
			Time:    int64(binary.BigEndian.Uint64(header[8:16])),
			Payload: rest[:payloadLen:payloadLen],
		}
		if err := fn(frame); err != nil {
			return err
		}
	}
}
