package registry

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	batchPrefix  = "batch/"
	outboxPrefix = "outbox/"
)

// BatchRecord marks one consumed batch.
type BatchRecord struct {
	ProcessedAt int64
	Checksum    string
}

// binary encoding: [processedAt:8][checksum...]
func encodeBatchRecord(r BatchRecord) []byte {
	buf := make([]byte, 8+len(r.Checksum))
	binary.BigEndian.PutUint64(buf[:8], uint64(r.ProcessedAt))
	copy(buf[8:], r.Checksum)
	return buf
}

func decodeBatchRecord(b []byte) (BatchRecord, error) {
	if len(b) < 8 {
		return BatchRecord{}, errors.New("registry: invalid batch record length")
	}
	return BatchRecord{
		ProcessedAt: int64(binary.BigEndian.Uint64(b[:8])),
		Checksum:    string(b[8:]),
	}, nil
}

type EventState uint8

const (
	StateNew EventState = iota
	StateSent
	StateAcked
)

func (s EventState) String() string {
	switch s {
	case StateNew:
		return "NEW"
	case StateSent:
		return "SENT"
	case StateAcked:
		return "ACKED"
	default:
		return "UNKNOWN"
	}
}

// EventRecord is one outbox entry awaiting publication.
type EventRecord struct {
	State       EventState
	Retries     uint32
	LastAttempt int64
	Payload     []byte
}

// binary encoding: [state:1][retries:4][lastAttempt:8][payload...]
func encodeEventRecord(r EventRecord) []byte {
	buf := make([]byte, 1+4+8+len(r.Payload))
	buf[0] = byte(r.State)
	binary.BigEndian.PutUint32(buf[1:5], r.Retries)
	binary.BigEndian.PutUint64(buf[5:13], uint64(r.LastAttempt))
	copy(buf[13:], r.Payload)
	return buf
}

func decodeEventRecord(b []byte) (EventRecord, error) {
	if len(b) < 13 {
		return EventRecord{}, errors.New("registry: invalid event record length")
	}
	rec := EventRecord{
		State:       EventState(b[0]),
		Retries:     binary.BigEndian.Uint32(b[1:5]),
		LastAttempt: int64(binary.BigEndian.Uint64(b[5:13])),
	}
	rec.Payload = append(rec.Payload, b[13:]...)
	return rec, nil
}

func batchKey(name string) []byte {
	return []byte(batchPrefix + name)
}

func outboxKey(seq uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", outboxPrefix, seq))
}

func parseOutboxKey(key []byte) (uint64, error) {
	var seq uint64
	_, err := fmt.Sscanf(string(bytes.TrimPrefix(key, []byte(outboxPrefix))), "%d", &seq)
	return seq, err
}

// prefixEnd returns the smallest key greater than every key with the
// given prefix.
func prefixEnd(prefix string) []byte {
	end := []byte(prefix)
	end[len(end)-1]++
	return end
}
