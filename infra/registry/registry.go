// Package registry is the durable process-wide record of which batches
// have been consumed, backed by pebble. It also carries the trade-event
// outbox drained by the broadcaster, so a batch's event survives a crash
// between processing and publishing.
package registry

import (
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"
)

type Registry struct {
	db *pebble.DB
}

func Open(dir string) (*Registry, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("registry: open %s: %w", dir, err)
	}
	return &Registry{db: db}, nil
}

func (r *Registry) Close() error {
	return r.db.Close()
}

// -------------------- Processed batches --------------------

// MarkProcessed records a batch as consumed, keyed by its name, with the
// content fingerprint of its report artifact. Must only be called after
// the artifact write succeeded.
func (r *Registry) MarkProcessed(batch, checksum string) error {
	rec := BatchRecord{ProcessedAt: time.Now().UnixNano(), Checksum: checksum}
	return r.db.Set(batchKey(batch), encodeBatchRecord(rec), pebble.Sync)
}

func (r *Registry) IsProcessed(batch string) (bool, error) {
	_, closer, err := r.db.Get(batchKey(batch))
	if errors.Is(err, pebble.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	closer.Close()
	return true, nil
}

// ProcessedChecksum returns the recorded fingerprint for a batch, with
// ok=false if the batch was never processed.
func (r *Registry) ProcessedChecksum(batch string) (string, bool, error) {
	val, closer, err := r.db.Get(batchKey(batch))
	if errors.Is(err, pebble.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	defer closer.Close()
	rec, err := decodeBatchRecord(val)
	if err != nil {
		return "", false, err
	}
	return rec.Checksum, true, nil
}

// ScanProcessed iterates all processed-batch records in key order.
func (r *Registry) ScanProcessed(fn func(batch string, rec BatchRecord) error) error {
	iter, err := r.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(batchPrefix),
		UpperBound: prefixEnd(batchPrefix),
	})
	if err != nil {
		return err
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		rec, err := decodeBatchRecord(iter.Value())
		if err != nil {
			return err
		}
		name := string(iter.Key()[len(batchPrefix):])
		if err := fn(name, rec); err != nil {
			return err
		}
	}
	return iter.Error()
}

// -------------------- Trade-event outbox --------------------

// EnqueueEvent stores a NEW outbox record for the broadcaster.
func (r *Registry) EnqueueEvent(seq uint64, payload []byte) error {
	rec := EventRecord{State: StateNew, Payload: payload}
	return r.db.Set(outboxKey(seq), encodeEventRecord(rec), pebble.Sync)
}

// ScanPending iterates outbox records not yet acknowledged, in sequence
// order.
func (r *Registry) ScanPending(fn func(seq uint64, rec EventRecord) error) error {
	iter, err := r.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(outboxPrefix),
		UpperBound: prefixEnd(outboxPrefix),
	})
	if err != nil {
		return err
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		rec, err := decodeEventRecord(iter.Value())
		if err != nil {
			return err
		}
		if rec.State == StateAcked {
			continue
		}
		seq, err := parseOutboxKey(iter.Key())
		if err != nil {
			return err
		}
		if err := fn(seq, rec); err != nil {
			return err
		}
	}
	return iter.Error()
}

// MarkEventSent transitions an outbox record to SENT and bumps its retry
// counter.
func (r *Registry) MarkEventSent(seq uint64) error {
	return r.updateEvent(seq, StateSent)
}

// MarkEventAcked transitions an outbox record to ACKED.
func (r *Registry) MarkEventAcked(seq uint64) error {
	return r.updateEvent(seq, StateAcked)
}

// DeleteEvent removes an outbox record (cleanup of acked events).
func (r *Registry) DeleteEvent(seq uint64) error {
	return r.db.Delete(outboxKey(seq), pebble.Sync)
}

func (r *Registry) updateEvent(seq uint64, state EventState) error {
	key := outboxKey(seq)
	val, closer, err := r.db.Get(key)
	if err != nil {
		return fmt.Errorf("registry: load outbox %d: %w", seq, err)
	}
	rec, err := decodeEventRecord(val)
	closer.Close()
	if err != nil {
		return err
	}
	rec.State = state
	rec.LastAttempt = time.Now().UnixNano()
	if state == StateSent {
		rec.Retries++
	}
	return r.db.Set(key, encodeEventRecord(rec), pebble.Sync)
}
