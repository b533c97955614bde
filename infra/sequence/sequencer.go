package sequence

import "sync/atomic"

// Sequencer hands out strictly monotonic sequence numbers. They key the
// journal frames and the outbox records, so they must keep growing
// across process restarts; seed New with a value past everything
// already issued (e.g. the current unix nano time).
type Sequencer struct {
	next atomic.Uint64
}

func New(start uint64) *Sequencer {
	s := &Sequencer{}
	s.next.Store(start)
	return s
}

// Next returns the next sequence number.
func (s *Sequencer) Next() uint64 {
	return s.next.Add(1)
}

// Current returns the last issued sequence number.
func (s *Sequencer) Current() uint64 {
	return s.next.Load()
}
