package broadcaster

import (
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mercury/infra/registry"
)

func newTestBroadcaster(t *testing.T, producer *mocks.SyncProducer) (*Broadcaster, *registry.Registry) {
	t.Helper()
	reg, err := registry.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { reg.Close() })

	return &Broadcaster{
		registry: reg,
		producer: producer,
		topic:    "trades",
		interval: time.Millisecond,
		log:      logrus.WithField("component", "broadcaster"),
	}, reg
}

func TestDrainAcksPublishedEvents(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndSucceed()
	producer.ExpectSendMessageAndSucceed()

	b, reg := newTestBroadcaster(t, producer)
	require.NoError(t, reg.EnqueueEvent(1, []byte("one")))
	require.NoError(t, reg.EnqueueEvent(2, []byte("two")))

	b.drainOnce()

	pending := 0
	require.NoError(t, reg.ScanPending(func(uint64, registry.EventRecord) error {
		pending++
		return nil
	}))
	assert.Zero(t, pending)
}

func TestDrainKeepsFailedEventPending(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(errors.New("broker down"))

	b, reg := newTestBroadcaster(t, producer)
	require.NoError(t, reg.EnqueueEvent(1, []byte("one")))

	b.drainOnce()

	var states []registry.EventState
	require.NoError(t, reg.ScanPending(func(_ uint64, rec registry.EventRecord) error {
		states = append(states, rec.State)
		return nil
	}))
	require.Len(t, states, 1)
	assert.Equal(t, registry.StateSent, states[0])

	// Next drain retries the same event.
	producer.ExpectSendMessageAndSucceed()
	b.drainOnce()

	pending := 0
	require.NoError(t, reg.ScanPending(func(uint64, registry.EventRecord) error {
		pending++
		return nil
	}))
	assert.Zero(t, pending)
}
