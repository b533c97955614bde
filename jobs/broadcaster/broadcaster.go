// Package broadcaster drains the registry's trade-event outbox into
// Kafka. Events move NEW -> SENT -> ACKED; a failed send stays pending
// and is retried on the next tick, so delivery is at-least-once.
package broadcaster

import (
	"context"
	"time"

	"github.com/IBM/sarama"
	"github.com/sirupsen/logrus"

	"mercury/infra/registry"
)

type Broadcaster struct {
	registry *registry.Registry
	producer sarama.SyncProducer
	topic    string
	interval time.Duration
	log      *logrus.Entry
}

func New(
	reg *registry.Registry,
	brokers []string,
	topic string,
	interval time.Duration,
) (*Broadcaster, error) {

	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}

	return &Broadcaster{
		registry: reg,
		producer: producer,
		topic:    topic,
		interval: interval,
		log:      logrus.WithField("component", "broadcaster"),
	}, nil
}

// Start launches the drain loop; it stops when ctx is cancelled.
func (b *Broadcaster) Start(ctx context.Context) {
	b.log.Info("started")

	go func() {
		ticker := time.NewTicker(b.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				b.drainOnce()
			}
		}
	}()
}

func (b *Broadcaster) drainOnce() {
	err := b.registry.ScanPending(func(seq uint64, rec registry.EventRecord) error {
		// SENT before publish: a crash after publish but before the ack
		// marker means a duplicate on replay, never a loss.
		if err := b.registry.MarkEventSent(seq); err != nil {
			return err
		}

		msg := &sarama.ProducerMessage{
			Topic: b.topic,
			Value: sarama.ByteEncoder(rec.Payload),
		}
		if _, _, err := b.producer.SendMessage(msg); err != nil {
			b.log.WithField("seq", seq).WithError(err).Warn("publish failed, will retry")
			return nil
		}

		return b.registry.MarkEventAcked(seq)
	})
	if err != nil {
		b.log.WithError(err).Error("outbox scan failed")
	}
}

func (b *Broadcaster) Close() error {
	return b.producer.Close()
}
