package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"mercury/infra/feed"
	"mercury/infra/journal"
	"mercury/infra/registry"
	"mercury/infra/report"
	"mercury/infra/sequence"
)

// SummaryPublisher receives best-effort top-of-book summaries.
type SummaryPublisher interface {
	Send(ctx context.Context, key, value []byte) error
}

// BatchEvent is the outbox payload published per processed batch.
type BatchEvent struct {
	Batch    string   `json:"batch"`
	Checksum string   `json:"checksum"`
	Trades   []string `json:"trades"`
}

// BookSummary is the fire-and-forget top-of-book message.
type BookSummary struct {
	Batch       string `json:"batch"`
	BestBid     int64  `json:"best_bid,omitempty"`
	BestBidQty  int64  `json:"best_bid_qty,omitempty"`
	BestAsk     int64  `json:"best_ask,omitempty"`
	BestAskQty  int64  `json:"best_ask_qty,omitempty"`
	TradeCount  int    `json:"trade_count"`
	ProcessedAt int64  `json:"processed_at"`
}

type RunnerConfig struct {
	Feed          *feed.Reader
	Reports       *report.Writer
	Registry      *registry.Registry
	Journal       *journal.Journal
	Seq           *sequence.Sequencer
	Summary       SummaryPublisher // nil disables summaries
	PublishEvents bool             // enqueue outbox events for the broadcaster
	Interval      time.Duration
}

// Runner is the long-lived poll loop: detect unprocessed batches, run
// each through a fresh ExchangeService, persist and fingerprint the
// report, then mark the batch consumed. Batches are independent; one
// batch's failure never aborts the loop.
type Runner struct {
	cfg RunnerConfig
	log *logrus.Entry
}

func NewRunner(cfg RunnerConfig) *Runner {
	return &Runner{
		cfg: cfg,
		log: logrus.WithField("component", "runner"),
	}
}

// Run polls until ctx is cancelled. Cancellation lands between batches,
// which is safe: no partial batch state is persisted mid-match.
func (r *Runner) Run(ctx context.Context) {
	r.log.WithField("interval", r.cfg.Interval).Info("poll loop started")

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		r.pollOnce(ctx)
		select {
		case <-ctx.Done():
			r.log.Info("poll loop stopped")
			return
		case <-ticker.C:
		}
	}
}

func (r *Runner) pollOnce(ctx context.Context) {
	names, err := r.cfg.Feed.Pending(r.isProcessed)
	if err != nil {
		r.log.WithError(err).Error("listing pending batches failed")
		return
	}
	if len(names) == 0 {
		return
	}
	r.log.WithField("batches", names).Info("detected new batches")

	for _, name := range names {
		if ctx.Err() != nil {
			return
		}
		if err := r.processBatch(ctx, name); err != nil {
			// Not marked processed: the batch is retried on a later
			// poll once the cause clears.
			r.log.WithField("batch", name).WithError(err).Error("batch failed")
		}
	}
}

func (r *Runner) isProcessed(name string) bool {
	done, err := r.cfg.Registry.IsProcessed(name)
	if err != nil {
		r.log.WithField("batch", name).WithError(err).Error("registry lookup failed")
		return true // skip rather than risk a double publish
	}
	return done
}

func (r *Runner) processBatch(ctx context.Context, name string) error {
	log := r.log.WithField("batch", name)
	log.Info("processing batch")

	batch, err := r.cfg.Feed.ReadBatch(name)
	if err != nil {
		return err
	}

	svc := NewExchangeService()
	for _, o := range batch.Orders {
		svc.Match(o)
	}

	tradeLines := svc.Book().RenderTrades()
	path, err := r.cfg.Reports.Write(name, svc.Report())
	if err != nil {
		return err
	}
	checksum, err := report.Checksum(path)
	if err != nil {
		return err
	}

	if r.cfg.Journal != nil {
		for _, line := range tradeLines {
			if err := r.cfg.Journal.Append(journal.NewFrame(r.cfg.Seq.Next(), []byte(line))); err != nil {
				return err
			}
		}
	}

	if r.cfg.PublishEvents {
		payload, err := json.Marshal(BatchEvent{Batch: name, Checksum: checksum, Trades: tradeLines})
		if err != nil {
			return err
		}
		if err := r.cfg.Registry.EnqueueEvent(r.cfg.Seq.Next(), payload); err != nil {
			return err
		}
	}

	if err := r.cfg.Registry.MarkProcessed(name, checksum); err != nil {
		return err
	}

	r.publishSummary(ctx, name, svc)

	log.WithFields(logrus.Fields{
		"orders":   len(batch.Orders),
		"trades":   len(tradeLines),
		"checksum": checksum,
	}).Info("batch processed")
	return nil
}

func (r *Runner) publishSummary(ctx context.Context, name string, svc *ExchangeService) {
	if r.cfg.Summary == nil {
		return
	}
	summary := BookSummary{
		Batch:       name,
		TradeCount:  len(svc.Book().Trades()),
		ProcessedAt: time.Now().UnixNano(),
	}
	if bid, ok := svc.Book().BestBid(); ok {
		summary.BestBid = bid.Price
		summary.BestBidQty = bid.Qty
	}
	if ask, ok := svc.Book().BestAsk(); ok {
		summary.BestAsk = ask.Price
		summary.BestAskQty = ask.Qty
	}
	payload, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := r.cfg.Summary.Send(ctx, []byte(name), payload); err != nil {
		r.log.WithField("batch", name).WithError(err).Warn("summary publish failed")
	}
}
